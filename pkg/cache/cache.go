// Package cache provides a namespaced, TTL- and validator-aware cache layered on a
// synchronous key-value store. It memoizes generated study plans, notes and quizzes,
// keeps persisted hit/miss statistics, and exposes typed facades per content kind.
// The cache is a best-effort accelerator: store and serialization failures are
// logged and turned into misses, never returned to the caller.
//
// Package cache 提供基于同步键值存储的命名空间缓存，支持TTL和验证器。
// 它缓存生成的学习计划、笔记和测验，维护持久化的命中/未命中统计，并为每种内容提供类型化门面。
// 缓存只是尽力而为的加速器：存储和序列化失败会被记录并转换为未命中，不会返回给调用方。
package cache

import (
	"time"
)

// DefaultPrefix is the key prefix every cache entry is stored under.
//
// DefaultPrefix 是所有缓存条目存储时使用的键前缀。
const DefaultPrefix = "cache."

// statsName is the reserved key suffix holding persisted Stats.
const statsName = "stats"

// Stats represents persisted cache statistics.
// HitRate and MissRate are monotonically increasing counters, not ratios;
// the JSON names are kept for compatibility with stores written by the mobile app.
// TotalSize is cumulative bytes written and is only reset by ClearAll.
//
// Stats 表示持久化的缓存统计信息。
// HitRate和MissRate是单调递增的计数器，而不是比率；保留JSON名称以兼容移动应用写入的存储。
// TotalSize是累计写入的字节数，仅由ClearAll重置。
type Stats struct {
	// TotalEntries is the number of entries written minus entries removed
	// TotalEntries 是写入的条目数减去删除的条目数
	TotalEntries int64 `json:"totalEntries"`

	// TotalSize is the cumulative serialized size of written data in bytes
	// TotalSize 是写入数据的累计序列化大小（字节）
	TotalSize int64 `json:"totalSize"`

	// HitRate counts successful reads
	// HitRate 统计成功的读取次数
	HitRate int64 `json:"hitRate"`

	// MissRate counts reads that found no valid entry
	// MissRate 统计未找到有效条目的读取次数
	MissRate int64 `json:"missRate"`

	// LastCleanup is the epoch-ms time of the last cleanup pass
	// LastCleanup 是最后一次清理的时间（毫秒时间戳）
	LastCleanup int64 `json:"lastCleanup"`
}

// HitRatio returns hits divided by total reads, or 0 when nothing was read.
//
// HitRatio 返回命中次数除以总读取次数，未读取时返回0。
func (s Stats) HitRatio() float64 {
	total := s.HitRate + s.MissRate
	if total == 0 {
		return 0
	}
	return float64(s.HitRate) / float64(total)
}

// LastCleanupTime returns LastCleanup as a time.Time.
//
// LastCleanupTime 以time.Time形式返回LastCleanup。
func (s Stats) LastCleanupTime() time.Time {
	return time.UnixMilli(s.LastCleanup)
}

// NamespaceInfo describes the entries currently stored under one namespace.
//
// NamespaceInfo 描述某个命名空间下当前存储的条目。
type NamespaceInfo struct {
	// Entries is the number of stored entries
	// Entries 是存储的条目数
	Entries int `json:"entries"`

	// TotalSize is the summed length of the stored strings in bytes
	// TotalSize 是存储字符串的长度之和（字节）
	TotalSize int64 `json:"totalSize"`

	// Keys are the entry keys with the cache and namespace prefix stripped
	// Keys 是去掉缓存和命名空间前缀后的条目键
	Keys []string `json:"keys"`
}

// Miss reasons reported to a Recorder.
//
// 报告给Recorder的未命中原因。
const (
	MissAbsent  = "absent"
	MissExpired = "expired"
	MissInvalid = "invalid"
	MissCorrupt = "corrupt"
)

// Recorder receives cache events, typically to export them as metrics.
// Implementations must be safe for concurrent use.
//
// Recorder 接收缓存事件，通常用于将其导出为指标。
// 实现必须可以安全地并发使用。
type Recorder interface {
	Hit(namespace string)
	Miss(namespace, reason string)
	Stored(namespace string, size int64)
	SetFailed(namespace string)
	Deleted(namespace string, n int)
	Evicted(namespace string, n int)
	Cleaned(n int)
	Fetched(namespace string, elapsed time.Duration, err error)
	StoreSize(bytes int64)
}

// ErrorHook is called with every error the manager absorbs.
// Tags carry the operation, namespace and key.
//
// ErrorHook 在管理器吸收每个错误时被调用。
// Tags 包含操作、命名空间和键。
type ErrorHook func(err error, tags map[string]string)

type noopRecorder struct{}

func (noopRecorder) Hit(string)                           {}
func (noopRecorder) Miss(string, string)                  {}
func (noopRecorder) Stored(string, int64)                 {}
func (noopRecorder) SetFailed(string)                     {}
func (noopRecorder) Deleted(string, int)                  {}
func (noopRecorder) Evicted(string, int)                  {}
func (noopRecorder) Cleaned(int)                          {}
func (noopRecorder) Fetched(string, time.Duration, error) {}
func (noopRecorder) StoreSize(int64)                      {}
