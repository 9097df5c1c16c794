package cache

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/AjayAntoIsDev/PrepMate/internal/eviction"
	"github.com/AjayAntoIsDev/PrepMate/internal/utils"
	"github.com/AjayAntoIsDev/PrepMate/pkg/codec"
	"github.com/AjayAntoIsDev/PrepMate/pkg/errors"
	"github.com/AjayAntoIsDev/PrepMate/pkg/kvstore"
)

const tracerName = "github.com/AjayAntoIsDev/PrepMate/pkg/cache"

// Manager is a namespaced cache over a kvstore.Store.
// It exclusively owns every key under its prefix and never touches other keys.
// One Manager should be constructed at startup and shared by every facade.
// All methods are safe for concurrent use. The store and stats are guarded by
// a mutex that is never held while a fetcher or validator runs.
//
// Manager 是基于kvstore.Store的命名空间缓存。
// 它独占其前缀下的所有键，从不触碰其他键。
// 应在启动时构造一个Manager并由所有门面共享。
// 所有方法都可以安全地并发调用。存储和统计由互斥锁保护，该锁在获取函数或验证器运行时从不持有。
type Manager struct {
	store  kvstore.Store
	prefix string

	mu    sync.Mutex
	stats Stats

	now           func() time.Time
	logger        *slog.Logger
	onError       ErrorHook
	recorder      Recorder
	tracer        trace.Tracer
	recency       *eviction.Recency
	enforceLimits bool

	json codec.Codec
	zstd *codec.ZstdCodec
}

// New creates a Manager over store.
// It loads persisted stats (zeros when absent or unreadable) and immediately
// runs Cleanup so that entries expired in a previous session are purged.
//
// New 基于store创建一个Manager。
// 它加载持久化的统计信息（不存在或不可读时为零），并立即运行Cleanup以清除上一个会话中过期的条目。
//
// Parameters:
//   - store: The backing key-value store
//   - opts: Optional configuration
//
// Returns:
//   - *Manager: A ready-to-use manager
func New(store kvstore.Store, opts ...Option) *Manager {
	m := &Manager{
		store:         store,
		prefix:        DefaultPrefix,
		now:           time.Now,
		logger:        slog.Default().With("component", "cache"),
		recorder:      noopRecorder{},
		tracer:        otel.Tracer(tracerName),
		recency:       eviction.NewRecency(),
		enforceLimits: true,
		json:          codec.NewJSONCodec(),
	}
	for _, opt := range opts {
		opt(m)
	}

	z, err := codec.NewZstdCodec(m.json)
	if err != nil {
		m.logger.Error("zstd unavailable, entries will be stored uncompressed", "error", err)
	} else {
		m.zstd = z
	}

	m.loadStats()
	m.Cleanup()
	return m
}

// Close releases compression resources. The store is not closed.
//
// Close 释放压缩资源。存储不会被关闭。
func (m *Manager) Close() {
	if m.zstd != nil {
		m.zstd.Close()
	}
}

// Set writes data under namespace/key with the given policy.
// It returns false when the policy is unsupported, the data cannot be
// serialized, the value exceeds cfg.MaxSize, or the store write fails.
// Failures are logged and reported to the error hook, never returned.
// When limits are enforced, least-recently-used entries of the namespace
// are evicted after a successful write until MaxEntries and MaxSize hold.
//
// Set 使用给定策略在namespace/key下写入数据。
// 当策略不受支持、数据无法序列化、值超过cfg.MaxSize或存储写入失败时返回false。
// 失败会被记录并报告给错误钩子，从不返回。
// 启用上限时，写入成功后会淘汰命名空间中最近最少使用的条目，直到满足MaxEntries和MaxSize。
//
// Parameters:
//   - namespace: The namespace grouping the entry
//   - key: The caller-constructed key within the namespace
//   - data: Any JSON-serializable value
//   - cfg: The cache policy
//   - meta: Free-form metadata stored alongside the size
//
// Returns:
//   - bool: True if the entry was written
func (m *Manager) Set(namespace, key string, data any, cfg Config, meta Metadata) bool {
	if err := checkKey(namespace, key); err != nil {
		return m.setFailed(namespace, key, err)
	}
	if err := cfg.Validate(); err != nil {
		return m.setFailed(namespace, key, err)
	}

	raw, err := m.json.Marshal(data)
	if err != nil {
		return m.setFailed(namespace, key, fmt.Errorf("%w: %v", errors.ErrSerializationFailed, err))
	}
	size := int64(len(raw))
	if cfg.MaxSize > 0 && size > cfg.MaxSize {
		return m.setFailed(namespace, key, fmt.Errorf("%w: %d bytes exceeds %d", errors.ErrValueTooLarge, size, cfg.MaxSize))
	}

	now := m.now().UnixMilli()
	entry := &Entry{Data: raw, Timestamp: now, Metadata: meta.clone()}
	entry.Metadata["size"] = size
	if cfg.TTL > 0 {
		expiresAt := now + cfg.TTL.Milliseconds()
		entry.ExpiresAt = &expiresAt
	}

	encoded, err := m.encodeEntry(entry, cfg.Compress)
	if err != nil {
		return m.setFailed(namespace, key, fmt.Errorf("%w: %v", errors.ErrSerializationFailed, err))
	}

	full := m.cacheKey(namespace, key)
	limits := eviction.Limits{MaxEntries: cfg.MaxEntries, MaxBytes: cfg.MaxSize}

	m.mu.Lock()
	defer m.mu.Unlock()

	var victims []string
	if m.enforceLimits && limits.Enabled() {
		incoming := eviction.Candidate{Key: full, Size: size, Timestamp: now}
		victims = m.recency.Victims(m.candidatesLocked(namespace, full), incoming, limits)
	}

	if err := m.store.SetString(full, encoded); err != nil {
		return m.setFailed(namespace, key, fmt.Errorf("%w: %v", errors.ErrStoreFailed, err))
	}
	m.recency.Touch(full)
	m.stats.TotalEntries++
	m.stats.TotalSize += size

	evicted := 0
	for _, victim := range victims {
		if m.deleteLocked(victim) {
			evicted++
		}
	}
	if evicted > 0 {
		m.recorder.Evicted(namespace, evicted)
		m.logger.Debug("Evicted entries", "namespace", namespace, "count", evicted)
	}

	m.saveStatsLocked()
	m.recorder.Stored(namespace, size)
	m.logger.Debug("Cached", "namespace", namespace, "key", key, "bytes", size)
	return true
}

// GetRaw returns the JSON form of a valid entry's data.
// Validity is checked in order: expiresAt, cfg.TTL, cfg.MaxAge, cfg.Validator.
// An invalid or unparseable entry is deleted and counted as a miss.
//
// GetRaw 返回有效条目数据的JSON形式。
// 有效性按以下顺序检查：expiresAt、cfg.TTL、cfg.MaxAge、cfg.Validator。
// 无效或无法解析的条目会被删除并计为未命中。
//
// Returns:
//   - json.RawMessage: The entry data
//   - bool: False on a miss
func (m *Manager) GetRaw(namespace, key string, cfg Config, vctx Context) (json.RawMessage, bool) {
	e, ok := m.lookup(namespace, key, cfg, vctx)
	if !ok {
		return nil, false
	}
	return e.Data, true
}

// GetEntry is like GetRaw but returns the whole entry, including metadata.
//
// GetEntry 类似于GetRaw，但返回包括元数据在内的整个条目。
func (m *Manager) GetEntry(namespace, key string, cfg Config, vctx Context) (*Entry, bool) {
	return m.lookup(namespace, key, cfg, vctx)
}

// Delete removes namespace/key.
//
// Delete 删除namespace/key。
//
// Returns:
//   - bool: True if an entry was removed
func (m *Manager) Delete(namespace, key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.deleteLocked(m.cacheKey(namespace, key)) {
		return false
	}
	m.saveStatsLocked()
	m.recorder.Deleted(namespace, 1)
	return true
}

// ClearNamespace deletes every entry under namespace and returns the count.
// TotalEntries is decremented; TotalSize is left as is.
//
// ClearNamespace 删除命名空间下的所有条目并返回删除数量。
// TotalEntries会递减；TotalSize保持不变。
func (m *Manager) ClearNamespace(namespace string) int {
	prefix := m.cacheKey(namespace, "")

	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for _, k := range m.store.Keys() {
		if strings.HasPrefix(k, prefix) && m.deleteLocked(k) {
			count++
		}
	}
	m.saveStatsLocked()
	m.recorder.Deleted(namespace, count)
	m.logger.Info("Cleared namespace", "namespace", namespace, "count", count)
	return count
}

// ClearAll deletes every entry under the prefix and resets stats to zero.
//
// ClearAll 删除前缀下的所有条目并将统计信息重置为零。
func (m *Manager) ClearAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, k := range m.entryKeysLocked() {
		if err := m.store.Delete(k); err != nil {
			ns, key := m.splitKey(k)
			m.report("clear_all", ns, key, fmt.Errorf("%w: %v", errors.ErrStoreFailed, err))
		}
	}
	m.stats = Stats{}
	m.recency.Reset()
	m.saveStatsLocked()
	m.logger.Info("Cleared all cache entries")
}

// Cleanup deletes entries whose expiresAt has passed and entries that fail to parse.
// It always records the cleanup time and returns the number removed.
//
// Cleanup 删除expiresAt已过的条目以及无法解析的条目。
// 它始终记录清理时间并返回删除的数量。
func (m *Manager) Cleanup() int {
	now := m.now().UnixMilli()

	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for _, k := range m.entryKeysLocked() {
		raw, ok := m.store.GetString(k)
		if ok {
			e, err := m.decodeEntry(raw)
			if err == nil && !e.expired(now) {
				continue
			}
		}
		if m.deleteLocked(k) {
			count++
		}
	}
	m.stats.LastCleanup = now
	m.saveStatsLocked()
	m.recorder.Cleaned(count)
	if count > 0 {
		m.logger.Info("Cleaned up expired entries", "count", count)
	}
	return count
}

// Has reports whether namespace/key exists in the store.
// It does not evaluate TTL or validators: an expired entry that has not
// been read yet still exists until Get, Cleanup or Delete removes it.
//
// Has 报告namespace/key是否存在于存储中。
// 它不评估TTL或验证器：尚未读取的过期条目在被Get、Cleanup或Delete删除之前仍然存在。
func (m *Manager) Has(namespace, key string) bool {
	return m.store.Contains(m.cacheKey(namespace, key))
}

// GenerateCacheKey returns a short deterministic key for v.
// Strings are hashed as-is; other values are hashed over their compact JSON.
// The hash is a 32-bit polynomial rolling hash rendered in base 36;
// unrelated inputs can collide and then share a cache slot.
//
// GenerateCacheKey 为v返回一个简短的确定性键。
// 字符串按原样哈希；其他值按其紧凑JSON哈希。
// 该哈希是以36进制呈现的32位多项式滚动哈希；不相关的输入可能冲突并共享同一缓存槽位。
func (m *Manager) GenerateCacheKey(v any) string {
	s, err := utils.CanonicalJSON(v)
	if err != nil {
		m.report("generate_key", "", "", fmt.Errorf("%w: %v", errors.ErrSerializationFailed, err))
		s = fmt.Sprint(v)
	}
	return utils.ShortKey(s)
}

// Stats returns a copy of the current statistics.
//
// Stats 返回当前统计信息的副本。
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

// Namespaces lists the namespaces that currently hold entries.
//
// Namespaces 列出当前持有条目的命名空间。
func (m *Manager) Namespaces() []string {
	m.mu.Lock()
	keys := m.entryKeysLocked()
	m.mu.Unlock()

	seen := make(map[string]struct{})
	for _, k := range keys {
		if ns, _ := m.splitKey(k); ns != "" {
			seen[ns] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for ns := range seen {
		out = append(out, ns)
	}
	sort.Strings(out)
	return out
}

// NamespaceInfo describes the entries stored under namespace.
//
// NamespaceInfo 描述命名空间下存储的条目。
func (m *Manager) NamespaceInfo(namespace string) NamespaceInfo {
	prefix := m.cacheKey(namespace, "")
	info := NamespaceInfo{Keys: []string{}}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, k := range m.store.Keys() {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		info.Entries++
		info.Keys = append(info.Keys, strings.TrimPrefix(k, prefix))
		if raw, ok := m.store.GetString(k); ok {
			info.TotalSize += int64(len(raw))
		}
	}
	return info
}

// lookup 读取并验证条目，未命中时按原因计数
func (m *Manager) lookup(namespace, key string, cfg Config, vctx Context) (*Entry, bool) {
	full := m.cacheKey(namespace, key)

	m.mu.Lock()
	raw, ok := m.store.GetString(full)
	m.mu.Unlock()
	if !ok {
		m.miss(namespace, full, "", MissAbsent)
		return nil, false
	}

	e, err := m.decodeEntry(raw)
	if err != nil {
		m.report("get", namespace, key, fmt.Errorf("%w: %v", errors.ErrDeserializationFailed, err))
		m.miss(namespace, full, raw, MissCorrupt)
		return nil, false
	}

	if valid, reason := m.isValid(e, cfg, vctx); !valid {
		m.miss(namespace, full, raw, reason)
		return nil, false
	}

	m.mu.Lock()
	m.stats.HitRate++
	// 解码期间条目可能已被并发删除
	if m.store.Contains(full) {
		m.recency.Touch(full)
	}
	m.saveStatsLocked()
	m.mu.Unlock()

	m.recorder.Hit(namespace)
	m.logger.Debug("Cache hit", "namespace", namespace, "key", key)
	return e, true
}

// miss 记录未命中；raw非空时若存储内容未变则删除该条目
func (m *Manager) miss(namespace, full, raw, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if raw != "" {
		if cur, ok := m.store.GetString(full); ok && cur == raw {
			m.deleteLocked(full)
		}
	}
	m.stats.MissRate++
	m.saveStatsLocked()
	m.recorder.Miss(namespace, reason)
}

func (m *Manager) isValid(e *Entry, cfg Config, vctx Context) (bool, string) {
	now := m.now().UnixMilli()
	age := now - e.Timestamp

	if e.expired(now) {
		return false, MissExpired
	}
	if cfg.TTL > 0 && age > cfg.TTL.Milliseconds() {
		return false, MissExpired
	}
	if cfg.MaxAge > 0 && age > cfg.MaxAge.Milliseconds() {
		return false, MissExpired
	}
	if cfg.Validator != nil && !cfg.Validator(e, vctx) {
		return false, MissInvalid
	}
	return true, ""
}

// deleteLocked 删除键并递减条目计数，调用方需持有m.mu
func (m *Manager) deleteLocked(full string) bool {
	if !m.store.Contains(full) {
		return false
	}
	if err := m.store.Delete(full); err != nil {
		ns, key := m.splitKey(full)
		m.report("delete", ns, key, fmt.Errorf("%w: %v", errors.ErrStoreFailed, err))
		return false
	}
	m.recency.Remove(full)
	if m.stats.TotalEntries > 0 {
		m.stats.TotalEntries--
	}
	return true
}

// candidatesLocked 收集命名空间中除exclude外的条目，用于淘汰
func (m *Manager) candidatesLocked(namespace, exclude string) []eviction.Candidate {
	prefix := m.cacheKey(namespace, "")
	var cands []eviction.Candidate
	for _, k := range m.store.Keys() {
		if k == exclude || !strings.HasPrefix(k, prefix) {
			continue
		}
		c := eviction.Candidate{Key: k}
		if raw, ok := m.store.GetString(k); ok {
			if e, err := m.decodeEntry(raw); err == nil {
				c.Size = e.Metadata.Size()
				c.Timestamp = e.Timestamp
			}
		}
		cands = append(cands, c)
	}
	return cands
}

func (m *Manager) encodeEntry(e *Entry, compress bool) (string, error) {
	if compress && m.zstd != nil {
		return m.zstd.EncodeToString(e)
	}
	b, err := m.json.Marshal(e)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (m *Manager) decodeEntry(raw string) (*Entry, error) {
	var e Entry
	var err error
	if codec.IsCompressed(raw) {
		if m.zstd == nil {
			return nil, fmt.Errorf("compressed entry without zstd support")
		}
		err = m.zstd.DecodeString(raw, &e)
	} else {
		err = m.json.Unmarshal([]byte(raw), &e)
	}
	if err != nil {
		return nil, err
	}
	if len(e.Data) == 0 {
		return nil, fmt.Errorf("entry has no data field")
	}
	if e.Metadata == nil {
		e.Metadata = Metadata{}
	}
	return &e, nil
}

func (m *Manager) loadStats() {
	m.mu.Lock()
	defer m.mu.Unlock()

	raw, ok := m.store.GetString(m.statsKey())
	if !ok {
		return
	}
	var s Stats
	if err := m.json.Unmarshal([]byte(raw), &s); err != nil {
		m.report("load_stats", "", "", fmt.Errorf("%w: %v", errors.ErrDeserializationFailed, err))
		return
	}
	m.stats = s
}

// saveStatsLocked 持久化统计信息，调用方需持有m.mu
func (m *Manager) saveStatsLocked() {
	b, err := m.json.Marshal(m.stats)
	if err != nil {
		m.report("save_stats", "", "", fmt.Errorf("%w: %v", errors.ErrSerializationFailed, err))
		return
	}
	if err := m.store.SetString(m.statsKey(), string(b)); err != nil {
		m.report("save_stats", "", "", fmt.Errorf("%w: %v", errors.ErrStoreFailed, err))
	}
	m.recorder.StoreSize(m.store.Size())
}

func (m *Manager) setFailed(namespace, key string, err error) bool {
	m.report("set", namespace, key, err)
	m.recorder.SetFailed(namespace)
	return false
}

func (m *Manager) report(op, namespace, key string, err error) {
	m.logger.Warn("cache operation failed", "op", op, "namespace", namespace, "key", key, "error", err)
	if m.onError == nil {
		return
	}
	full := ""
	if namespace != "" {
		full = m.cacheKey(namespace, key)
	}
	m.onError(errors.NewKeyError(op, full, err), map[string]string{
		"cache.op":        op,
		"cache.namespace": namespace,
	})
}

func (m *Manager) cacheKey(namespace, key string) string {
	return m.prefix + namespace + "." + key
}

func (m *Manager) statsKey() string {
	return m.prefix + statsName
}

// entryKeysLocked 返回前缀下除统计键外的所有键
func (m *Manager) entryKeysLocked() []string {
	stats := m.statsKey()
	var keys []string
	for _, k := range m.store.Keys() {
		if k != stats && strings.HasPrefix(k, m.prefix) {
			keys = append(keys, k)
		}
	}
	return keys
}

func (m *Manager) splitKey(full string) (namespace, key string) {
	rest := strings.TrimPrefix(full, m.prefix)
	ns, key, found := strings.Cut(rest, ".")
	if !found {
		return "", rest
	}
	return ns, key
}

func checkKey(namespace, key string) error {
	if namespace == "" {
		return errors.ErrEmptyNamespace
	}
	if key == "" {
		return errors.ErrEmptyKey
	}
	return nil
}
