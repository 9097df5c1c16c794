package cache

import (
	"bytes"
	"encoding/json"
	"time"
)

// Context is the validation context supplied on read.
// A nil Context is valid; built-in validators accept any entry for it.
//
// Context 是读取时提供的验证上下文。
// nil Context是有效的；内置验证器对其接受任何条目。
type Context map[string]any

// Metadata holds an entry's size plus free-form caller fields.
// Well-known fields are size, version, tags and dependencies.
//
// Metadata 保存条目的大小以及调用方的自由字段。
// 约定的字段有size、version、tags和dependencies。
type Metadata map[string]any

// Entry is the stored frame around cached data.
// Data holds the JSON form of the value; ExpiresAt, when set, equals
// Timestamp plus the TTL in effect at write time and is never recomputed.
//
// Entry 是缓存数据的存储框架。
// Data 保存值的JSON形式；ExpiresAt在设置时等于Timestamp加上写入时生效的TTL，且从不重新计算。
type Entry struct {
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
	ExpiresAt *int64          `json:"expiresAt,omitempty"`
	Metadata  Metadata        `json:"metadata"`
}

// WrittenAt returns Timestamp as a time.Time.
//
// WrittenAt 以time.Time形式返回Timestamp。
func (e *Entry) WrittenAt() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// Decode unmarshals the entry's data into v.
//
// Decode 将条目数据反序列化到v中。
func (e *Entry) Decode(v any) error {
	return json.Unmarshal(e.Data, v)
}

// expired 判断条目是否已超过expiresAt
func (e *Entry) expired(nowMs int64) bool {
	return e.ExpiresAt != nil && nowMs > *e.ExpiresAt
}

// Size returns the serialized data size recorded at write time.
//
// Size 返回写入时记录的序列化数据大小。
func (m Metadata) Size() int64 {
	switch v := m["size"].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	}
	return 0
}

// Version returns the content version tag, or "".
//
// Version 返回内容版本标签，不存在时返回""。
func (m Metadata) Version() string {
	s, _ := m["version"].(string)
	return s
}

// Tags returns the entry's tags.
//
// Tags 返回条目的标签。
func (m Metadata) Tags() []string {
	return stringSlice(m["tags"])
}

// Dependencies returns the entry's dependencies.
//
// Dependencies 返回条目的依赖项。
func (m Metadata) Dependencies() []string {
	return stringSlice(m["dependencies"])
}

// Matches reports whether every named field holds the same value in m and vctx.
// Values are compared by their JSON encoding, so an int 45 in the context
// equals the float64 45 decoded from storage. A field absent from both matches.
//
// Matches 报告每个指定字段在m和vctx中是否具有相同的值。
// 值按其JSON编码比较，因此上下文中的int 45等于从存储中解码的float64 45。两边都缺失的字段视为匹配。
func (m Metadata) Matches(vctx Context, fields ...string) bool {
	for _, f := range fields {
		if !sameJSON(m[f], vctx[f]) {
			return false
		}
	}
	return true
}

// clone 复制元数据，避免修改调用方的map
func (m Metadata) clone() Metadata {
	out := make(Metadata, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}

func sameJSON(a, b any) bool {
	ja, errA := json.Marshal(a)
	jb, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return bytes.Equal(ja, jb)
}

func stringSlice(v any) []string {
	switch s := v.(type) {
	case []string:
		return s
	case []any:
		out := make([]string, 0, len(s))
		for _, item := range s {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	}
	return nil
}
