package kvstore

import (
	"sort"
	"sync"
)

// MemoryStore is a map-backed Store.
// It is safe for concurrent use and is the default store for tests and
// for servers that do not need entries to survive a restart.
//
// MemoryStore 是基于map的Store实现。
// 它可以安全地并发使用，是测试和不需要在重启后保留条目的服务器的默认存储。
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]value
	bytes  int64
}

// NewMemoryStore creates an empty MemoryStore.
//
// NewMemoryStore 创建一个空的MemoryStore。
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]value)}
}

// GetString implements Store.
//
// GetString 实现Store接口。
func (s *MemoryStore) GetString(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	if !ok || v.Kind != KindString {
		return "", false
	}
	return v.String, true
}

// GetBool implements Store.
//
// GetBool 实现Store接口。
func (s *MemoryStore) GetBool(key string) (bool, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	if !ok || v.Kind != KindBool {
		return false, false
	}
	return v.Bool, true
}

// GetNumber implements Store.
//
// GetNumber 实现Store接口。
func (s *MemoryStore) GetNumber(key string) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	if !ok || v.Kind != KindNumber {
		return 0, false
	}
	return v.Number, true
}

// SetString implements Store.
//
// SetString 实现Store接口。
func (s *MemoryStore) SetString(key, val string) error {
	s.put(key, value{Kind: KindString, String: val})
	return nil
}

// SetBool implements Store.
//
// SetBool 实现Store接口。
func (s *MemoryStore) SetBool(key string, val bool) error {
	s.put(key, value{Kind: KindBool, Bool: val})
	return nil
}

// SetNumber implements Store.
//
// SetNumber 实现Store接口。
func (s *MemoryStore) SetNumber(key string, val float64) error {
	s.put(key, value{Kind: KindNumber, Number: val})
	return nil
}

// Delete implements Store.
//
// Delete 实现Store接口。
func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remove(key)
	return nil
}

// Contains implements Store.
//
// Contains 实现Store接口。
func (s *MemoryStore) Contains(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.values[key]
	return ok
}

// Keys implements Store.
//
// Keys 实现Store接口。
func (s *MemoryStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Size returns the summed byte length of every key and value.
//
// Size 返回所有键和值的字节长度之和。
func (s *MemoryStore) Size() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bytes
}

// ClearAll implements Store.
//
// ClearAll 实现Store接口。
func (s *MemoryStore) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = make(map[string]value)
	s.bytes = 0
	return nil
}

// put 写入值并更新字节计数
func (s *MemoryStore) put(key string, v value) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remove(key)
	s.values[key] = v
	s.bytes += int64(len(key)) + v.size()
}

// remove 删除键，调用方需持有写锁
func (s *MemoryStore) remove(key string) {
	if old, ok := s.values[key]; ok {
		s.bytes -= int64(len(key)) + old.size()
		delete(s.values, key)
	}
}

// snapshot 返回所有值的副本
func (s *MemoryStore) snapshot() map[string]value {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]value, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// restore 用快照替换全部内容
func (s *MemoryStore) restore(values map[string]value) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = make(map[string]value, len(values))
	s.bytes = 0
	for k, v := range values {
		s.values[k] = v
		s.bytes += int64(len(k)) + v.size()
	}
}
