package kvstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

const snapshotVersion = "1"

// snapshot is the on-disk layout of a FileStore.
type snapshot struct {
	Version string           `json:"version"`
	Values  map[string]value `json:"values"`
}

// FileStore is a persistent Store backed by a JSON snapshot on a billy filesystem.
// Values are served from memory; every mutation rewrites the snapshot atomically
// (write to a temporary file, then rename). A failed write rolls the mutation back.
//
// FileStore 是基于billy文件系统上JSON快照的持久化Store。
// 值从内存中读取；每次修改都会原子地重写快照（先写临时文件，再重命名）。
// 写入失败时回滚该修改。
type FileStore struct {
	mem  *MemoryStore
	fs   billy.Filesystem
	path string

	mu       sync.Mutex // serializes mutations and snapshot writes
	fileSize int64
}

// OpenFileStore opens or creates the snapshot at name on fs.
//
// OpenFileStore 在fs上打开或创建名为name的快照。
//
// Parameters:
//   - fs: The filesystem holding the snapshot (osfs in production, memfs in tests)
//   - name: The snapshot path relative to the filesystem root
//
// Returns:
//   - *FileStore: The opened store
//   - error: An error if an existing snapshot cannot be read or parsed
func OpenFileStore(fs billy.Filesystem, name string) (*FileStore, error) {
	s := &FileStore{mem: NewMemoryStore(), fs: fs, path: name}

	info, err := fs.Stat(name)
	if os.IsNotExist(err) {
		if dir := path.Dir(name); dir != "." && dir != "/" {
			if err := fs.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create store directory: %w", err)
			}
		}
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat store file: %w", err)
	}

	data, err := util.ReadFile(fs, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read store file: %w", err)
	}
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse store file: %w", err)
	}
	if snap.Version != snapshotVersion {
		return nil, fmt.Errorf("unsupported store version: %s (expected %s)", snap.Version, snapshotVersion)
	}
	s.mem.restore(snap.Values)
	s.fileSize = info.Size()
	return s, nil
}

// GetString implements Store.
//
// GetString 实现Store接口。
func (s *FileStore) GetString(key string) (string, bool) { return s.mem.GetString(key) }

// GetBool implements Store.
//
// GetBool 实现Store接口。
func (s *FileStore) GetBool(key string) (bool, bool) { return s.mem.GetBool(key) }

// GetNumber implements Store.
//
// GetNumber 实现Store接口。
func (s *FileStore) GetNumber(key string) (float64, bool) { return s.mem.GetNumber(key) }

// Contains implements Store.
//
// Contains 实现Store接口。
func (s *FileStore) Contains(key string) bool { return s.mem.Contains(key) }

// Keys implements Store.
//
// Keys 实现Store接口。
func (s *FileStore) Keys() []string { return s.mem.Keys() }

// Size returns the byte size of the last written snapshot.
//
// Size 返回最近写入的快照的字节大小。
func (s *FileStore) Size() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fileSize
}

// SetString implements Store.
//
// SetString 实现Store接口。
func (s *FileStore) SetString(key, val string) error {
	return s.mutate(key, func() { s.mem.put(key, value{Kind: KindString, String: val}) })
}

// SetBool implements Store.
//
// SetBool 实现Store接口。
func (s *FileStore) SetBool(key string, val bool) error {
	return s.mutate(key, func() { s.mem.put(key, value{Kind: KindBool, Bool: val}) })
}

// SetNumber implements Store.
//
// SetNumber 实现Store接口。
func (s *FileStore) SetNumber(key string, val float64) error {
	return s.mutate(key, func() { s.mem.put(key, value{Kind: KindNumber, Number: val}) })
}

// Delete implements Store.
//
// Delete 实现Store接口。
func (s *FileStore) Delete(key string) error {
	if !s.mem.Contains(key) {
		return nil
	}
	return s.mutate(key, func() { _ = s.mem.Delete(key) })
}

// ClearAll implements Store.
//
// ClearAll 实现Store接口。
func (s *FileStore) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.mem.snapshot()
	_ = s.mem.ClearAll()
	if err := s.save(); err != nil {
		s.mem.restore(prev)
		return err
	}
	return nil
}

// mutate 应用单键修改并持久化，失败时恢复该键原值
func (s *FileStore) mutate(key string, apply func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mem.mu.RLock()
	prev, existed := s.mem.values[key]
	s.mem.mu.RUnlock()

	apply()
	if err := s.save(); err != nil {
		if existed {
			s.mem.put(key, prev)
		} else {
			_ = s.mem.Delete(key)
		}
		return err
	}
	return nil
}

// save 原子地写入快照，调用方需持有s.mu
func (s *FileStore) save() error {
	data, err := json.Marshal(snapshot{Version: snapshotVersion, Values: s.mem.snapshot()})
	if err != nil {
		return fmt.Errorf("failed to marshal store: %w", err)
	}

	tmpPath := s.path + ".tmp"
	tmpFile, err := s.fs.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create temporary store file: %w", err)
	}
	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		_ = s.fs.Remove(tmpPath)
		return fmt.Errorf("failed to write temporary store file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		_ = s.fs.Remove(tmpPath)
		return fmt.Errorf("failed to close temporary store file: %w", err)
	}
	if err := s.fs.Rename(tmpPath, s.path); err != nil {
		_ = s.fs.Remove(tmpPath)
		return fmt.Errorf("failed to rename store file: %w", err)
	}

	s.fileSize = int64(len(data))
	return nil
}
