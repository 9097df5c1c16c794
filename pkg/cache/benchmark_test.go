package cache

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"

	"github.com/AjayAntoIsDev/PrepMate/pkg/kvstore"
	"github.com/AjayAntoIsDev/PrepMate/pkg/loader"
)

// BenchmarkManager runs the access benchmarks over each store and encoding.
//
// BenchmarkManager 在每种存储和编码上运行访问基准测试。
func BenchmarkManager(b *testing.B) {
	stores := map[string]func(b *testing.B) kvstore.Store{
		"memory": func(*testing.B) kvstore.Store { return kvstore.NewMemoryStore() },
		"file": func(b *testing.B) kvstore.Store {
			s, err := kvstore.OpenFileStore(memfs.New(), "bench.json")
			if err != nil {
				b.Fatal(err)
			}
			return s
		},
	}

	for name, open := range stores {
		for _, compress := range []bool{false, true} {
			b.Run(fmt.Sprintf("Store=%s/Compress=%t", name, compress), func(b *testing.B) {
				runManagerBenchmarks(b, open(b), Config{Compress: compress})
			})
		}
	}
}

func runManagerBenchmarks(b *testing.B, store kvstore.Store, cfg Config) {
	m := New(store, WithLogger(quietLogger()))
	defer m.Close()

	const keyCount = 1000
	keys := make([]string, keyCount)
	for i := range keys {
		keys[i] = fmt.Sprintf("Physics-topic-%d", i)
	}
	notes := strings.Repeat("Newton's laws relate force and motion. ", 50)

	b.Run("GetHit", func(b *testing.B) {
		for _, k := range keys {
			m.Set(NamespaceNotes, k, notes, cfg, nil)
		}
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			if _, ok := Get[string](m, NamespaceNotes, keys[i%keyCount], cfg, nil); !ok {
				b.Fatal("unexpected miss")
			}
		}
	})

	b.Run("GetMiss", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			Get[string](m, NamespaceQuizzes, keys[i%keyCount], cfg, nil)
		}
	})

	b.Run("Set", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			m.Set(NamespaceNotes, keys[i%keyCount], notes, cfg, nil)
		}
	})

	b.Run("GetOrSetZipfian", func(b *testing.B) {
		m.ClearAll()
		r := rand.New(rand.NewSource(1))
		zipf := rand.NewZipf(r, 1.1, 1, keyCount-1)
		ctx := context.Background()
		fetch := loader.Value(notes)
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			if _, err := GetOrSet(ctx, m, NamespaceNotes, keys[zipf.Uint64()], fetch, cfg, nil, nil); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("Parallel", func(b *testing.B) {
		b.RunParallel(func(pb *testing.PB) {
			i := 0
			for pb.Next() {
				k := keys[i%keyCount]
				if i%5 == 0 {
					m.Set(NamespaceNotes, k, notes, cfg, nil)
				} else {
					Get[string](m, NamespaceNotes, k, cfg, nil)
				}
				i++
			}
		})
	})
}

// BenchmarkEvictionUnderLimits measures Set when every write evicts.
//
// BenchmarkEvictionUnderLimits 测量每次写入都触发淘汰时的Set。
func BenchmarkEvictionUnderLimits(b *testing.B) {
	for _, limit := range []int{10, 100, 1000} {
		b.Run(fmt.Sprintf("MaxEntries=%d", limit), func(b *testing.B) {
			m := New(kvstore.NewMemoryStore(), WithLogger(quietLogger()))
			defer m.Close()
			cfg := Config{MaxEntries: limit}
			for i := 0; i < limit; i++ {
				m.Set(NamespaceQuizzes, fmt.Sprintf("warm-%d", i), i, cfg, nil)
			}
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				m.Set(NamespaceQuizzes, fmt.Sprintf("k-%d", i), i, cfg, nil)
			}
		})
	}
}
