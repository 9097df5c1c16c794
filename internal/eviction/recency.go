// Package eviction 提供命名空间级别的条目淘汰
//
// Recency 记录本进程内缓存键的最近使用顺序，
// Victims 根据该顺序选出需要淘汰的条目，使命名空间满足条目数和字节数上限。
package eviction

import (
	"container/list"
	"sort"
	"sync"
)

// Candidate 表示命名空间中的一个现存条目
type Candidate struct {
	Key       string // 完整缓存键
	Size      int64  // 序列化数据的字节数
	Timestamp int64  // 写入时间（毫秒）
}

// Limits 命名空间上限，零值表示不限制
type Limits struct {
	MaxEntries int
	MaxBytes   int64
}

// Enabled 判断是否设置了任一上限
func (l Limits) Enabled() bool {
	return l.MaxEntries > 0 || l.MaxBytes > 0
}

// Recency 实现基于LRU的访问顺序记录
type Recency struct {
	mu    sync.Mutex
	items map[string]*list.Element // 键到链表节点的映射
	list  *list.List               // 头部是最近使用的，尾部是最久未使用的
}

// NewRecency 创建一个空的访问顺序记录
func NewRecency() *Recency {
	return &Recency{
		items: make(map[string]*list.Element),
		list:  list.New(),
	}
}

// Touch 将键移动到链表头部
func (r *Recency) Touch(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if elem, ok := r.items[key]; ok {
		r.list.MoveToFront(elem)
		return
	}
	r.items[key] = r.list.PushFront(key)
}

// Remove 删除键的访问记录
func (r *Recency) Remove(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if elem, ok := r.items[key]; ok {
		r.list.Remove(elem)
		delete(r.items, key)
	}
}

// Reset 清空全部访问记录
func (r *Recency) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = make(map[string]*list.Element)
	r.list.Init()
}

// Len 返回已记录的键数量
func (r *Recency) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.list.Len()
}

// Order 将候选条目按淘汰优先级排序（最先淘汰的在前）
// 本进程未访问过的条目排在前面，按写入时间升序；其余按LRU顺序
func (r *Recency) Order(cands []Candidate) []Candidate {
	r.mu.Lock()
	rank := make(map[string]int, r.list.Len())
	i := 0
	for e := r.list.Back(); e != nil; e = e.Prev() {
		rank[e.Value.(string)] = i
		i++
	}
	r.mu.Unlock()

	out := make([]Candidate, len(cands))
	copy(out, cands)
	sort.SliceStable(out, func(a, b int) bool {
		ra, okA := rank[out[a].Key]
		rb, okB := rank[out[b].Key]
		switch {
		case !okA && !okB:
			return out[a].Timestamp < out[b].Timestamp
		case !okA:
			return true
		case !okB:
			return false
		default:
			return ra < rb
		}
	})
	return out
}

// Victims 返回为容纳incoming需要淘汰的键
// cands不应包含incoming本身
func (r *Recency) Victims(cands []Candidate, incoming Candidate, lim Limits) []string {
	if !lim.Enabled() {
		return nil
	}

	count := len(cands) + 1
	bytes := incoming.Size
	for _, c := range cands {
		bytes += c.Size
	}

	var victims []string
	for _, c := range r.Order(cands) {
		overEntries := lim.MaxEntries > 0 && count > lim.MaxEntries
		overBytes := lim.MaxBytes > 0 && bytes > lim.MaxBytes
		if !overEntries && !overBytes {
			break
		}
		victims = append(victims, c.Key)
		count--
		bytes -= c.Size
	}
	return victims
}
