package eviction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecencyOrder(t *testing.T) {
	r := NewRecency()
	r.Touch("b")
	r.Touch("a")
	r.Touch("b")

	cands := []Candidate{
		{Key: "a", Timestamp: 1},
		{Key: "b", Timestamp: 2},
		{Key: "old2", Timestamp: 20},
		{Key: "old1", Timestamp: 10},
	}
	var keys []string
	for _, c := range r.Order(cands) {
		keys = append(keys, c.Key)
	}
	// 未访问的按时间排在前面，之后是LRU顺序
	assert.Equal(t, []string{"old1", "old2", "a", "b"}, keys)
	assert.Equal(t, 2, r.Len())

	r.Remove("a")
	assert.Equal(t, 1, r.Len())
	r.Reset()
	assert.Equal(t, 0, r.Len())
}

func TestVictimsByEntries(t *testing.T) {
	r := NewRecency()
	r.Touch("q1")
	r.Touch("q2")
	r.Touch("q1")

	cands := []Candidate{{Key: "q1", Size: 10}, {Key: "q2", Size: 10}}
	victims := r.Victims(cands, Candidate{Key: "q3", Size: 10}, Limits{MaxEntries: 2})
	assert.Equal(t, []string{"q2"}, victims)

	assert.Nil(t, r.Victims(cands, Candidate{Key: "q3"}, Limits{MaxEntries: 3}))
	assert.Nil(t, r.Victims(cands, Candidate{Key: "q3"}, Limits{}))
}

func TestVictimsByBytes(t *testing.T) {
	r := NewRecency()
	cands := []Candidate{
		{Key: "n1", Size: 40, Timestamp: 1},
		{Key: "n2", Size: 40, Timestamp: 2},
		{Key: "n3", Size: 40, Timestamp: 3},
	}
	victims := r.Victims(cands, Candidate{Key: "n4", Size: 50}, Limits{MaxBytes: 100})
	assert.Equal(t, []string{"n1", "n2"}, victims)

	// incoming本身超限时淘汰全部候选
	victims = r.Victims(cands, Candidate{Key: "big", Size: 500}, Limits{MaxBytes: 100})
	assert.Len(t, victims, 3)
}
