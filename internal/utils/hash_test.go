package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRollingHash32(t *testing.T) {
	assert.Equal(t, int32(0), RollingHash32(""))
	assert.Equal(t, int32(97), RollingHash32("a"))
	assert.Equal(t, int32(3105), RollingHash32("ab"))
	assert.Equal(t, int32(-217287203), RollingHash32("hello world!"))
}

func TestShortKey(t *testing.T) {
	cases := map[string]string{
		"":                                   "0",
		"a":                                  "2p",
		"ab":                                 "2e9",
		`{"a":1,"b":2}`:                      "kz8hg0",
		`{"examType":"JEE","daysLeft":45}`:   "fj59e6",
		"hello world!":                       "3ld7vn",
		"ñ😀x":                                "10zv8k", // 代理对按两个码元计算
		"polygenelubricants":                 "zik0zk", // 哈希值为math.MinInt32
		`{"examType":"NEET","daysLeft":120}`: "2olui4",
	}
	for in, want := range cases {
		assert.Equal(t, want, ShortKey(in), "input %q", in)
	}
}

func TestCanonicalJSON(t *testing.T) {
	s, err := CanonicalJSON("already a string")
	require.NoError(t, err)
	assert.Equal(t, "already a string", s)

	s, err = CanonicalJSON(struct {
		ExamType string `json:"examType"`
		DaysLeft int    `json:"daysLeft"`
	}{"JEE", 45})
	require.NoError(t, err)
	assert.Equal(t, `{"examType":"JEE","daysLeft":45}`, s)

	s, err = CanonicalJSON(map[string]string{"topic": "a<b&c"})
	require.NoError(t, err)
	assert.Equal(t, `{"topic":"a<b&c"}`, s)

	_, err = CanonicalJSON(make(chan int))
	assert.Error(t, err)
}

func TestCanonicalJSONDiffersFromStringify(t *testing.T) {
	// map按键排序
	s, err := CanonicalJSON(map[string]int{"daysLeft": 45, "examType": 1})
	require.NoError(t, err)
	assert.Equal(t, `{"daysLeft":45,"examType":1}`, s)

	// 行分隔符和段分隔符总是被转义
	s, err = CanonicalJSON([]string{"a\u2028b\u2029c"})
	require.NoError(t, err)
	assert.Equal(t, `["a\u2028b\u2029c"]`, s)
}
