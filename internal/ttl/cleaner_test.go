package ttl

import (
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingTarget struct {
	calls   atomic.Int32
	removed int
}

func (t *countingTarget) Cleanup() int {
	t.calls.Add(1)
	return t.removed
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCleanerTicks(t *testing.T) {
	target := &countingTarget{removed: 2}
	c := NewCleaner(target, 10*time.Millisecond, quietLogger())
	defer c.Close()

	require.Eventually(t, func() bool {
		return target.calls.Load() >= 2
	}, time.Second, 5*time.Millisecond)

	stats := c.GetStats()
	assert.GreaterOrEqual(t, stats["clean_count"].(uint64), uint64(2))
	assert.GreaterOrEqual(t, stats["expired_count"].(uint64), uint64(4))
}

func TestForceClean(t *testing.T) {
	target := &countingTarget{removed: 3}
	c := NewCleaner(target, time.Hour, quietLogger())
	defer c.Close()

	assert.Equal(t, 3, c.ForceClean())
	assert.Equal(t, int32(1), target.calls.Load())
	assert.Equal(t, uint64(3), c.GetStats()["expired_count"])
}

func TestSetCleanInterval(t *testing.T) {
	target := &countingTarget{}
	c := NewCleaner(target, time.Hour, quietLogger())
	defer c.Close()

	assert.Equal(t, time.Hour, c.CleanInterval())
	c.SetCleanInterval(10 * time.Millisecond)
	assert.Equal(t, 10*time.Millisecond, c.CleanInterval())

	require.Eventually(t, func() bool {
		return target.calls.Load() >= 1
	}, time.Second, 5*time.Millisecond)

	// 非正数被忽略
	c.SetCleanInterval(0)
	assert.Equal(t, 10*time.Millisecond, c.CleanInterval())
}

func TestDefaultIntervalAndClose(t *testing.T) {
	c := NewCleaner(&countingTarget{}, 0, nil)
	assert.Equal(t, defaultCleanInterval, c.CleanInterval())

	c.Close()
	c.Close()
	// 关闭后修改间隔不会阻塞
	c.SetCleanInterval(time.Second)
}
