// Package ttl 提供缓存项生命周期管理
// 负责按固定间隔主动清理过期的缓存条目
package ttl

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// 默认清理间隔
const defaultCleanInterval = 5 * time.Minute

// Target 可被清理的缓存，返回本次删除的条目数
type Target interface {
	Cleanup() int
}

// Cleaner 定期调用Target.Cleanup清理过期项
type Cleaner struct {
	target        Target             // 清理目标
	logger        *slog.Logger       // 日志
	cleanInterval atomic.Int64       // 清理间隔（纳秒）
	resetChan     chan time.Duration // 修改间隔信号
	closeChan     chan struct{}      // 关闭信号
	closeOnce     sync.Once          // 确保只关闭一次
	wg            sync.WaitGroup     // 等待组
	mu            sync.Mutex         // 串行化清理
	cleanCount    atomic.Uint64      // 清理次数
	expiredCount  atomic.Uint64      // 清理掉的条目数
	cleanDuration atomic.Int64       // 上次清理耗时（纳秒）
}

// NewCleaner 创建并启动清理器，interval<=0时使用默认间隔
func NewCleaner(target Target, interval time.Duration, logger *slog.Logger) *Cleaner {
	if interval <= 0 {
		interval = defaultCleanInterval
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &Cleaner{
		target:    target,
		logger:    logger.With("component", "ttl"),
		resetChan: make(chan time.Duration, 1),
		closeChan: make(chan struct{}),
	}
	c.cleanInterval.Store(int64(interval))

	// 启动清理协程
	c.wg.Add(1)
	go c.cleanerLoop(interval)

	return c
}

// cleanerLoop 清理循环
func (c *Cleaner) cleanerLoop(interval time.Duration) {
	defer c.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.clean()
		case d := <-c.resetChan:
			ticker.Reset(d)
		case <-c.closeChan:
			return
		}
	}
}

// clean 执行一次清理并更新统计
func (c *Cleaner) clean() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()
	n := c.target.Cleanup()

	c.cleanCount.Add(1)
	c.expiredCount.Add(uint64(n))
	c.cleanDuration.Store(int64(time.Since(start)))

	if n > 0 {
		c.logger.Info("Cleaned up expired entries", "count", n)
	}
	return n
}

// ForceClean 立即执行一次清理
func (c *Cleaner) ForceClean() int {
	return c.clean()
}

// SetCleanInterval 修改清理间隔，下一个周期生效
func (c *Cleaner) SetCleanInterval(interval time.Duration) {
	if interval <= 0 || time.Duration(c.cleanInterval.Swap(int64(interval))) == interval {
		return
	}
	// 只保留最新的间隔
	select {
	case <-c.resetChan:
	default:
	}
	select {
	case c.resetChan <- interval:
	case <-c.closeChan:
	}
}

// CleanInterval 返回当前清理间隔
func (c *Cleaner) CleanInterval() time.Duration {
	return time.Duration(c.cleanInterval.Load())
}

// Close 关闭清理器
func (c *Cleaner) Close() {
	c.closeOnce.Do(func() {
		close(c.closeChan)
	})
	c.wg.Wait()
}

// GetStats 获取清理器的统计信息
func (c *Cleaner) GetStats() map[string]interface{} {
	return map[string]interface{}{
		"clean_count":    c.cleanCount.Load(),
		"expired_count":  c.expiredCount.Load(),
		"clean_duration": time.Duration(c.cleanDuration.Load()).String(),
		"clean_interval": c.CleanInterval().String(),
	}
}
