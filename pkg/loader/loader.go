// Package loader provides the fetcher abstraction the cache calls on a miss,
// plus wrappers that give a fetcher its own timeout and retry behavior.
// The cache itself never retries or cancels a fetch; those are the fetcher's concern.
//
// Package loader 提供缓存未命中时调用的获取函数抽象，
// 以及为获取函数提供超时和重试行为的包装器。
// 缓存本身从不重试或取消获取；这些由获取函数自行负责。
package loader

import (
	"context"
	"fmt"
	"time"
)

// Fetcher is the interface that wraps the basic Fetch method.
//
// Fetch produces the authoritative value on a cache miss.
// Its error is propagated to the caller of GetOrSet unmodified.
//
// Fetcher 是包装基本Fetch方法的接口。
//
// Fetch 在缓存未命中时产生权威值。
// 其错误会原样传递给GetOrSet的调用方。
type Fetcher[T any] interface {
	Fetch(ctx context.Context) (T, error)
}

// FetcherFunc is a function type that implements the Fetcher interface.
//
// FetcherFunc 是实现Fetcher接口的函数类型。
type FetcherFunc[T any] func(ctx context.Context) (T, error)

// Fetch calls the function itself.
//
// Fetch 调用函数本身。
func (f FetcherFunc[T]) Fetch(ctx context.Context) (T, error) {
	return f(ctx)
}

// Value returns a Fetcher that always yields v.
//
// Value 返回一个始终产生v的Fetcher。
func Value[T any](v T) Fetcher[T] {
	return FetcherFunc[T](func(context.Context) (T, error) {
		return v, nil
	})
}

// WithTimeout bounds each Fetch call with a deadline.
// A non-positive timeout returns f unchanged.
//
// WithTimeout 为每次Fetch调用设置截止时间。
// 非正的超时值原样返回f。
//
// Parameters:
//   - f: The fetcher to wrap
//   - timeout: The maximum duration of one fetch
//
// Returns:
//   - Fetcher[T]: The wrapped fetcher
func WithTimeout[T any](f Fetcher[T], timeout time.Duration) Fetcher[T] {
	if timeout <= 0 {
		return f
	}
	return FetcherFunc[T](func(ctx context.Context) (T, error) {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return f.Fetch(ctx)
	})
}

// RetryFetcher retries a fetcher with a fixed backoff.
//
// RetryFetcher 以固定退避间隔重试获取函数。
type RetryFetcher[T any] struct {
	Inner    Fetcher[T]
	Attempts int
	Backoff  time.Duration

	// Retryable decides whether an error is worth another attempt.
	// A nil Retryable retries every error.
	//
	// Retryable 决定错误是否值得再次尝试。
	// Retryable为nil时重试所有错误。
	Retryable func(error) bool
}

// Fetch attempts the inner fetcher up to Attempts times.
// It stops early when the context is done or the error is not retryable,
// and returns the last error wrapped with the attempt count.
//
// Fetch 最多尝试Attempts次内部获取函数。
// 当上下文结束或错误不可重试时提前停止，并返回包装了尝试次数的最后一个错误。
func (r *RetryFetcher[T]) Fetch(ctx context.Context) (T, error) {
	attempts := r.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var zero T
	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 && r.Backoff > 0 {
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(r.Backoff):
			}
		}

		v, err := r.Inner.Fetch(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err
		if ctx.Err() != nil || (r.Retryable != nil && !r.Retryable(err)) {
			break
		}
	}
	if attempts == 1 {
		return zero, lastErr
	}
	return zero, fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}

// NewRetryFetcher creates a RetryFetcher around inner.
//
// NewRetryFetcher 创建一个包装inner的RetryFetcher。
func NewRetryFetcher[T any](inner Fetcher[T], attempts int, backoff time.Duration) *RetryFetcher[T] {
	return &RetryFetcher[T]{Inner: inner, Attempts: attempts, Backoff: backoff}
}
