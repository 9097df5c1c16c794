package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/AjayAntoIsDev/PrepMate/pkg/errors"
	"github.com/AjayAntoIsDev/PrepMate/pkg/loader"
)

// Get returns the cached value of type T under namespace/key.
// The boolean is false on a miss, including entries whose data is JSON null
// or cannot be decoded into T.
//
// Get 返回namespace/key下类型为T的缓存值。
// 未命中时布尔值为false，包括数据为JSON null或无法解码为T的条目。
//
// Parameters:
//   - m: The cache manager
//   - namespace: The namespace of the entry
//   - key: The key within the namespace
//   - cfg: The policy used for validation
//   - vctx: The validation context passed to cfg.Validator
//
// Returns:
//   - T: The cached value, or the zero value on a miss
//   - bool: True on a hit
func Get[T any](m *Manager, namespace, key string, cfg Config, vctx Context) (T, bool) {
	var zero T
	raw, ok := m.GetRaw(namespace, key, cfg, vctx)
	if !ok || string(raw) == "null" {
		return zero, false
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		m.report("get", namespace, key, fmt.Errorf("%w: %v", errors.ErrDeserializationFailed, err))
		return zero, false
	}
	return v, true
}

// GetOrSet returns the cached value or, on a miss, calls fetcher exactly once,
// stores the result with cfg and meta, and returns it even if the store fails.
// A fetcher error is returned unmodified and nothing is cached.
// Concurrent misses on the same key each call their fetcher.
//
// GetOrSet 返回缓存值，或在未命中时恰好调用一次fetcher，
// 使用cfg和meta存储结果，即使存储失败也返回该结果。
// 获取函数的错误原样返回，且不缓存任何内容。
// 同一键上的并发未命中会各自调用其获取函数。
//
// Parameters:
//   - ctx: Context passed to the fetcher and used for tracing
//   - m: The cache manager
//   - namespace: The namespace of the entry
//   - key: The key within the namespace
//   - fetcher: Produces the value on a miss
//   - cfg: The cache policy
//   - vctx: The validation context
//   - meta: Metadata stored with a fetched value
//
// Returns:
//   - T: The cached or fetched value
//   - error: The fetcher's error, if it failed
func GetOrSet[T any](ctx context.Context, m *Manager, namespace, key string, fetcher loader.Fetcher[T], cfg Config, vctx Context, meta Metadata) (T, error) {
	ctx, span := m.tracer.Start(ctx, "cache.get_or_set", trace.WithAttributes(
		attribute.String("cache.namespace", namespace),
		attribute.String("cache.key", key),
	))
	defer span.End()

	if v, ok := Get[T](m, namespace, key, cfg, vctx); ok {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return v, nil
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	m.logger.Debug("Cache miss, fetching", "namespace", namespace, "key", key)
	start := time.Now()
	v, err := fetcher.Fetch(ctx)
	m.recorder.Fetched(namespace, time.Since(start), err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		var zero T
		return zero, err
	}

	if !m.Set(namespace, key, v, cfg, meta) {
		span.SetAttributes(attribute.Bool("cache.stored", false))
	}
	return v, nil
}
