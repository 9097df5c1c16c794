package cache

import (
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// Option is a function that configures a Manager.
// This pattern allows for flexible and readable construction of managers.
//
// Option 是一个配置Manager的函数。
// 这种模式允许灵活且可读地构建管理器。
type Option func(*Manager)

// WithLogger sets the structured logger.
// The manager tags it with component=cache.
//
// WithLogger 设置结构化日志记录器。
// 管理器会为其添加component=cache标记。
//
// Parameters:
//   - logger: The logger to use
//
// Returns:
//   - Option: A configuration option
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger.With("component", "cache")
		}
	}
}

// WithClock replaces the wall clock, mainly for tests.
//
// WithClock 替换时钟，主要用于测试。
//
// Parameters:
//   - now: A function returning the current time
//
// Returns:
//   - Option: A configuration option
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithPrefix sets the key prefix. It must end with a dot.
//
// WithPrefix 设置键前缀，必须以点结尾。
func WithPrefix(prefix string) Option {
	return func(m *Manager) {
		if prefix != "" {
			m.prefix = prefix
		}
	}
}

// WithErrorHook registers a callback for absorbed errors.
//
// WithErrorHook 注册被吸收错误的回调。
func WithErrorHook(hook ErrorHook) Option {
	return func(m *Manager) {
		m.onError = hook
	}
}

// WithRecorder sets the event recorder used for metrics.
//
// WithRecorder 设置用于指标的事件记录器。
func WithRecorder(r Recorder) Option {
	return func(m *Manager) {
		if r != nil {
			m.recorder = r
		}
	}
}

// WithTracer sets the tracer used by GetOrSet.
//
// WithTracer 设置GetOrSet使用的追踪器。
func WithTracer(t trace.Tracer) Option {
	return func(m *Manager) {
		if t != nil {
			m.tracer = t
		}
	}
}

// WithLimitEnforcement toggles MaxEntries and MaxSize enforcement.
// Enforcement is on by default.
//
// WithLimitEnforcement 切换MaxEntries和MaxSize的执行。
// 默认启用。
func WithLimitEnforcement(enabled bool) Option {
	return func(m *Manager) {
		m.enforceLimits = enabled
	}
}
