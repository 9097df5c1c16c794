// Package logger 配置进程级的slog日志记录器
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// ContextKey 日志使用的上下文键类型
type ContextKey string

// RequestIDKey 请求ID的上下文键
const RequestIDKey ContextKey = "request_id"

var (
	mu            sync.RWMutex
	defaultLogger *slog.Logger
	// 全局日志级别，可在运行时修改
	levelVar slog.LevelVar
)

// New 按级别和格式创建写入w的日志记录器
// format为"json"时使用JSON格式，否则使用文本格式
func New(level, format string, w io.Writer) *slog.Logger {
	return newLogger(ParseLevel(level), format, w)
}

func newLogger(level slog.Leveler, format string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// Init 初始化全局日志记录器并设为slog默认值
// output可以是stdout、stderr或文件路径；返回的关闭函数用于关闭文件
func Init(level, format, output string) (*slog.Logger, func() error, error) {
	w, closer, err := openOutput(output)
	if err != nil {
		return nil, nil, err
	}

	levelVar.Set(ParseLevel(level))
	l := newLogger(&levelVar, format, w)
	mu.Lock()
	defaultLogger = l
	mu.Unlock()
	slog.SetDefault(l)
	return l, closer, nil
}

func openOutput(output string) (io.Writer, func() error, error) {
	noop := func() error { return nil }
	switch strings.ToLower(strings.TrimSpace(output)) {
	case "", "stdout":
		return os.Stdout, noop, nil
	case "stderr":
		return os.Stderr, noop, nil
	}
	f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, f.Close, nil
}

// SetLevel 修改Init创建的日志记录器的级别
func SetLevel(level string) {
	levelVar.Set(ParseLevel(level))
}

// ParseLevel 将字符串转换为slog.Level，未知值返回Info
func ParseLevel(levelStr string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Get 返回全局日志记录器，未初始化时返回slog默认值
func Get() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if defaultLogger == nil {
		return slog.Default()
	}
	return defaultLogger
}

// WithComponent 返回带有组件标签的日志记录器
func WithComponent(component string) *slog.Logger {
	return Get().With("component", component)
}

// WithRequestID 返回带有上下文中请求ID的日志记录器
func WithRequestID(ctx context.Context) *slog.Logger {
	l := Get()
	if reqID, ok := ctx.Value(RequestIDKey).(string); ok && reqID != "" {
		l = l.With("request_id", reqID)
	}
	return l
}
