// Package errorreporting 将被吸收的错误上报到Sentry
package errorreporting

import (
	"fmt"
	"regexp"
	"sync/atomic"
	"time"

	"github.com/getsentry/sentry-go"
)

// 上报前需要清除的敏感信息
var piiPatterns = []*regexp.Regexp{
	// 邮箱地址
	regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`),
	// Bearer令牌
	regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9._-]{16,}`),
	// 形如sk-xxx的API密钥
	regexp.MustCompile(`\bsk-[a-zA-Z0-9_-]{16,}`),
	// 键值形式的密钥
	regexp.MustCompile(`(?i)(api[_-]?key|token|secret)["\s:=]+[a-zA-Z0-9_-]{16,}`),
	// IP地址
	regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`),
}

var enabled atomic.Bool

// Init 初始化Sentry，dsn为空时不启用且不返回错误
func Init(dsn, environment, release string) error {
	if dsn == "" {
		return nil
	}
	if release == "" {
		release = "dev"
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      environment,
		Release:          release,
		BeforeSend:       beforeSend,
		AttachStacktrace: true,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize Sentry: %w", err)
	}
	enabled.Store(true)
	return nil
}

// Enabled 报告Sentry是否已初始化
func Enabled() bool {
	return enabled.Load()
}

// beforeSend 发送前清除敏感信息
func beforeSend(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
	for i := range event.Exception {
		event.Exception[i].Value = ScrubPII(event.Exception[i].Value)
	}
	if event.Message != "" {
		event.Message = ScrubPII(event.Message)
	}
	for key, value := range event.Extra {
		if str, ok := value.(string); ok {
			event.Extra[key] = ScrubPII(str)
		}
	}
	if event.Request != nil {
		if event.Request.Headers != nil {
			delete(event.Request.Headers, "Authorization")
			delete(event.Request.Headers, "Cookie")
		}
		event.Request.QueryString = ""
	}
	return event
}

// ScrubPII 将文本中的敏感信息替换为[REDACTED]
func ScrubPII(text string) string {
	for _, pattern := range piiPatterns {
		text = pattern.ReplaceAllString(text, "[REDACTED]")
	}
	return text
}

// CaptureError 携带标签上报错误，未初始化时不做任何事
func CaptureError(err error, tags map[string]string) {
	if err == nil || !Enabled() {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		sentry.CaptureException(err)
	})
}

// CacheHook 返回可用作cache.ErrorHook的回调
func CacheHook() func(err error, tags map[string]string) {
	return CaptureError
}

// Flush 等待事件发送完成
func Flush(timeout time.Duration) bool {
	if !Enabled() {
		return true
	}
	return sentry.Flush(timeout)
}
