package cache

import (
	"fmt"
	"time"

	"github.com/AjayAntoIsDev/PrepMate/pkg/errors"
)

// Validator decides whether a stored entry still applies to a fresh context.
// It runs after every time-based check has passed.
//
// Validator 判断存储的条目是否仍适用于新的上下文。
// 它在所有基于时间的检查通过后运行。
type Validator func(entry *Entry, vctx Context) bool

// Config is the declarative policy attached to a single cache call.
// The zero value caches forever with no validation.
// The same namespace may be written with different configs; an entry's
// expiresAt reflects the config used when it was written.
//
// Config 是附加到单次缓存调用的声明式策略。
// 零值表示永久缓存且不验证。
// 同一命名空间可以使用不同的配置写入；条目的expiresAt反映写入时使用的配置。
type Config struct {
	// TTL is the lifetime of an entry after write; 0 means no expiry
	// TTL 是条目写入后的生存时间；0表示不过期
	TTL time.Duration

	// MaxAge rejects entries older than this on read; 0 disables the check
	// MaxAge 在读取时拒绝早于此时长的条目；0表示禁用检查
	MaxAge time.Duration

	// MaxSize caps the namespace's stored bytes; 0 means unlimited
	// MaxSize 限制命名空间的存储字节数；0表示不限制
	MaxSize int64

	// MaxEntries caps the namespace's entry count; 0 means unlimited
	// MaxEntries 限制命名空间的条目数；0表示不限制
	MaxEntries int

	// Validator is consulted on read after the time checks
	// Validator 在时间检查之后的读取时被调用
	Validator Validator

	// Compress stores the entry as zstd-compressed JSON
	// Compress 将条目存储为zstd压缩的JSON
	Compress bool

	// Encrypt is recognized but not supported; writes with it set fail
	// Encrypt 可被识别但不受支持；设置它的写入会失败
	Encrypt bool
}

// Validate checks the policy for values that cannot be honored.
//
// Validate 检查策略中无法满足的值。
//
// Returns:
//   - error: An error wrapping errors.ErrInvalidConfig, or ErrEncryptionUnsupported
func (c Config) Validate() error {
	if c.Encrypt {
		return errors.ErrEncryptionUnsupported
	}
	if c.TTL < 0 {
		return fmt.Errorf("%w: ttl must be non-negative", errors.ErrInvalidConfig)
	}
	if c.MaxAge < 0 {
		return fmt.Errorf("%w: max age must be non-negative", errors.ErrInvalidConfig)
	}
	if c.MaxSize < 0 {
		return fmt.Errorf("%w: max size must be non-negative", errors.ErrInvalidConfig)
	}
	if c.MaxEntries < 0 {
		return fmt.Errorf("%w: max entries must be non-negative", errors.ErrInvalidConfig)
	}
	return nil
}

// WithTTL returns a copy of the config with TTL set.
//
// WithTTL 返回设置了TTL的配置副本。
func (c Config) WithTTL(ttl time.Duration) Config {
	c.TTL = ttl
	return c
}

// WithMaxAge returns a copy of the config with MaxAge set.
//
// WithMaxAge 返回设置了MaxAge的配置副本。
func (c Config) WithMaxAge(maxAge time.Duration) Config {
	c.MaxAge = maxAge
	return c
}

// WithValidator returns a copy of the config with the validator replaced.
//
// WithValidator 返回替换了验证器的配置副本。
func (c Config) WithValidator(v Validator) Config {
	c.Validator = v
	return c
}

// WithCompression returns a copy of the config with compression toggled.
//
// WithCompression 返回切换了压缩选项的配置副本。
func (c Config) WithCompression(enable bool) Config {
	c.Compress = enable
	return c
}

// WithLimits returns a copy of the config with namespace limits set.
//
// WithLimits 返回设置了命名空间上限的配置副本。
func (c Config) WithLimits(maxEntries int, maxSize int64) Config {
	c.MaxEntries = maxEntries
	c.MaxSize = maxSize
	return c
}
