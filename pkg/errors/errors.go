// Package errors provides standardized error types for the study cache.
// It defines the sentinel errors returned or logged by the cache manager,
// the key-value stores, and the content generators, plus helpers for checking them.
//
// Package errors 提供学习缓存的标准化错误类型。
// 它定义了缓存管理器、键值存储和内容生成器返回或记录的哨兵错误，以及检查这些错误的辅助函数。
package errors

import (
	"errors"
	"fmt"
)

// Standard errors used across the cache.
// The cache manager never returns these to callers of its public methods;
// they are logged and forwarded to the error hook.
//
// 缓存中使用的标准错误。
// 缓存管理器从不将这些错误返回给其公共方法的调用者；它们会被记录并转发给错误钩子。
var (
	// ErrSerializationFailed is returned when a value or entry cannot be serialized.
	// 当值或条目无法序列化时返回ErrSerializationFailed。
	ErrSerializationFailed = errors.New("cache: serialization failed")

	// ErrDeserializationFailed is returned when a stored entry cannot be parsed.
	// 当存储的条目无法解析时返回ErrDeserializationFailed。
	ErrDeserializationFailed = errors.New("cache: deserialization failed")

	// ErrStoreFailed is returned when the underlying key-value store rejects an operation.
	// 当底层键值存储拒绝操作时返回ErrStoreFailed。
	ErrStoreFailed = errors.New("cache: store operation failed")

	// ErrValueTooLarge is returned when a value exceeds the namespace size limit.
	// 当值超过命名空间大小限制时返回ErrValueTooLarge。
	ErrValueTooLarge = errors.New("cache: value too large")

	// ErrEncryptionUnsupported is returned when a config asks for encryption.
	// 当配置要求加密时返回ErrEncryptionUnsupported。
	ErrEncryptionUnsupported = errors.New("cache: encryption is not supported")

	// ErrInvalidConfig is returned when a cache policy is malformed.
	// 当缓存策略格式错误时返回ErrInvalidConfig。
	ErrInvalidConfig = errors.New("cache: invalid config")

	// ErrEmptyNamespace is returned when an empty namespace is provided.
	// 当提供空命名空间时返回ErrEmptyNamespace。
	ErrEmptyNamespace = errors.New("cache: namespace is empty")

	// ErrEmptyKey is returned when an empty key is provided.
	// 当提供空键时返回ErrEmptyKey。
	ErrEmptyKey = errors.New("cache: key is empty")

	// ErrNoResponse is returned when the chat-completion API returns no content.
	// 当聊天补全API没有返回内容时返回ErrNoResponse。
	ErrNoResponse = errors.New("ai: no response from model")

	// ErrInvalidResponse is returned when generated content does not have the expected shape.
	// 当生成的内容不符合预期格式时返回ErrInvalidResponse。
	ErrInvalidResponse = errors.New("ai: invalid response format")
)

// KeyError represents an error related to a specific cache key.
// It wraps an underlying error with the key that caused the error.
//
// KeyError 表示与特定缓存键相关的错误。
// 它用导致错误的键包装底层错误。
type KeyError struct {
	Key string // The fully-qualified cache key / 完整的缓存键
	Op  string // The operation that failed / 失败的操作
	Err error  // The underlying error / 底层错误
}

// Error returns the error message.
//
// Error 返回错误消息。
func (e *KeyError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %s", e.Err, e.Key)
	}
	return fmt.Sprintf("%s %s: %s", e.Op, e.Key, e.Err)
}

// Unwrap returns the underlying error.
// This allows errors.Is and errors.As to work with wrapped errors.
//
// Unwrap 返回底层错误。
// 这允许errors.Is和errors.As与包装的错误一起工作。
func (e *KeyError) Unwrap() error {
	return e.Err
}

// NewKeyError creates a new KeyError.
//
// NewKeyError 创建一个新的KeyError。
//
// Parameters:
//   - op: The operation that failed
//   - key: The key that caused the error
//   - err: The underlying error
//
// Returns:
//   - *KeyError: A new key error instance
func NewKeyError(op, key string, err error) *KeyError {
	return &KeyError{Key: key, Op: op, Err: err}
}

// IsSerializationError returns true if the error is related to serialization.
//
// IsSerializationError 如果错误与序列化相关，则返回true。
func IsSerializationError(err error) bool {
	return errors.Is(err, ErrSerializationFailed) || errors.Is(err, ErrDeserializationFailed)
}

// IsStoreError returns true if the error came from the key-value store.
//
// IsStoreError 如果错误来自键值存储，则返回true。
func IsStoreError(err error) bool {
	return errors.Is(err, ErrStoreFailed)
}

// IsValueTooLarge returns true if the error indicates that a value is too large.
//
// IsValueTooLarge 如果错误表示值太大，则返回true。
func IsValueTooLarge(err error) bool {
	return errors.Is(err, ErrValueTooLarge)
}

// IsInvalidConfig returns true if the error indicates a malformed cache policy.
//
// IsInvalidConfig 如果错误表示缓存策略格式错误，则返回true。
func IsInvalidConfig(err error) bool {
	return errors.Is(err, ErrInvalidConfig) || errors.Is(err, ErrEncryptionUnsupported)
}

// IsGenerationError returns true if the error came from content generation.
//
// IsGenerationError 如果错误来自内容生成，则返回true。
func IsGenerationError(err error) bool {
	return errors.Is(err, ErrNoResponse) || errors.Is(err, ErrInvalidResponse)
}
