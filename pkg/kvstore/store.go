// Package kvstore provides the synchronous string-keyed stores the cache is layered on.
// Values are strings, numbers or booleans; a key holds exactly one of them.
//
// Package kvstore 提供缓存所依赖的同步字符串键存储。
// 值可以是字符串、数字或布尔值；每个键只保存其中一种。
package kvstore

// Store is the key-value store contract consumed by the cache manager.
// Reads report presence with a second boolean result. Mutations return an
// error when the backing medium fails; callers decide whether to absorb it.
//
// Store 是缓存管理器使用的键值存储契约。
// 读取操作通过第二个布尔结果报告是否存在。当底层介质失败时，
// 修改操作返回错误；由调用方决定是否吸收该错误。
type Store interface {
	// GetString returns the string stored at key.
	// A key holding a number or boolean reports false.
	//
	// GetString 返回键对应的字符串。
	// 保存数字或布尔值的键返回false。
	GetString(key string) (string, bool)

	// GetBool returns the boolean stored at key.
	//
	// GetBool 返回键对应的布尔值。
	GetBool(key string) (bool, bool)

	// GetNumber returns the number stored at key.
	//
	// GetNumber 返回键对应的数字。
	GetNumber(key string) (float64, bool)

	// SetString stores a string, replacing any previous value of any type.
	//
	// SetString 存储字符串，替换之前任何类型的值。
	SetString(key, value string) error

	// SetBool stores a boolean.
	//
	// SetBool 存储布尔值。
	SetBool(key string, value bool) error

	// SetNumber stores a number.
	//
	// SetNumber 存储数字。
	SetNumber(key string, value float64) error

	// Delete removes key. Deleting a missing key is not an error.
	//
	// Delete 删除键。删除不存在的键不是错误。
	Delete(key string) error

	// Contains reports whether key holds a value.
	//
	// Contains 报告键是否有值。
	Contains(key string) bool

	// Keys returns every key in lexical order.
	//
	// Keys 按字典序返回所有键。
	Keys() []string

	// Size returns the approximate number of bytes held by the store.
	//
	// Size 返回存储占用的近似字节数。
	Size() int64

	// ClearAll removes every key.
	//
	// ClearAll 删除所有键。
	ClearAll() error
}

// Kind identifies the type of a stored value.
//
// Kind 标识存储值的类型。
type Kind string

// Value kinds.
//
// 值类型。
const (
	KindString Kind = "string"
	KindBool   Kind = "bool"
	KindNumber Kind = "number"
)

// value is a tagged union of the supported value types.
type value struct {
	Kind   Kind    `json:"kind"`
	String string  `json:"string,omitempty"`
	Bool   bool    `json:"bool,omitempty"`
	Number float64 `json:"number,omitempty"`
}

// size 估算值占用的字节数
func (v value) size() int64 {
	switch v.Kind {
	case KindString:
		return int64(len(v.String))
	case KindBool:
		return 1
	default:
		return 8
	}
}
