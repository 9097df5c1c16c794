// Package codec provides interfaces and implementations for data serialization
// and deserialization used by the cache for storing and retrieving entries.
// It offers plain JSON encoding and zstd-compressed JSON encoding.
//
// Package codec 提供用于缓存存储和检索条目的数据序列化和反序列化接口及实现。
// 它提供纯JSON编码和zstd压缩的JSON编码。
package codec

import (
	"encoding/json"
)

// Codec defines the interface for encoding and decoding cache values.
// Implementations of this interface can be used to customize how entries
// are serialized and deserialized in the key-value store.
//
// Codec 定义了编码和解码缓存值的接口。
// 此接口的实现可用于自定义如何在键值存储中序列化和反序列化条目。
type Codec interface {
	// Marshal serializes a value into bytes.
	//
	// Marshal 将值序列化为字节。
	//
	// Parameters:
	//   - value: The value to serialize
	//
	// Returns:
	//   - []byte: The serialized bytes
	//   - error: An error if serialization fails
	Marshal(value any) ([]byte, error)

	// Unmarshal deserializes bytes into a value.
	// The value parameter should be a pointer to the target type.
	//
	// Unmarshal 将字节反序列化为值。
	// value参数应该是目标类型的指针。
	Unmarshal(data []byte, value any) error

	// Name returns the name of this codec.
	//
	// Name 返回此编解码器的名称。
	Name() string
}

// JSONCodec implements Codec using compact JSON serialization.
// Entries and stats are stored in this form unless compression is enabled.
//
// JSONCodec 使用紧凑JSON序列化实现Codec。
// 未启用压缩时，条目和统计信息以此形式存储。
type JSONCodec struct{}

// Marshal serializes a value into JSON bytes.
//
// Marshal 将值序列化为JSON字节。
func (c *JSONCodec) Marshal(value any) ([]byte, error) {
	return json.Marshal(value)
}

// Unmarshal deserializes JSON bytes into a value.
//
// Unmarshal 将JSON字节反序列化为值。
func (c *JSONCodec) Unmarshal(data []byte, value any) error {
	return json.Unmarshal(data, value)
}

// Name returns "json".
//
// Name 返回"json"。
func (c *JSONCodec) Name() string {
	return "json"
}

// NewJSONCodec creates a new JSONCodec.
//
// NewJSONCodec 创建一个新的JSONCodec。
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}
