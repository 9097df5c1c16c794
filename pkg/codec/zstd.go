package codec

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// ZstdPrefix marks a stored string as base64-encoded zstd data.
// Readers detect it regardless of the policy used at write time.
//
// ZstdPrefix 标记存储的字符串为base64编码的zstd数据。
// 读取方无论写入时使用何种策略都会检测它。
const ZstdPrefix = "zstd:"

// ZstdCodec wraps another codec and compresses its output with zstd.
// The encoder and decoder are safe for concurrent use.
//
// ZstdCodec 包装另一个编解码器并使用zstd压缩其输出。
// 编码器和解码器可以安全地并发使用。
type ZstdCodec struct {
	inner   Codec
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewZstdCodec creates a new ZstdCodec around inner.
// A nil inner codec defaults to compact JSON.
//
// NewZstdCodec 创建一个包装inner的ZstdCodec。
// inner为nil时默认使用紧凑JSON。
//
// Parameters:
//   - inner: The codec whose output is compressed
//
// Returns:
//   - *ZstdCodec: A new zstd codec instance
//   - error: An error if the zstd encoder or decoder cannot be created
func NewZstdCodec(inner Codec) (*ZstdCodec, error) {
	if inner == nil {
		inner = NewJSONCodec()
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		return nil, fmt.Errorf("zstd decoder: %w", err)
	}
	return &ZstdCodec{inner: inner, encoder: enc, decoder: dec}, nil
}

// Marshal serializes value with the inner codec and compresses the result.
//
// Marshal 使用内部编解码器序列化值并压缩结果。
func (c *ZstdCodec) Marshal(value any) ([]byte, error) {
	raw, err := c.inner.Marshal(value)
	if err != nil {
		return nil, err
	}
	return c.encoder.EncodeAll(raw, make([]byte, 0, len(raw)/2)), nil
}

// Unmarshal decompresses data and deserializes it with the inner codec.
//
// Unmarshal 解压数据并使用内部编解码器反序列化。
func (c *ZstdCodec) Unmarshal(data []byte, value any) error {
	raw, err := c.decoder.DecodeAll(data, nil)
	if err != nil {
		return fmt.Errorf("zstd decode: %w", err)
	}
	return c.inner.Unmarshal(raw, value)
}

// Name returns "zstd".
//
// Name 返回"zstd"。
func (c *ZstdCodec) Name() string {
	return "zstd"
}

// EncodeToString compresses value and renders it as a marked base64 string
// suitable for a string-only key-value store.
//
// EncodeToString 压缩值并将其呈现为带标记的base64字符串，
// 适用于仅支持字符串的键值存储。
func (c *ZstdCodec) EncodeToString(value any) (string, error) {
	b, err := c.Marshal(value)
	if err != nil {
		return "", err
	}
	return ZstdPrefix + base64.StdEncoding.EncodeToString(b), nil
}

// DecodeString reverses EncodeToString.
// The input must carry ZstdPrefix.
//
// DecodeString 是EncodeToString的逆操作。
// 输入必须带有ZstdPrefix。
func (c *ZstdCodec) DecodeString(s string, value any) error {
	if !IsCompressed(s) {
		return fmt.Errorf("zstd: missing %q marker", ZstdPrefix)
	}
	b, err := base64.StdEncoding.DecodeString(s[len(ZstdPrefix):])
	if err != nil {
		return fmt.Errorf("zstd base64: %w", err)
	}
	return c.Unmarshal(b, value)
}

// Close releases the encoder and decoder resources.
//
// Close 释放编码器和解码器资源。
func (c *ZstdCodec) Close() {
	c.encoder.Close()
	c.decoder.Close()
}

// IsCompressed reports whether a stored string was written by EncodeToString.
//
// IsCompressed 报告存储的字符串是否由EncodeToString写入。
func IsCompressed(s string) bool {
	return strings.HasPrefix(s, ZstdPrefix)
}
