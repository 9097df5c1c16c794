// Package utils 提供内部使用的通用工具函数
// 这些函数无业务含义，可被任何内部模块安全使用
package utils

import (
	"bytes"
	"encoding/json"
	"strconv"
	"unicode/utf16"
)

// RollingHash32 计算字符串的31乘法滚动哈希
// 按UTF-16码元迭代，每步在int32上溢出回绕
func RollingHash32(s string) int32 {
	var h int32
	for _, unit := range utf16.Encode([]rune(s)) {
		h = h*31 + int32(unit)
	}
	return h
}

// ShortKey 返回滚动哈希绝对值的36进制表示
// 绝对值在int64中计算，避免math.MinInt32取反溢出
// 非加密哈希，不同输入可能得到相同结果
func ShortKey(s string) string {
	h := int64(RollingHash32(s))
	if h < 0 {
		h = -h
	}
	return strconv.FormatInt(h, 36)
}

// CanonicalJSON 将值编码为紧凑JSON，不转义HTML字符
// 字符串原样返回，与其他语言的JSON.stringify输出保持一致
// 以下情况与JSON.stringify不同，同一输入可能得到与移动端不同的键：
// map按键排序（JSON.stringify保持插入顺序），U+2028和U+2029被转义为\u2028、\u2029
func CanonicalJSON(v any) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
