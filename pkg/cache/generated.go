package cache

import (
	"fmt"
	"strings"
)

// Namespaces holding model-generated content, cached under PresetAIGeneratedContent.
//
// 存放模型生成内容的命名空间，使用PresetAIGeneratedContent缓存。
const (
	NamespaceAINotes   = "ai_notes"
	NamespaceAIQuizzes = "ai_quizzes"
)

// GeneratedKey joins parts with "_", lowercases the result and replaces every
// character outside [a-z0-9_] with "_".
// Different inputs can normalise to the same key, e.g. "Class 11" and "class_11".
//
// GeneratedKey 用"_"连接各部分，转为小写，并将[a-z0-9_]以外的字符替换为"_"。
// 不同输入可能规范化为同一个键，例如"Class 11"和"class_11"。
//
// Parameters:
//   - parts: Key components such as exam, subject, topic, difficulty and count
//
// Returns:
//   - string: The normalised key
func GeneratedKey(parts ...any) string {
	strs := make([]string, len(parts))
	for i, p := range parts {
		strs[i] = fmt.Sprint(p)
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		}
		return '_'
	}, strings.Join(strs, "_"))
}
