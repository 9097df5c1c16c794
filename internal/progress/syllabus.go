package progress

import (
	_ "embed"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed syllabus.yaml
var defaultSyllabus []byte

// Topics 按科目分组的主题
type Topics map[string][]string

// Count 返回主题总数
func (t Topics) Count() int {
	n := 0
	for _, topics := range t {
		n += len(topics)
	}
	return n
}

// Contains 判断科目下是否有该主题
func (t Topics) Contains(subject, topic string) bool {
	for _, v := range t[subject] {
		if v == topic {
			return true
		}
	}
	return false
}

// Exam 单个考试的大纲
type Exam struct {
	Pattern  string `yaml:"pattern" json:"pattern"`
	Subjects Topics `yaml:"subjects" json:"subjects"`
}

// Syllabus 考试名到大纲的映射
type Syllabus map[string]Exam

// LoadSyllabus 从YAML读取大纲
func LoadSyllabus(r io.Reader) (Syllabus, error) {
	var s Syllabus
	if err := yaml.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to decode syllabus: %w", err)
	}
	for name, exam := range s {
		if len(exam.Subjects) == 0 {
			return nil, fmt.Errorf("exam %q has no subjects", name)
		}
	}
	return s, nil
}

// DefaultSyllabus 返回内置的JEE/NEET大纲
func DefaultSyllabus() Syllabus {
	var s Syllabus
	if err := yaml.Unmarshal(defaultSyllabus, &s); err != nil {
		panic(fmt.Sprintf("progress: invalid built-in syllabus: %v", err))
	}
	return s
}

// Exams 返回排序后的考试名
func (s Syllabus) Exams() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Remaining 返回exam中尚未完成的主题，没有剩余主题的科目会被省略
func (s Syllabus) Remaining(exam string, completed Topics) (Topics, error) {
	e, ok := s[exam]
	if !ok {
		return nil, fmt.Errorf("unknown exam %q", exam)
	}
	remaining := make(Topics)
	for subject, topics := range e.Subjects {
		for _, topic := range topics {
			if !completed.Contains(subject, topic) {
				remaining[subject] = append(remaining[subject], topic)
			}
		}
	}
	return remaining, nil
}
