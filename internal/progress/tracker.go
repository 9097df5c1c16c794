// Package progress 记录学习进度，并生成学习计划缓存使用的进度指纹
package progress

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/AjayAntoIsDev/PrepMate/internal/utils"
	"github.com/AjayAntoIsDev/PrepMate/pkg/kvstore"
)

// Activity 完成类型
type Activity string

const (
	ActivityGeneral Activity = "general"
	ActivityQuiz    Activity = "quiz"
	ActivityNotes   Activity = "notes"
)

// 存储键
const (
	keyCompleted      = "topics.completed"
	keyCompletedQuiz  = "topics.completedQuiz"
	keyCompletedNotes = "topics.completedNotes"
	keyStudyStreak    = "topics.studyStreak"
)

// ParseActivity 解析活动类型，空字符串视为general
func ParseActivity(s string) (Activity, error) {
	switch Activity(s) {
	case "", ActivityGeneral:
		return ActivityGeneral, nil
	case ActivityQuiz, ActivityNotes:
		return Activity(s), nil
	}
	return "", fmt.Errorf("unknown activity %q", s)
}

func (a Activity) storeKey() string {
	switch a {
	case ActivityQuiz:
		return keyCompletedQuiz
	case ActivityNotes:
		return keyCompletedNotes
	default:
		return keyCompleted
	}
}

// Tracker 基于键值存储的进度记录
type Tracker struct {
	mu       sync.Mutex
	store    kvstore.Store
	syllabus Syllabus
}

// NewTracker 创建Tracker
func NewTracker(store kvstore.Store, syllabus Syllabus) *Tracker {
	return &Tracker{store: store, syllabus: syllabus}
}

// Completed 返回某活动已完成的主题，存储内容损坏时返回空集合
func (t *Tracker) Completed(a Activity) Topics {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.load(a)
}

func (t *Tracker) load(a Activity) Topics {
	completed := make(Topics)
	raw, ok := t.store.GetString(a.storeKey())
	if !ok {
		return completed
	}
	if err := json.Unmarshal([]byte(raw), &completed); err != nil {
		return make(Topics)
	}
	return completed
}

func (t *Tracker) save(a Activity, completed Topics) error {
	data, err := json.Marshal(completed)
	if err != nil {
		return err
	}
	return t.store.SetString(a.storeKey(), string(data))
}

// MarkCompleted 标记主题已完成，重复标记不会写存储
func (t *Tracker) MarkCompleted(subject, topic string, a Activity) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	completed := t.load(a)
	if completed.Contains(subject, topic) {
		return nil
	}
	completed[subject] = append(completed[subject], topic)
	return t.save(a, completed)
}

// MarkNotCompleted 取消完成标记，科目为空时一并删除
func (t *Tracker) MarkNotCompleted(subject, topic string, a Activity) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	completed := t.load(a)
	topics, ok := completed[subject]
	if !ok {
		return nil
	}
	kept := topics[:0]
	for _, v := range topics {
		if v != topic {
			kept = append(kept, v)
		}
	}
	if len(kept) == 0 {
		delete(completed, subject)
	} else {
		completed[subject] = kept
	}
	return t.save(a, completed)
}

// IsCompleted 判断主题是否已完成
func (t *Tracker) IsCompleted(subject, topic string, a Activity) bool {
	return t.Completed(a).Contains(subject, topic)
}

// Progress 返回exam整体进度百分比（四舍五入）
func (t *Tracker) Progress(exam string, a Activity) int {
	total := t.syllabus[exam].Subjects.Count()
	if total == 0 {
		return 0
	}
	done := t.Completed(a).Count()
	return int(math.Round(float64(done) / float64(total) * 100))
}

// SubjectTopics 返回科目下的全部主题
func (t *Tracker) SubjectTopics(exam, subject string) []string {
	return t.syllabus[exam].Subjects[subject]
}

// Syllabus 返回大纲
func (t *Tracker) Syllabus() Syllabus {
	return t.syllabus
}

// StudyStreak 返回连续学习天数
func (t *Tracker) StudyStreak() int {
	n, _ := t.store.GetNumber(keyStudyStreak)
	return int(n)
}

// SetStudyStreak 设置连续学习天数
func (t *Tracker) SetStudyStreak(days int) error {
	if days < 0 {
		return fmt.Errorf("study streak must not be negative: %d", days)
	}
	return t.store.SetNumber(keyStudyStreak, float64(days))
}

// Fingerprint 返回已完成主题的短哈希，进度变化时随之变化
func (t *Tracker) Fingerprint(a Activity) string {
	return Fingerprint(t.Completed(a))
}

// Fingerprint 对主题集合做规范化后取短哈希，主题顺序不影响结果
func Fingerprint(completed Topics) string {
	sorted := make(Topics, len(completed))
	for subject, topics := range completed {
		cp := append([]string(nil), topics...)
		sort.Strings(cp)
		sorted[subject] = cp
	}
	s, err := utils.CanonicalJSON(sorted)
	if err != nil {
		return ""
	}
	return utils.ShortKey(s)
}
