package cache

import (
	"context"
	"fmt"

	"github.com/AjayAntoIsDev/PrepMate/pkg/loader"
)

// Namespaces used by the typed facades.
//
// 类型化门面使用的命名空间。
const (
	NamespaceStudyPlans = "study_plans"
	NamespaceNotes      = "notes"
	NamespaceQuizzes    = "quizzes"
)

// planKey fixes the JSON field order hashed into study-plan keys.
type planKey struct {
	ExamType string `json:"examType"`
	DaysLeft int    `json:"daysLeft"`
}

// StudyPlanCache caches today's study plan per exam and days left.
// Keys are "<exam>-<days>-<hash>" where hash is GenerateCacheKey of
// {examType, daysLeft}. A plan is invalidated as soon as the caller's
// progress hash changes, even before its TTL runs out.
//
// StudyPlanCache 按考试和剩余天数缓存当天的学习计划。
// 键为"<exam>-<days>-<hash>"，其中hash是{examType, daysLeft}的GenerateCacheKey。
// 一旦调用方的进度哈希改变，计划就会失效，即使TTL尚未到期。
type StudyPlanCache[T any] struct {
	manager *Manager
	catalog *Catalog
}

// NewStudyPlanCache creates a StudyPlanCache.
//
// NewStudyPlanCache 创建一个StudyPlanCache。
func NewStudyPlanCache[T any](m *Manager, c *Catalog) *StudyPlanCache[T] {
	return &StudyPlanCache[T]{manager: m, catalog: c}
}

// Key returns the cache key for examType and daysLeft.
//
// Key 返回examType和daysLeft对应的缓存键。
func (s *StudyPlanCache[T]) Key(examType string, daysLeft int) string {
	hash := s.manager.GenerateCacheKey(planKey{ExamType: examType, DaysLeft: daysLeft})
	return fmt.Sprintf("%s-%d-%s", examType, daysLeft, hash)
}

// GetTodaysPlan returns the cached plan or fetches a new one.
//
// GetTodaysPlan 返回缓存的计划或获取新计划。
//
// Parameters:
//   - ctx: Context passed to the fetcher
//   - examType: The exam, e.g. "JEE"
//   - daysLeft: Days until the exam
//   - progressHash: Fingerprint of the learner's progress
//   - fetcher: Generates the plan on a miss
//
// Returns:
//   - T: The plan
//   - error: The fetcher's error on a failed miss
func (s *StudyPlanCache[T]) GetTodaysPlan(ctx context.Context, examType string, daysLeft int, progressHash string, fetcher loader.Fetcher[T]) (T, error) {
	fields := map[string]any{
		"examType":     examType,
		"daysLeft":     daysLeft,
		"progressHash": progressHash,
	}
	return GetOrSet(ctx, s.manager, NamespaceStudyPlans, s.Key(examType, daysLeft), fetcher,
		s.catalog.MustPreset(PresetStudyPlans), Context(fields), Metadata(fields))
}

// NotesCache caches notes per subject and topic, keyed "<subject>-<topic>".
// Entries carry a content version; asking for a different version refetches.
//
// NotesCache 按科目和主题缓存笔记，键为"<subject>-<topic>"。
// 条目带有内容版本；请求不同版本时会重新获取。
type NotesCache[T any] struct {
	manager *Manager
	catalog *Catalog
}

// NewNotesCache creates a NotesCache.
//
// NewNotesCache 创建一个NotesCache。
func NewNotesCache[T any](m *Manager, c *Catalog) *NotesCache[T] {
	return &NotesCache[T]{manager: m, catalog: c}
}

// GetNotes returns cached notes or fetches them.
// An empty version accepts whatever version is cached.
//
// GetNotes 返回缓存的笔记或获取笔记。
// 空版本接受任何已缓存的版本。
func (n *NotesCache[T]) GetNotes(ctx context.Context, subject, topic, version string, fetcher loader.Fetcher[T]) (T, error) {
	key := subject + "-" + topic
	meta := Metadata{"subject": subject, "topic": topic, "version": version}
	return GetOrSet(ctx, n.manager, NamespaceNotes, key, fetcher,
		n.catalog.MustPreset(PresetNotes), Context{"version": version}, meta)
}

// QuizCache caches quizzes keyed "<subject>-<topic>-<difficulty>".
// It supplies no validation context.
//
// QuizCache 缓存测验，键为"<subject>-<topic>-<difficulty>"。
// 它不提供验证上下文。
type QuizCache[T any] struct {
	manager *Manager
	catalog *Catalog
}

// NewQuizCache creates a QuizCache.
//
// NewQuizCache 创建一个QuizCache。
func NewQuizCache[T any](m *Manager, c *Catalog) *QuizCache[T] {
	return &QuizCache[T]{manager: m, catalog: c}
}

// GetQuiz returns a cached quiz or fetches one.
//
// GetQuiz 返回缓存的测验或获取测验。
func (q *QuizCache[T]) GetQuiz(ctx context.Context, subject, topic, difficulty string, fetcher loader.Fetcher[T]) (T, error) {
	key := fmt.Sprintf("%s-%s-%s", subject, topic, difficulty)
	meta := Metadata{"subject": subject, "topic": topic, "difficulty": difficulty}
	return GetOrSet(ctx, q.manager, NamespaceQuizzes, key, fetcher,
		q.catalog.MustPreset(PresetQuizzes), nil, meta)
}
