package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/AjayAntoIsDev/PrepMate/internal/progress"
	cacheerrors "github.com/AjayAntoIsDev/PrepMate/pkg/errors"
	"github.com/AjayAntoIsDev/PrepMate/pkg/loader"
)

const (
	// DefaultDifficulty 默认测验难度
	DefaultDifficulty = "medium"
	// DefaultQuestionCount 默认题目数量
	DefaultQuestionCount = 5
	// 每题预计用时（分钟）
	minutesPerQuestion = 1.5
	// 每题选项数
	optionCount = 4
)

var jsonObject = regexp.MustCompile(`\{[\s\S]*\}`)

// QuizQuestion 单道选择题，Yap为解析
type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Yap           string   `json:"yap"`
}

// Quiz 测验
type Quiz struct {
	Questions      []QuizQuestion `json:"questions"`
	TotalQuestions int            `json:"totalQuestions"`
	EstimatedTime  int            `json:"estimatedTime"`
}

// Plan 当天的学习计划
type Plan struct {
	Subjects    progress.Topics `json:"subjects"`
	TotalTopics int             `json:"totalTopics"`
	Reasoning   string          `json:"reasoning"`
}

// NotesRequest 笔记生成参数
type NotesRequest struct {
	Subject string
	Topic   string
	Exam    string
}

// QuizRequest 测验生成参数
type QuizRequest struct {
	Subject    string
	Topic      string
	Exam       string
	Difficulty string
	Count      int
}

// PlanRequest 计划生成参数
type PlanRequest struct {
	Exam      string
	DaysLeft  int
	Completed progress.Topics
}

// Models 各类内容使用的模型，空值使用客户端默认模型
type Models struct {
	Notes string
	Quiz  string
	Plan  string
}

// Generator 构建提示词并解析模型输出
type Generator struct {
	client   Completer
	syllabus progress.Syllabus
	models   Models
}

// NewGenerator 创建生成器
func NewGenerator(client Completer, syllabus progress.Syllabus, models Models) *Generator {
	return &Generator{client: client, syllabus: syllabus, models: models}
}

// Notes 生成Markdown笔记
func (g *Generator) Notes(ctx context.Context, req NotesRequest) (string, error) {
	text, err := g.client.Complete(ctx, Request{
		Model: g.models.Notes,
		Messages: []Message{
			{Role: "system", Content: notesSystemPrompt},
			{Role: "user", Content: fmt.Sprintf(notesUserPrompt, req.Subject, req.Topic, req.Exam)},
		},
		Temperature: Float(0.7),
		MaxTokens:   6000,
	})
	if err != nil {
		return "", err
	}
	notes := strings.TrimSpace(text)
	if notes == "" {
		return "", cacheerrors.ErrNoResponse
	}
	return notes, nil
}

// Quiz 生成测验
func (g *Generator) Quiz(ctx context.Context, req QuizRequest) (Quiz, error) {
	if req.Difficulty == "" {
		req.Difficulty = DefaultDifficulty
	}
	if req.Count <= 0 {
		req.Count = DefaultQuestionCount
	}

	text, err := g.client.Complete(ctx, Request{
		Model: g.models.Quiz,
		Messages: []Message{
			{Role: "system", Content: quizSystemPrompt},
			{Role: "user", Content: fmt.Sprintf(quizUserPrompt, req.Subject, req.Topic, req.Exam, req.Difficulty, req.Count)},
		},
		Temperature: Float(0.8),
		MaxTokens:   4000,
	})
	if err != nil {
		return Quiz{}, err
	}
	return ParseQuiz(text)
}

// ParseQuiz 解析模型返回的测验JSON，可带```代码块
func ParseQuiz(text string) (Quiz, error) {
	var parsed struct {
		Questions []struct {
			Question      string   `json:"question"`
			Options       []string `json:"options"`
			CorrectAnswer int      `json:"correctAnswer"`
			Explanation   string   `json:"explanation"`
		} `json:"questions"`
	}
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &parsed); err != nil {
		return Quiz{}, fmt.Errorf("%w: returned invalid JSON: %v", cacheerrors.ErrInvalidResponse, err)
	}
	if parsed.Questions == nil {
		return Quiz{}, fmt.Errorf("%w: missing questions array", cacheerrors.ErrInvalidResponse)
	}

	quiz := Quiz{
		Questions:      make([]QuizQuestion, 0, len(parsed.Questions)),
		TotalQuestions: len(parsed.Questions),
		EstimatedTime:  int(math.Ceil(float64(len(parsed.Questions)) * minutesPerQuestion)),
	}
	for i, q := range parsed.Questions {
		if q.Question == "" || len(q.Options) != optionCount {
			return Quiz{}, fmt.Errorf("%w: invalid question format at index %d", cacheerrors.ErrInvalidResponse, i)
		}
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= optionCount {
			return Quiz{}, fmt.Errorf("%w: invalid correct answer index for question at index %d", cacheerrors.ErrInvalidResponse, i)
		}
		yap := q.Explanation
		if yap == "" {
			yap = "No explanation provided"
		}
		quiz.Questions = append(quiz.Questions, QuizQuestion{
			Question:      q.Question,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Yap:           yap,
		})
	}
	return quiz, nil
}

// stripCodeFence 去掉```json或```包裹
func stripCodeFence(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// TodaysPlan 根据剩余主题生成当天计划，大纲全部完成时不调用模型
func (g *Generator) TodaysPlan(ctx context.Context, req PlanRequest) (Plan, error) {
	if req.DaysLeft <= 0 {
		return Plan{}, fmt.Errorf("days till exam must be greater than 0, got %d", req.DaysLeft)
	}
	remaining, err := g.syllabus.Remaining(req.Exam, req.Completed)
	if err != nil {
		return Plan{}, err
	}
	if len(remaining) == 0 {
		return Plan{Subjects: progress.Topics{}, Reasoning: "All subjects completed"}, nil
	}

	topics, err := json.MarshalIndent(remaining, "", "  ")
	if err != nil {
		return Plan{}, err
	}
	prompt := fmt.Sprintf(planPrompt, req.Exam, req.DaysLeft, g.syllabus[req.Exam].Pattern, remaining.Count(), topics)

	text, err := g.client.Complete(ctx, Request{
		Model:       g.models.Plan,
		Messages:    []Message{{Role: "user", Content: prompt}},
		Temperature: Float(0.3),
		MaxTokens:   800,
	})
	if err != nil {
		return Plan{}, fmt.Errorf("failed to generate plan: %w", err)
	}
	plan, err := ParsePlan(text)
	if err != nil {
		return Plan{}, fmt.Errorf("failed to generate plan: %w", err)
	}
	return plan, nil
}

// ParsePlan 从模型输出中提取计划JSON
func ParsePlan(text string) (Plan, error) {
	match := jsonObject.FindString(text)
	if match == "" {
		return Plan{}, fmt.Errorf("%w: could not find a JSON object", cacheerrors.ErrInvalidResponse)
	}
	var parsed struct {
		Subjects    progress.Topics `json:"subjects"`
		TotalTopics int             `json:"totalTopics"`
		Reasoning   *string         `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(match), &parsed); err != nil {
		return Plan{}, fmt.Errorf("%w: %v", cacheerrors.ErrInvalidResponse, err)
	}
	if parsed.Subjects == nil || parsed.Reasoning == nil {
		return Plan{}, fmt.Errorf("%w: missing subjects or reasoning", cacheerrors.ErrInvalidResponse)
	}
	return Plan{Subjects: parsed.Subjects, TotalTopics: parsed.TotalTopics, Reasoning: *parsed.Reasoning}, nil
}

// NotesFetcher 返回缓存未命中时生成笔记的Fetcher
func (g *Generator) NotesFetcher(req NotesRequest) loader.Fetcher[string] {
	return loader.FetcherFunc[string](func(ctx context.Context) (string, error) {
		return g.Notes(ctx, req)
	})
}

// QuizFetcher 返回缓存未命中时生成测验的Fetcher
func (g *Generator) QuizFetcher(req QuizRequest) loader.Fetcher[Quiz] {
	return loader.FetcherFunc[Quiz](func(ctx context.Context) (Quiz, error) {
		return g.Quiz(ctx, req)
	})
}

// PlanFetcher 返回缓存未命中时生成计划的Fetcher
func (g *Generator) PlanFetcher(req PlanRequest) loader.Fetcher[Plan] {
	return loader.FetcherFunc[Plan](func(ctx context.Context) (Plan, error) {
		return g.TodaysPlan(ctx, req)
	})
}
