// Package ai 提供聊天补全客户端，以及笔记、测验和每日计划的生成器
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/AjayAntoIsDev/PrepMate/internal/tracing"
	cacheerrors "github.com/AjayAntoIsDev/PrepMate/pkg/errors"
)

const (
	// DefaultBaseURL 默认的OpenAI兼容接口地址
	DefaultBaseURL = "https://api.cerebras.ai/v1"
	// DefaultModel 默认模型
	DefaultModel = "llama3.1-8b"

	defaultTimeout = 60 * time.Second
	// 错误响应体最多读取的字节数
	maxErrorBody = 4 << 10
)

// Message 对话消息
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request 聊天补全请求
type Request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature *float64  `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_completion_tokens,omitempty"`
	TopP        *float64  `json:"top_p,omitempty"`
	Stop        string    `json:"stop,omitempty"`
	Stream      bool      `json:"stream"`
	User        string    `json:"user,omitempty"`
}

// Response 聊天补全响应
type Response struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// Observer 接收请求指标
type Observer interface {
	AIRequest(elapsed time.Duration, err error)
	RateLimitWait()
}

type noopObserver struct{}

func (noopObserver) AIRequest(time.Duration, error) {}
func (noopObserver) RateLimitWait()                 {}

// Completer 返回助手回复文本
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Client OpenAI兼容的聊天补全客户端
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	limiter    *rate.Limiter
	observer   Observer
	logger     *slog.Logger
}

// ClientOption 客户端选项
type ClientOption func(*Client)

// WithModel 设置默认模型
func WithModel(model string) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithHTTPClient 设置HTTP客户端
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithRateLimit 限制每秒请求数，rps<=0表示不限流
func WithRateLimit(rps float64, burst int) ClientOption {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithObserver 设置指标观察者
func WithObserver(o Observer) ClientOption {
	return func(c *Client) {
		if o != nil {
			c.observer = o
		}
	}
}

// WithLogger 设置日志
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient 创建客户端
func NewClient(baseURL, apiKey string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      DefaultModel,
		httpClient: &http.Client{Timeout: defaultTimeout},
		observer:   noopObserver{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "ai")
	return c
}

// Model 返回默认模型
func (c *Client) Model() string {
	return c.model
}

// Send 发送聊天补全请求并返回完整响应
func (c *Client) Send(ctx context.Context, req Request) (*Response, error) {
	if req.Model == "" {
		req.Model = c.model
	}

	ctx, span := tracing.StartSpan(ctx, "ai.chat_completion",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("ai.model", req.Model)),
	)
	defer span.End()

	if err := c.wait(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "rate limit wait")
		return nil, err
	}

	start := time.Now()
	resp, err := c.do(ctx, req)
	c.observer.AIRequest(time.Since(start), err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Warn("Chat completion failed", "model", req.Model, "error", err)
		return nil, fmt.Errorf("failed to send prompt: %w", err)
	}
	span.SetAttributes(attribute.Int("ai.total_tokens", resp.Usage.TotalTokens))
	return resp, nil
}

// Complete 返回第一个候选回复的文本
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	resp, err := c.Send(ctx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", cacheerrors.ErrNoResponse
	}
	return resp.Choices[0].Message.Content, nil
}

// wait 等待限流器放行
func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil || c.limiter.Allow() {
		return nil
	}
	c.observer.RateLimitWait()
	return c.limiter.Wait(ctx)
}

func (c *Client) do(ctx context.Context, req Request) (*Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		text, _ := io.ReadAll(io.LimitReader(httpResp.Body, maxErrorBody))
		return nil, fmt.Errorf("API error: %d - %s", httpResp.StatusCode, strings.TrimSpace(string(text)))
	}

	var resp Response
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &resp, nil
}

// Float 返回浮点数指针，用于可选参数
func Float(v float64) *float64 {
	return &v
}
