package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cacheerrors "github.com/AjayAntoIsDev/PrepMate/pkg/errors"
)

type recordingObserver struct {
	requests atomic.Int32
	failures atomic.Int32
	waits    atomic.Int32
}

func (o *recordingObserver) AIRequest(_ time.Duration, err error) {
	o.requests.Add(1)
	if err != nil {
		o.failures.Add(1)
	}
}

func (o *recordingObserver) RateLimitWait() { o.waits.Add(1) }

func completionServer(t *testing.T, content string) (*httptest.Server, *Request) {
	t.Helper()
	var got Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		if content == "" {
			_, _ = w.Write([]byte(`{"id":"x","choices":[]}`))
			return
		}
		resp := map[string]any{
			"id": "x",
			"choices": []map[string]any{{
				"index":   0,
				"message": map[string]string{"role": "assistant", "content": content},
			}},
			"usage": map[string]int{"total_tokens": 12},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv, &got
}

func TestClientComplete(t *testing.T) {
	srv, got := completionServer(t, "hello")
	obs := &recordingObserver{}
	c := NewClient(srv.URL+"/", "test-key", WithModel("qwen-3-32b"), WithObserver(obs))

	text, err := c.Complete(context.Background(), Request{
		Messages:    []Message{{Role: "user", Content: "hi"}},
		Temperature: Float(0.5),
	})
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
	assert.Equal(t, "qwen-3-32b", got.Model)
	require.NotNil(t, got.Temperature)
	assert.Equal(t, 0.5, *got.Temperature)
	assert.Equal(t, int32(1), obs.requests.Load())
	assert.Equal(t, int32(0), obs.failures.Load())
}

func TestClientNoChoices(t *testing.T) {
	srv, _ := completionServer(t, "")
	c := NewClient(srv.URL, "test-key")

	_, err := c.Complete(context.Background(), Request{Messages: []Message{{Role: "user", Content: "hi"}}})
	assert.True(t, errors.Is(err, cacheerrors.ErrNoResponse))
}

func TestClientAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()
	obs := &recordingObserver{}
	c := NewClient(srv.URL, "test-key", WithObserver(obs))

	_, err := c.Complete(context.Background(), Request{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API error: 429 - quota exceeded")
	assert.Equal(t, int32(1), obs.failures.Load())
}

func TestClientRateLimit(t *testing.T) {
	srv, _ := completionServer(t, "ok")
	obs := &recordingObserver{}
	c := NewClient(srv.URL, "test-key", WithRateLimit(20, 1), WithObserver(obs))

	for i := 0; i < 3; i++ {
		_, err := c.Complete(context.Background(), Request{})
		require.NoError(t, err)
	}
	assert.GreaterOrEqual(t, obs.waits.Load(), int32(1))
}

func TestClientRateLimitHonoursContext(t *testing.T) {
	srv, _ := completionServer(t, "ok")
	c := NewClient(srv.URL, "test-key", WithRateLimit(0.001, 1))

	_, err := c.Complete(context.Background(), Request{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = c.Complete(ctx, Request{})
	assert.Error(t, err)
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient("", "")
	assert.Equal(t, DefaultModel, c.Model())
	assert.Equal(t, DefaultBaseURL, c.baseURL)
	assert.Nil(t, c.limiter)
}
