package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorCounters(t *testing.T) {
	c := NewCollector("")

	c.Hit("notes")
	c.Hit("notes")
	c.Miss("notes", "expired")
	c.Stored("quizzes", 120)
	c.SetFailed("quizzes")
	c.Deleted("quizzes", 3)
	c.Evicted("study_plans", 2)
	c.Cleaned(4)
	c.StoreSize(2048)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.hits.WithLabelValues("notes")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.misses.WithLabelValues("notes", "expired")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.sets.WithLabelValues("quizzes")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.setFailures.WithLabelValues("quizzes")))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.deletes.WithLabelValues("quizzes")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.evictions.WithLabelValues("study_plans")))
	assert.Equal(t, 4.0, testutil.ToFloat64(c.cleaned))
	assert.Equal(t, 2048.0, testutil.ToFloat64(c.storedBytes))
}

func TestCollectorHistograms(t *testing.T) {
	c := NewCollector("test")

	c.Fetched("notes", 300*time.Millisecond, nil)
	c.Fetched("notes", time.Second, errors.New("boom"))
	c.AIRequest(2*time.Second, nil)
	c.RateLimitWait()
	c.HTTPRequest(http.MethodGet, "/notes/:subject/:topic", http.StatusOK, 10*time.Millisecond)

	assert.Equal(t, 2, testutil.CollectAndCount(c.fetchDuration))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.aiRequests.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.rateLimitWaits))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.httpRequests.WithLabelValues("GET", "/notes/:subject/:topic", "200")))
}

func TestHTTPStatusLabelIsNumeric(t *testing.T) {
	c := NewCollector("test")
	c.HTTPRequest(http.MethodPost, "/plan", http.StatusBadGateway, time.Millisecond)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `test_http_requests_total{method="POST",route="/plan",status="502"} 1`)
	assert.NotContains(t, rec.Body.String(), `status="Bad Gateway"`)
}

func TestCollectorHandler(t *testing.T) {
	c := NewCollector("")
	c.Hit("quizzes")

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `prepmate_cache_hits_total{namespace="quizzes"} 1`))
	assert.Contains(t, body, "go_goroutines")
}
