package loader

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcherFunc(t *testing.T) {
	f := FetcherFunc[string](func(context.Context) (string, error) { return "notes", nil })
	v, err := f.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "notes", v)

	v, err = Value("quiz").Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "quiz", v)
}

func TestWithTimeout(t *testing.T) {
	slow := FetcherFunc[int](func(ctx context.Context) (int, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	})

	_, err := WithTimeout[int](slow, 10*time.Millisecond).Fetch(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	same := WithTimeout[int](Value(1), 0)
	v, err := same.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestRetryFetcher(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	flaky := FetcherFunc[string](func(context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", boom
		}
		return "ok", nil
	})

	v, err := NewRetryFetcher[string](flaky, 3, time.Millisecond).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, 3, calls)
}

func TestRetryFetcherGivesUp(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	failing := FetcherFunc[string](func(context.Context) (string, error) {
		calls++
		return "", boom
	})

	_, err := NewRetryFetcher[string](failing, 2, 0).Fetch(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)

	calls = 0
	r := &RetryFetcher[string]{Inner: failing, Attempts: 5, Retryable: func(error) bool { return false }}
	_, err = r.Fetch(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)

	calls = 0
	_, err = (&RetryFetcher[string]{Inner: failing}).Fetch(context.Background())
	assert.Same(t, boom, err)
	assert.Equal(t, 1, calls)
}
