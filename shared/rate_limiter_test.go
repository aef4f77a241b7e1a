package shared

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPRequestRateLimiter_Unlimited(t *testing.T) {
	limiter := NewHTTPRequestRateLimiter(0, 0)

	for i := 0; i < 50; i++ {
		require.NoError(t, limiter.Wait(context.Background()))
	}
	assert.Equal(t, int64(50), limiter.GetRequestCount())
}

func TestHTTPRequestRateLimiter_HonorsContext(t *testing.T) {
	limiter := NewHTTPRequestRateLimiter(0.1, 1)
	require.NoError(t, limiter.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.Error(t, limiter.Wait(ctx), "the second request would wait ten seconds")
	assert.Equal(t, int64(1), limiter.GetRequestCount())
}

func TestHTTPRequestRateLimiter_UpdateLimit(t *testing.T) {
	limiter := NewHTTPRequestRateLimiter(0.1, 1)
	require.NoError(t, limiter.Wait(context.Background()))

	limiter.UpdateLimit(0)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, limiter.Wait(ctx))
	assert.Equal(t, int64(2), limiter.GetRequestCount())
}
