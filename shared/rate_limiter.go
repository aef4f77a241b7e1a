package shared

import (
	"context"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// HTTPRequestRateLimiter paces outbound requests to the market API
type HTTPRequestRateLimiter struct {
	limiter      *rate.Limiter
	requestCount atomic.Int64
}

// NewHTTPRequestRateLimiter creates a limiter allowing requestsPerSecond with the given burst.
// A non-positive rate disables limiting.
func NewHTTPRequestRateLimiter(requestsPerSecond float64, burst int) *HTTPRequestRateLimiter {
	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}
	if burst <= 0 {
		burst = 1
	}
	return &HTTPRequestRateLimiter{limiter: rate.NewLimiter(limit, burst)}
}

// Wait blocks until a request may proceed or ctx is done
func (l *HTTPRequestRateLimiter) Wait(ctx context.Context) error {
	if l.limiter.Tokens() < 1 {
		logrus.WithFields(logrus.Fields{
			"component":     "HTTPRequestRateLimiter",
			"limit":         float64(l.limiter.Limit()),
			"request_count": l.requestCount.Load() + 1,
		}).Debug("Enforcing rate limit delay")
	}

	if err := l.limiter.Wait(ctx); err != nil {
		return err
	}
	l.requestCount.Add(1)
	return nil
}

// GetRequestCount returns the total number of requests that passed the limiter
func (l *HTTPRequestRateLimiter) GetRequestCount() int64 {
	return l.requestCount.Load()
}

// UpdateLimit changes the allowed request rate
func (l *HTTPRequestRateLimiter) UpdateLimit(requestsPerSecond float64) {
	oldLimit := l.limiter.Limit()
	newLimit := rate.Inf
	if requestsPerSecond > 0 {
		newLimit = rate.Limit(requestsPerSecond)
	}
	l.limiter.SetLimit(newLimit)

	logrus.WithFields(logrus.Fields{
		"component": "HTTPRequestRateLimiter",
		"old_limit": float64(oldLimit),
		"new_limit": float64(newLimit),
	}).Info("Updated rate limiter")
}
