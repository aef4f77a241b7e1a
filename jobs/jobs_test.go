package jobs

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fenilmodi00/ipo-companion/models"
	"github.com/fenilmodi00/ipo-companion/services"
	"github.com/fenilmodi00/ipo-companion/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type steppingClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *steppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *steppingClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

var _ shared.Clock = (*steppingClock)(nil)

func TestCacheCleanupJob_Run(t *testing.T) {
	clock := &steppingClock{now: time.Date(2024, time.June, 15, 9, 0, 0, 0, time.UTC)}
	cache := services.NewCacheServiceWithConfig(time.Minute, 10, clock)
	cache.Set("a", []byte("1"))
	cache.SetWithTTL("b", []byte("2"), time.Hour)

	job := NewCacheCleanupJob(cache)
	assert.Equal(t, 0, job.Run())

	clock.Advance(2 * time.Minute)
	assert.Equal(t, 1, job.Run())
	assert.Equal(t, 1, cache.Size())
}

type blockingFetcher struct {
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
	err     error
	query   services.GMPQuery
}

func (f *blockingFetcher) FetchGMPTrends(ctx context.Context, query services.GMPQuery) ([]models.IPOListing, error) {
	if f.calls.Add(1) == 1 && f.started != nil {
		close(f.started)
		<-f.release
	}
	f.query = query
	return []models.IPOListing{{Name: "Acme"}}, f.err
}

func TestGMPWarmupJob_Run(t *testing.T) {
	fetcher := &blockingFetcher{}
	job := NewGMPWarmupJob(fetcher, 20, time.Second)

	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, int32(1), fetcher.calls.Load())
	assert.Equal(t, services.GMPQuery{Page: 1, Limit: 20}, fetcher.query)
	assert.False(t, job.IsRunning())
}

func TestGMPWarmupJob_ReturnsFetchError(t *testing.T) {
	fetcher := &blockingFetcher{err: errors.New("upstream down")}
	job := NewGMPWarmupJob(fetcher, 20, time.Second)

	assert.Error(t, job.Run(context.Background()))
	assert.False(t, job.IsRunning())
}

func TestGMPWarmupJob_SkipsOverlappingRun(t *testing.T) {
	fetcher := &blockingFetcher{started: make(chan struct{}), release: make(chan struct{})}
	job := NewGMPWarmupJob(fetcher, 20, time.Second)

	done := make(chan error, 1)
	go func() { done <- job.Run(context.Background()) }()
	<-fetcher.started

	assert.True(t, job.IsRunning())
	assert.NoError(t, job.Run(context.Background()))
	assert.Equal(t, int32(1), fetcher.calls.Load())

	close(fetcher.release)
	require.NoError(t, <-done)
}

func TestGMPWarmupJob_StartStopsWithContext(t *testing.T) {
	fetcher := &blockingFetcher{}
	job := NewGMPWarmupJob(fetcher, 20, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	job.Start(ctx, 10*time.Millisecond)

	assert.Eventually(t, func() bool { return fetcher.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
}
