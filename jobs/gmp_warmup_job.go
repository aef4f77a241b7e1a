package jobs

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/fenilmodi00/ipo-companion/models"
	"github.com/fenilmodi00/ipo-companion/services"
	"github.com/sirupsen/logrus"
)

// GMPTrendsFetcher fetches the first page of GMP trends
type GMPTrendsFetcher interface {
	FetchGMPTrends(ctx context.Context, query services.GMPQuery) ([]models.IPOListing, error)
}

// GMPWarmupJob periodically refetches the first GMP trends page past the cache so
// the dashboard is served warm
type GMPWarmupJob struct {
	fetcher   GMPTrendsFetcher
	pageSize  int
	timeout   time.Duration
	logger    *logrus.Entry
	isRunning atomic.Bool
}

// NewGMPWarmupJob creates a warmup job
func NewGMPWarmupJob(fetcher GMPTrendsFetcher, pageSize int, timeout time.Duration) *GMPWarmupJob {
	return &GMPWarmupJob{
		fetcher:  fetcher,
		pageSize: pageSize,
		timeout:  timeout,
		logger:   logrus.WithField("component", "GMPWarmupJob"),
	}
}

// Run executes the warmup once. An overlapping run is skipped.
func (j *GMPWarmupJob) Run(ctx context.Context) error {
	if !j.isRunning.CompareAndSwap(false, true) {
		j.logger.Warn("GMP warmup already running, skipping")
		return nil
	}
	defer j.isRunning.Store(false)

	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	startTime := time.Now()
	listings, err := j.fetcher.FetchGMPTrends(services.WithFreshData(ctx), services.GMPQuery{Page: 1, Limit: j.pageSize})
	if err != nil {
		j.logger.WithError(err).Warn("GMP warmup failed")
		return err
	}

	j.logger.WithFields(logrus.Fields{
		"records":         len(listings),
		"processing_time": time.Since(startTime),
	}).Info("GMP warmup completed")
	return nil
}

// Start runs the job every interval until ctx is done
func (j *GMPWarmupJob) Start(ctx context.Context, interval time.Duration) {
	j.logger.WithField("interval", interval).Info("Starting periodic GMP warmup")

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				_ = j.Run(ctx)
			}
		}
	}()
}

// IsRunning returns whether the job is currently running
func (j *GMPWarmupJob) IsRunning() bool {
	return j.isRunning.Load()
}
