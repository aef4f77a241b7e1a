package jobs

import (
	"context"
	"time"

	"github.com/fenilmodi00/ipo-companion/services"
	"github.com/sirupsen/logrus"
)

// CacheCleanupJob purges expired response cache entries
type CacheCleanupJob struct {
	CacheService *services.CacheService
}

func NewCacheCleanupJob(cacheService *services.CacheService) *CacheCleanupJob {
	return &CacheCleanupJob{CacheService: cacheService}
}

// Run purges once and returns the number of removed entries
func (j *CacheCleanupJob) Run() int {
	removed := j.CacheService.PurgeExpired()
	logrus.WithFields(logrus.Fields{
		"component": "CacheCleanupJob",
		"removed":   removed,
		"remaining": j.CacheService.Size(),
	}).Debug("Cache cleanup completed")
	return removed
}

// Start runs the job every interval until ctx is done
func (j *CacheCleanupJob) Start(ctx context.Context, interval time.Duration) {
	logrus.WithFields(logrus.Fields{
		"component": "CacheCleanupJob",
		"interval":  interval,
	}).Info("Starting cache cleanup job")

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				j.Run()
			}
		}
	}()
}
