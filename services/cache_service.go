package services

import (
	"strings"
	"sync"
	"time"

	"github.com/fenilmodi00/ipo-companion/shared"
	"github.com/sirupsen/logrus"
)

// CacheEntry represents a cached response body with expiration
type CacheEntry struct {
	Body      []byte
	StoredAt  time.Time
	ExpiresAt time.Time
}

// IsExpired checks if the cache entry has expired at the given instant
func (ce *CacheEntry) IsExpired(now time.Time) bool {
	return !now.Before(ce.ExpiresAt)
}

// CacheStats is a point-in-time view of the response cache
type CacheStats struct {
	Size       int           `json:"size"`
	MaxSize    int           `json:"max_size"`
	Hits       int64         `json:"hits"`
	Misses     int64         `json:"misses"`
	Evictions  int64         `json:"evictions"`
	DefaultTTL time.Duration `json:"default_ttl"`
	Type       string        `json:"type"`
}

// CacheService is an in-memory TTL cache of upstream GET response bodies.
// Expired entries are invisible to Get and are removed by PurgeExpired.
type CacheService struct {
	cache      map[string]*CacheEntry
	mutex      sync.RWMutex
	defaultTTL time.Duration
	maxSize    int
	clock      shared.Clock

	hits      int64
	misses    int64
	evictions int64
}

// NewCacheService creates a response cache with the default TTL and size
func NewCacheService() *CacheService {
	return NewCacheServiceWithConfig(shared.DefaultCacheTTL, shared.DefaultCacheMaxSize, nil)
}

// NewCacheServiceWithConfig creates a response cache with custom configuration
func NewCacheServiceWithConfig(defaultTTL time.Duration, maxSize int, clock shared.Clock) *CacheService {
	if defaultTTL <= 0 {
		defaultTTL = shared.DefaultCacheTTL
	}
	if maxSize <= 0 {
		maxSize = shared.DefaultCacheMaxSize
	}
	if clock == nil {
		clock = shared.SystemClock{}
	}
	return &CacheService{
		cache:      make(map[string]*CacheEntry),
		defaultTTL: defaultTTL,
		maxSize:    maxSize,
		clock:      clock,
	}
}

// Get retrieves a body from cache
func (cs *CacheService) Get(key string) ([]byte, bool) {
	cs.mutex.Lock()
	defer cs.mutex.Unlock()

	entry, exists := cs.cache[key]
	if !exists || entry.IsExpired(cs.clock.Now()) {
		cs.misses++
		shared.RecordCacheLookup(false)
		return nil, false
	}

	cs.hits++
	shared.RecordCacheLookup(true)
	return entry.Body, true
}

// Set stores a body in cache with default TTL
func (cs *CacheService) Set(key string, body []byte) {
	cs.SetWithTTL(key, body, cs.defaultTTL)
}

// SetWithTTL stores a body in cache with custom TTL
func (cs *CacheService) SetWithTTL(key string, body []byte, ttl time.Duration) {
	cs.mutex.Lock()
	defer cs.mutex.Unlock()

	if _, exists := cs.cache[key]; !exists && len(cs.cache) >= cs.maxSize {
		cs.evictOldest()
	}

	now := cs.clock.Now()
	cs.cache[key] = &CacheEntry{
		Body:      append([]byte(nil), body...),
		StoredAt:  now,
		ExpiresAt: now.Add(ttl),
	}
}

// evictOldest removes the entry closest to expiry
func (cs *CacheService) evictOldest() {
	var oldestKey string
	var oldestTime time.Time

	for key, entry := range cs.cache {
		if oldestKey == "" || entry.ExpiresAt.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.ExpiresAt
		}
	}

	if oldestKey != "" {
		delete(cs.cache, oldestKey)
		cs.evictions++
	}
}

// Delete removes a body from cache
func (cs *CacheService) Delete(key string) {
	cs.mutex.Lock()
	defer cs.mutex.Unlock()

	delete(cs.cache, key)
}

// DeletePrefix removes every entry whose key starts with prefix and returns how many
func (cs *CacheService) DeletePrefix(prefix string) int {
	cs.mutex.Lock()
	defer cs.mutex.Unlock()

	removed := 0
	for key := range cs.cache {
		if strings.HasPrefix(key, prefix) {
			delete(cs.cache, key)
			removed++
		}
	}
	return removed
}

// Clear removes all values from cache
func (cs *CacheService) Clear() {
	cs.mutex.Lock()
	defer cs.mutex.Unlock()

	cs.cache = make(map[string]*CacheEntry)
}

// Size returns the number of items in cache, expired or not
func (cs *CacheService) Size() int {
	cs.mutex.RLock()
	defer cs.mutex.RUnlock()

	return len(cs.cache)
}

// PurgeExpired removes expired entries and returns how many were removed
func (cs *CacheService) PurgeExpired() int {
	cs.mutex.Lock()
	defer cs.mutex.Unlock()

	now := cs.clock.Now()
	removed := 0
	for key, entry := range cs.cache {
		if entry.IsExpired(now) {
			delete(cs.cache, key)
			removed++
		}
	}

	if removed > 0 {
		logrus.WithFields(logrus.Fields{
			"component": "CacheService",
			"removed":   removed,
			"remaining": len(cs.cache),
		}).Debug("Purged expired response cache entries")
	}

	return removed
}

// GetCacheStats returns cache statistics
func (cs *CacheService) GetCacheStats() CacheStats {
	cs.mutex.RLock()
	defer cs.mutex.RUnlock()

	return CacheStats{
		Size:       len(cs.cache),
		MaxSize:    cs.maxSize,
		Hits:       cs.hits,
		Misses:     cs.misses,
		Evictions:  cs.evictions,
		DefaultTTL: cs.defaultTTL,
		Type:       "in-memory",
	}
}
