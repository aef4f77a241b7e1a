package services

import (
	"context"
	"sync"

	"github.com/fenilmodi00/ipo-companion/shared"
	"github.com/sirupsen/logrus"
)

// ListState is the state of a paginated list
type ListState string

const (
	ListIdle        ListState = "idle"
	ListLoading     ListState = "loading"
	ListLoaded      ListState = "loaded"
	ListLoadingMore ListState = "loading_more"
	ListError       ListState = "error"
)

// PageRequest identifies one page of a filtered feed. Pages start at 1.
type PageRequest[F comparable] struct {
	Filter F
	Page   int
	Limit  int
}

// PageFetcher fetches one page. Implementations should honor ctx cancellation.
type PageFetcher[T any, F comparable] func(ctx context.Context, request PageRequest[F]) ([]T, error)

// ListSnapshot is a copy of the coordinator state safe to hand to callers
type ListSnapshot[T any, F comparable] struct {
	State      ListState `json:"state"`
	Filter     F         `json:"filter"`
	Page       int       `json:"page"`
	HasMore    bool      `json:"has_more"`
	Items      []T       `json:"items"`
	Error      string    `json:"error,omitempty"`
	Generation uint64    `json:"generation"`
}

// ListCoordinator keeps one paginated list consistent with its current filter.
//
// Every page-1 fetch (initial load, filter change, refresh) starts a new generation.
// A result is applied only if its generation is still current, so a late response for
// an old filter never overwrites newer data. At most one load-more runs at a time.
// Failures are never retried.
type ListCoordinator[T any, F comparable] struct {
	name     string
	fetch    PageFetcher[T, F]
	pageSize int
	logger   *logrus.Entry

	mu         sync.Mutex
	state      ListState
	filter     F
	page       int
	hasMore    bool
	items      []T
	lastErr    error
	generation uint64
}

// NewListCoordinator creates an idle coordinator for the given initial filter
func NewListCoordinator[T any, F comparable](name string, pageSize int, initial F, fetch PageFetcher[T, F]) *ListCoordinator[T, F] {
	if pageSize <= 0 {
		pageSize = shared.DefaultPageSize
	}
	return &ListCoordinator[T, F]{
		name:     name,
		fetch:    fetch,
		pageSize: pageSize,
		logger: logrus.WithFields(logrus.Fields{
			"component": "ListCoordinator",
			"list":      name,
		}),
		state:   ListIdle,
		filter:  initial,
		hasMore: true,
	}
}

// Name returns the list name used in logs and metrics
func (c *ListCoordinator[T, F]) Name() string {
	return c.name
}

// PageSize returns the requested page size
func (c *ListCoordinator[T, F]) PageSize() int {
	return c.pageSize
}

// Snapshot returns the current state
func (c *ListCoordinator[T, F]) Snapshot() ListSnapshot[T, F] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Load fetches page 1 when the list is idle or failed. It is a no-op otherwise.
func (c *ListCoordinator[T, F]) Load(ctx context.Context) (ListSnapshot[T, F], error) {
	c.mu.Lock()
	if c.state != ListIdle && c.state != ListError {
		snapshot := c.snapshotLocked()
		c.mu.Unlock()
		return snapshot, nil
	}
	request, generation := c.beginFirstPageLocked()
	c.mu.Unlock()

	return c.runFirstPage(ctx, request, generation)
}

// SetFilter discards the accumulated items, returns to idle and fetches page 1 of the
// new filter. Setting the filter already in effect is a no-op unless the list is idle.
func (c *ListCoordinator[T, F]) SetFilter(ctx context.Context, filter F) (ListSnapshot[T, F], error) {
	c.mu.Lock()
	if filter == c.filter && c.state != ListIdle {
		snapshot := c.snapshotLocked()
		c.mu.Unlock()
		return snapshot, nil
	}

	c.logger.WithField("generation", c.generation+1).Debug("Filter changed, discarding items")
	c.filter = filter
	c.state = ListIdle
	c.page = 0
	c.hasMore = true
	c.items = nil
	c.lastErr = nil

	request, generation := c.beginFirstPageLocked()
	c.mu.Unlock()

	return c.runFirstPage(ctx, request, generation)
}

// Refresh fetches page 1 past the response cache and replaces the items on success.
// Items stay visible while the refresh is in flight.
func (c *ListCoordinator[T, F]) Refresh(ctx context.Context) (ListSnapshot[T, F], error) {
	c.mu.Lock()
	request, generation := c.beginFirstPageLocked()
	c.mu.Unlock()

	return c.runFirstPage(WithFreshData(ctx), request, generation)
}

// LoadMore fetches the next page and appends it. It is silently ignored while a load
// is in flight, before the first page, or when the last page was short.
func (c *ListCoordinator[T, F]) LoadMore(ctx context.Context) (ListSnapshot[T, F], error) {
	c.mu.Lock()
	if c.state == ListLoading || c.state == ListLoadingMore || c.page == 0 || !c.hasMore {
		snapshot := c.snapshotLocked()
		c.mu.Unlock()
		return snapshot, nil
	}

	c.state = ListLoadingMore
	request := PageRequest[F]{Filter: c.filter, Page: c.page + 1, Limit: c.pageSize}
	generation := c.generation
	c.mu.Unlock()

	items, err := c.fetch(ctx, request)

	c.mu.Lock()
	defer c.mu.Unlock()

	if generation != c.generation {
		c.discardLocked(request, generation)
		return c.snapshotLocked(), nil
	}

	if err != nil {
		c.failLocked(request, err)
		return c.snapshotLocked(), err
	}

	c.items = append(c.items, items...)
	c.page = request.Page
	c.hasMore = len(items) >= c.pageSize
	c.state = ListLoaded
	c.lastErr = nil

	c.logger.WithFields(logrus.Fields{
		"page":     c.page,
		"returned": len(items),
		"total":    len(c.items),
		"has_more": c.hasMore,
	}).Debug("Appended page")

	return c.snapshotLocked(), nil
}

func (c *ListCoordinator[T, F]) beginFirstPageLocked() (PageRequest[F], uint64) {
	c.generation++
	c.state = ListLoading
	return PageRequest[F]{Filter: c.filter, Page: 1, Limit: c.pageSize}, c.generation
}

func (c *ListCoordinator[T, F]) runFirstPage(ctx context.Context, request PageRequest[F], generation uint64) (ListSnapshot[T, F], error) {
	items, err := c.fetch(ctx, request)

	c.mu.Lock()
	defer c.mu.Unlock()

	if generation != c.generation {
		c.discardLocked(request, generation)
		return c.snapshotLocked(), nil
	}

	if err != nil {
		c.failLocked(request, err)
		return c.snapshotLocked(), err
	}

	c.items = append([]T(nil), items...)
	c.page = 1
	c.hasMore = len(items) >= c.pageSize
	c.state = ListLoaded
	c.lastErr = nil

	c.logger.WithFields(logrus.Fields{
		"generation": generation,
		"returned":   len(items),
		"has_more":   c.hasMore,
	}).Debug("Loaded first page")

	return c.snapshotLocked(), nil
}

func (c *ListCoordinator[T, F]) failLocked(request PageRequest[F], err error) {
	c.state = ListError
	c.lastErr = err
	c.logger.WithError(err).WithFields(logrus.Fields{
		"page":     request.Page,
		"category": shared.CategoryOf(err),
	}).Warn("Page fetch failed, keeping last known items")
}

func (c *ListCoordinator[T, F]) discardLocked(request PageRequest[F], generation uint64) {
	shared.RecordStaleResult(c.name)
	c.logger.WithFields(logrus.Fields{
		"page":               request.Page,
		"request_generation": generation,
		"current_generation": c.generation,
	}).Debug("Discarding stale page result")
}

func (c *ListCoordinator[T, F]) snapshotLocked() ListSnapshot[T, F] {
	snapshot := ListSnapshot[T, F]{
		State:      c.state,
		Filter:     c.filter,
		Page:       c.page,
		HasMore:    c.hasMore,
		Items:      append([]T{}, c.items...),
		Generation: c.generation,
	}
	if c.lastErr != nil {
		snapshot.Error = c.lastErr.Error()
	}
	return snapshot
}
