package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/fenilmodi00/ipo-companion/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pageCall struct {
	request PageRequest[string]
	fresh   bool
}

// scriptedFetcher records every page request and answers through respond
type scriptedFetcher struct {
	mu      sync.Mutex
	calls   []pageCall
	respond func(ctx context.Context, request PageRequest[string]) ([]int, error)
}

func (f *scriptedFetcher) fetch(ctx context.Context, request PageRequest[string]) ([]int, error) {
	f.mu.Lock()
	f.calls = append(f.calls, pageCall{request: request, fresh: wantsFreshData(ctx)})
	f.mu.Unlock()
	return f.respond(ctx, request)
}

func (f *scriptedFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *scriptedFetcher) call(i int) pageCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[i]
}

func numbered(start, count int) []int {
	items := make([]int, count)
	for i := range items {
		items[i] = start + i
	}
	return items
}

type coordinatorResult struct {
	snapshot ListSnapshot[int, string]
	err      error
}

func TestListCoordinator_HasMoreFollowsPageSize(t *testing.T) {
	ctx := context.Background()

	full := &scriptedFetcher{respond: func(context.Context, PageRequest[string]) ([]int, error) {
		return numbered(0, 20), nil
	}}
	snapshot, err := NewListCoordinator("has-more-full", 20, "", full.fetch).Load(ctx)
	require.NoError(t, err)
	assert.True(t, snapshot.HasMore)
	assert.Equal(t, ListLoaded, snapshot.State)
	assert.Equal(t, 1, snapshot.Page)

	short := &scriptedFetcher{respond: func(context.Context, PageRequest[string]) ([]int, error) {
		return numbered(0, 7), nil
	}}
	snapshot, err = NewListCoordinator("has-more-short", 20, "", short.fetch).Load(ctx)
	require.NoError(t, err)
	assert.False(t, snapshot.HasMore)
	assert.Len(t, snapshot.Items, 7)
}

func TestListCoordinator_PaginatesThenChangesFilter(t *testing.T) {
	ctx := context.Background()
	var coordinator *ListCoordinator[int, string]
	var duringFilterChange ListSnapshot[int, string]

	fetcher := &scriptedFetcher{}
	fetcher.respond = func(_ context.Context, request PageRequest[string]) ([]int, error) {
		switch {
		case request.Filter == "OPEN" && request.Page == 1:
			return numbered(0, 20), nil
		case request.Filter == "OPEN" && request.Page == 2:
			return numbered(20, 5), nil
		case request.Filter == "CLOSED":
			duringFilterChange = coordinator.Snapshot()
			return numbered(100, 3), nil
		}
		return nil, errors.New("unexpected request")
	}
	coordinator = NewListCoordinator("paginate", 20, "OPEN", fetcher.fetch)

	_, err := coordinator.Load(ctx)
	require.NoError(t, err)

	snapshot, err := coordinator.LoadMore(ctx)
	require.NoError(t, err)
	assert.Len(t, snapshot.Items, 25)
	assert.Equal(t, numbered(0, 25), snapshot.Items)
	assert.False(t, snapshot.HasMore)
	assert.Equal(t, 2, snapshot.Page)

	// A short last page ends pagination
	snapshot, err = coordinator.LoadMore(ctx)
	require.NoError(t, err)
	assert.Len(t, snapshot.Items, 25)
	assert.Equal(t, 2, fetcher.callCount())

	snapshot, err = coordinator.SetFilter(ctx, "CLOSED")
	require.NoError(t, err)

	assert.Empty(t, duringFilterChange.Items, "items are cleared before the new fetch")
	assert.Equal(t, ListLoading, duringFilterChange.State)
	assert.Equal(t, "CLOSED", duringFilterChange.Filter)

	assert.Equal(t, PageRequest[string]{Filter: "CLOSED", Page: 1, Limit: 20}, fetcher.call(2).request)
	assert.Equal(t, numbered(100, 3), snapshot.Items)
	assert.Equal(t, 1, snapshot.Page)
}

func TestListCoordinator_LateLoadMoreDoesNotOverwriteNewFilter(t *testing.T) {
	ctx := context.Background()
	started := make(chan struct{})
	release := make(chan struct{})

	fetcher := &scriptedFetcher{}
	fetcher.respond = func(_ context.Context, request PageRequest[string]) ([]int, error) {
		if request.Filter == "A" && request.Page == 2 {
			close(started)
			<-release
			return numbered(1000, 20), nil
		}
		if request.Filter == "B" {
			return numbered(500, 7), nil
		}
		return numbered(0, 20), nil
	}
	coordinator := NewListCoordinator("late-load-more", 20, "A", fetcher.fetch)
	staleBefore := shared.StaleResultCount("late-load-more")

	_, err := coordinator.Load(ctx)
	require.NoError(t, err)

	done := make(chan coordinatorResult, 1)
	go func() {
		snapshot, err := coordinator.LoadMore(ctx)
		done <- coordinatorResult{snapshot, err}
	}()
	<-started

	snapshot, err := coordinator.SetFilter(ctx, "B")
	require.NoError(t, err)
	assert.Equal(t, numbered(500, 7), snapshot.Items)

	close(release)
	late := <-done
	require.NoError(t, late.err, "stale results are dropped silently")
	assert.Equal(t, "B", late.snapshot.Filter)

	final := coordinator.Snapshot()
	assert.Equal(t, "B", final.Filter)
	assert.Equal(t, numbered(500, 7), final.Items)
	assert.Equal(t, 1, final.Page)
	assert.False(t, final.HasMore)
	assert.Equal(t, ListLoaded, final.State)
	assert.Equal(t, staleBefore+1, shared.StaleResultCount("late-load-more"))
}

func TestListCoordinator_LateFirstPageDoesNotOverwriteNewFilter(t *testing.T) {
	ctx := context.Background()
	started := make(chan struct{})
	release := make(chan struct{})

	fetcher := &scriptedFetcher{}
	fetcher.respond = func(_ context.Context, request PageRequest[string]) ([]int, error) {
		if request.Filter == "A" {
			close(started)
			<-release
			return numbered(0, 20), nil
		}
		return numbered(300, 4), nil
	}
	coordinator := NewListCoordinator("late-first-page", 20, "A", fetcher.fetch)

	done := make(chan coordinatorResult, 1)
	go func() {
		snapshot, err := coordinator.Load(ctx)
		done <- coordinatorResult{snapshot, err}
	}()
	<-started

	_, err := coordinator.SetFilter(ctx, "B")
	require.NoError(t, err)
	close(release)
	<-done

	final := coordinator.Snapshot()
	assert.Equal(t, "B", final.Filter)
	assert.Equal(t, numbered(300, 4), final.Items)
}

func TestListCoordinator_LoadMoreIgnoredWhileLoading(t *testing.T) {
	ctx := context.Background()
	started := make(chan struct{})
	release := make(chan struct{})

	fetcher := &scriptedFetcher{}
	fetcher.respond = func(context.Context, PageRequest[string]) ([]int, error) {
		close(started)
		<-release
		return numbered(0, 20), nil
	}
	coordinator := NewListCoordinator("load-more-while-loading", 20, "", fetcher.fetch)

	done := make(chan coordinatorResult, 1)
	go func() {
		snapshot, err := coordinator.Load(ctx)
		done <- coordinatorResult{snapshot, err}
	}()
	<-started

	snapshot, err := coordinator.LoadMore(ctx)
	require.NoError(t, err)
	assert.Equal(t, ListLoading, snapshot.State)
	assert.Equal(t, 1, fetcher.callCount())

	snapshot, err = coordinator.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, ListLoading, snapshot.State)
	assert.Equal(t, 1, fetcher.callCount())

	close(release)
	result := <-done
	require.NoError(t, result.err)
	assert.Len(t, result.snapshot.Items, 20)
}

func TestListCoordinator_OnlyOneLoadMoreInFlight(t *testing.T) {
	ctx := context.Background()
	started := make(chan struct{})
	release := make(chan struct{})

	fetcher := &scriptedFetcher{}
	fetcher.respond = func(_ context.Context, request PageRequest[string]) ([]int, error) {
		if request.Page == 2 {
			close(started)
			<-release
		}
		return numbered((request.Page-1)*20, 20), nil
	}
	coordinator := NewListCoordinator("single-load-more", 20, "", fetcher.fetch)
	_, err := coordinator.Load(ctx)
	require.NoError(t, err)

	done := make(chan coordinatorResult, 1)
	go func() {
		snapshot, err := coordinator.LoadMore(ctx)
		done <- coordinatorResult{snapshot, err}
	}()
	<-started

	snapshot, err := coordinator.LoadMore(ctx)
	require.NoError(t, err)
	assert.Equal(t, ListLoadingMore, snapshot.State)
	assert.Len(t, snapshot.Items, 20, "items stay visible while loading more")
	assert.Equal(t, 2, fetcher.callCount())

	close(release)
	result := <-done
	require.NoError(t, result.err)
	assert.Equal(t, numbered(0, 40), result.snapshot.Items)
}

func TestListCoordinator_ErrorKeepsItemsWithoutRetry(t *testing.T) {
	ctx := context.Background()
	failPage2 := true
	upstreamDown := shared.NewServiceError(shared.ErrorCategoryUpstream, "UPSTREAM_ERROR", "market API unavailable", "MarketAPIClient", "FetchIPOs", true, nil)

	fetcher := &scriptedFetcher{}
	fetcher.respond = func(_ context.Context, request PageRequest[string]) ([]int, error) {
		if request.Page == 2 && failPage2 {
			return nil, upstreamDown
		}
		return numbered((request.Page-1)*20, 20), nil
	}
	coordinator := NewListCoordinator("error-keeps-items", 20, "", fetcher.fetch)
	_, err := coordinator.Load(ctx)
	require.NoError(t, err)

	snapshot, err := coordinator.LoadMore(ctx)
	require.Error(t, err)
	assert.Equal(t, shared.ErrorCategoryUpstream, shared.CategoryOf(err))
	assert.Equal(t, ListError, snapshot.State)
	assert.Len(t, snapshot.Items, 20)
	assert.NotEmpty(t, snapshot.Error)
	assert.Equal(t, 1, snapshot.Page)
	assert.Equal(t, 2, fetcher.callCount(), "failures are not retried")

	// A user-initiated load-more after an error is allowed
	failPage2 = false
	snapshot, err = coordinator.LoadMore(ctx)
	require.NoError(t, err)
	assert.Equal(t, ListLoaded, snapshot.State)
	assert.Len(t, snapshot.Items, 40)
	assert.Empty(t, snapshot.Error)
}

func TestListCoordinator_LoadRetriesAfterFirstPageError(t *testing.T) {
	ctx := context.Background()
	attempts := 0

	fetcher := &scriptedFetcher{}
	fetcher.respond = func(context.Context, PageRequest[string]) ([]int, error) {
		attempts++
		if attempts == 1 {
			return nil, errors.New("connection refused")
		}
		return numbered(0, 3), nil
	}
	coordinator := NewListCoordinator("load-after-error", 20, "", fetcher.fetch)

	snapshot, err := coordinator.Load(ctx)
	require.Error(t, err)
	assert.Equal(t, ListError, snapshot.State)
	assert.Empty(t, snapshot.Items)

	snapshot, err = coordinator.LoadMore(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.callCount(), "load-more needs a first page")

	snapshot, err = coordinator.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, ListLoaded, snapshot.State)
	assert.Len(t, snapshot.Items, 3)
}

func TestListCoordinator_LoadIsNoOpOnceLoaded(t *testing.T) {
	ctx := context.Background()
	fetcher := &scriptedFetcher{respond: func(context.Context, PageRequest[string]) ([]int, error) {
		return numbered(0, 20), nil
	}}
	coordinator := NewListCoordinator("load-once", 20, "OPEN", fetcher.fetch)

	_, err := coordinator.Load(ctx)
	require.NoError(t, err)
	_, err = coordinator.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.callCount())

	// Re-applying the current filter does not refetch
	_, err = coordinator.SetFilter(ctx, "OPEN")
	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.callCount())
}

func TestListCoordinator_SetFilterOnIdleListLoads(t *testing.T) {
	fetcher := &scriptedFetcher{respond: func(context.Context, PageRequest[string]) ([]int, error) {
		return numbered(0, 2), nil
	}}
	coordinator := NewListCoordinator("filter-idle", 20, "OPEN", fetcher.fetch)

	snapshot, err := coordinator.SetFilter(context.Background(), "OPEN")
	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.callCount())
	assert.Equal(t, ListLoaded, snapshot.State)
}

func TestListCoordinator_LoadMoreBeforeFirstPage(t *testing.T) {
	fetcher := &scriptedFetcher{respond: func(context.Context, PageRequest[string]) ([]int, error) {
		return numbered(0, 20), nil
	}}
	coordinator := NewListCoordinator("load-more-idle", 20, "", fetcher.fetch)

	snapshot, err := coordinator.LoadMore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ListIdle, snapshot.State)
	assert.Equal(t, 0, fetcher.callCount())
	assert.NotNil(t, snapshot.Items)
}

func TestListCoordinator_RefreshBypassesCacheAndReplacesItems(t *testing.T) {
	ctx := context.Background()
	var coordinator *ListCoordinator[int, string]
	var duringRefresh ListSnapshot[int, string]

	fetcher := &scriptedFetcher{}
	fetcher.respond = func(ctx context.Context, request PageRequest[string]) ([]int, error) {
		if wantsFreshData(ctx) {
			duringRefresh = coordinator.Snapshot()
			return numbered(900, 3), nil
		}
		return numbered((request.Page-1)*20, 20), nil
	}
	coordinator = NewListCoordinator("refresh", 20, "", fetcher.fetch)

	_, err := coordinator.Load(ctx)
	require.NoError(t, err)
	_, err = coordinator.LoadMore(ctx)
	require.NoError(t, err)

	snapshot, err := coordinator.Refresh(ctx)
	require.NoError(t, err)

	assert.Len(t, duringRefresh.Items, 40, "items stay visible during refresh")
	assert.Equal(t, ListLoading, duringRefresh.State)
	assert.False(t, fetcher.call(0).fresh)
	assert.True(t, fetcher.call(2).fresh)
	assert.Equal(t, 1, fetcher.call(2).request.Page)

	assert.Equal(t, numbered(900, 3), snapshot.Items)
	assert.Equal(t, 1, snapshot.Page)
	assert.False(t, snapshot.HasMore)
}

func TestListCoordinator_RefreshInvalidatesLoadMore(t *testing.T) {
	ctx := context.Background()
	started := make(chan struct{})
	release := make(chan struct{})

	fetcher := &scriptedFetcher{}
	fetcher.respond = func(ctx context.Context, request PageRequest[string]) ([]int, error) {
		if request.Page == 2 {
			close(started)
			<-release
			return numbered(20, 20), nil
		}
		if wantsFreshData(ctx) {
			return numbered(700, 20), nil
		}
		return numbered(0, 20), nil
	}
	coordinator := NewListCoordinator("refresh-invalidates", 20, "", fetcher.fetch)
	_, err := coordinator.Load(ctx)
	require.NoError(t, err)

	done := make(chan coordinatorResult, 1)
	go func() {
		snapshot, err := coordinator.LoadMore(ctx)
		done <- coordinatorResult{snapshot, err}
	}()
	<-started

	_, err = coordinator.Refresh(ctx)
	require.NoError(t, err)
	close(release)
	<-done

	final := coordinator.Snapshot()
	assert.Equal(t, numbered(700, 20), final.Items)
	assert.Equal(t, 1, final.Page)
	assert.True(t, final.HasMore)
}

func TestListCoordinator_SnapshotIsACopy(t *testing.T) {
	fetcher := &scriptedFetcher{respond: func(context.Context, PageRequest[string]) ([]int, error) {
		return numbered(0, 3), nil
	}}
	coordinator := NewListCoordinator("snapshot-copy", 20, "", fetcher.fetch)

	snapshot, err := coordinator.Load(context.Background())
	require.NoError(t, err)
	snapshot.Items[0] = -1

	assert.Equal(t, 0, coordinator.Snapshot().Items[0])
}

func TestListCoordinator_DefaultPageSize(t *testing.T) {
	coordinator := NewListCoordinator[int, string]("default-size", 0, "", nil)
	assert.Equal(t, shared.DefaultPageSize, coordinator.PageSize())
	assert.Equal(t, "default-size", coordinator.Name())
}
