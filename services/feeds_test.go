package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/fenilmodi00/ipo-companion/models"
	"github.com/fenilmodi00/ipo-companion/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMarketFeeds struct {
	mu       sync.Mutex
	ipoCalls []IPOQuery
	gmpCalls []GMPQuery
	bbCalls  []BuybackQuery
}

func listings(page, count int) []models.IPOListing {
	items := make([]models.IPOListing, count)
	for i := range items {
		items[i] = models.IPOListing{
			ID:   models.FlexString(fmt.Sprintf("%d-%d", page, i)),
			Name: fmt.Sprintf("Company %d Ltd", i),
		}
	}
	return items
}

func (f *fakeMarketFeeds) FetchIPOs(_ context.Context, query IPOQuery) ([]models.IPOListing, error) {
	f.mu.Lock()
	f.ipoCalls = append(f.ipoCalls, query)
	f.mu.Unlock()
	if query.Page == 1 {
		return listings(1, query.Limit), nil
	}
	return listings(query.Page, 2), nil
}

func (f *fakeMarketFeeds) FetchGMPTrends(_ context.Context, query GMPQuery) ([]models.IPOListing, error) {
	f.mu.Lock()
	f.gmpCalls = append(f.gmpCalls, query)
	f.mu.Unlock()
	return listings(query.Page, 1), nil
}

func (f *fakeMarketFeeds) FetchBuybacks(_ context.Context, query BuybackQuery) ([]models.BuybackOffer, error) {
	f.mu.Lock()
	f.bbCalls = append(f.bbCalls, query)
	f.mu.Unlock()
	return []models.BuybackOffer{{ID: "b1", CompanyName: "Acme Buyback", Status: "Open"}}, nil
}

func TestNewFeeds_IPOFeedPaginatesAndRenders(t *testing.T) {
	source := &fakeMarketFeeds{}
	feeds := NewFeeds(source, newTestPresenter(), 5)
	require.Contains(t, feeds, FeedIPOs)
	feed := feeds[FeedIPOs]
	ctx := context.Background()

	view, err := feed.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, FeedIPOs, view.Name)
	assert.Equal(t, 5, view.Count)
	assert.True(t, view.HasMore)

	cards, ok := view.Items.([]models.IPOCard)
	require.True(t, ok)
	assert.Equal(t, "Company 0", cards[0].Name)

	view, err = feed.LoadMore(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, view.Count)
	assert.False(t, view.HasMore)
	assert.Equal(t, IPOQuery{Page: 2, Limit: 5}, source.ipoCalls[1])
}

func TestNewFeeds_SetFilterJSONNormalizes(t *testing.T) {
	source := &fakeMarketFeeds{}
	feed := NewFeeds(source, newTestPresenter(), 5)[FeedIPOs]

	view, err := feed.SetFilterJSON(context.Background(), []byte(`{"status":" open ","board":"SME"}`))
	require.NoError(t, err)
	assert.Equal(t, IPOFeedFilter{Status: "OPEN", Board: BoardSME}, view.Filter)

	require.Len(t, source.ipoCalls, 1)
	call := source.ipoCalls[0]
	assert.Equal(t, "OPEN", call.Status)
	require.NotNil(t, call.IsSME)
	assert.True(t, *call.IsSME)
	assert.Equal(t, 1, call.Page)
}

func TestNewFeeds_SetFilterJSONRejectsGarbage(t *testing.T) {
	source := &fakeMarketFeeds{}
	feed := NewFeeds(source, newTestPresenter(), 5)[FeedIPOs]

	view, err := feed.SetFilterJSON(context.Background(), []byte(`{"status":`))
	assertServiceError(t, err, shared.ErrorCategoryValidation, "INVALID_REQUEST")
	assert.Equal(t, ListIdle, view.State)
	assert.Empty(t, source.ipoCalls)
}

func TestNewFeeds_EmptyFilterBodyClearsFilter(t *testing.T) {
	source := &fakeMarketFeeds{}
	feed := NewFeeds(source, newTestPresenter(), 5)[FeedIPOs]
	ctx := context.Background()

	_, err := feed.SetFilterJSON(ctx, []byte(`{"status":"CLOSED"}`))
	require.NoError(t, err)
	view, err := feed.SetFilterJSON(ctx, nil)
	require.NoError(t, err)

	assert.Equal(t, IPOFeedFilter{}, view.Filter)
	assert.Len(t, source.ipoCalls, 2)
	assert.Nil(t, source.ipoCalls[1].IsSME)
}

func TestNewFeeds_GMPFilterPremiumBounds(t *testing.T) {
	source := &fakeMarketFeeds{}
	feed := NewFeeds(source, newTestPresenter(), 5)[FeedGMP]

	_, err := feed.SetFilterJSON(context.Background(), []byte(`{"board":"main","min_premium":"25"}`))
	require.NoError(t, err)

	require.Len(t, source.gmpCalls, 1)
	call := source.gmpCalls[0]
	require.NotNil(t, call.MinPremium)
	assert.Equal(t, 25.0, *call.MinPremium)
	assert.Nil(t, call.MaxPremium)
	require.NotNil(t, call.IsSME)
	assert.False(t, *call.IsSME)
}

func TestNewFeeds_BuybackFeedRendersCards(t *testing.T) {
	source := &fakeMarketFeeds{}
	feed := NewFeeds(source, newTestPresenter(), 0)[FeedBuybacks]

	view, err := feed.Refresh(context.Background())
	require.NoError(t, err)

	cards, ok := view.Items.([]models.BuybackCard)
	require.True(t, ok)
	require.Len(t, cards, 1)
	assert.Equal(t, "Acme", cards[0].Name)
	assert.Equal(t, models.BuybackPhaseActive, cards[0].Phase)
	assert.Equal(t, 20, source.bbCalls[0].Limit)
}

func TestBoardFlag(t *testing.T) {
	assert.Nil(t, boardFlag(""))
	assert.Nil(t, boardFlag("everything"))
	assert.True(t, *boardFlag(" SME "))
	assert.False(t, *boardFlag("mainboard"))
}
