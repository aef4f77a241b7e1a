package services

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/fenilmodi00/ipo-companion/models"
	"github.com/fenilmodi00/ipo-companion/shared"
)

// Feed names
const (
	FeedIPOs     = "ipos"
	FeedGMP      = "gmp"
	FeedBuybacks = "buybacks"
)

// Board filter values
const (
	BoardAll       = ""
	BoardMainboard = "mainboard"
	BoardSME       = "sme"
)

// IPOFeedFilter selects the IPO list. Board is "", "mainboard" or "sme".
type IPOFeedFilter struct {
	Status string `json:"status"`
	Board  string `json:"board"`
}

// GMPFeedFilter selects the GMP trends list
type GMPFeedFilter struct {
	Status     string                `json:"status"`
	Board      string                `json:"board"`
	MinPremium models.OptionalNumber `json:"min_premium"`
	MaxPremium models.OptionalNumber `json:"max_premium"`
}

// BuybackFeedFilter selects the buyback list
type BuybackFeedFilter struct {
	Status string `json:"status"`
}

// FeedView is a rendered list snapshot
type FeedView struct {
	Name       string      `json:"name"`
	State      ListState   `json:"state"`
	Filter     interface{} `json:"filter"`
	Page       int         `json:"page"`
	HasMore    bool        `json:"has_more"`
	Count      int         `json:"count"`
	Items      interface{} `json:"items"`
	Error      string      `json:"error,omitempty"`
	Generation uint64      `json:"generation"`
}

// Feed is a type-erased list coordinator for the HTTP surface
type Feed interface {
	Name() string
	View() FeedView
	Load(ctx context.Context) (FeedView, error)
	LoadMore(ctx context.Context) (FeedView, error)
	Refresh(ctx context.Context) (FeedView, error)
	SetFilterJSON(ctx context.Context, raw []byte) (FeedView, error)
}

// ListFeed adapts a ListCoordinator to Feed, rendering items with render
type ListFeed[T any, F comparable, V any] struct {
	coordinator *ListCoordinator[T, F]
	normalize   func(F) F
	render      func([]T) []V
}

// NewListFeed wraps a coordinator. normalize may be nil.
func NewListFeed[T any, F comparable, V any](coordinator *ListCoordinator[T, F], normalize func(F) F, render func([]T) []V) *ListFeed[T, F, V] {
	if normalize == nil {
		normalize = func(filter F) F { return filter }
	}
	return &ListFeed[T, F, V]{coordinator: coordinator, normalize: normalize, render: render}
}

// Coordinator returns the wrapped coordinator
func (f *ListFeed[T, F, V]) Coordinator() *ListCoordinator[T, F] {
	return f.coordinator
}

func (f *ListFeed[T, F, V]) Name() string {
	return f.coordinator.Name()
}

func (f *ListFeed[T, F, V]) View() FeedView {
	return f.view(f.coordinator.Snapshot())
}

func (f *ListFeed[T, F, V]) Load(ctx context.Context) (FeedView, error) {
	snapshot, err := f.coordinator.Load(ctx)
	return f.view(snapshot), err
}

func (f *ListFeed[T, F, V]) LoadMore(ctx context.Context) (FeedView, error) {
	snapshot, err := f.coordinator.LoadMore(ctx)
	return f.view(snapshot), err
}

func (f *ListFeed[T, F, V]) Refresh(ctx context.Context) (FeedView, error) {
	snapshot, err := f.coordinator.Refresh(ctx)
	return f.view(snapshot), err
}

// SetFilterJSON decodes a filter and applies it
func (f *ListFeed[T, F, V]) SetFilterJSON(ctx context.Context, raw []byte) (FeedView, error) {
	var filter F
	if len(strings.TrimSpace(string(raw))) > 0 {
		if err := json.Unmarshal(raw, &filter); err != nil {
			return f.View(), NewValidationError("Feed", "SetFilter", FieldViolation{
				Field:   "filter",
				Message: "filter is not valid JSON",
			})
		}
	}

	snapshot, err := f.coordinator.SetFilter(ctx, f.normalize(filter))
	return f.view(snapshot), err
}

func (f *ListFeed[T, F, V]) view(snapshot ListSnapshot[T, F]) FeedView {
	return FeedView{
		Name:       f.coordinator.Name(),
		State:      snapshot.State,
		Filter:     snapshot.Filter,
		Page:       snapshot.Page,
		HasMore:    snapshot.HasMore,
		Count:      len(snapshot.Items),
		Items:      f.render(snapshot.Items),
		Error:      snapshot.Error,
		Generation: snapshot.Generation,
	}
}

// MarketFeeds is the source every feed pages through
type MarketFeeds interface {
	FetchIPOs(ctx context.Context, query IPOQuery) ([]models.IPOListing, error)
	FetchGMPTrends(ctx context.Context, query GMPQuery) ([]models.IPOListing, error)
	FetchBuybacks(ctx context.Context, query BuybackQuery) ([]models.BuybackOffer, error)
}

// NewFeeds builds the ipos, gmp and buybacks feeds keyed by name
func NewFeeds(source MarketFeeds, presenter *PresentationService, pageSize int) map[string]Feed {
	if pageSize <= 0 {
		pageSize = shared.DefaultPageSize
	}

	ipos := NewListCoordinator(FeedIPOs, pageSize, IPOFeedFilter{},
		func(ctx context.Context, request PageRequest[IPOFeedFilter]) ([]models.IPOListing, error) {
			return source.FetchIPOs(ctx, IPOQuery{
				Status: request.Filter.Status,
				IsSME:  boardFlag(request.Filter.Board),
				Page:   request.Page,
				Limit:  request.Limit,
			})
		})

	gmp := NewListCoordinator(FeedGMP, pageSize, GMPFeedFilter{},
		func(ctx context.Context, request PageRequest[GMPFeedFilter]) ([]models.IPOListing, error) {
			query := GMPQuery{
				Page:   request.Page,
				Limit:  request.Limit,
				IsSME:  boardFlag(request.Filter.Board),
				Status: request.Filter.Status,
			}
			if request.Filter.MinPremium.Valid {
				query.MinPremium = &request.Filter.MinPremium.Value
			}
			if request.Filter.MaxPremium.Valid {
				query.MaxPremium = &request.Filter.MaxPremium.Value
			}
			return source.FetchGMPTrends(ctx, query)
		})

	buybacks := NewListCoordinator(FeedBuybacks, pageSize, BuybackFeedFilter{},
		func(ctx context.Context, request PageRequest[BuybackFeedFilter]) ([]models.BuybackOffer, error) {
			return source.FetchBuybacks(ctx, BuybackQuery{
				Page:   request.Page,
				Limit:  request.Limit,
				Status: request.Filter.Status,
			})
		})

	return map[string]Feed{
		FeedIPOs:     NewListFeed(ipos, normalizeIPOFilter, presenter.IPOCards),
		FeedGMP:      NewListFeed(gmp, normalizeGMPFilter, presenter.IPOCards),
		FeedBuybacks: NewListFeed(buybacks, normalizeBuybackFilter, presenter.BuybackCards),
	}
}

func normalizeIPOFilter(filter IPOFeedFilter) IPOFeedFilter {
	filter.Status = strings.ToUpper(strings.TrimSpace(filter.Status))
	filter.Board = normalizeBoard(filter.Board)
	return filter
}

func normalizeGMPFilter(filter GMPFeedFilter) GMPFeedFilter {
	filter.Status = strings.ToUpper(strings.TrimSpace(filter.Status))
	filter.Board = normalizeBoard(filter.Board)
	return filter
}

func normalizeBuybackFilter(filter BuybackFeedFilter) BuybackFeedFilter {
	filter.Status = strings.ToLower(strings.TrimSpace(filter.Status))
	return filter
}

func normalizeBoard(board string) string {
	switch strings.ToLower(strings.TrimSpace(board)) {
	case BoardSME:
		return BoardSME
	case BoardMainboard, "main":
		return BoardMainboard
	}
	return BoardAll
}

// boardFlag maps a board filter onto the is_sme query parameter
func boardFlag(board string) *bool {
	switch normalizeBoard(board) {
	case BoardSME:
		sme := true
		return &sme
	case BoardMainboard:
		sme := false
		return &sme
	}
	return nil
}
