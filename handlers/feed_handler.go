package handlers

import (
	"github.com/fenilmodi00/ipo-companion/services"
	"github.com/gofiber/fiber/v2"
)

// FeedHandler exposes the paginated list coordinators under /feeds/:feed
type FeedHandler struct {
	Feeds map[string]services.Feed
}

func NewFeedHandler(feeds map[string]services.Feed) *FeedHandler {
	return &FeedHandler{Feeds: feeds}
}

type feedAction func(c *fiber.Ctx, feed services.Feed) (services.FeedView, error)

func (h *FeedHandler) handle(action feedAction) fiber.Handler {
	return func(c *fiber.Ctx) error {
		feed, ok := h.Feeds[c.Params("feed")]
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"error":   "Unknown feed",
			})
		}
		view, err := action(c, feed)
		return respondFeed(c, view, err)
	}
}

// GetFeed loads page 1 if the feed is idle or failed, then returns its state
func (h *FeedHandler) GetFeed() fiber.Handler {
	return h.handle(func(c *fiber.Ctx, feed services.Feed) (services.FeedView, error) {
		return feed.Load(c.UserContext())
	})
}

// SetFilter replaces the filter; the body is the feed's filter object
func (h *FeedHandler) SetFilter() fiber.Handler {
	return h.handle(func(c *fiber.Ctx, feed services.Feed) (services.FeedView, error) {
		return feed.SetFilterJSON(c.UserContext(), c.Body())
	})
}

// LoadMore appends the next page
func (h *FeedHandler) LoadMore() fiber.Handler {
	return h.handle(func(c *fiber.Ctx, feed services.Feed) (services.FeedView, error) {
		return feed.LoadMore(c.UserContext())
	})
}

// Refresh reloads page 1 past the response cache
func (h *FeedHandler) Refresh() fiber.Handler {
	return h.handle(func(c *fiber.Ctx, feed services.Feed) (services.FeedView, error) {
		return feed.Refresh(c.UserContext())
	})
}
