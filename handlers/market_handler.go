package handlers

import (
	"github.com/fenilmodi00/ipo-companion/models"
	"github.com/fenilmodi00/ipo-companion/services"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"
)

type MarketHandler struct {
	Client    *services.MarketAPIClient
	Presenter *services.PresentationService
	PageSize  int
}

func NewMarketHandler(client *services.MarketAPIClient, presenter *services.PresentationService, pageSize int) *MarketHandler {
	return &MarketHandler{Client: client, Presenter: presenter, PageSize: pageSize}
}

// GetHome fetches open IPOs, upcoming IPOs and GMP trends concurrently
func (h *MarketHandler) GetHome(c *fiber.Ctx) error {
	group, ctx := errgroup.WithContext(c.UserContext())

	var open, upcoming, trends []models.IPOListing
	group.Go(func() error {
		var err error
		open, err = h.Client.FetchIPOs(ctx, services.IPOQuery{Status: string(models.IPOStatusOpen), Page: 1, Limit: h.PageSize})
		return err
	})
	group.Go(func() error {
		var err error
		upcoming, err = h.Client.FetchIPOs(ctx, services.IPOQuery{Status: string(models.IPOStatusUpcoming), Page: 1, Limit: h.PageSize})
		return err
	})
	group.Go(func() error {
		var err error
		trends, err = h.Client.FetchGMPTrends(ctx, services.GMPQuery{Page: 1, Limit: h.PageSize})
		return err
	})

	if err := group.Wait(); err != nil {
		return respondError(c, err)
	}

	return respondData(c, models.HomeView{
		Open:      h.Presenter.IPOCards(open),
		Upcoming:  h.Presenter.IPOCards(upcoming),
		GMPTrends: h.Presenter.IPOCards(trends),
	})
}

// GetBuybacks returns one page of buyback cards. Query: status, page, limit.
func (h *MarketHandler) GetBuybacks(c *fiber.Ctx) error {
	offers, err := h.Client.FetchBuybacks(c.UserContext(), services.BuybackQuery{
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", h.PageSize),
		Status: c.Query("status"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, h.Presenter.BuybackCards(offers))
}

// GetBrokers returns broker metadata as served by the market API
func (h *MarketHandler) GetBrokers(c *fiber.Ctx) error {
	brokers, err := h.Client.FetchBrokers(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	if brokers == nil {
		brokers = []models.Broker{}
	}
	return respondData(c, brokers)
}
