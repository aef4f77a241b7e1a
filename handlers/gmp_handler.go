package handlers

import (
	"strings"

	"github.com/fenilmodi00/ipo-companion/services"
	"github.com/gofiber/fiber/v2"
)

type GMPHandler struct {
	Client    *services.MarketAPIClient
	Presenter *services.PresentationService
	PageSize  int
}

func NewGMPHandler(client *services.MarketAPIClient, presenter *services.PresentationService, pageSize int) *GMPHandler {
	return &GMPHandler{Client: client, Presenter: presenter, PageSize: pageSize}
}

// GetGMPTrends returns one page of IPO cards with derived GMP statistics.
// Query: page, limit, is_sme, status, min_premium, max_premium.
func (h *GMPHandler) GetGMPTrends(c *fiber.Ctx) error {
	listings, err := h.Client.FetchGMPTrends(c.UserContext(), services.GMPQuery{
		Page:       queryInt(c, "page", 1),
		Limit:      queryInt(c, "limit", h.PageSize),
		IsSME:      queryBool(c, "is_sme"),
		Status:     strings.ToUpper(c.Query("status")),
		MinPremium: queryFloat(c, "min_premium"),
		MaxPremium: queryFloat(c, "max_premium"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, h.Presenter.IPOCards(listings))
}
