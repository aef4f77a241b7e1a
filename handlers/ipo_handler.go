package handlers

import (
	"strings"

	"github.com/fenilmodi00/ipo-companion/services"
	"github.com/gofiber/fiber/v2"
)

type IPOHandler struct {
	Client    *services.MarketAPIClient
	Presenter *services.PresentationService
	PageSize  int
}

func NewIPOHandler(client *services.MarketAPIClient, presenter *services.PresentationService, pageSize int) *IPOHandler {
	return &IPOHandler{Client: client, Presenter: presenter, PageSize: pageSize}
}

// GetIPOs returns one page of IPO cards. Query: status, is_sme, page, limit.
func (h *IPOHandler) GetIPOs(c *fiber.Ctx) error {
	listings, err := h.Client.FetchIPOs(c.UserContext(), services.IPOQuery{
		Status: strings.ToUpper(c.Query("status")),
		IsSME:  queryBool(c, "is_sme"),
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", h.PageSize),
	})
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, h.Presenter.IPOCards(listings))
}

// GetIPOByID returns the details view of one IPO
func (h *IPOHandler) GetIPOByID(c *fiber.Ctx) error {
	details, err := h.Client.FetchIPODetails(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, h.Presenter.IPODetailView(*details))
}
