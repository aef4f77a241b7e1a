package handlers

import (
	"github.com/fenilmodi00/ipo-companion/models"
	"github.com/fenilmodi00/ipo-companion/services"
	"github.com/gofiber/fiber/v2"
)

type PortfolioHandler struct {
	Portfolio *services.PortfolioService
	Presenter *services.PresentationService
}

func NewPortfolioHandler(portfolio *services.PortfolioService, presenter *services.PresentationService) *PortfolioHandler {
	return &PortfolioHandler{Portfolio: portfolio, Presenter: presenter}
}

// GetPortfolio returns the signed-in user's ledger view
func (h *PortfolioHandler) GetPortfolio(c *fiber.Ctx) error {
	portfolio, err := h.Portfolio.Get(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, h.Presenter.PortfolioView(portfolio))
}

// AddTransaction records a new ledger entry for the signed-in user
func (h *PortfolioHandler) AddTransaction(c *fiber.Ctx) error {
	var request models.PortfolioTransactionRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	ack, err := h.Portfolio.Add(c.UserContext(), request)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    ack,
	})
}
