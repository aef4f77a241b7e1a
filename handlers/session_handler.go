package handlers

import (
	"strconv"

	"github.com/fenilmodi00/ipo-companion/models"
	"github.com/fenilmodi00/ipo-companion/services"
	"github.com/gofiber/fiber/v2"
)

type SessionHandler struct {
	Sessions *services.SessionService
	Theme    *services.ThemeService
}

func NewSessionHandler(sessions *services.SessionService, theme *services.ThemeService) *SessionHandler {
	return &SessionHandler{Sessions: sessions, Theme: theme}
}

// sessionView never exposes the bearer token
type sessionView struct {
	SignedIn    bool   `json:"signed_in"`
	UserID      string `json:"user_id,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
}

func viewOf(session models.Session, signedIn bool) sessionView {
	if !signedIn {
		return sessionView{}
	}
	return sessionView{SignedIn: true, UserID: session.UserID, DisplayName: session.DisplayName}
}

func (h *SessionHandler) Login(c *fiber.Ctx) error {
	var credentials models.Credentials
	if err := c.BodyParser(&credentials); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	session, err := h.Sessions.Login(c.UserContext(), credentials)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, viewOf(session, true))
}

func (h *SessionHandler) Register(c *fiber.Ctx) error {
	var credentials models.Credentials
	if err := c.BodyParser(&credentials); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	message, err := h.Sessions.Register(c.UserContext(), credentials)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": message,
	})
}

func (h *SessionHandler) Logout(c *fiber.Ctx) error {
	if err := h.Sessions.Logout(c.UserContext()); err != nil {
		return respondError(c, err)
	}
	return respondData(c, viewOf(models.Session{}, false))
}

func (h *SessionHandler) GetSession(c *fiber.Ctx) error {
	return respondData(c, viewOf(h.Sessions.Current()))
}

// GetTheme returns the stored mode and the effective mode. Query: system_dark.
func (h *SessionHandler) GetTheme(c *fiber.Ctx) error {
	systemDark, _ := strconv.ParseBool(c.Query("system_dark"))
	return respondData(c, fiber.Map{
		"mode":      h.Theme.Mode(),
		"effective": h.Theme.Resolve(systemDark),
	})
}

func (h *SessionHandler) SetTheme(c *fiber.Ctx) error {
	var body struct {
		Mode models.ThemeMode `json:"mode"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	if err := h.Theme.SetMode(c.UserContext(), body.Mode); err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.Map{"mode": h.Theme.Mode()})
}
