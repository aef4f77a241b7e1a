package handlers

import (
	"time"

	"github.com/fenilmodi00/ipo-companion/shared"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers groups every handler mounted on the gateway
type Handlers struct {
	IPO         *IPOHandler
	GMP         *GMPHandler
	Market      *MarketHandler
	Feeds       *FeedHandler
	Session     *SessionHandler
	Portfolio   *PortfolioHandler
	Performance *PerformanceHandler
}

// SetupRoutes mounts the gateway surface on app
func SetupRoutes(app *fiber.App, h Handlers) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"timestamp": time.Now().Unix(),
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(shared.MetricsRegistry, promhttp.HandlerOpts{})))

	api := app.Group("/api/v1")

	api.Get("/home", h.Market.GetHome)

	// IPO Routes
	api.Get("/ipos", h.IPO.GetIPOs)
	api.Get("/ipos/:id", h.IPO.GetIPOByID)
	api.Get("/gmp", h.GMP.GetGMPTrends)

	// Market Routes
	api.Get("/buybacks", h.Market.GetBuybacks)
	api.Get("/brokers", h.Market.GetBrokers)

	// Feed Routes
	feeds := api.Group("/feeds")
	feeds.Get("/:feed", h.Feeds.GetFeed())
	feeds.Post("/:feed/filter", h.Feeds.SetFilter())
	feeds.Post("/:feed/more", h.Feeds.LoadMore())
	feeds.Post("/:feed/refresh", h.Feeds.Refresh())

	// Session Routes
	auth := api.Group("/auth")
	auth.Post("/login", h.Session.Login)
	auth.Post("/register", h.Session.Register)
	auth.Post("/logout", h.Session.Logout)
	api.Get("/session", h.Session.GetSession)
	api.Get("/theme", h.Session.GetTheme)
	api.Put("/theme", h.Session.SetTheme)

	// Portfolio Routes
	api.Get("/portfolio", h.Portfolio.GetPortfolio)
	api.Post("/portfolio", h.Portfolio.AddTransaction)

	// Performance Routes
	perf := api.Group("/performance")
	perf.Get("/metrics", h.Performance.GetPerformanceMetrics)
	perf.Delete("/cache", h.Performance.ClearCache)
}
