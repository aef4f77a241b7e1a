package handlers

import (
	"database/sql"

	"github.com/fenilmodi00/ipo-companion/services"
	"github.com/gofiber/fiber/v2"
)

type PerformanceHandler struct {
	DB     *sql.DB
	Client *services.MarketAPIClient
	Cache  *services.CacheService
}

// NewPerformanceHandler creates the handler; db is nil when running on the memory store
func NewPerformanceHandler(db *sql.DB, client *services.MarketAPIClient, cache *services.CacheService) *PerformanceHandler {
	return &PerformanceHandler{DB: db, Client: client, Cache: cache}
}

// GetPerformanceMetrics returns upstream request metrics, cache and pool statistics
func (h *PerformanceHandler) GetPerformanceMetrics(c *fiber.Ctx) error {
	metrics := map[string]interface{}{
		"upstream":      h.Client.Metrics().GetSnapshot(),
		"request_count": h.Client.RequestCount(),
		"cache_stats":   h.Cache.GetCacheStats(),
	}

	if h.DB != nil {
		dbStats := h.DB.Stats()
		metrics["database_stats"] = map[string]interface{}{
			"open_connections":     dbStats.OpenConnections,
			"in_use":               dbStats.InUse,
			"idle":                 dbStats.Idle,
			"wait_count":           dbStats.WaitCount,
			"wait_duration_ms":     dbStats.WaitDuration.Milliseconds(),
			"max_idle_closed":      dbStats.MaxIdleClosed,
			"max_idle_time_closed": dbStats.MaxIdleTimeClosed,
			"max_lifetime_closed":  dbStats.MaxLifetimeClosed,
		}
	}

	return respondData(c, metrics)
}

// ClearCache drops every cached upstream response
func (h *PerformanceHandler) ClearCache(c *fiber.Ctx) error {
	size := h.Cache.Size()
	h.Cache.Clear()
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Cache cleared successfully",
		"cleared": size,
	})
}
