package handlers

import (
	"errors"
	"strconv"

	"github.com/fenilmodi00/ipo-companion/shared"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// statusForCategory maps error categories onto gateway HTTP statuses
var statusForCategory = map[shared.ErrorCategory]int{
	shared.ErrorCategoryValidation:     fiber.StatusBadRequest,
	shared.ErrorCategoryAuthentication: fiber.StatusUnauthorized,
	shared.ErrorCategoryResource:       fiber.StatusNotFound,
	shared.ErrorCategoryStorage:        fiber.StatusServiceUnavailable,
	shared.ErrorCategoryTimeout:        fiber.StatusGatewayTimeout,
	shared.ErrorCategoryNetwork:        fiber.StatusBadGateway,
	shared.ErrorCategoryUpstream:       fiber.StatusBadGateway,
	shared.ErrorCategoryProcessing:     fiber.StatusBadGateway,
	shared.ErrorCategoryConfiguration:  fiber.StatusInternalServerError,
}

func respondData(c *fiber.Ctx, data interface{}) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	body := fiber.Map{
		"success": false,
		"error":   err.Error(),
	}

	var serviceErr *shared.ServiceError
	if errors.As(err, &serviceErr) {
		if mapped, ok := statusForCategory[serviceErr.Category]; ok {
			status = mapped
		}
		body["error"] = serviceErr.Message
		body["code"] = serviceErr.Code
		body["category"] = serviceErr.Category
		if serviceErr.Details != nil {
			body["details"] = serviceErr.Details
		}
	}

	if status >= fiber.StatusInternalServerError {
		if serviceErr != nil {
			serviceErr.LogError()
		} else {
			logrus.WithError(err).WithFields(logrus.Fields{
				"component": "handlers",
				"path":      c.Path(),
				"status":    status,
			}).Warn("Request failed")
		}
	}

	return c.Status(status).JSON(body)
}

// respondFeed returns the view with the error, if any, alongside it. Failed fetches
// keep showing the last known items.
func respondFeed(c *fiber.Ctx, data interface{}, err error) error {
	if err == nil {
		return respondData(c, data)
	}

	status := fiber.StatusBadGateway
	if mapped, ok := statusForCategory[shared.CategoryOf(err)]; ok {
		status = mapped
	}
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"data":    data,
		"error":   errorMessage(err),
	})
}

func errorMessage(err error) string {
	var serviceErr *shared.ServiceError
	if errors.As(err, &serviceErr) {
		return serviceErr.Message
	}
	return err.Error()
}

// queryInt reads a positive integer query parameter
func queryInt(c *fiber.Ctx, key string, fallback int) int {
	value, err := strconv.Atoi(c.Query(key))
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

// queryBool reads an optional boolean query parameter
func queryBool(c *fiber.Ctx, key string) *bool {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &value
}

// queryFloat reads an optional float query parameter
func queryFloat(c *fiber.Ctx, key string) *float64 {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &value
}
