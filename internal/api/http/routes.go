package httpapi

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/superdark1999/multi-api-integration/internal/aggregate"
)

// HealthFunc reports whether the durable store connection is currently
// established.
type HealthFunc func(c *fiber.Ctx) bool

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *aggregate.Service, health HealthFunc) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Multi-API Integration API",
		})
	})

	app.Get("/aggregated-data", func(c *fiber.Ctx) error {
		params := parseParams(c)

		snapshot, err := service.Collect(c.Context(), params)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   "Failed to fetch aggregated data",
				"message": err.Error(),
			})
		}

		return c.JSON(snapshot)
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		database := "disconnected"
		if health != nil && health(c) {
			database = "connected"
		}
		return c.JSON(fiber.Map{
			"status":   "ok",
			"database": database,
		})
	})
}

// parseParams reads the optional query parameters. Numeric parameters that
// fail to parse are treated as absent, not as errors.
func parseParams(c *fiber.Ctx) aggregate.Params {
	return aggregate.Params{
		City:        c.Query("city"),
		NewsKeyword: c.Query("newsKeyword"),
		MinPrice:    parseOptionalFloat(c.Query("minPrice")),
		MaxPrice:    parseOptionalFloat(c.Query("maxPrice")),
	}
}

func parseOptionalFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}
