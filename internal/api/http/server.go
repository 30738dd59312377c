package httpapi

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/i474232898/weathercast/internal/location"
	"github.com/i474232898/weathercast/internal/weather"
)

// NewApp builds the Fiber app with middleware, health check and API routes.
func NewApp(service *weather.Service, resolver *location.Resolver) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "weathercast",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		// A full cascade may run three steps back to back.
		WriteTimeout: 60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weathercast",
		})
	})

	RegisterRoutes(app, service, resolver)
	return app
}
