package systemRoutes

import (
	"studio/database"
	"studio/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupHealthRoutes exposes an unauthenticated liveness check
func SetupHealthRoutes(app fiber.Router) {
	app.Get("/healthz", func(c *fiber.Ctx) error {
		if err := database.Ping(); err != nil {
			return middleware.JsonResponse(c, fiber.StatusServiceUnavailable, false, "Database unavailable!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusOK, true, "OK", nil)
	})
}
