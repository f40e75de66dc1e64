package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// LimitBody rejects request bodies larger than maxBytes with 413, except on
// the exempt paths.
func LimitBody(maxBytes int, exempt ...string) fiber.Handler {
	skip := make(map[string]bool, len(exempt))
	for _, path := range exempt {
		skip[path] = true
	}

	return func(c *fiber.Ctx) error {
		if skip[c.Path()] {
			return c.Next()
		}
		size := c.Request().Header.ContentLength()
		if size < 0 {
			size = len(c.Body())
		}
		if size > maxBytes {
			return JsonResponse(c, fiber.StatusRequestEntityTooLarge, false, "Request body too large!", nil)
		}
		return c.Next()
	}
}
