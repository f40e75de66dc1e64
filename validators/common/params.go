package commonValidator

import (
	"strings"

	"studio/middleware"

	"github.com/gofiber/fiber/v2"
)

// IDParam rejects requests whose path parameter is not a UUID.
func IDParam(param, label string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := strings.TrimSpace(c.Params(param))
		if id == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, label+" ID is required!", nil)
		}
		if !middleware.IsUUID(id) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid "+label+" ID!", nil)
		}
		return c.Next()
	}
}

// ParseBody decodes the JSON body into req and validates it. It writes the
// error response itself and reports whether the handler chain may continue.
func ParseBody(c *fiber.Ctx, req interface{}, normalize func()) (bool, error) {
	if err := c.BodyParser(req); err != nil {
		return false, middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}
	if normalize != nil {
		normalize()
	}
	if errors := middleware.ValidateStruct(req); len(errors) > 0 {
		return false, middleware.ValidationErrorResponse(c, errors)
	}
	return true, nil
}
