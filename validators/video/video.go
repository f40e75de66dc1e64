package videoValidator

import (
	"math"
	"strings"

	"studio/middleware"
	commonValidator "studio/validators/common"

	"github.com/gofiber/fiber/v2"
)

// CreateVideoRequest carries the metadata captured after an upload finishes.
// Duration is optional; when absent the server probes the file.
type CreateVideoRequest struct {
	Title       string   `json:"title" validate:"required,max=256"`
	Description string   `json:"description" validate:"max=5000"`
	FileKey     string   `json:"file_key" validate:"required,max=512"`
	IsPublished *bool    `json:"is_published"`
	Duration    *float64 `json:"duration" validate:"omitempty,gte=0"`
}

// UpdateVideoRequest changes any subset of the editable fields.
type UpdateVideoRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=256"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	IsPublished *bool   `json:"is_published"`
}

func CreateVideo() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateVideoRequest)
		ok, err := commonValidator.ParseBody(c, reqData, func() {
			reqData.Title = strings.TrimSpace(reqData.Title)
			reqData.Description = strings.TrimSpace(reqData.Description)
			reqData.FileKey = strings.TrimSpace(reqData.FileKey)
		})
		if !ok {
			return err
		}
		if reqData.Duration != nil && (math.IsNaN(*reqData.Duration) || math.IsInf(*reqData.Duration, 0)) {
			return middleware.ValidationErrorResponse(c, map[string]string{"duration": "Duration must be a number!"})
		}

		c.Locals("validatedVideo", reqData)
		return c.Next()
	}
}

func UpdateVideo() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateVideoRequest)
		ok, err := commonValidator.ParseBody(c, reqData, func() {
			if reqData.Title != nil {
				trimmed := strings.TrimSpace(*reqData.Title)
				reqData.Title = &trimmed
			}
			if reqData.Description != nil {
				trimmed := strings.TrimSpace(*reqData.Description)
				reqData.Description = &trimmed
			}
		})
		if !ok {
			return err
		}

		c.Locals("validatedVideoUpdate", reqData)
		return c.Next()
	}
}

// VideoID validates the :id path parameter.
func VideoID() fiber.Handler {
	return commonValidator.IDParam("id", "Video")
}
