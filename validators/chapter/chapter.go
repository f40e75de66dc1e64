package chapterValidator

import (
	"strings"

	"studio/middleware"
	commonValidator "studio/validators/common"

	"github.com/gofiber/fiber/v2"
)

// DefaultListLimit matches how many chapters the channel page shows.
const DefaultListLimit = 10

type ListChaptersRequest struct {
	Limit *int `query:"limit" validate:"omitempty,gte=1,lte=100"`
}

type CreateChapterRequest struct {
	Title string `json:"title" validate:"required,max=256"`
}

type UpdateChapterRequest struct {
	Title string `json:"title" validate:"required,max=256"`
}

func ChapterList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ListChaptersRequest)
		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		if errors := middleware.ValidateStruct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		if reqData.Limit == nil {
			limit := DefaultListLimit
			reqData.Limit = &limit
		}

		c.Locals("validatedChapterList", reqData)
		return c.Next()
	}
}

func CreateChapter() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateChapterRequest)
		ok, err := commonValidator.ParseBody(c, reqData, func() {
			reqData.Title = strings.TrimSpace(reqData.Title)
		})
		if !ok {
			return err
		}

		c.Locals("validatedChapter", reqData)
		return c.Next()
	}
}

func UpdateChapter() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateChapterRequest)
		ok, err := commonValidator.ParseBody(c, reqData, func() {
			reqData.Title = strings.TrimSpace(reqData.Title)
		})
		if !ok {
			return err
		}

		c.Locals("validatedChapterUpdate", reqData)
		return c.Next()
	}
}

// ChapterID validates the :id path parameter.
func ChapterID() fiber.Handler {
	return commonValidator.IDParam("id", "Chapter")
}
