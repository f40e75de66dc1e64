package channelValidator

import (
	"strings"

	"studio/middleware"
	commonValidator "studio/validators/common"

	"github.com/gofiber/fiber/v2"
)

// ListChannelsRequest filters the channel list by title.
type ListChannelsRequest struct {
	Query string `query:"query" validate:"max=256"`
}

// CreateChannelRequest is the body of POST /channels.
type CreateChannelRequest struct {
	Title string `json:"title" validate:"required,max=256"`
}

// UpdateChannelRequest is the body of PUT /channels/:id.
type UpdateChannelRequest struct {
	Title string `json:"title" validate:"required,max=256"`
}

func ChannelList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ListChannelsRequest)
		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}
		reqData.Query = strings.TrimSpace(reqData.Query)

		if errors := middleware.ValidateStruct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedChannelList", reqData)
		return c.Next()
	}
}

func CreateChannel() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateChannelRequest)
		ok, err := commonValidator.ParseBody(c, reqData, func() {
			reqData.Title = strings.TrimSpace(reqData.Title)
		})
		if !ok {
			return err
		}

		c.Locals("validatedChannel", reqData)
		return c.Next()
	}
}

func UpdateChannel() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateChannelRequest)
		ok, err := commonValidator.ParseBody(c, reqData, func() {
			reqData.Title = strings.TrimSpace(reqData.Title)
		})
		if !ok {
			return err
		}

		c.Locals("validatedChannelUpdate", reqData)
		return c.Next()
	}
}

// ChannelID validates the :id path parameter.
func ChannelID() fiber.Handler {
	return commonValidator.IDParam("id", "Channel")
}
