package middleware

import (
	"errors"
	"log"

	"studio/database"
	"studio/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ownedLookup loads a row by ID for the current user. Anything not owned by
// the caller surfaces as gorm.ErrRecordNotFound.
type ownedLookup func(db *gorm.DB, id, userID string) (interface{}, error)

func requireOwner(param, local, label string, lookup ownedLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := UserID(c)
		if !ok {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized: User ID not found", nil)
		}

		row, err := lookup(database.Database.Db, c.Params(param), userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return JsonResponse(c, fiber.StatusNotFound, false, label+" not found!", nil)
			}
			log.Printf("[OWNERSHIP] %s lookup failed: %v", label, err)
			return JsonResponse(c, fiber.StatusInternalServerError, false, "Server error while checking ownership!", nil)
		}

		c.Locals(local, row)
		return c.Next()
	}
}

// RequireChannelOwner loads the channel named by param into c.Locals("channel")
// when the caller created it.
func RequireChannelOwner(param string) fiber.Handler {
	return requireOwner(param, "channel", "Channel", func(db *gorm.DB, id, userID string) (interface{}, error) {
		return database.FindOwnedChannel(db, id, userID)
	})
}

// RequireChapterOwner loads the chapter named by param into c.Locals("chapter")
// when the caller owns its channel.
func RequireChapterOwner(param string) fiber.Handler {
	return requireOwner(param, "chapter", "Chapter", func(db *gorm.DB, id, userID string) (interface{}, error) {
		return database.FindOwnedChapter(db, id, userID)
	})
}

// RequireVideoOwner loads the video named by param into c.Locals("video")
// when the caller owns its channel.
func RequireVideoOwner(param string) fiber.Handler {
	return requireOwner(param, "video", "Video", func(db *gorm.DB, id, userID string) (interface{}, error) {
		return database.FindOwnedVideo(db, id, userID)
	})
}

// OwnedChannel returns the channel stored by RequireChannelOwner.
func OwnedChannel(c *fiber.Ctx) (*models.Channel, bool) {
	channel, ok := c.Locals("channel").(*models.Channel)
	return channel, ok
}

// OwnedChapter returns the chapter stored by RequireChapterOwner.
func OwnedChapter(c *fiber.Ctx) (*models.Chapter, bool) {
	chapter, ok := c.Locals("chapter").(*models.Chapter)
	return chapter, ok
}

// OwnedVideo returns the video stored by RequireVideoOwner.
func OwnedVideo(c *fiber.Ctx) (*models.Video, bool) {
	video, ok := c.Locals("video").(*models.Video)
	return video, ok
}
