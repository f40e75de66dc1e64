package contentRoutes

import (
	channelControllers "studio/controllers/channel"
	chapterControllers "studio/controllers/chapter"
	"studio/middleware"
	channelValidator "studio/validators/channel"
	chapterValidator "studio/validators/chapter"

	"github.com/gofiber/fiber/v2"
)

// SetupChannelRoutes sets up channel CRUD and the chapter routes nested under a channel
func SetupChannelRoutes(app fiber.Router) {
	channelGroup := app.Group("/channels")

	channelGroup.Get("/", middleware.ClerkAuth, channelValidator.ChannelList(), channelControllers.GetAllChannels)
	channelGroup.Post("/", middleware.ClerkAuth, channelValidator.CreateChannel(), channelControllers.CreateChannel)
	channelGroup.Get("/:id", middleware.ClerkAuth, channelValidator.ChannelID(), middleware.RequireChannelOwner("id"), channelControllers.GetChannel)
	channelGroup.Put("/:id", middleware.ClerkAuth, channelValidator.ChannelID(), channelValidator.UpdateChannel(), middleware.RequireChannelOwner("id"), channelControllers.UpdateChannel)
	channelGroup.Delete("/:id", middleware.ClerkAuth, channelValidator.ChannelID(), middleware.RequireChannelOwner("id"), channelControllers.DeleteChannel)
	channelGroup.Get("/:id/stats", middleware.ClerkAuth, channelValidator.ChannelID(), middleware.RequireChannelOwner("id"), channelControllers.GetChannelStats)

	// Chapters of a channel
	channelGroup.Get("/:id/chapters", middleware.ClerkAuth, channelValidator.ChannelID(), chapterValidator.ChapterList(), middleware.RequireChannelOwner("id"), chapterControllers.GetAllChapters)
	channelGroup.Post("/:id/chapters", middleware.ClerkAuth, channelValidator.ChannelID(), chapterValidator.CreateChapter(), middleware.RequireChannelOwner("id"), chapterControllers.CreateChapter)
}
