package contentRoutes

import (
	chapterControllers "studio/controllers/chapter"
	videoControllers "studio/controllers/video"
	"studio/middleware"
	chapterValidator "studio/validators/chapter"
	videoValidator "studio/validators/video"

	"github.com/gofiber/fiber/v2"
)

// SetupChapterRoutes sets up chapter CRUD and the video routes nested under a chapter
func SetupChapterRoutes(app fiber.Router) {
	chapterGroup := app.Group("/chapters")

	chapterGroup.Get("/:id", middleware.ClerkAuth, chapterValidator.ChapterID(), middleware.RequireChapterOwner("id"), chapterControllers.GetChapter)
	chapterGroup.Put("/:id", middleware.ClerkAuth, chapterValidator.ChapterID(), chapterValidator.UpdateChapter(), middleware.RequireChapterOwner("id"), chapterControllers.UpdateChapter)
	chapterGroup.Delete("/:id", middleware.ClerkAuth, chapterValidator.ChapterID(), middleware.RequireChapterOwner("id"), chapterControllers.DeleteChapter)

	// Videos of a chapter
	chapterGroup.Get("/:id/videos", middleware.ClerkAuth, chapterValidator.ChapterID(), middleware.RequireChapterOwner("id"), videoControllers.GetAllVideos)
	chapterGroup.Post("/:id/videos", middleware.ClerkAuth, chapterValidator.ChapterID(), videoValidator.CreateVideo(), middleware.RequireChapterOwner("id"), videoControllers.CreateVideo)
}
