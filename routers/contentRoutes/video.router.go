package contentRoutes

import (
	videoControllers "studio/controllers/video"
	"studio/middleware"
	videoValidator "studio/validators/video"

	"github.com/gofiber/fiber/v2"
)

// SetupVideoRoutes sets up video CRUD and server-side uploads
func SetupVideoRoutes(app fiber.Router) {
	videoGroup := app.Group("/videos")

	videoGroup.Post("/upload", middleware.ClerkAuth, videoControllers.UploadVideo)

	videoGroup.Get("/:id", middleware.ClerkAuth, videoValidator.VideoID(), middleware.RequireVideoOwner("id"), videoControllers.GetVideo)
	videoGroup.Put("/:id", middleware.ClerkAuth, videoValidator.VideoID(), videoValidator.UpdateVideo(), middleware.RequireVideoOwner("id"), videoControllers.UpdateVideo)
	videoGroup.Delete("/:id", middleware.ClerkAuth, videoValidator.VideoID(), middleware.RequireVideoOwner("id"), videoControllers.DeleteVideo)
}
