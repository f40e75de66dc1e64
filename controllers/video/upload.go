package controllers

import (
	"errors"
	"fmt"
	"log"

	"studio/config"
	"studio/middleware"
	"studio/storage"
	"studio/utils"

	"github.com/gofiber/fiber/v2"
)

// UploadVideo accepts a multipart "file" and stores it in the configured
// bucket. Stores without server-side upload support answer 501.
func UploadVideo(c *fiber.Ctx) error {
	uploader, ok := storage.Files.(storage.Uploader)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusNotImplemented, false, "Uploads go directly to the file host!", nil)
	}

	file, err := c.FormFile("file")
	if err != nil {
		return middleware.ValidationErrorResponse(c, map[string]string{"file": "File is required!"})
	}

	maxBytes := int64(config.AppConfig.MaxUploadMB) << 20
	if file.Size > maxBytes {
		return middleware.ValidationErrorResponse(c, map[string]string{
			"file": fmt.Sprintf("File must be at most %d MB!", config.AppConfig.MaxUploadMB),
		})
	}

	src, err := file.Open()
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Could not read upload!", nil)
	}
	defer src.Close()

	contentType, err := utils.DetectVideo(src)
	if err != nil {
		if errors.Is(err, utils.ErrNotVideo) {
			return middleware.ValidationErrorResponse(c, map[string]string{"file": "File must be a video!"})
		}
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Could not read upload!", nil)
	}

	key := utils.NewFileKey(file.Filename)
	if err := uploader.Upload(c.UserContext(), key, src, contentType); err != nil {
		log.Printf("[VIDEOS] upload %s failed: %v", key, err)
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Failed to store video!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Video uploaded successfully!", fiber.Map{
		"file_key": key,
		"url":      storage.URL(key),
	})
}
