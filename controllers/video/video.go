package controllers

import (
	"errors"
	"log"

	"studio/database"
	"studio/media"
	"studio/middleware"
	"studio/models"
	"studio/storage"
	videoValidator "studio/validators/video"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GetAllVideos lists a chapter's videos in upload order
func GetAllVideos(c *fiber.Ctx) error {
	chapter, ok := middleware.OwnedChapter(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Chapter not found!", nil)
	}

	videos := []models.Video{}
	if err := database.Database.Db.
		Where("chapter_id = ?", chapter.ID).
		Order("created_at asc").
		Find(&videos).Error; err != nil {
		log.Printf("[VIDEOS] list for chapter %s failed: %v", chapter.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch videos!", nil)
	}

	for i := range videos {
		videos[i].URL = storage.URL(videos[i].UTFileKey)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Videos fetched successfully!", fiber.Map{
		"videos": videos,
	})
}

// GetVideo returns a single video with its playback URL
func GetVideo(c *fiber.Ctx) error {
	video, ok := middleware.OwnedVideo(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Video not found!", nil)
	}
	video.URL = storage.URL(video.UTFileKey)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Video fetched successfully!", video)
}

// CreateVideo stores metadata for an uploaded file. A file backs at most one
// video. Without a client supplied duration the file is probed, and an
// unreadable duration or a file with no video stream aborts.
func CreateVideo(c *fiber.Ctx) error {
	chapter, ok := middleware.OwnedChapter(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Chapter not found!", nil)
	}

	reqData, ok := c.Locals("validatedVideo").(*videoValidator.CreateVideoRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	video := models.Video{
		ChapterID:   chapter.ID,
		Title:       reqData.Title,
		Description: reqData.Description,
		UTFileKey:   reqData.FileKey,
		IsPublished: true,
	}
	if reqData.IsPublished != nil {
		video.IsPublished = *reqData.IsPublished
	}

	inUse, err := database.FileKeysInUse(database.Database.Db, []string{video.UTFileKey})
	if err != nil {
		log.Printf("[VIDEOS] file key check in chapter %s failed: %v", chapter.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create video!", nil)
	}
	if inUse[video.UTFileKey] {
		return fileKeyConflict(c)
	}

	if reqData.Duration != nil && media.ValidDuration(*reqData.Duration) {
		video.Duration = *reqData.Duration
	} else {
		url := storage.URL(reqData.FileKey)
		result, err := media.DefaultProber.Inspect(c.UserContext(), url)
		if err != nil {
			log.Printf("[VIDEOS] probe %s failed: %v", url, err)
			return middleware.ValidationErrorResponse(c, map[string]string{"duration": "Could not read the video's duration!"})
		}
		duration := result.DurationSeconds()
		if !media.ValidDuration(duration) {
			return middleware.ValidationErrorResponse(c, map[string]string{"duration": "Could not read the video's duration!"})
		}
		if result.VideoStreamCount() == 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{"file_key": "File must be a video!"})
		}
		video.Duration = duration
		video.Probe = datatypes.JSON(result.Summary())
	}

	err = database.Database.Db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&video).Error; err != nil {
			return err
		}
		return database.UnqueueFileDeletion(tx, video.UTFileKey)
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fileKeyConflict(c)
	}
	if err != nil {
		log.Printf("[VIDEOS] create in chapter %s failed: %v", chapter.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create video!", nil)
	}
	video.URL = storage.URL(video.UTFileKey)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Video added successfully!", video)
}

func fileKeyConflict(c *fiber.Ctx) error {
	return middleware.JsonResponse(c, fiber.StatusConflict, false, "File is already attached to a video!", nil)
}

// UpdateVideo edits title, description or publish state
func UpdateVideo(c *fiber.Ctx) error {
	video, ok := middleware.OwnedVideo(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Video not found!", nil)
	}

	reqData, ok := c.Locals("validatedVideoUpdate").(*videoValidator.UpdateVideoRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	updates := map[string]interface{}{}
	if reqData.Title != nil {
		updates["title"] = *reqData.Title
		video.Title = *reqData.Title
	}
	if reqData.Description != nil {
		updates["description"] = *reqData.Description
		video.Description = *reqData.Description
	}
	if reqData.IsPublished != nil {
		updates["is_published"] = *reqData.IsPublished
		video.IsPublished = *reqData.IsPublished
	}

	if len(updates) > 0 {
		if err := database.Database.Db.Model(&models.Video{}).Where("id = ?", video.ID).Updates(updates).Error; err != nil {
			log.Printf("[VIDEOS] update %s failed: %v", video.ID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update video!", nil)
		}
	}
	video.URL = storage.URL(video.UTFileKey)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Video updated successfully!", video)
}

// DeleteVideo removes the row and queues its file for deletion from storage
func DeleteVideo(c *fiber.Ctx) error {
	video, ok := middleware.OwnedVideo(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Video not found!", nil)
	}

	err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", video.ID).Delete(&models.Video{}).Error; err != nil {
			return err
		}
		return database.QueueFileDeletions(tx, []string{video.UTFileKey})
	})
	if err != nil {
		log.Printf("[VIDEOS] delete %s failed: %v", video.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete video!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Video deleted successfully!", nil)
}
