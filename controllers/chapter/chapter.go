package controllers

import (
	"log"

	"studio/database"
	"studio/middleware"
	"studio/models"
	chapterValidator "studio/validators/chapter"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetAllChapters lists a channel's chapters, oldest first, with video counts
func GetAllChapters(c *fiber.Ctx) error {
	channel, ok := middleware.OwnedChannel(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Channel not found!", nil)
	}

	limit := chapterValidator.DefaultListLimit
	if reqData, ok := c.Locals("validatedChapterList").(*chapterValidator.ListChaptersRequest); ok && reqData.Limit != nil {
		limit = *reqData.Limit
	}

	chapters := []models.ChapterSummary{}
	if err := database.Database.Db.Model(&models.Chapter{}).
		Select("chapters.id, chapters.channel_id, chapters.title, chapters.created_at, COUNT(videos.id) AS video_count").
		Joins("LEFT JOIN videos ON videos.chapter_id = chapters.id").
		Where("chapters.channel_id = ?", channel.ID).
		Group("chapters.id, chapters.channel_id, chapters.title, chapters.created_at").
		Order("chapters.created_at asc").
		Limit(limit).
		Scan(&chapters).Error; err != nil {
		log.Printf("[CHAPTERS] list for channel %s failed: %v", channel.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch chapters!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Chapters fetched successfully!", fiber.Map{
		"chapters": chapters,
	})
}

// GetChapter returns a single chapter of an owned channel
func GetChapter(c *fiber.Ctx) error {
	chapter, ok := middleware.OwnedChapter(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Chapter not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Chapter fetched successfully!", chapter)
}

// CreateChapter adds a chapter to an owned channel
func CreateChapter(c *fiber.Ctx) error {
	channel, ok := middleware.OwnedChannel(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Channel not found!", nil)
	}

	reqData, ok := c.Locals("validatedChapter").(*chapterValidator.CreateChapterRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	chapter := models.Chapter{
		ChannelID: channel.ID,
		Title:     reqData.Title,
	}

	if err := database.Database.Db.Create(&chapter).Error; err != nil {
		log.Printf("[CHAPTERS] create in channel %s failed: %v", channel.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create chapter!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Chapter created successfully!", chapter)
}

// UpdateChapter renames a chapter
func UpdateChapter(c *fiber.Ctx) error {
	chapter, ok := middleware.OwnedChapter(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Chapter not found!", nil)
	}

	reqData, ok := c.Locals("validatedChapterUpdate").(*chapterValidator.UpdateChapterRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if err := database.Database.Db.Model(chapter).Update("title", reqData.Title).Error; err != nil {
		log.Printf("[CHAPTERS] update %s failed: %v", chapter.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update chapter!", nil)
	}
	chapter.Title = reqData.Title

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Chapter updated successfully!", chapter)
}

// DeleteChapter removes a chapter and its videos
func DeleteChapter(c *fiber.Ctx) error {
	chapter, ok := middleware.OwnedChapter(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Chapter not found!", nil)
	}

	err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		return database.DeleteChapters(tx, []string{chapter.ID})
	})
	if err != nil {
		log.Printf("[CHAPTERS] delete %s failed: %v", chapter.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete chapter!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Chapter deleted successfully!", nil)
}
