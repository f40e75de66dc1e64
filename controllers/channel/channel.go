package controllers

import (
	"log"
	"strings"

	"studio/database"
	"studio/middleware"
	"studio/models"
	channelValidator "studio/validators/channel"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetAllChannels lists the caller's channels, newest first, with chapter counts
func GetAllChannels(c *fiber.Ctx) error {
	userId, ok := middleware.UserID(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, _ := c.Locals("validatedChannelList").(*channelValidator.ListChannelsRequest)

	db := database.Database.Db.Model(&models.Channel{}).
		Select("channels.id, channels.title, channels.created_by_clerk_user_id, channels.created_at, COUNT(chapters.id) AS chapter_count").
		Joins("LEFT JOIN chapters ON chapters.channel_id = channels.id").
		Scopes(database.OwnedBy(userId))

	if reqData != nil && reqData.Query != "" {
		db = db.Where("LOWER(channels.title) LIKE ?", "%"+strings.ToLower(reqData.Query)+"%")
	}

	channels := []models.ChannelSummary{}
	if err := db.
		Group("channels.id, channels.title, channels.created_by_clerk_user_id, channels.created_at").
		Order("channels.created_at desc").
		Scan(&channels).Error; err != nil {
		log.Printf("[CHANNELS] list for %s failed: %v", userId, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch channels!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Channels fetched successfully!", fiber.Map{
		"channels": channels,
	})
}

// GetChannel returns a single owned channel
func GetChannel(c *fiber.Ctx) error {
	channel, ok := middleware.OwnedChannel(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Channel not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Channel fetched successfully!", channel)
}

// CreateChannel creates a channel owned by the caller
func CreateChannel(c *fiber.Ctx) error {
	userId, ok := middleware.UserID(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedChannel").(*channelValidator.CreateChannelRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	channel := models.Channel{
		Title:                reqData.Title,
		CreatedByClerkUserID: userId,
	}

	if err := database.Database.Db.Create(&channel).Error; err != nil {
		log.Printf("[CHANNELS] create for %s failed: %v", userId, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create channel!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Channel created successfully!", channel)
}

// UpdateChannel renames an owned channel and returns the updated row
func UpdateChannel(c *fiber.Ctx) error {
	userId, ok := middleware.UserID(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	channel, ok := middleware.OwnedChannel(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Channel not found!", nil)
	}

	reqData, ok := c.Locals("validatedChannelUpdate").(*channelValidator.UpdateChannelRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	result := database.Database.Db.Model(channel).
		Where("created_by_clerk_user_id = ?", userId).
		Update("title", reqData.Title)
	if result.Error != nil {
		log.Printf("[CHANNELS] update %s failed: %v", channel.ID, result.Error)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update channel!", nil)
	}
	if result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Channel not found!", nil)
	}
	channel.Title = reqData.Title

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Channel updated successfully!", channel)
}

// DeleteChannel removes an owned channel together with its chapters and videos
func DeleteChannel(c *fiber.Ctx) error {
	channel, ok := middleware.OwnedChannel(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Channel not found!", nil)
	}

	err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		return database.DeleteChannel(tx, channel.ID)
	})
	if err != nil {
		log.Printf("[CHANNELS] delete %s failed: %v", channel.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete channel!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Channel deleted successfully!", nil)
}
