package controllers

import (
	"log"
	"time"

	"studio/database"
	"studio/middleware"
	"studio/models"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"
	"gorm.io/gorm"
)

// ChannelStats summarizes a channel's content for the dashboard header.
type ChannelStats struct {
	ChapterCount        int64   `json:"chapter_count"`
	VideoCount          int64   `json:"video_count"`
	PublishedVideoCount int64   `json:"published_video_count"`
	TotalDuration       float64 `json:"total_duration"`
	VideosThisMonth     int64   `json:"videos_this_month"`
}

// GetChannelStats aggregates chapter and video figures for an owned channel
func GetChannelStats(c *fiber.Ctx) error {
	channel, ok := middleware.OwnedChannel(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Channel not found!", nil)
	}

	stats, err := channelStats(database.Database.Db, channel.ID, time.Now().UTC())
	if err != nil {
		log.Printf("[CHANNELS] stats %s failed: %v", channel.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch channel stats!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Channel stats fetched successfully!", stats)
}

func channelStats(db *gorm.DB, channelID string, at time.Time) (ChannelStats, error) {
	var stats ChannelStats

	videos := func() *gorm.DB {
		return db.Model(&models.Video{}).
			Joins("JOIN chapters ON chapters.id = videos.chapter_id").
			Where("chapters.channel_id = ?", channelID)
	}

	if err := db.Model(&models.Chapter{}).Where("channel_id = ?", channelID).Count(&stats.ChapterCount).Error; err != nil {
		return stats, err
	}
	if err := videos().Count(&stats.VideoCount).Error; err != nil {
		return stats, err
	}
	if err := videos().Where("videos.is_published = ?", true).Count(&stats.PublishedVideoCount).Error; err != nil {
		return stats, err
	}
	if err := videos().Select("COALESCE(SUM(videos.duration), 0)").Scan(&stats.TotalDuration).Error; err != nil {
		return stats, err
	}

	monthStart := now.With(at).BeginningOfMonth()
	if err := videos().Where("videos.created_at >= ?", monthStart).Count(&stats.VideosThisMonth).Error; err != nil {
		return stats, err
	}

	return stats, nil
}
