// Package testutil wires an in-memory database and session tokens for tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"studio/config"
	"studio/database"
	"studio/middleware"
	"studio/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Secret signs the HS256 session tokens used in tests.
const Secret = "test-secret"

// SetupConfig installs a config suitable for tests and restores the old one afterwards.
func SetupConfig(t *testing.T) *config.Config {
	t.Helper()
	previous := config.AppConfig
	cfg := &config.Config{
		Port:                "0",
		CorsOrigins:         "*",
		DBDriver:            "sqlite",
		JWTKey:              Secret,
		StorageDriver:       "uploadthing",
		UploadThingApiURL:   "http://127.0.0.1:0",
		UploadThingFileHost: "https://utfs.io",
		FFprobeBin:          "ffprobe",
		ProbeTimeoutSeconds: 5,
		MaxUploadMB:         1,
		MaxBodyKB:           16,
		FileCleanupCron:     "@every 1h",
	}
	config.AppConfig = cfg
	t.Cleanup(func() { config.AppConfig = previous })
	return cfg
}

// SetupDatabase opens a private in-memory SQLite database, migrates it and
// installs it as database.Database for the duration of the test.
func SetupDatabase(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	db, err := database.Open("sqlite", dsn)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection keeps shared-cache SQLite free of table locks.
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	previous := database.Database
	database.Database = database.DbInstance{Db: db}
	t.Cleanup(func() {
		database.Database = previous
		_ = sqlDB.Close()
	})
	return db
}

// Token mints a session token for userID signed with Secret.
func Token(t *testing.T, userID string) string {
	t.Helper()
	token, err := middleware.GenerateSessionToken(userID, time.Hour)
	require.NoError(t, err)
	return token
}

// SeedChannel inserts a channel owned by userID.
func SeedChannel(t *testing.T, db *gorm.DB, userID, title string, createdAt time.Time) models.Channel {
	t.Helper()
	channel := models.Channel{Title: title, CreatedByClerkUserID: userID}
	channel.CreatedAt = createdAt
	require.NoError(t, db.Create(&channel).Error)
	return channel
}

// SeedChapter inserts a chapter under channelID.
func SeedChapter(t *testing.T, db *gorm.DB, channelID, title string, createdAt time.Time) models.Chapter {
	t.Helper()
	chapter := models.Chapter{ChannelID: channelID, Title: title}
	chapter.CreatedAt = createdAt
	require.NoError(t, db.Create(&chapter).Error)
	return chapter
}

// SeedVideo inserts a published video under chapterID.
func SeedVideo(t *testing.T, db *gorm.DB, chapterID, title, fileKey string, duration float64) models.Video {
	t.Helper()
	video := models.Video{
		ChapterID:   chapterID,
		Title:       title,
		UTFileKey:   fileKey,
		Duration:    duration,
		IsPublished: true,
	}
	require.NoError(t, db.Create(&video).Error)
	return video
}
