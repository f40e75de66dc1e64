package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"studio/config"
	"studio/database"
	"studio/media"
	"studio/models"
	"studio/storage"

	"gorm.io/gorm"
)

// Imports a channel/chapter/video catalog from CSV for one Clerk user.
//
// Expected headers: channel, chapter, title, file_key, and optionally
// duration, description and is_published. Rows without a duration are probed.
func main() {
	path := flag.String("file", "catalog.csv", "CSV file to import")
	userID := flag.String("user", os.Getenv("IMPORT_CLERK_USER_ID"), "Clerk user ID that owns the imported channels")
	flag.Parse()

	if strings.TrimSpace(*userID) == "" {
		log.Fatal("A Clerk user ID is required (-user or IMPORT_CLERK_USER_ID)")
	}

	config.LoadConfig()
	database.ConnectDb()
	if err := storage.Load(); err != nil {
		log.Fatalf("Failed to configure storage: %v", err)
	}
	media.Configure(config.AppConfig.FFprobeBin, time.Duration(config.AppConfig.ProbeTimeoutSeconds)*time.Second)

	file, err := os.Open(*path)
	if err != nil {
		log.Fatalf("Failed to open CSV file: %v", err)
	}
	defer file.Close()

	stats, err := importCatalog(context.Background(), database.Database.Db, *userID, file)
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	log.Printf("=== Import Complete ===")
	log.Printf("Channels created: %d", stats.Channels)
	log.Printf("Chapters created: %d", stats.Chapters)
	log.Printf("Videos inserted: %d", stats.Inserted)
	log.Printf("Videos updated: %d", stats.Updated)
	log.Printf("Skipped: %d", stats.Skipped)
}

type importStats struct {
	Channels int
	Chapters int
	Inserted int
	Updated  int
	Skipped  int
}

type catalogImporter struct {
	db       *gorm.DB
	userID   string
	stats    importStats
	channels map[string]string
	chapters map[string]string
}

func importCatalog(ctx context.Context, db *gorm.DB, userID string, r io.Reader) (importStats, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return importStats{}, fmt.Errorf("read csv: %w", err)
	}
	if len(records) < 2 {
		return importStats{}, fmt.Errorf("csv file is empty or has only headers")
	}

	headerIndex := make(map[string]int)
	for i, h := range records[0] {
		headerIndex[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"channel", "chapter", "title", "file_key"} {
		if _, ok := headerIndex[required]; !ok {
			return importStats{}, fmt.Errorf("missing column %q", required)
		}
	}
	log.Printf("Total rows to import: %d", len(records)-1)

	imp := &catalogImporter{
		db:       db,
		userID:   userID,
		channels: map[string]string{},
		chapters: map[string]string{},
	}
	for i, row := range records[1:] {
		if err := imp.importRow(ctx, row, headerIndex); err != nil {
			log.Printf("Row %d skipped: %v", i+2, err)
			imp.stats.Skipped++
		}
	}
	return imp.stats, nil
}

func (imp *catalogImporter) importRow(ctx context.Context, row []string, headerIndex map[string]int) error {
	channelTitle := getField(row, headerIndex, "channel")
	chapterTitle := getField(row, headerIndex, "chapter")
	title := getField(row, headerIndex, "title")
	fileKey := getField(row, headerIndex, "file_key")
	if channelTitle == "" || chapterTitle == "" || title == "" || fileKey == "" {
		return fmt.Errorf("channel, chapter, title and file_key are required")
	}

	duration, err := imp.duration(ctx, getField(row, headerIndex, "duration"), fileKey)
	if err != nil {
		return err
	}

	channelID, err := imp.channel(channelTitle)
	if err != nil {
		return err
	}
	chapterID, err := imp.chapter(channelID, chapterTitle)
	if err != nil {
		return err
	}

	video := models.Video{
		ChapterID:   chapterID,
		Title:       title,
		Description: getField(row, headerIndex, "description"),
		UTFileKey:   fileKey,
		Duration:    duration,
		IsPublished: parseBool(getField(row, headerIndex, "is_published"), true),
	}

	var existing models.Video
	err = imp.db.Where("chapter_id = ? AND ut_file_key = ?", chapterID, fileKey).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := imp.db.Create(&video).Error; err != nil {
			return fmt.Errorf("insert video %q: %w", title, err)
		}
		imp.stats.Inserted++
	case err != nil:
		return err
	default:
		if err := imp.db.Model(&existing).Updates(map[string]interface{}{
			"title":        video.Title,
			"description":  video.Description,
			"duration":     video.Duration,
			"is_published": video.IsPublished,
		}).Error; err != nil {
			return fmt.Errorf("update video %q: %w", title, err)
		}
		imp.stats.Updated++
	}
	return nil
}

func (imp *catalogImporter) duration(ctx context.Context, raw, fileKey string) (float64, error) {
	if raw != "" {
		d, err := strconv.ParseFloat(raw, 64)
		if err == nil && media.ValidDuration(d) {
			return d, nil
		}
	}
	result, err := media.DefaultProber.Inspect(ctx, storage.URL(fileKey))
	if err != nil {
		return 0, fmt.Errorf("probe %s: %w", fileKey, err)
	}
	d := result.DurationSeconds()
	if !media.ValidDuration(d) {
		return 0, fmt.Errorf("probe %s: unreadable duration", fileKey)
	}
	return d, nil
}

func (imp *catalogImporter) channel(title string) (string, error) {
	if id, ok := imp.channels[title]; ok {
		return id, nil
	}
	var channel models.Channel
	err := imp.db.Where("created_by_clerk_user_id = ? AND title = ?", imp.userID, title).First(&channel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		channel = models.Channel{Title: title, CreatedByClerkUserID: imp.userID}
		if err := imp.db.Create(&channel).Error; err != nil {
			return "", fmt.Errorf("create channel %q: %w", title, err)
		}
		imp.stats.Channels++
	} else if err != nil {
		return "", err
	}
	imp.channels[title] = channel.ID
	return channel.ID, nil
}

func (imp *catalogImporter) chapter(channelID, title string) (string, error) {
	cacheKey := channelID + "/" + title
	if id, ok := imp.chapters[cacheKey]; ok {
		return id, nil
	}
	var chapter models.Chapter
	err := imp.db.Where("channel_id = ? AND title = ?", channelID, title).First(&chapter).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		chapter = models.Chapter{ChannelID: channelID, Title: title}
		if err := imp.db.Create(&chapter).Error; err != nil {
			return "", fmt.Errorf("create chapter %q: %w", title, err)
		}
		imp.stats.Chapters++
	} else if err != nil {
		return "", err
	}
	imp.chapters[cacheKey] = chapter.ID
	return chapter.ID, nil
}

// getField safely gets a field from the row by header name
func getField(row []string, headerIndex map[string]int, field string) string {
	if idx, ok := headerIndex[field]; ok && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

func parseBool(s string, fallback bool) bool {
	if s == "" {
		return fallback
	}
	val, err := strconv.ParseBool(s)
	if err != nil {
		return fallback
	}
	return val
}
