package utils

import (
	"context"
	"log"
	"time"

	"studio/config"
	"studio/database"
	"studio/models"
	"studio/storage"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

const (
	cleanupBatchSize   = 50
	cleanupMaxAttempts = 10
)

// InitializeFileCleanupScheduler starts the cron job that removes blobs of
// deleted videos from storage.
func InitializeFileCleanupScheduler() *cron.Cron {
	log.Println("[FILE-CLEANUP] Initializing file cleanup scheduler...")

	c := cron.New()

	spec := config.AppConfig.FileCleanupCron
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		deleted, err := ProcessPendingFileDeletions(ctx)
		if err != nil {
			log.Printf("[FILE-CLEANUP] Run failed: %v", err)
			return
		}
		if deleted > 0 {
			log.Printf("[FILE-CLEANUP] Deleted %d files from storage", deleted)
		}
	})
	if err != nil {
		log.Printf("[FILE-CLEANUP] Invalid schedule %q: %v", spec, err)
		return nil
	}

	c.Start()
	log.Printf("[FILE-CLEANUP] File cleanup scheduler started - schedule %q", spec)
	return c
}

// ProcessPendingFileDeletions deletes one batch of queued keys from storage.
// Keys a video references again are dropped from the queue without touching
// storage. Rows are removed on success; on failure every row in the batch
// records the error and one more attempt. Rows past the attempt limit are
// left alone.
func ProcessPendingFileDeletions(ctx context.Context) (int, error) {
	if storage.Files == nil {
		return 0, storage.ErrNotConfigured
	}
	db := database.Database.Db.WithContext(ctx)

	var pending []models.PendingFileDeletion
	if err := db.
		Where("attempts < ?", cleanupMaxAttempts).
		Order("created_at asc").
		Limit(cleanupBatchSize).
		Find(&pending).Error; err != nil {
		return 0, err
	}
	if len(pending) == 0 {
		return 0, nil
	}

	keys := make([]string, len(pending))
	for i, row := range pending {
		keys[i] = row.FileKey
	}
	inUse, err := database.FileKeysInUse(db, keys)
	if err != nil {
		return 0, err
	}

	var ids, reclaimed []uint
	keys = keys[:0]
	for _, row := range pending {
		if inUse[row.FileKey] {
			reclaimed = append(reclaimed, row.ID)
			continue
		}
		ids = append(ids, row.ID)
		keys = append(keys, row.FileKey)
	}

	// A video points at these files again, so only the queue entry goes.
	if len(reclaimed) > 0 {
		if err := db.Where("id IN ?", reclaimed).Delete(&models.PendingFileDeletion{}).Error; err != nil {
			return 0, err
		}
		log.Printf("[FILE-CLEANUP] Skipped %d files still used by videos", len(reclaimed))
	}
	if len(keys) == 0 {
		return 0, nil
	}

	if err := storage.Files.Delete(ctx, keys); err != nil {
		if updateErr := db.Model(&models.PendingFileDeletion{}).
			Where("id IN ?", ids).
			Updates(map[string]interface{}{
				"attempts":   gorm.Expr("attempts + 1"),
				"last_error": err.Error(),
			}).Error; updateErr != nil {
			log.Printf("[FILE-CLEANUP] Failed to record attempt for %d files: %v", len(ids), updateErr)
		}
		return 0, err
	}

	if err := db.Where("id IN ?", ids).Delete(&models.PendingFileDeletion{}).Error; err != nil {
		return 0, err
	}
	return len(keys), nil
}
