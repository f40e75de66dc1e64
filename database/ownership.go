package database

import (
	"errors"

	"studio/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OwnedBy scopes a channels query to one Clerk user.
func OwnedBy(userID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("channels.created_by_clerk_user_id = ?", userID)
	}
}

// FindOwnedChannel loads a channel only if userID created it. A channel owned by
// someone else yields gorm.ErrRecordNotFound, same as a missing one.
func FindOwnedChannel(db *gorm.DB, id, userID string) (*models.Channel, error) {
	var channel models.Channel
	err := db.Model(&models.Channel{}).
		Scopes(OwnedBy(userID)).
		Where("channels.id = ?", id).
		First(&channel).Error
	if err != nil {
		return nil, err
	}
	return &channel, nil
}

// FindOwnedChapter loads a chapter whose channel belongs to userID.
func FindOwnedChapter(db *gorm.DB, id, userID string) (*models.Chapter, error) {
	var chapter models.Chapter
	err := db.Model(&models.Chapter{}).
		Joins("JOIN channels ON channels.id = chapters.channel_id").
		Scopes(OwnedBy(userID)).
		Where("chapters.id = ?", id).
		First(&chapter).Error
	if err != nil {
		return nil, err
	}
	return &chapter, nil
}

// FindOwnedVideo loads a video whose chapter's channel belongs to userID.
func FindOwnedVideo(db *gorm.DB, id, userID string) (*models.Video, error) {
	var video models.Video
	err := db.Model(&models.Video{}).
		Joins("JOIN chapters ON chapters.id = videos.chapter_id").
		Joins("JOIN channels ON channels.id = chapters.channel_id").
		Scopes(OwnedBy(userID)).
		Where("videos.id = ?", id).
		First(&video).Error
	if err != nil {
		return nil, err
	}
	return &video, nil
}

// ErrFileKeyInUse is returned when a file key is already attached to a video.
var ErrFileKeyInUse = errors.New("file key already attached to a video")

// FileKeysInUse reports which of keys are still referenced by a video row.
func FileKeysInUse(db *gorm.DB, keys []string) (map[string]bool, error) {
	inUse := make(map[string]bool)
	if len(keys) == 0 {
		return inUse, nil
	}
	var found []string
	if err := db.Model(&models.Video{}).Where("ut_file_key IN ?", keys).Pluck("ut_file_key", &found).Error; err != nil {
		return nil, err
	}
	for _, key := range found {
		inUse[key] = true
	}
	return inUse, nil
}

// QueueFileDeletions records blob keys for the cleanup job. Keys already
// queued, and keys a remaining video still points at, are skipped.
func QueueFileDeletions(tx *gorm.DB, keys []string) error {
	candidates := make([]string, 0, len(keys))
	seen := make(map[string]bool, len(keys))
	for _, key := range keys {
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		candidates = append(candidates, key)
	}
	if len(candidates) == 0 {
		return nil
	}

	inUse, err := FileKeysInUse(tx, candidates)
	if err != nil {
		return err
	}
	rows := make([]models.PendingFileDeletion, 0, len(candidates))
	for _, key := range candidates {
		if !inUse[key] {
			rows = append(rows, models.PendingFileDeletion{FileKey: key})
		}
	}
	if len(rows) == 0 {
		return nil
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

// UnqueueFileDeletion drops a pending deletion for key, used when a new
// video claims the file before the cleanup job ran.
func UnqueueFileDeletion(tx *gorm.DB, key string) error {
	return tx.Where("file_key = ?", key).Delete(&models.PendingFileDeletion{}).Error
}

// DeleteChapters removes chapters and their videos inside tx, queueing the
// videos' file keys.
func DeleteChapters(tx *gorm.DB, chapterIDs []string) error {
	if len(chapterIDs) == 0 {
		return nil
	}

	var keys []string
	if err := tx.Model(&models.Video{}).Where("chapter_id IN ?", chapterIDs).Pluck("ut_file_key", &keys).Error; err != nil {
		return err
	}
	if err := tx.Where("chapter_id IN ?", chapterIDs).Delete(&models.Video{}).Error; err != nil {
		return err
	}
	if err := tx.Where("id IN ?", chapterIDs).Delete(&models.Chapter{}).Error; err != nil {
		return err
	}
	return QueueFileDeletions(tx, keys)
}

// DeleteChannel removes a channel with everything under it inside tx.
func DeleteChannel(tx *gorm.DB, channelID string) error {
	var chapterIDs []string
	if err := tx.Model(&models.Chapter{}).Where("channel_id = ?", channelID).Pluck("id", &chapterIDs).Error; err != nil {
		return err
	}
	if err := DeleteChapters(tx, chapterIDs); err != nil {
		return err
	}
	return tx.Where("id = ?", channelID).Delete(&models.Channel{}).Error
}
