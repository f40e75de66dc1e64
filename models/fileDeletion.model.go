package models

import "time"

// PendingFileDeletion queues a blob key whose video row is gone.
type PendingFileDeletion struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	FileKey   string    `json:"file_key" gorm:"size:512;uniqueIndex;not null"`
	Attempts  int       `json:"attempts" gorm:"default:0"`
	LastError string    `json:"last_error" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
