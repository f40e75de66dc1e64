package models

import "time"

// Channel is the top of the content hierarchy and the unit of ownership.
type Channel struct {
	Base
	Title                string    `json:"title" gorm:"size:256;not null"`
	CreatedByClerkUserID string    `json:"created_by_clerk_user_id" gorm:"size:64;index;not null"`
	Chapters             []Chapter `json:"chapters,omitempty" gorm:"foreignKey:ChannelID;constraint:OnDelete:CASCADE"`
}

// ChannelSummary is a channel row with its aggregated chapter count.
type ChannelSummary struct {
	ID                   string    `json:"id"`
	Title                string    `json:"title"`
	CreatedByClerkUserID string    `json:"created_by_clerk_user_id"`
	CreatedAt            time.Time `json:"created_at"`
	ChapterCount         int64     `json:"chapter_count"`
}
