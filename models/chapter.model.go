package models

import "time"

type Chapter struct {
	Base
	ChannelID string  `json:"channel_id" gorm:"type:varchar(36);index;not null"`
	Title     string  `json:"title" gorm:"size:256;not null"`
	Videos    []Video `json:"videos,omitempty" gorm:"foreignKey:ChapterID;constraint:OnDelete:CASCADE"`
}

// ChapterSummary is a chapter row with its aggregated video count.
type ChapterSummary struct {
	ID         string    `json:"id"`
	ChannelID  string    `json:"channel_id"`
	Title      string    `json:"title"`
	CreatedAt  time.Time `json:"created_at"`
	VideoCount int64     `json:"video_count"`
}
