package models

import "gorm.io/datatypes"

// Video is the metadata row for one uploaded file. The bytes live in blob
// storage under UTFileKey.
type Video struct {
	Base
	ChapterID   string         `json:"chapter_id" gorm:"type:varchar(36);index;not null"`
	Title       string         `json:"title" gorm:"size:256;not null"`
	Description string         `json:"description" gorm:"type:text"`
	UTFileKey   string         `json:"file_key" gorm:"column:ut_file_key;size:512;not null;uniqueIndex"`
	Duration    float64        `json:"duration" gorm:"default:0"` // seconds
	IsPublished bool           `json:"is_published" gorm:"default:false"`
	Probe       datatypes.JSON `json:"probe,omitempty"`
	URL         string         `json:"url,omitempty" gorm:"-"`
}
