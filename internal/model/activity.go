package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActivityPost struct {
	ID           string    `gorm:"primaryKey;size:36"`
	EventID      string    `gorm:"size:36;not null;index:idx_activity_event_time,priority:1"`
	AuthorID     string    `gorm:"size:36;not null;index"`
	Description  string    `gorm:"type:text;not null"`
	ImageURL     *string   `gorm:"column:image_url;size:512"`
	TreesPlanted int64     `gorm:"not null;default:0"`
	CreatedAt    time.Time `gorm:"not null;index:idx_activity_event_time,priority:2"`
}

func (ActivityPost) TableName() string {
	return "activity_posts"
}

func (a *ActivityPost) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

type ActivityView struct {
	ID           string    `json:"id"`
	AuthorID     string    `json:"authorId"`
	AuthorName   string    `json:"authorName"`
	Description  string    `json:"description"`
	ImageURL     *string   `gorm:"column:image_url" json:"imageUrl,omitempty"`
	TreesPlanted int64     `json:"treesPlanted"`
	CreatedAt    time.Time `json:"createdAt"`
}
