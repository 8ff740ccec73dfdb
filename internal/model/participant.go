package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Participant struct {
	ID       string    `gorm:"primaryKey;size:36"`
	UserID   string    `gorm:"size:36;not null;index;uniqueIndex:uk_participant_user_event"`
	EventID  string    `gorm:"size:36;not null;index;uniqueIndex:uk_participant_user_event"`
	JoinedAt time.Time `gorm:"not null"`
}

func (p *Participant) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

type ParticipantView struct {
	ID       string    `json:"id"`
	UserID   string    `json:"userId"`
	UserName string    `json:"userName"`
	JoinedAt time.Time `json:"joinedAt"`
}
