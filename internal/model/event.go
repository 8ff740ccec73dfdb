package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type EventStatus string

const (
	StatusUpcoming  EventStatus = "UPCOMING"
	StatusOngoing   EventStatus = "ONGOING"
	StatusCompleted EventStatus = "COMPLETED"
)

func (s EventStatus) Valid() bool {
	switch s {
	case StatusUpcoming, StatusOngoing, StatusCompleted:
		return true
	}
	return false
}

type Event struct {
	ID               string      `gorm:"primaryKey;size:36"`
	Title            string      `gorm:"size:200;not null"`
	Description      string      `gorm:"type:text;not null"`
	Date             time.Time   `gorm:"column:event_date;not null"`
	Address          string      `gorm:"size:255;not null"`
	Lat              float64     `gorm:"not null"`
	Lng              float64     `gorm:"not null"`
	ImageURL         string      `gorm:"column:image_url;size:512"`
	Status           EventStatus `gorm:"size:16;not null;default:UPCOMING;index"`
	AcceptDonations  bool        `gorm:"not null;default:false"`
	AcceptVolunteers bool        `gorm:"not null;default:false"`
	TotalTrees       int64       `gorm:"not null;default:0"`
	OrganizerID      string      `gorm:"size:36;not null;index"`
	CreatedAt        time.Time   `gorm:"index"`
	UpdatedAt        time.Time
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// EventSummary is the list row: the event plus aggregates computed at read time.
type EventSummary struct {
	ID               string          `json:"id"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	Date             time.Time       `gorm:"column:event_date" json:"date"`
	Address          string          `json:"address"`
	Lat              float64         `json:"lat"`
	Lng              float64         `json:"lng"`
	ImageURL         string          `gorm:"column:image_url" json:"imageUrl"`
	Status           EventStatus     `json:"status"`
	AcceptDonations  bool            `json:"acceptDonations"`
	AcceptVolunteers bool            `json:"acceptVolunteers"`
	TotalTrees       int64           `json:"totalTrees"`
	OrganizerID      string          `json:"organizerId"`
	OrganizerName    string          `json:"organizerName"`
	ParticipantCount int64           `json:"participantCount"`
	TotalDonations   decimal.Decimal `json:"totalDonations"`
	CreatedAt        time.Time       `json:"createdAt"`
	Distance         *float64        `gorm:"-" json:"distance,omitempty"`
}

type EventDetail struct {
	EventSummary
	Participants []ParticipantView `json:"participants"`
	Donations    []DonationView    `json:"donations"`
	Activities   []ActivityView    `json:"activities"`
}
