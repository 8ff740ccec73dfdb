package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	// amounts go on the wire as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

type Donation struct {
	ID        string          `gorm:"primaryKey;size:36"`
	UserID    string          `gorm:"size:36;not null;index"`
	EventID   string          `gorm:"size:36;not null;index"`
	Amount    decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	CreatedAt time.Time       `gorm:"not null"`
}

func (d *Donation) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

type DonationView struct {
	ID        string          `json:"id"`
	UserID    string          `json:"userId"`
	UserName  string          `json:"userName"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"createdAt"`
}
