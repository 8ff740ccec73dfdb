package model

import "time"

const (
	OutboxPending int8 = 0
	OutboxSent    int8 = 1
	OutboxFailed  int8 = 2
)

const (
	LedgerParticipantJoined = "participant.joined"
	LedgerDonationRecorded  = "donation.recorded"
	LedgerActivityPosted    = "activity.posted"
	LedgerEventDeleted      = "event.deleted"
)

// LedgerOutbox 账本变更事件表，与业务写入同一事务
type LedgerOutbox struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	EventType string `gorm:"size:32;not null"`
	EventID   string `gorm:"size:36;not null;index"`
	UserID    string `gorm:"size:36;not null"`
	Payload   string `gorm:"type:text;not null"`
	Status    int8   `gorm:"not null;default:0;index;comment:'0=pending,1=sent,2=failed'"`
	Retry     int    `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LedgerOutbox) TableName() string { return "ledger_outbox" }
