package store

import (
	"context"

	"GreenArmy/internal/model"

	"gorm.io/gorm"
)

type DonationRepository struct {
	DB *gorm.DB
}

// Create 写入一条不可变的捐款记录，不修改活动表
func (r *DonationRepository) Create(ctx context.Context, d *model.Donation, guard EventGuard) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ev, err := lockEvent(tx, d.EventID)
		if err != nil {
			return err
		}
		if guard != nil {
			if err = guard(ev); err != nil {
				return err
			}
		}
		if err = tx.Create(d).Error; err != nil {
			return err
		}
		return insertOutbox(tx, model.LedgerDonationRecorded, d.EventID, d.UserID, d.CreatedAt, map[string]any{
			"donation_id": d.ID,
			"amount":      d.Amount.StringFixed(2),
		})
	})
}

// ListByEvent 捐款列表，按时间倒序
func (r *DonationRepository) ListByEvent(ctx context.Context, eventID string) ([]model.DonationView, error) {
	return donationViews(r.DB.WithContext(ctx), eventID)
}

func donationViews(db *gorm.DB, eventID string) ([]model.DonationView, error) {
	list := make([]model.DonationView, 0)
	err := db.Table("donations AS d").
		Select("d.id, d.user_id, COALESCE(u.name, ?) AS user_name, d.amount, d.created_at", unknownUser).
		Joins("LEFT JOIN users u ON u.id = d.user_id").
		Where("d.event_id = ?", eventID).
		Order("d.created_at DESC").
		Scan(&list).Error
	return list, err
}
