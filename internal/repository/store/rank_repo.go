package store

import (
	"context"

	"GreenArmy/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RankRepository struct {
	DB *gorm.DB
}

// RankRow 排行榜聚合结果
type RankRow struct {
	UserID      string
	EventCount  int64
	TotalAmount decimal.Decimal
}

// TopParticipants 按参与活动数排序，同数按 user_id 升序
func (r *RankRepository) TopParticipants(ctx context.Context, limit int) ([]RankRow, error) {
	var rows []RankRow
	err := r.DB.WithContext(ctx).Model(&model.Participant{}).
		Select("user_id, COUNT(*) AS event_count").
		Group("user_id").
		Order("event_count DESC, user_id ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// TopDonors 按捐款总额排序，同额按 user_id 升序
func (r *RankRepository) TopDonors(ctx context.Context, limit int) ([]RankRow, error) {
	var rows []RankRow
	err := r.DB.WithContext(ctx).Model(&model.Donation{}).
		Select("user_id, SUM(amount) AS total_amount").
		Group("user_id").
		Order("total_amount DESC, user_id ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
