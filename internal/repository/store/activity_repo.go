package store

import (
	"context"

	"GreenArmy/internal/model"

	"gorm.io/gorm"
)

type ActivityRepository struct {
	DB *gorm.DB
}

// Create 写入动态并在同一事务内累加活动的种树总数
func (r *ActivityRepository) Create(ctx context.Context, a *model.ActivityPost, guard EventGuard) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ev, err := lockEvent(tx, a.EventID)
		if err != nil {
			return err
		}
		if guard != nil {
			if err = guard(ev); err != nil {
				return err
			}
		}
		if err = tx.Create(a).Error; err != nil {
			return err
		}
		if a.TreesPlanted > 0 {
			if err = tx.Model(&model.Event{}).
				Where("id = ?", a.EventID).
				UpdateColumn("total_trees", gorm.Expr("total_trees + ?", a.TreesPlanted)).Error; err != nil {
				return err
			}
		}
		return insertOutbox(tx, model.LedgerActivityPosted, a.EventID, a.AuthorID, a.CreatedAt, map[string]any{
			"activity_id":   a.ID,
			"trees_planted": a.TreesPlanted,
		})
	})
}

// ListByEvent 动态列表，按时间正序
func (r *ActivityRepository) ListByEvent(ctx context.Context, eventID string) ([]model.ActivityView, error) {
	return activityViews(r.DB.WithContext(ctx), eventID)
}

func activityViews(db *gorm.DB, eventID string) ([]model.ActivityView, error) {
	list := make([]model.ActivityView, 0)
	err := db.Table("activity_posts AS a").
		Select("a.id, a.author_id, COALESCE(u.name, ?) AS author_name, a.description, a.image_url, a.trees_planted, a.created_at", unknownUser).
		Joins("LEFT JOIN users u ON u.id = a.author_id").
		Where("a.event_id = ?", eventID).
		Order("a.created_at ASC").
		Scan(&list).Error
	return list, err
}
