package store

import (
	"context"

	"GreenArmy/internal/model"

	"gorm.io/gorm"
)

type ParticipantRepository struct {
	DB *gorm.DB
}

// Join 报名参加活动。重复报名由唯一索引 uk_participant_user_event 拦截，返回 gorm.ErrDuplicatedKey
func (r *ParticipantRepository) Join(ctx context.Context, p *model.Participant, guard EventGuard) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ev, err := lockEvent(tx, p.EventID)
		if err != nil {
			return err
		}
		if guard != nil {
			if err = guard(ev); err != nil {
				return err
			}
		}
		if err = tx.Create(p).Error; err != nil {
			if isDuplicateKey(err) {
				return gorm.ErrDuplicatedKey
			}
			return err
		}
		return insertOutbox(tx, model.LedgerParticipantJoined, p.EventID, p.UserID, p.JoinedAt, map[string]any{
			"participant_id": p.ID,
		})
	})
}

// ListByEvent 参与者列表，按报名时间倒序
func (r *ParticipantRepository) ListByEvent(ctx context.Context, eventID string) ([]model.ParticipantView, error) {
	return participantViews(r.DB.WithContext(ctx), eventID)
}

func (r *ParticipantRepository) IsMember(ctx context.Context, eventID, userID string) (bool, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&model.Participant{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func participantViews(db *gorm.DB, eventID string) ([]model.ParticipantView, error) {
	list := make([]model.ParticipantView, 0)
	err := db.Table("participants AS p").
		Select("p.id, p.user_id, COALESCE(u.name, ?) AS user_name, p.joined_at", unknownUser).
		Joins("LEFT JOIN users u ON u.id = p.user_id").
		Where("p.event_id = ?", eventID).
		Order("p.joined_at DESC").
		Scan(&list).Error
	return list, err
}
