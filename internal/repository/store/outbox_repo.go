package store

import (
	"context"
	"encoding/json"
	"time"

	"GreenArmy/internal/model"

	"gorm.io/gorm"
)

type OutboxRepository struct {
	DB *gorm.DB
}

// insertOutbox 在业务事务内写入账本事件
func insertOutbox(tx *gorm.DB, eventType, eventID, userID string, at time.Time, fields map[string]any) error {
	body := map[string]any{
		"event_time": at.UTC().Format(time.RFC3339Nano),
		"event_id":   eventID,
		"user_id":    userID,
	}
	for k, v := range fields {
		body[k] = v
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	ob := &model.LedgerOutbox{
		EventType: eventType,
		EventID:   eventID,
		UserID:    userID,
		Payload:   string(payload),
		Status:    model.OutboxPending,
	}
	return tx.Create(ob).Error
}

// ListPending 待投递以及未超重试上限的失败记录，按 id 顺序
func (r *OutboxRepository) ListPending(ctx context.Context, batchSize, maxRetry int) ([]model.LedgerOutbox, error) {
	var list []model.LedgerOutbox
	if err := r.DB.WithContext(ctx).
		Where("status = ? OR (status = ? AND retry < ?)", model.OutboxPending, model.OutboxFailed, maxRetry).
		Order("id ASC").
		Limit(batchSize).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// MarkFailed 投递失败，重试次数加一
func (r *OutboxRepository) MarkFailed(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.LedgerOutbox{}).Where("id = ?", id).
		Updates(map[string]any{"status": model.OutboxFailed, "retry": gorm.Expr("retry + 1")}).Error
}

// MarkSent 投递成功
func (r *OutboxRepository) MarkSent(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.LedgerOutbox{}).Where("id = ?", id).
		Update("status", model.OutboxSent).Error
}

// ListByEvent 按 id 顺序列出某活动的账本事件
func (r *OutboxRepository) ListByEvent(ctx context.Context, eventID string) ([]model.LedgerOutbox, error) {
	var list []model.LedgerOutbox
	err := r.DB.WithContext(ctx).Where("event_id = ?", eventID).Order("id ASC").Find(&list).Error
	return list, err
}
