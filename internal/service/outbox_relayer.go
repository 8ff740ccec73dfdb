package service

import (
	"context"
	"log/slog"
	"time"

	"GreenArmy/internal/model"
	"GreenArmy/internal/repository/store"
)

type Sender func(ctx context.Context, ob *model.LedgerOutbox) error

// MessageWriter kafka 生产者需要实现的最小接口
type MessageWriter interface {
	Send(ctx context.Context, key string, value []byte, headers map[string]string) error
}

const (
	outboxBatchSize = 200
	outboxMaxRetry  = 5
)

// OutboxRelayer 从 ledger_outbox 读取待投递记录交给 sender
type OutboxRelayer struct {
	repo      *store.OutboxRepository
	batchSize int
	maxRetry  int
	interval  time.Duration
	sender    Sender
	logger    *slog.Logger
}

func NewOutboxRelayer(repo *store.OutboxRepository, sender Sender, interval time.Duration, logger *slog.Logger) *OutboxRelayer {
	if interval <= 0 {
		interval = time.Second
	}
	return &OutboxRelayer{
		repo:      repo,
		batchSize: outboxBatchSize,
		maxRetry:  outboxMaxRetry,
		interval:  interval,
		sender:    sender,
		logger:    logger,
	}
}

// Run outbox启动器
func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.DrainOnce(ctx)
		}
	}
}

// DrainOnce 投递一批，返回成功条数
func (r *OutboxRelayer) DrainOnce(ctx context.Context) int {
	rows, err := r.repo.ListPending(ctx, r.batchSize, r.maxRetry)
	if err != nil {
		r.logger.Error("outbox query failed", "error", err)
		return 0
	}
	sent := 0
	for i := range rows {
		ob := rows[i]
		if err = r.sender(ctx, &ob); err != nil {
			r.logger.Warn("outbox send failed", "id", ob.ID, "type", ob.EventType, "retry", ob.Retry+1, "error", err)
			if err = r.repo.MarkFailed(ctx, ob.ID); err != nil {
				r.logger.Error("outbox mark failed", "id", ob.ID, "error", err)
			}
			continue
		}
		if err = r.repo.MarkSent(ctx, ob.ID); err != nil {
			r.logger.Error("outbox mark sent", "id", ob.ID, "error", err)
			continue
		}
		sent++
	}
	return sent
}

// KafkaSender 以活动 id 作为 key，同一活动的事件保持顺序
func KafkaSender(w MessageWriter) Sender {
	return func(ctx context.Context, ob *model.LedgerOutbox) error {
		return w.Send(ctx, ob.EventID, []byte(ob.Payload), map[string]string{
			"event_type": ob.EventType,
		})
	}
}

// LogSender 未配置 kafka 时只打日志
func LogSender(logger *slog.Logger) Sender {
	return func(ctx context.Context, ob *model.LedgerOutbox) error {
		logger.InfoContext(ctx, "ledger event",
			"id", ob.ID,
			"type", ob.EventType,
			"event_id", ob.EventID,
			"user_id", ob.UserID,
			"payload", ob.Payload,
		)
		return nil
	}
}
