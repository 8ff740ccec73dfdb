package service

import (
	"context"
	"log/slog"
	"time"

	"GreenArmy/internal/repository/store"
)

// TreeTallyAuditor 对账 events.total_trees 与动态实际合计，只报告不修正
type TreeTallyAuditor struct {
	repo      *store.TreeTallyRepository
	batchSize int
	interval  time.Duration
	logger    *slog.Logger
}

func NewTreeTallyAuditor(repo *store.TreeTallyRepository, interval time.Duration, logger *slog.Logger) *TreeTallyAuditor {
	return &TreeTallyAuditor{
		repo:      repo,
		batchSize: 500,
		interval:  interval,
		logger:    logger,
	}
}

// Run 对账定时任务启动器
func (a *TreeTallyAuditor) Run(ctx context.Context) {
	if a.interval <= 0 {
		return
	}
	t := time.NewTicker(a.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if _, err := a.AuditOnce(ctx); err != nil {
				a.logger.Error("tree tally audit failed", "error", err)
			}
		}
	}
}

// AuditOnce 全量走一遍，返回计数不一致的活动 id
func (a *TreeTallyAuditor) AuditOnce(ctx context.Context) ([]string, error) {
	var drifted []string
	lastID := ""
	for {
		list, next, err := a.repo.TallyBatch(ctx, a.batchSize, lastID)
		if err != nil {
			return drifted, err
		}
		if len(list) == 0 {
			return drifted, nil
		}
		for _, t := range list {
			if t.TotalTrees != t.Planted {
				a.logger.Warn("tree tally drift",
					"event_id", t.ID,
					"total_trees", t.TotalTrees,
					"planted", t.Planted,
				)
				drifted = append(drifted, t.ID)
			}
		}
		lastID = next
	}
}
