package store

import (
	"context"

	"gorm.io/gorm"
)

// TreeTallyRepository 种树总数对账查询，只读
type TreeTallyRepository struct {
	DB *gorm.DB
}

// Tally 活动表中的计数与动态表真实合计
type Tally struct {
	ID         string
	TotalTrees int64
	Planted    int64
}

// TallyBatch 按 id 游标批量读取，返回本批最后一个 id
func (r *TreeTallyRepository) TallyBatch(ctx context.Context, batchSize int, lastID string) ([]Tally, string, error) {
	var list []Tally
	if err := r.DB.WithContext(ctx).Table("events AS e").
		Select("e.id, e.total_trees, (SELECT COALESCE(SUM(a.trees_planted), 0) FROM activity_posts a WHERE a.event_id = e.id) AS planted").
		Where("e.id > ?", lastID).
		Order("e.id ASC").
		Limit(batchSize).
		Scan(&list).Error; err != nil {
		return nil, lastID, err
	}
	if len(list) == 0 {
		return nil, lastID, nil
	}
	return list, list[len(list)-1].ID, nil
}
