package store

import (
	"context"
	"time"

	"GreenArmy/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const unknownUser = "Unknown user"

type EventRepository struct {
	DB *gorm.DB
}

// EventFilter 列表过滤条件，零值不过滤
type EventFilter struct {
	Status        model.EventStatus
	OrganizerID   string
	ParticipantID string
}

// EventGuard 在删除事务内对已加载的活动做权限判断
type EventGuard func(ev *model.Event) error

const summaryColumns = `e.id, e.title, e.description, e.event_date, e.address, e.lat, e.lng,
	e.image_url, e.status, e.accept_donations, e.accept_volunteers, e.total_trees,
	e.organizer_id, e.created_at,
	COALESCE(u.name, ?) AS organizer_name,
	(SELECT COUNT(*) FROM participants p WHERE p.event_id = e.id) AS participant_count,
	(SELECT COALESCE(SUM(d.amount), 0) FROM donations d WHERE d.event_id = e.id) AS total_donations`

func (r *EventRepository) Create(ctx context.Context, ev *model.Event) error {
	return r.DB.WithContext(ctx).Create(ev).Error
}

func (r *EventRepository) FindByID(ctx context.Context, id string) (*model.Event, error) {
	var ev model.Event
	err := r.DB.WithContext(ctx).First(&ev, "id = ?", id).Error
	return &ev, err
}

// List 活动列表，聚合字段在读取时计算，按创建时间倒序
func (r *EventRepository) List(ctx context.Context, f EventFilter) ([]model.EventSummary, error) {
	q := summaryQuery(r.DB.WithContext(ctx))
	if f.Status != "" {
		q = q.Where("e.status = ?", f.Status)
	}
	if f.OrganizerID != "" {
		q = q.Where("e.organizer_id = ?", f.OrganizerID)
	}
	if f.ParticipantID != "" {
		q = q.Where("EXISTS (SELECT 1 FROM participants m WHERE m.event_id = e.id AND m.user_id = ?)", f.ParticipantID)
	}
	list := make([]model.EventSummary, 0)
	if err := q.Order("e.created_at DESC").Scan(&list).Error; err != nil {
		return nil, err
	}
	// sqlite 的 SUM 是浮点和
	for i := range list {
		list[i].TotalDonations = list[i].TotalDonations.Round(2)
	}
	return list, nil
}

// Detail 在同一个读事务里取活动及其参与、捐款、动态
func (r *EventRepository) Detail(ctx context.Context, id string) (*model.EventDetail, error) {
	var detail model.EventDetail
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ev model.Event
		if err := tx.First(&ev, "id = ?", id).Error; err != nil {
			return err
		}
		var organizer string
		if err := tx.Model(&model.User{}).Select("name").Where("id = ?", ev.OrganizerID).
			Limit(1).Scan(&organizer).Error; err != nil {
			return err
		}
		if organizer == "" {
			organizer = unknownUser
		}

		participants, err := participantViews(tx, id)
		if err != nil {
			return err
		}
		donations, err := donationViews(tx, id)
		if err != nil {
			return err
		}
		activities, err := activityViews(tx, id)
		if err != nil {
			return err
		}

		total := decimal.Zero
		for _, d := range donations {
			total = total.Add(d.Amount)
		}

		detail = model.EventDetail{
			EventSummary: summaryOf(&ev, organizer, int64(len(participants)), total),
			Participants: participants,
			Donations:    donations,
			Activities:   activities,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// DeleteCascade 一个事务内删除动态、捐款、参与记录再删除活动本身
func (r *EventRepository) DeleteCascade(ctx context.Context, id, operatorID string, at time.Time, guard EventGuard) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ev, err := lockEvent(tx, id)
		if err != nil {
			return err
		}
		if guard != nil {
			if err := guard(ev); err != nil {
				return err
			}
		}

		if err := tx.Where("event_id = ?", id).Delete(&model.ActivityPost{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", id).Delete(&model.Donation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", id).Delete(&model.Participant{}).Error; err != nil {
			return err
		}
		if err := insertOutbox(tx, model.LedgerEventDeleted, id, operatorID, at, map[string]any{
			"title": ev.Title,
		}); err != nil {
			return err
		}

		res := tx.Where("id = ?", id).Delete(&model.Event{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func summaryQuery(db *gorm.DB) *gorm.DB {
	return db.Table("events AS e").
		Select(summaryColumns, unknownUser).
		Joins("LEFT JOIN users u ON u.id = e.organizer_id")
}

func summaryOf(ev *model.Event, organizer string, participants int64, donations decimal.Decimal) model.EventSummary {
	return model.EventSummary{
		ID:               ev.ID,
		Title:            ev.Title,
		Description:      ev.Description,
		Date:             ev.Date,
		Address:          ev.Address,
		Lat:              ev.Lat,
		Lng:              ev.Lng,
		ImageURL:         ev.ImageURL,
		Status:           ev.Status,
		AcceptDonations:  ev.AcceptDonations,
		AcceptVolunteers: ev.AcceptVolunteers,
		TotalTrees:       ev.TotalTrees,
		OrganizerID:      ev.OrganizerID,
		OrganizerName:    organizer,
		ParticipantCount: participants,
		TotalDonations:   donations,
		CreatedAt:        ev.CreatedAt,
	}
}

// lockEvent 在写事务里读取活动行，mysql/postgres 下加行锁
func lockEvent(tx *gorm.DB, id string) (*model.Event, error) {
	var ev model.Event
	q := tx
	if tx.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := q.First(&ev, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &ev, nil
}
