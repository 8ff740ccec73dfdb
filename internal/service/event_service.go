package service

import (
	"context"
	"math"
	"strings"
	"time"

	"GreenArmy/internal/model"
	"GreenArmy/internal/repository/store"
)

const (
	defaultLat      = 13.7563
	defaultLng      = 100.5018
	defaultImageURL = "https://images.unsplash.com/photo-1441974231531-c6227db76b6e?w=800&q=80"
)

// 支持的活动日期格式，依次尝试
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

type CreateEventCommand struct {
	Title            string `validate:"required,max=200"`
	Description      string `validate:"required"`
	Date             string `validate:"required"`
	Address          string `validate:"required,max=255"`
	Lat              *float64
	Lng              *float64
	ImageURL         string `validate:"omitempty,max=512"`
	Status           string
	AcceptDonations  bool
	AcceptVolunteers bool
}

type EventService struct {
	repo *store.EventRepository
	now  func() time.Time
}

func NewEventService(repo *store.EventRepository) *EventService {
	return &EventService{repo: repo, now: time.Now}
}

// CreateEvent 创建活动，调用者成为组织者
func (s *EventService) CreateEvent(ctx context.Context, caller model.Caller, cmd CreateEventCommand) (string, error) {
	if caller.IsAnonymous() {
		return "", Unauthenticated("login required")
	}
	cmd.Title = strings.TrimSpace(cmd.Title)
	cmd.Description = strings.TrimSpace(cmd.Description)
	cmd.Address = strings.TrimSpace(cmd.Address)
	cmd.Date = strings.TrimSpace(cmd.Date)
	if err := validateCmd(cmd); err != nil {
		return "", err
	}

	date, ok := parseEventDate(cmd.Date)
	if !ok {
		return "", InvalidInput("date is invalid")
	}

	status := model.StatusUpcoming
	if cmd.Status != "" {
		status = model.EventStatus(strings.ToUpper(strings.TrimSpace(cmd.Status)))
		if !status.Valid() {
			return "", InvalidInput("status must be one of UPCOMING, ONGOING, COMPLETED")
		}
	}

	imageURL := strings.TrimSpace(cmd.ImageURL)
	if imageURL == "" {
		imageURL = defaultImageURL
	}

	ev := &model.Event{
		Title:            cmd.Title,
		Description:      cmd.Description,
		Date:             date,
		Address:          cmd.Address,
		Lat:              coordOr(cmd.Lat, 90, defaultLat),
		Lng:              coordOr(cmd.Lng, 180, defaultLng),
		ImageURL:         imageURL,
		Status:           status,
		AcceptDonations:  cmd.AcceptDonations,
		AcceptVolunteers: cmd.AcceptVolunteers,
		OrganizerID:      caller.UserID,
		CreatedAt:        s.now(),
	}
	if err := s.repo.Create(ctx, ev); err != nil {
		return "", Internal(err)
	}
	return ev.ID, nil
}

func (s *EventService) GetEvent(ctx context.Context, id string) (*model.EventDetail, error) {
	d, err := s.repo.Detail(ctx, id)
	if err != nil {
		return nil, storeErr(err, "event not found")
	}
	return d, nil
}

// ListEvents 空字符串表示不过滤状态
func (s *EventService) ListEvents(ctx context.Context, status string) ([]model.EventSummary, error) {
	var f store.EventFilter
	if status != "" {
		f.Status = model.EventStatus(strings.ToUpper(status))
		if !f.Status.Valid() {
			return nil, InvalidInput("status must be one of UPCOMING, ONGOING, COMPLETED")
		}
	}
	list, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, Internal(err)
	}
	return list, nil
}

// DeleteEvent 级联删除，权限判断在删除事务内完成
func (s *EventService) DeleteEvent(ctx context.Context, caller model.Caller, id string) error {
	if caller.IsAnonymous() {
		return Unauthenticated("login required")
	}
	err := s.repo.DeleteCascade(ctx, id, caller.UserID, s.now(), func(ev *model.Event) error {
		if !CanDeleteEvent(caller, ev) {
			return Forbidden("only the organizer or an admin can delete this event")
		}
		return nil
	})
	return storeErr(err, "event not found")
}

// requireEvent 只读接口先确认活动存在
func requireEvent(ctx context.Context, repo *store.EventRepository, id string) error {
	_, err := repo.FindByID(ctx, id)
	return storeErr(err, "event not found")
}

func parseEventDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// coordOr 缺省、0、NaN 或越界时使用默认坐标
func coordOr(v *float64, limit, def float64) float64 {
	if v == nil || *v == 0 || math.IsNaN(*v) || math.IsInf(*v, 0) || math.Abs(*v) > limit {
		return def
	}
	return *v
}
