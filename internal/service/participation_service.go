package service

import (
	"context"
	"errors"
	"time"

	"GreenArmy/internal/model"
	"GreenArmy/internal/repository/store"

	"gorm.io/gorm"
)

type ParticipationService struct {
	repo   *store.ParticipantRepository
	events *store.EventRepository
	now    func() time.Time
}

func NewParticipationService(repo *store.ParticipantRepository, events *store.EventRepository) *ParticipationService {
	return &ParticipationService{repo: repo, events: events, now: time.Now}
}

// Join 报名，并发重复报名只有一个成功
func (s *ParticipationService) Join(ctx context.Context, caller model.Caller, eventID string) error {
	if caller.IsAnonymous() {
		return Unauthenticated("login required")
	}
	p := &model.Participant{
		UserID:   caller.UserID,
		EventID:  eventID,
		JoinedAt: s.now(),
	}
	err := s.repo.Join(ctx, p, func(ev *model.Event) error {
		if !ev.AcceptVolunteers {
			return Rejected("this event is not accepting volunteers")
		}
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return Conflict("already joined this event")
	}
	return storeErr(err, "event not found")
}

func (s *ParticipationService) ListParticipants(ctx context.Context, eventID string) ([]model.ParticipantView, error) {
	if err := requireEvent(ctx, s.events, eventID); err != nil {
		return nil, err
	}
	list, err := s.repo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, Internal(err)
	}
	return list, nil
}
