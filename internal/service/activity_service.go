package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"GreenArmy/internal/model"
	"GreenArmy/internal/repository/store"
)

// MaxTreesPerPost 单条动态的种树上限
const MaxTreesPerPost = 1_000_000

type PostActivityCommand struct {
	Description  string `validate:"required"`
	ImageURL     *string
	TreesPlanted *int64
}

type ActivityService struct {
	repo   *store.ActivityRepository
	events *store.EventRepository
	now    func() time.Time
}

func NewActivityService(repo *store.ActivityRepository, events *store.EventRepository) *ActivityService {
	return &ActivityService{repo: repo, events: events, now: time.Now}
}

// PostActivity 发布动态并累加种树数，负数或缺省按 0 计
func (s *ActivityService) PostActivity(ctx context.Context, caller model.Caller, eventID string, cmd PostActivityCommand) (string, error) {
	if caller.IsAnonymous() {
		return "", Unauthenticated("login required")
	}
	cmd.Description = strings.TrimSpace(cmd.Description)

	var trees int64
	if cmd.TreesPlanted != nil && *cmd.TreesPlanted > 0 {
		trees = *cmd.TreesPlanted
	}
	var image *string
	if cmd.ImageURL != nil {
		if v := strings.TrimSpace(*cmd.ImageURL); v != "" {
			image = &v
		}
	}

	a := &model.ActivityPost{
		EventID:      eventID,
		AuthorID:     caller.UserID,
		Description:  cmd.Description,
		ImageURL:     image,
		TreesPlanted: trees,
		CreatedAt:    s.now(),
	}
	err := s.repo.Create(ctx, a, func(ev *model.Event) error {
		if !CanPostActivity(caller, ev) {
			return Forbidden("only the organizer can post activities")
		}
		if trees > MaxTreesPerPost {
			return InvalidInput(fmt.Sprintf("treesPlanted must not exceed %d", MaxTreesPerPost))
		}
		return validateCmd(cmd)
	})
	if err != nil {
		return "", storeErr(err, "event not found")
	}
	return a.ID, nil
}

func (s *ActivityService) ListActivities(ctx context.Context, eventID string) ([]model.ActivityView, error) {
	if err := requireEvent(ctx, s.events, eventID); err != nil {
		return nil, err
	}
	list, err := s.repo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, Internal(err)
	}
	return list, nil
}
