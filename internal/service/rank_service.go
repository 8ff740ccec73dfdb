package service

import (
	"context"

	"GreenArmy/internal/model"
	"GreenArmy/internal/repository/store"
)

const (
	defaultRankLimit = 10
	maxRankLimit     = 100
	unknownUserName  = "Unknown user"
)

type RankService struct {
	repo  *store.RankRepository
	users *store.UserRepository
}

func NewRankService(repo *store.RankRepository, users *store.UserRepository) *RankService {
	return &RankService{repo: repo, users: users}
}

// TopParticipants 参与活动最多的用户
func (s *RankService) TopParticipants(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	rows, err := s.repo.TopParticipants(ctx, clampLimit(limit))
	if err != nil {
		return nil, Internal(err)
	}
	return s.entries(ctx, rows, model.RankVolunteer)
}

// TopDonors 捐款总额最高的用户
func (s *RankService) TopDonors(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	rows, err := s.repo.TopDonors(ctx, clampLimit(limit))
	if err != nil {
		return nil, Internal(err)
	}
	return s.entries(ctx, rows, model.RankDonor)
}

func (s *RankService) Leaderboard(ctx context.Context, limit int) (*model.Leaderboard, error) {
	participants, err := s.TopParticipants(ctx, limit)
	if err != nil {
		return nil, err
	}
	donors, err := s.TopDonors(ctx, limit)
	if err != nil {
		return nil, err
	}
	return &model.Leaderboard{TopParticipants: participants, TopDonors: donors}, nil
}

// entries 名次即位置，用户名一次批量查出
func (s *RankService) entries(ctx context.Context, rows []store.RankRow, kind model.RankType) ([]model.LeaderboardEntry, error) {
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.UserID)
	}
	names, err := s.users.NamesByIDs(ctx, ids)
	if err != nil {
		return nil, Internal(err)
	}

	out := make([]model.LeaderboardEntry, 0, len(rows))
	for i, r := range rows {
		name, ok := names[r.UserID]
		if !ok || name == "" {
			name = unknownUserName
		}
		e := model.LeaderboardEntry{Rank: i + 1, UserID: r.UserID, Name: name}
		switch kind {
		case model.RankVolunteer:
			n := r.EventCount
			e.EventCount = &n
		case model.RankDonor:
			amt := r.TotalAmount.Round(2)
			e.TotalAmount = &amt
		}
		out = append(out, e)
	}
	return out, nil
}

func clampLimit(n int) int {
	if n <= 0 {
		return defaultRankLimit
	}
	if n > maxRankLimit {
		return maxRankLimit
	}
	return n
}
