package model

import "github.com/shopspring/decimal"

type RankType string

const (
	RankVolunteer RankType = "volunteer"
	RankDonor     RankType = "donor"
)

type LeaderboardEntry struct {
	Rank        int              `json:"rank"`
	UserID      string           `json:"userId"`
	Name        string           `json:"name"`
	EventCount  *int64           `json:"eventCount,omitempty"`
	TotalAmount *decimal.Decimal `json:"totalAmount,omitempty"`
}

type Leaderboard struct {
	TopParticipants []LeaderboardEntry `json:"topParticipants"`
	TopDonors       []LeaderboardEntry `json:"topDonors"`
}
