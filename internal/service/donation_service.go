package service

import (
	"context"
	"time"

	"GreenArmy/internal/model"
	"GreenArmy/internal/repository/store"

	"github.com/shopspring/decimal"
)

// maxDonation donations.amount 为 decimal(14,2)
var maxDonation = decimal.New(99999999999999, -2)

type DonationService struct {
	repo   *store.DonationRepository
	events *store.EventRepository
	now    func() time.Time
}

func NewDonationService(repo *store.DonationRepository, events *store.EventRepository) *DonationService {
	return &DonationService{repo: repo, events: events, now: time.Now}
}

// Donate 金额保留两位小数后必须大于 0
func (s *DonationService) Donate(ctx context.Context, caller model.Caller, eventID string, amount decimal.Decimal) error {
	if caller.IsAnonymous() {
		return Unauthenticated("login required")
	}
	amount = amount.Round(2)
	if !amount.IsPositive() {
		return InvalidInput("amount must be greater than 0")
	}
	if amount.GreaterThan(maxDonation) {
		return InvalidInput("amount must not exceed " + maxDonation.StringFixed(2))
	}
	d := &model.Donation{
		UserID:    caller.UserID,
		EventID:   eventID,
		Amount:    amount,
		CreatedAt: s.now(),
	}
	err := s.repo.Create(ctx, d, func(ev *model.Event) error {
		if !ev.AcceptDonations {
			return Rejected("this event is not accepting donations")
		}
		return nil
	})
	return storeErr(err, "event not found")
}

func (s *DonationService) ListDonations(ctx context.Context, eventID string) ([]model.DonationView, error) {
	if err := requireEvent(ctx, s.events, eventID); err != nil {
		return nil, err
	}
	list, err := s.repo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, Internal(err)
	}
	return list, nil
}
