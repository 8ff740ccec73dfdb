package service

import (
	"context"
	"math"
	"sync"
	"testing"

	"GreenArmy/internal/model"

	"github.com/shopspring/decimal"
)

func TestJoinRules(t *testing.T) {
	d := newTestDeps(t)
	ctx := context.Background()
	org := d.register(t, "abe")
	vol := d.register(t, "bea")
	open := d.createEvent(t, org, nil)
	closed := d.createEvent(t, org, func(c *CreateEventCommand) { c.AcceptVolunteers = false })

	wantKind(t, d.participation.Join(ctx, model.Caller{}, open), KindUnauthenticated)
	wantKind(t, d.participation.Join(ctx, vol, "missing"), KindNotFound)
	wantKind(t, d.participation.Join(ctx, vol, closed), KindRejected)

	if err := d.participation.Join(ctx, vol, open); err != nil {
		t.Fatalf("join: %v", err)
	}
	wantKind(t, d.participation.Join(ctx, vol, open), KindConflict)

	list, err := d.participation.ListParticipants(ctx, open)
	if err != nil || len(list) != 1 || list[0].UserName != "bea" {
		t.Fatalf("participants = %+v %v", list, err)
	}
	_, err = d.participation.ListParticipants(ctx, "missing")
	wantKind(t, err, KindNotFound)
}

func TestConcurrentJoinSingleWinner(t *testing.T) {
	d := newTestDeps(t)
	ctx := context.Background()
	org := d.register(t, "cal")
	vol := d.register(t, "dot")
	id := d.createEvent(t, org, nil)

	const n = 8
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = d.participation.Join(ctx, vol, id)
		}(i)
	}
	wg.Wait()

	ok, conflicts := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case KindOf(err) == KindConflict:
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || conflicts != n-1 {
		t.Fatalf("ok=%d conflicts=%d", ok, conflicts)
	}
}

func TestDonateRules(t *testing.T) {
	d := newTestDeps(t)
	ctx := context.Background()
	org := d.register(t, "eve")
	sup := d.register(t, "fin")
	open := d.createEvent(t, org, nil)
	closed := d.createEvent(t, org, func(c *CreateEventCommand) { c.AcceptDonations = false })
	ten := decimal.NewFromInt(10)

	wantKind(t, d.donations.Donate(ctx, model.Caller{}, open, ten), KindUnauthenticated)
	wantKind(t, d.donations.Donate(ctx, sup, open, decimal.Zero), KindInvalidInput)
	wantKind(t, d.donations.Donate(ctx, sup, open, decimal.RequireFromString("-3")), KindInvalidInput)
	wantKind(t, d.donations.Donate(ctx, sup, open, decimal.RequireFromString("0.004")), KindInvalidInput)
	wantKind(t, d.donations.Donate(ctx, sup, open, decimal.RequireFromString("1e400")), KindInvalidInput)
	wantKind(t, d.donations.Donate(ctx, sup, open, decimal.RequireFromString("1e20")), KindInvalidInput)
	wantKind(t, d.donations.Donate(ctx, sup, open, decimal.RequireFromString("999999999999.995")), KindInvalidInput)
	// 金额校验先于活动是否存在
	wantKind(t, d.donations.Donate(ctx, sup, "missing", decimal.Zero), KindInvalidInput)
	wantKind(t, d.donations.Donate(ctx, sup, "missing", ten), KindNotFound)
	wantKind(t, d.donations.Donate(ctx, sup, closed, ten), KindRejected)

	if err := d.donations.Donate(ctx, sup, open, decimal.RequireFromString("20.456")); err != nil {
		t.Fatalf("donate: %v", err)
	}
	if err := d.donations.Donate(ctx, sup, open, decimal.RequireFromString("20.456")); err != nil {
		t.Fatalf("second donation must be accepted: %v", err)
	}
	list, err := d.donations.ListDonations(ctx, open)
	if err != nil || len(list) != 2 {
		t.Fatalf("donations = %+v %v", list, err)
	}
	if !list[0].Amount.Equal(decimal.RequireFromString("20.46")) {
		t.Fatalf("amount = %s, want 20.46", list[0].Amount)
	}

	var ev model.Event
	d.db.First(&ev, "id = ?", open)
	if ev.TotalTrees != 0 {
		t.Fatalf("donation touched event columns: %+v", ev)
	}
}

func TestPostActivityRules(t *testing.T) {
	d := newTestDeps(t)
	ctx := context.Background()
	org := d.register(t, "gia")
	other := d.register(t, "hux")
	admin := model.Caller{UserID: "admin-1", Role: model.RoleAdmin}
	id := d.createEvent(t, org, nil)
	cmd := PostActivityCommand{Description: "planted", TreesPlanted: ptr(int64(5))}

	_, err := d.activities.PostActivity(ctx, model.Caller{}, id, cmd)
	wantKind(t, err, KindUnauthenticated)
	_, err = d.activities.PostActivity(ctx, org, "missing", cmd)
	wantKind(t, err, KindNotFound)
	_, err = d.activities.PostActivity(ctx, other, id, cmd)
	wantKind(t, err, KindForbidden)
	_, err = d.activities.PostActivity(ctx, admin, id, cmd)
	wantKind(t, err, KindForbidden)
	_, err = d.activities.PostActivity(ctx, org, id, PostActivityCommand{Description: "   "})
	wantKind(t, err, KindInvalidInput)
	_, err = d.activities.PostActivity(ctx, org, id, PostActivityCommand{Description: "huge", TreesPlanted: ptr(int64(math.MaxInt64))})
	wantKind(t, err, KindInvalidInput)
	_, err = d.activities.PostActivity(ctx, org, id, PostActivityCommand{Description: "huge", TreesPlanted: ptr(int64(MaxTreesPerPost + 1))})
	wantKind(t, err, KindInvalidInput)

	if _, err = d.activities.PostActivity(ctx, org, id, PostActivityCommand{Description: "weeding", TreesPlanted: ptr(int64(-4))}); err != nil {
		t.Fatalf("negative trees: %v", err)
	}
	if _, err = d.activities.PostActivity(ctx, org, id, PostActivityCommand{Description: "survey"}); err != nil {
		t.Fatalf("missing trees: %v", err)
	}
	postID, err := d.activities.PostActivity(ctx, org, id, cmd)
	if err != nil || postID == "" {
		t.Fatalf("post: %q %v", postID, err)
	}

	ev, _ := d.events.GetEvent(ctx, id)
	if ev.TotalTrees != 5 {
		t.Fatalf("trees = %d, want 5", ev.TotalTrees)
	}
	list, err := d.activities.ListActivities(ctx, id)
	if err != nil || len(list) != 3 || list[0].TreesPlanted != 0 || list[2].ID != postID {
		t.Fatalf("activities = %+v %v", list, err)
	}
}

func TestConcurrentPostsAccumulate(t *testing.T) {
	d := newTestDeps(t)
	ctx := context.Background()
	org := d.register(t, "ida")
	id := d.createEvent(t, org, nil)
	if _, err := d.activities.PostActivity(ctx, org, id, PostActivityCommand{Description: "seed", TreesPlanted: ptr(int64(10))}); err != nil {
		t.Fatal(err)
	}

	const n, k = 10, 3
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := d.activities.PostActivity(ctx, org, id, PostActivityCommand{Description: "batch", TreesPlanted: ptr(int64(k))})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("post: %v", err)
		}
	}

	ev, err := d.events.GetEvent(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if ev.TotalTrees != 10+n*k {
		t.Fatalf("trees = %d, want %d", ev.TotalTrees, 10+n*k)
	}
}

func TestLedgerWritesOutbox(t *testing.T) {
	d := newTestDeps(t)
	ctx := context.Background()
	org := d.register(t, "jay")
	vol := d.register(t, "kim")
	id := d.createEvent(t, org, nil)

	_ = d.participation.Join(ctx, vol, id)
	_ = d.donations.Donate(ctx, vol, id, decimal.NewFromInt(5))
	_, _ = d.activities.PostActivity(ctx, org, id, PostActivityCommand{Description: "x", TreesPlanted: ptr(int64(1))})
	// 失败的操作不写事件
	_ = d.participation.Join(ctx, vol, id)

	obs, err := d.outbox.ListByEvent(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{model.LedgerParticipantJoined, model.LedgerDonationRecorded, model.LedgerActivityPosted}
	if len(obs) != len(want) {
		t.Fatalf("outbox = %+v", obs)
	}
	for i, w := range want {
		if obs[i].EventType != w || obs[i].Status != model.OutboxPending {
			t.Errorf("outbox[%d] = %s/%d, want %s", i, obs[i].EventType, obs[i].Status, w)
		}
	}
}
