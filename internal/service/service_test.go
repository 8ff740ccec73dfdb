package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"GreenArmy/internal/model"
	"GreenArmy/internal/pkg"
	"GreenArmy/internal/repository/store"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var t0 = time.Date(2025, 6, 5, 8, 0, 0, 0, time.UTC)

type testDeps struct {
	db            *gorm.DB
	events        *EventService
	participation *ParticipationService
	donations     *DonationService
	activities    *ActivityService
	rank          *RankService
	users         *UserService
	sessions      *memSessions
	outbox        *store.OutboxRepository
	tally         *store.TreeTallyRepository
}

// clock 每次调用前进一秒，保证排序稳定
func clock() func() time.Time {
	var mu sync.Mutex
	cur := t0
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		cur = cur.Add(time.Second)
		return cur
	}
}

func newTestDeps(t *testing.T) *testDeps {
	t.Helper()
	db, err := store.Open("sqlite", "file:"+uuid.NewString()+"?mode=memory&cache=shared", discardLogger())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := store.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	eventRepo := &store.EventRepository{DB: db}
	userRepo := &store.UserRepository{DB: db}
	now := clock()
	d := &testDeps{
		db:            db,
		events:        NewEventService(eventRepo),
		participation: NewParticipationService(&store.ParticipantRepository{DB: db}, eventRepo),
		donations:     NewDonationService(&store.DonationRepository{DB: db}, eventRepo),
		activities:    NewActivityService(&store.ActivityRepository{DB: db}, eventRepo),
		rank:          NewRankService(&store.RankRepository{DB: db}, userRepo),
		sessions:      newMemSessions(),
		outbox:        &store.OutboxRepository{DB: db},
		tally:         &store.TreeTallyRepository{DB: db},
	}
	d.users = NewUserService(userRepo, eventRepo, pkg.NewTokenIssuer("test-secret", time.Hour), d.sessions)
	d.events.now = now
	d.participation.now = now
	d.donations.now = now
	d.activities.now = now
	return d
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// register 注册一个用户并返回对应的调用者身份
func (d *testDeps) register(t *testing.T, name string) model.Caller {
	t.Helper()
	res, err := d.users.Register(context.Background(), RegisterCommand{
		Name: name, Email: name + "@example.com", Password: "secret1",
	})
	if err != nil {
		t.Fatalf("register %s: %v", name, err)
	}
	return model.Caller{UserID: res.User.ID, Name: res.User.Name, Email: res.User.Email, Role: res.User.Role}
}

func (d *testDeps) createEvent(t *testing.T, caller model.Caller, mutate func(*CreateEventCommand)) string {
	t.Helper()
	cmd := CreateEventCommand{
		Title:            "Khao Yai replanting",
		Description:      "Native saplings along the ridge",
		Date:             "2025-07-01",
		Address:          "Pak Chong",
		AcceptDonations:  true,
		AcceptVolunteers: true,
	}
	if mutate != nil {
		mutate(&cmd)
	}
	id, err := d.events.CreateEvent(context.Background(), caller, cmd)
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	return id
}

func wantKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	if got := KindOf(err); got != kind {
		t.Fatalf("kind = %s, want %s (err: %v)", got, kind, err)
	}
}

type memSessions struct {
	mu     sync.Mutex
	tokens map[string]string
}

func newMemSessions() *memSessions {
	return &memSessions{tokens: map[string]string{}}
}

func (m *memSessions) Save(_ context.Context, userID, token string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[userID] = token
	return nil
}

func (m *memSessions) Get(_ context.Context, userID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tok, ok := m.tokens[userID]
	if !ok {
		return "", errors.New("not found")
	}
	return tok, nil
}

func (m *memSessions) Delete(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, userID)
	return nil
}
