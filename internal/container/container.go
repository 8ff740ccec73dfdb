package container

import (
	"log/slog"

	"GreenArmy/internal/config"
	"GreenArmy/internal/pkg"
	"GreenArmy/internal/repository/store"
	"GreenArmy/internal/service"

	"gorm.io/gorm"
)

// Container holds all application dependencies
type Container struct {
	Config   *config.Config
	Logger   *slog.Logger
	DB       *gorm.DB
	Tokens   *pkg.TokenIssuer
	Sessions service.SessionStore

	EventService         *service.EventService
	ParticipationService *service.ParticipationService
	DonationService      *service.DonationService
	ActivityService      *service.ActivityService
	RankService          *service.RankService
	UserService          *service.UserService

	OutboxRelayer *service.OutboxRelayer
	TreeAuditor   *service.TreeTallyAuditor
}

// NewContainer 组装仓储和服务；sessions 为 nil 时不启用登录态登记，sender 为 nil 时事件只写日志
func NewContainer(cfg *config.Config, logger *slog.Logger, db *gorm.DB, sessions service.SessionStore, sender service.Sender) *Container {
	events := &store.EventRepository{DB: db}
	users := &store.UserRepository{DB: db}
	tokens := pkg.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)

	if sender == nil {
		sender = service.LogSender(logger)
	}

	return &Container{
		Config:   cfg,
		Logger:   logger,
		DB:       db,
		Tokens:   tokens,
		Sessions: sessions,

		EventService:         service.NewEventService(events),
		ParticipationService: service.NewParticipationService(&store.ParticipantRepository{DB: db}, events),
		DonationService:      service.NewDonationService(&store.DonationRepository{DB: db}, events),
		ActivityService:      service.NewActivityService(&store.ActivityRepository{DB: db}, events),
		RankService:          service.NewRankService(&store.RankRepository{DB: db}, users),
		UserService:          service.NewUserService(users, events, tokens, sessions),

		OutboxRelayer: service.NewOutboxRelayer(&store.OutboxRepository{DB: db}, sender, cfg.OutboxInterval, logger),
		TreeAuditor:   service.NewTreeTallyAuditor(&store.TreeTallyRepository{DB: db}, cfg.AuditInterval, logger),
	}
}
