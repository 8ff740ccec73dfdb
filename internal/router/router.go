package router

import (
	"net/http"

	"GreenArmy/internal/container"
	"GreenArmy/internal/handler"
	"GreenArmy/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func InitRouter(ct *container.Container) *gin.Engine {
	if ct.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     ct.Config.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
	}))
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(ct.Logger))
	r.Use(middleware.IdentityGate(ct.Tokens, ct.Sessions, ct.Config.SessionCookie, ct.Logger))

	events := handler.NewEventHandler(ct.EventService, ct.Logger)
	ledger := handler.NewLedgerHandler(ct.ParticipationService, ct.DonationService, ct.ActivityService, ct.Logger)
	rank := handler.NewRankHandler(ct.RankService, ct.Logger)
	user := handler.NewUserHandler(ct.UserService, ct.Config.SessionCookie, ct.Config.IsProduction(), ct.Logger)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "service": "greenarmy-api"})
	})

	api := r.Group("/api")
	authed := middleware.RequireAuth()

	// 活动相关接口
	eventGroup := api.Group("/events")
	{
		eventGroup.GET("", events.List)
		eventGroup.GET("/:id", events.Get)
		eventGroup.POST("", authed, events.Create)
		eventGroup.DELETE("/:id", authed, events.Delete)

		eventGroup.POST("/:id/join", authed, ledger.Join)
		eventGroup.POST("/:id/donate", authed, ledger.Donate)
		eventGroup.POST("/:id/activities", authed, ledger.PostActivity)
		eventGroup.GET("/:id/activities", ledger.ListActivities)
		eventGroup.GET("/:id/participants", ledger.ListParticipants)
		eventGroup.GET("/:id/donations", ledger.ListDonations)
	}

	// 排行榜
	api.GET("/rank", rank.Leaderboard)

	// 用户相关接口
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", user.Register)
		authGroup.POST("/login", user.Login)
		authGroup.GET("/me", authed, user.Me)
		authGroup.POST("/logout", authed, user.Logout)
	}

	userGroup := api.Group("/users", authed)
	{
		userGroup.GET("/me/events", user.MyEvents)
	}

	return r
}
