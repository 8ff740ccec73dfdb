package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"GreenArmy/internal/config"
	"GreenArmy/internal/container"
	"GreenArmy/internal/pkg"
	"GreenArmy/internal/repository/redis"
	"GreenArmy/internal/repository/store"
	"GreenArmy/internal/router"
	"GreenArmy/internal/service"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env")

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg)
	logger.Info("Starting GreenArmy API server", "environment", cfg.Environment)

	db, err := store.Open(cfg.DBDriver, cfg.DBDSN, logger)
	if err != nil {
		logger.Error("Failed to connect to database", "driver", cfg.DBDriver, "error", err)
		os.Exit(1)
	}
	// 自动建表
	if err = store.Migrate(db); err != nil {
		logger.Error("Failed to migrate database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database", "driver", cfg.DBDriver)

	// 连接redis，未配置时不登记登录态
	var sessions service.SessionStore
	if cfg.RedisAddr != "" {
		client, err := redis.Init(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Error("Failed to connect to Redis", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		defer client.Close()
		sessions = redis.NewSessionRepository(client)
		logger.Info("Connected to Redis", "addr", cfg.RedisAddr)
	}

	var sender service.Sender
	if len(cfg.KafkaBrokers) > 0 {
		producer := pkg.NewKafkaProducer(pkg.KafkaConfig{Brokers: cfg.KafkaBrokers, Topic: cfg.KafkaTopic})
		defer producer.Close()
		sender = service.KafkaSender(producer)
		logger.Info("Ledger events go to Kafka", "brokers", strings.Join(cfg.KafkaBrokers, ","), "topic", cfg.KafkaTopic)
	}

	ct := container.NewContainer(cfg, logger, db, sessions, sender)
	r := router.InitRouter(ct)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		ct.OutboxRelayer.Run(workerCtx)
	}()
	go func() {
		defer wg.Done()
		ct.TreeAuditor.Run(workerCtx)
	}()

	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	stopWorkers()
	wg.Wait()

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Info("Server exited")
}

func setupLogger(cfg *config.Config) *slog.Logger {
	level := parseLevel(cfg.LogLevel)
	var handler slog.Handler
	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}
	return slog.New(handler)
}

func parseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}
