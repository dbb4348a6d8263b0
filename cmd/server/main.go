package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/keremkk/kisalink/config"
	appmodel "github.com/keremkk/kisalink/internal/app/model"
	apprepository "github.com/keremkk/kisalink/internal/app/repository"
	appserver "github.com/keremkk/kisalink/internal/app/server"
	appservice "github.com/keremkk/kisalink/internal/app/service"
	"github.com/keremkk/kisalink/internal/infra/discord"
	"github.com/keremkk/kisalink/internal/infra/logger"
	infraNATS "github.com/keremkk/kisalink/internal/infra/nats"
	infraPostgres "github.com/keremkk/kisalink/internal/infra/postgres"
	infraPrometheus "github.com/keremkk/kisalink/internal/infra/prometheus"
	infraRedis "github.com/keremkk/kisalink/internal/infra/redis"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	isDev := os.Getenv("APP_ENV") != "production"
	log := logger.MustInit(logger.Config{
		Development: isDev,
		Level:       os.Getenv("LOG_LEVEL"),
	})
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config", zap.Error(err))
	}

	log.Info("Configuration loaded successfully",
		zap.String("base_url", cfg.App.BaseURL),
		zap.String("postgres_host", cfg.Postgres.Host),
		zap.Int("postgres_port", cfg.Postgres.Port),
		zap.String("postgres_db", cfg.Postgres.Database),
		zap.String("redis_host", cfg.Redis.Host),
		zap.Int("redis_port", cfg.Redis.Port),
		zap.String("nats_host", cfg.NATS.Host),
		zap.Int("nats_port", cfg.NATS.Port),
	)

	gormDB, err := infraPostgres.NewGorm(cfg.Postgres)
	if err != nil {
		log.Fatal("Failed to open GORM connection", zap.Error(err))
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatal("Failed to access underlying SQL DB", zap.Error(err))
	}
	defer sqlDB.Close()

	if err := infraPostgres.AutoMigrate(ctx, gormDB,
		&appmodel.Link{},
		&appmodel.User{},
		&appmodel.APIToken{},
		&appmodel.APIUsage{},
		&appmodel.ClickEvent{},
	); err != nil {
		log.Fatal("Failed to run database migrations", zap.Error(err))
	}

	pool, err := infraPostgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		log.Fatal("Failed to connect to Postgres", zap.Error(err))
	}
	defer pool.Close()

	log.Info("Connected to Postgres successfully")

	redisClient, err := infraRedis.NewClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	log.Info("Connected to Redis successfully")

	natsConn, js, err := infraNATS.Connect(cfg.NATS)
	if err != nil {
		log.Fatal("Failed to connect to NATS", zap.Error(err))
	}
	defer natsConn.Drain()
	log.Info("Connected to NATS successfully", zap.Bool("jetstream_ready", js != nil))

	if !isDev {
		promServer := infraPrometheus.NewServer(cfg.Prometheus)
		go func() {
			log.Info("Starting Prometheus metrics server",
				zap.Int("port", cfg.Prometheus.Port))
			if err := promServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("Prometheus metrics server stopped unexpectedly", zap.Error(err))
			}
		}()
		defer func() {
			if err := promServer.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Warn("Failed to close Prometheus server", zap.Error(err))
			}
		}()
	} else {
		log.Info("Skipping Prometheus metrics server in development mode")
	}

	notifier := discord.NewClient(cfg.Discord)
	if notifier.Enabled() {
		log.Info("Discord notifications enabled")
	} else {
		log.Info("Discord not configured, notifications disabled")
	}

	linkRepo := apprepository.NewLinkRepository(gormDB)
	clickRepo := apprepository.NewClickEventRepository(gormDB)
	tokenRepo := apprepository.NewTokenRepository(gormDB)
	userRepo := apprepository.NewUserRepository(gormDB)

	codegen := appservice.NewCodeGenerator(nil)
	classifier := appservice.NewClassifier(nil)

	linkService, err := appservice.NewLinkService(ctx, linkRepo, codegen)
	if err != nil {
		log.Fatal("Failed to build link service", zap.Error(err))
	}
	tokenService := appservice.NewTokenService(log, tokenRepo)

	publisher := appservice.NewClickPublisher(js)
	accountant := appservice.NewClickAccountant(log, linkRepo, publisher)

	consumer := appservice.NewClickConsumer(js, log, clickRepo, classifier, notifier, cfg.App.BaseURL)
	if err := consumer.Start(); err != nil {
		log.Fatal("Failed to start click consumer", zap.Error(err))
	}

	reporter := appservice.NewDailyStatsReporter(log, pool, notifier, 24*time.Hour)
	reporter.Start()
	defer reporter.Stop()

	server := appserver.New(appserver.Dependencies{
		Logger:     log,
		Redis:      redisClient,
		Links:      linkService,
		Tokens:     tokenService,
		Users:      userRepo,
		Clicks:     clickRepo,
		Classifier: classifier,
		Accountant: accountant,
		Notifier:   notifier,
		BaseURL:    cfg.App.BaseURL,
		AdminKey:   cfg.App.AdminKey,
	})

	if err := server.Listen(fmt.Sprintf(":%d", cfg.App.Port)); err != nil {
		log.Fatal("Fiber server exited", zap.Error(err))
	}
}
