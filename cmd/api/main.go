package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dealboard/dealboard-backend/api/routes"
	"github.com/dealboard/dealboard-backend/internal/articles"
	"github.com/dealboard/dealboard-backend/internal/audit"
	"github.com/dealboard/dealboard-backend/internal/auth"
	"github.com/dealboard/dealboard-backend/internal/profiles"
	"github.com/dealboard/dealboard-backend/internal/promotions"
	"github.com/dealboard/dealboard-backend/internal/sellers"
	"github.com/dealboard/dealboard-backend/internal/uploads"
	"github.com/dealboard/dealboard-backend/internal/users"
	"github.com/dealboard/dealboard-backend/pkg/config"
	"github.com/dealboard/dealboard-backend/pkg/db"
	"github.com/dealboard/dealboard-backend/pkg/enums"
	"github.com/dealboard/dealboard-backend/pkg/logger"
	"github.com/dealboard/dealboard-backend/pkg/metrics"
	"github.com/dealboard/dealboard-backend/pkg/migrate"
	"github.com/dealboard/dealboard-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	var redisClient *redis.Client
	if cfg.Redis.URL != "" || cfg.Redis.Address != "" {
		redisClient, err = redis.New(context.Background(), cfg.Redis)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Warn(context.Background(), "redis not configured, login rate limiting disabled")
	}

	registry := prometheus.NewRegistry()
	pipelineMetrics := metrics.NewPipelineMetrics(registry)

	gormDB := dbClient.DB()
	auditor := audit.NewRecorder(gormDB, logg)
	planner := uploads.NewPlanner(cfg.Uploads.PublicDir)

	usersRepo := users.NewRepository(gormDB)
	sellersRepo := sellers.NewRepository(gormDB)
	promotionsRepo := promotions.NewRepository(gormDB)
	profilesRepo := profiles.NewRepository(gormDB)

	usersService, err := users.NewService(usersRepo, cfg.Password, users.OSFileRemover{Abs: planner.Abs}, auditor, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	sellersService, err := sellers.NewService(sellersRepo, usersService, users.OSFileRemover{Abs: planner.Abs}, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create sellers service", err)
		os.Exit(1)
	}

	promotionsService, err := promotions.NewService(promotionsRepo, sellersRepo, users.OSFileRemover{Abs: planner.Abs}, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create promotions service", err)
		os.Exit(1)
	}

	articlesService, err := articles.NewService(articles.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create articles service", err)
		os.Exit(1)
	}

	profilesService, err := profiles.NewService(profilesRepo, planner, auditor)
	if err != nil {
		logg.Error(context.Background(), "failed to create profiles service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(usersRepo, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	ingestor := uploads.NewIngestor(planner, logg)
	generator := uploads.NewGenerator(planner, cfg.Uploads.JPEGQuality, logg)
	orchestrator := uploads.NewOrchestrator(profilesService, ingestor, generator, pipelineMetrics, logg)
	orchestrator.Register(enums.EntityKindUser, users.NewOwnerAccessor(usersRepo))
	orchestrator.Register(enums.EntityKindSeller, sellers.NewOwnerAccessor(sellersRepo))
	orchestrator.Register(enums.EntityKindPromotion, promotions.NewOwnerAccessor(promotionsRepo))

	router := routes.NewRouter(cfg, logg, dbClient, redisClient, registry, routes.Services{
		Auth:       authService,
		Users:      usersService,
		Sellers:    sellersService,
		Promotions: promotionsService,
		Articles:   articlesService,
		Profiles:   profilesService,
		Uploads:    orchestrator,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-shutdownCtx.Done():
		logg.Info(ctx, "shutting down api server")
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(timeoutCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
