package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sma-timetable-api/api/swagger"
	"github.com/noah-isme/sma-timetable-api/internal/handler"
	internalmiddleware "github.com/noah-isme/sma-timetable-api/internal/middleware"
	"github.com/noah-isme/sma-timetable-api/internal/repository"
	"github.com/noah-isme/sma-timetable-api/internal/service"
	"github.com/noah-isme/sma-timetable-api/pkg/cache"
	"github.com/noah-isme/sma-timetable-api/pkg/config"
	"github.com/noah-isme/sma-timetable-api/pkg/database"
	"github.com/noah-isme/sma-timetable-api/pkg/export"
	"github.com/noah-isme/sma-timetable-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-timetable-api/pkg/middleware/requestid"
)

// @title SMA Timetable API
// @version 1.0.0
// @description Timetable generation and lifecycle service
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(context.Background(), cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.RunMigrations(db, logr); err != nil {
			logr.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	metrics := service.NewMetricsService()
	cacheSvc := service.NewCacheService(newCacheRepository(cfg, logr), metrics, cfg.Cache.TTL, logr, cfg.Cache.Enabled)

	validate := validator.New()
	timetables := service.NewTimetableService(
		repository.NewAssignmentRepository(db),
		repository.NewTeacherAvailabilityRepository(db),
		repository.NewGenerationRepository(db),
		repository.NewTimetableSlotRepository(db),
		repository.NewConflictRepository(db),
		db,
		cacheSvc,
		metrics,
		nil,
		validate,
		logr,
		service.TimetableServiceConfig{
			Enabled:        cfg.Scheduler.Enabled,
			MaxAssignments: cfg.Scheduler.MaxAssignments,
			RandomSeed:     cfg.Scheduler.RandomSeed,
			CacheTTL:       cfg.Cache.TTL,
		},
	)

	calendar, err := export.NewICSExporter(cfg.Export.DayStart, cfg.Export.PeriodDuration, cfg.Export.Timezone)
	if err != nil {
		logr.Fatal("invalid export configuration", zap.Error(err))
	}
	exports := service.NewExportService(timetables, repository.NewDirectoryRepository(db), service.ExportRenderers{Calendar: calendar}, logr)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metrics, "/metrics", "/health"))
	r.Use(internalmiddleware.WithResponseMeta())

	handler.RegisterObservabilityRoutes(r, handler.NewMetricsHandler(metrics, db))
	handler.RegisterTimetableRoutes(
		r.Group(cfg.APIPrefix),
		handler.NewTimetableHandler(timetables, exports),
		service.NewTokenService(cfg.JWT.Secret),
		logr,
	)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	logr.Info("server stopped")
}

// newCacheRepository picks Redis when configured and reachable, otherwise an in-process cache.
func newCacheRepository(cfg *config.Config, logr *zap.Logger) service.CacheRepository {
	if cfg.Cache.UseRedis {
		client, err := cache.NewRedis(context.Background(), cfg.Redis)
		if err == nil {
			return repository.NewCacheRepository(client, "sma-timetable", logr)
		}
		logr.Warn("redis unavailable, using in-memory cache", zap.Error(err))
	}
	return repository.NewMemoryCacheRepository(cfg.Cache.TTL, 2*cfg.Cache.TTL)
}
