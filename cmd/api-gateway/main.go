package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/academy-schedule-api/api/swagger"
	"github.com/noah-isme/academy-schedule-api/internal/handler"
	"github.com/noah-isme/academy-schedule-api/internal/middleware"
	"github.com/noah-isme/academy-schedule-api/internal/models"
	"github.com/noah-isme/academy-schedule-api/internal/repository"
	"github.com/noah-isme/academy-schedule-api/internal/scheduling"
	"github.com/noah-isme/academy-schedule-api/internal/service"
	"github.com/noah-isme/academy-schedule-api/pkg/cache"
	"github.com/noah-isme/academy-schedule-api/pkg/config"
	"github.com/noah-isme/academy-schedule-api/pkg/database"
	"github.com/noah-isme/academy-schedule-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/academy-schedule-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/academy-schedule-api/pkg/middleware/requestid"
)

// @title Academy Schedule API
// @version 1.0.0
// @description Weekly time slots, conflict detection and session calendars for music academies
// @BasePath /api/v1
// @schemes http

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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	if cfg.RunMigrations {
		if err := database.RunMigrations(db.DB, logr); err != nil {
			logr.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Fatal("failed to connect to redis", zap.Error(err))
	}

	bounds, err := schedulingBounds(cfg.Scheduling)
	if err != nil {
		logr.Fatal("invalid scheduling window", zap.Error(err))
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	memberRepo := repository.NewAcademyMemberRepository(db)
	periodRepo := repository.NewPeriodRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	slotRepo := repository.NewTimeSlotRepository(db)
	sessionRepo := repository.NewSessionDateRepository(db)

	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})

	probes := map[string]handler.Pinger{"postgres": db}
	var timetableCache *service.CacheService
	if redisClient != nil {
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		defer cacheRepo.Close() //nolint:errcheck
		probes["redis"] = cacheRepo
		timetableCache = service.NewCacheService(cacheRepo, metricsSvc, cfg.Scheduling.TimetableCacheTTL, logr, cfg.Scheduling.TimetableCache)
	}

	scheduleCfg := service.ScheduleConfig{
		Bounds:       bounds,
		MaxRangeDays: cfg.Scheduling.MaxRangeDays,
		CacheTTL:     cfg.Scheduling.TimetableCacheTTL,
	}
	var scheduleSvc *service.ScheduleService
	if timetableCache != nil && timetableCache.Enabled() {
		scheduleSvc = service.NewScheduleService(db, slotRepo, sessionRepo, periodRepo, subjectRepo, memberRepo, timetableCache, metricsSvc, validate, logr, scheduleCfg)
	} else {
		scheduleSvc = service.NewScheduleService(db, slotRepo, sessionRepo, periodRepo, subjectRepo, memberRepo, nil, metricsSvc, validate, logr, scheduleCfg)
	}
	calendarSvc := service.NewCalendarService(sessionRepo, periodRepo, subjectRepo, validate, logr, cfg.Scheduling.MaxRangeDays)
	periodSvc := service.NewPeriodService(periodRepo, validate, logr)
	exportSvc := service.NewExportService(calendarSvc, slotRepo, service.ExportConfig{Timezone: cfg.Scheduling.Timezone}, logr, nil, nil, nil, nil)

	authHandler := handler.NewAuthHandler(authSvc)
	scheduleHandler := handler.NewScheduleHandler(scheduleSvc)
	calendarHandler := handler.NewCalendarHandler(calendarSvc, exportSvc)
	periodHandler := handler.NewPeriodHandler(periodSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, probes)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)

	academy := api.Group("/academies/:academyId")
	academy.Use(middleware.JWT(authSvc), middleware.AcademyMembership(memberRepo, logr))

	academy.GET("/periods", periodHandler.List)
	academy.GET("/periods/:periodId", periodHandler.Get)
	academy.POST("/periods", middleware.RequireRoles(models.AcademyRoleDirector), periodHandler.Create)

	course := academy.Group("/periods/:periodId/courses/:professorId/:subjectId")
	course.Use(middleware.RBAC(string(models.AcademyRoleDirector), middleware.SelfProfessor))
	course.PUT("/schedule", scheduleHandler.Reconcile)
	course.DELETE("", scheduleHandler.DeleteCourse)

	professor := academy.Group("/periods/:periodId/professors/:professorId")
	professor.GET("/timetable", scheduleHandler.Timetable)
	professor.POST("/time-slots/check", scheduleHandler.CheckSlot)

	academy.POST("/session-dates/preview", calendarHandler.Preview)
	sessions := academy.Group("/periods/:periodId/subjects/:subjectId/session-dates")
	sessions.GET("", calendarHandler.List)
	sessions.GET("/export", calendarHandler.Export)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

func schedulingBounds(cfg config.SchedulingConfig) (scheduling.Bounds, error) {
	start, err := scheduling.ParseTimeOfDay(cfg.DayStart)
	if err != nil {
		return scheduling.Bounds{}, fmt.Errorf("day start: %w", err)
	}
	end, err := scheduling.ParseTimeOfDay(cfg.DayEnd)
	if err != nil {
		return scheduling.Bounds{}, fmt.Errorf("day end: %w", err)
	}
	if start >= end {
		return scheduling.Bounds{}, fmt.Errorf("day start %s must precede day end %s", start, end)
	}
	return scheduling.Bounds{Earliest: start, Latest: end}, nil
}
