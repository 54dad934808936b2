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
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/DrExperiment/ecole-peg-sub000/api/swagger"
	"github.com/DrExperiment/ecole-peg-sub000/internal/dto"
	"github.com/DrExperiment/ecole-peg-sub000/internal/handler"
	"github.com/DrExperiment/ecole-peg-sub000/internal/middleware"
	"github.com/DrExperiment/ecole-peg-sub000/internal/repository"
	"github.com/DrExperiment/ecole-peg-sub000/internal/service"
	"github.com/DrExperiment/ecole-peg-sub000/migrations"
	"github.com/DrExperiment/ecole-peg-sub000/pkg/cache"
	"github.com/DrExperiment/ecole-peg-sub000/pkg/config"
	"github.com/DrExperiment/ecole-peg-sub000/pkg/database"
	"github.com/DrExperiment/ecole-peg-sub000/pkg/logger"
	"github.com/DrExperiment/ecole-peg-sub000/pkg/storage"
	corsmiddleware "github.com/DrExperiment/ecole-peg-sub000/pkg/middleware/cors"
	reqidmiddleware "github.com/DrExperiment/ecole-peg-sub000/pkg/middleware/requestid"
)

// @title École PEG API
// @version 1.0.0
// @description Back office of the school: students, courses, billing and attendance.
// @BasePath /api
// @schemes http https

const shutdownTimeout = 10 * time.Second

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

	if err := run(cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logr *zap.Logger) error {
	if cfg.Auth.AdminPasswordHash == "" {
		return errors.New("ADMIN_PASSWORD_HASH is not set; generate one with `ecolectl hash-password`")
	}
	loc, err := time.LoadLocation(cfg.Lifecycle.TimeLocation)
	if err != nil {
		return fmt.Errorf("load time location %q: %w", cfg.Lifecycle.TimeLocation, err)
	}

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(cfg.Database, migrations.FS, logr); err != nil {
			return err
		}
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	switch {
	case errors.Is(err, cache.ErrDisabled):
		logr.Info("redis disabled, dashboard served uncached")
	case err != nil:
		logr.Warn("redis unavailable, dashboard served uncached", zap.Error(err))
	default:
		defer redisClient.Close()
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := build(cfg, db, redisClient, loc, logr)
	if err != nil {
		return err
	}

	if cfg.Lifecycle.Enabled {
		if err := app.lifecycle.Start(ctx); err != nil {
			return err
		}
		defer app.lifecycle.Stop()
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           app.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Sugar().Infow("server starting", "addr", server.Addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logr.Info("shutdown requested")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logr.Error("could not stop server gracefully", zap.Error(err))
		return server.Close()
	}
	return nil
}

type application struct {
	engine    *gin.Engine
	lifecycle *service.LifecycleService
}

func build(cfg *config.Config, db *sqlx.DB, redisClient *redis.Client, loc *time.Location, logr *zap.Logger) (*application, error) {
	validate := dto.NewValidator()
	clock := service.ClockIn(loc)

	students := repository.NewStudentRepository(db)
	teachers := repository.NewTeacherRepository(db)
	courses := repository.NewCourseRepository(db)
	sessions := repository.NewSessionRepository(db)
	enrollments := repository.NewEnrollmentRepository(db)
	lessons := repository.NewPrivateLessonRepository(db)
	invoices := repository.NewInvoiceRepository(db)
	payments := repository.NewPaymentRepository(db)
	attendance := repository.NewAttendanceRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)
	guarantors := repository.NewGuarantorRepository(db)
	placements := repository.NewPlacementRepository(db)
	documents := repository.NewDocumentRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, "ecole", logr.Named("cache"))

	metrics := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Dashboard.CacheTTL, logr.Named("cache"), cacheRepo.Enabled())
	dashboard := service.NewDashboardService(dashboardRepo, invoices, students, cacheSvc, clock, logr.Named("dashboard"))
	lifecycle := service.NewLifecycleService(sessions, service.LifecycleConfig{
		Workers:    cfg.Lifecycle.Workers,
		MaxRetries: cfg.Lifecycle.MaxRetries,
		RetryDelay: cfg.Lifecycle.RetryDelay,
		Schedule:   cfg.Lifecycle.SweepCron,
		Location:   loc,
	}, metrics, dashboard, logr.Named("lifecycle"))

	auth := service.NewAuthService(service.AuthConfig{
		PasswordHash: cfg.Auth.AdminPasswordHash,
		Secret:       cfg.Auth.SessionSecret,
		SessionTTL:   cfg.Auth.SessionTTL,
	}, validate, logr.Named("auth"))

	documentStore, err := storage.NewDiskStore(cfg.Documents.Dir)
	if err != nil {
		return nil, err
	}

	loginLimiter, err := middleware.NewIPLimiter(cfg.RateLimit.Login)
	if err != nil {
		return nil, err
	}

	h := handler.Handlers{
		Auth: handler.NewAuthHandler(auth, handler.CookieConfig{
			Name:   cfg.Auth.CookieName,
			Domain: cfg.Auth.CookieDomain,
			Secure: cfg.Auth.CookieSecure,
		}),
		Students: handler.NewStudentHandler(service.NewStudentService(students, validate, logr.Named("students"))),
		Guarantors: handler.NewGuarantorHandler(service.NewGuarantorService(
			guarantors, students, validate, logr.Named("guarantors"))),
		PlacementTests: handler.NewPlacementHandler(service.NewPlacementService(
			placements, students, clock, validate, logr.Named("placement_tests"))),
		Documents: handler.NewDocumentHandler(service.NewDocumentService(
			documents, students, documentStore,
			storage.NewLinkSigner(cfg.Documents.LinkSecret, cfg.Documents.LinkTTL),
			service.DocumentConfig{MaxFileSize: cfg.Documents.MaxFileSize, LinkPrefix: cfg.APIPrefix},
			logr.Named("documents"))),
		Teachers: handler.NewTeacherHandler(service.NewTeacherService(teachers, validate, logr.Named("teachers"))),
		Courses:  handler.NewCourseHandler(service.NewCourseService(courses, validate, logr.Named("courses"))),
		Sessions: handler.NewSessionHandler(service.NewSessionService(sessions, validate, logr.Named("sessions"),
			service.WithSessionRefresher(lifecycle),
			service.WithSessionStats(dashboard),
			service.WithSessionClock(clock),
		)),
		Enrollments: handler.NewEnrollmentHandler(service.NewEnrollmentService(
			enrollments, sessions, students, lifecycle, dashboard, validate, logr.Named("enrollments"))),
		PrivateLessons: handler.NewPrivateLessonHandler(service.NewPrivateLessonService(
			lessons, dashboard, validate, logr.Named("private_lessons"))),
		Invoices: handler.NewInvoiceHandler(service.NewInvoiceService(service.InvoiceDeps{
			Invoices:    invoices,
			Payments:    payments,
			Students:    students,
			Enrollments: enrollments,
			Lessons:     lessons,
			Stats:       dashboard,
			Clock:       clock,
		}, service.InvoiceConfig{
			Currency:   cfg.Billing.Currency,
			SchoolName: cfg.Billing.SchoolName,
		}, validate, logr.Named("invoices"))),
		Payments: handler.NewPaymentHandler(service.NewPaymentService(
			payments, metrics, dashboard, clock, validate, logr.Named("payments"))),
		Attendance: handler.NewAttendanceHandler(service.NewAttendanceService(
			attendance, sessions, enrollments, nil, validate, logr.Named("attendance"))),
		Dashboard: handler.NewDashboardHandler(dashboard),
		Metrics: handler.NewMetricsHandler(metrics, readinessChecks(db, redisClient)),
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))
	r.Use(middleware.ResponseMeta())
	r.Use(middleware.Audit(logr.Named("audit")))

	handler.Register(r, cfg.APIPrefix, h,
		middleware.Session(auth, cfg.Auth.CookieName),
		middleware.RateLimit(loginLimiter, logr.Named("ratelimit")),
	)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return &application{engine: r, lifecycle: lifecycle}, nil
}

func readinessChecks(db *sqlx.DB, redisClient *redis.Client) map[string]handler.ReadinessCheck {
	checks := map[string]handler.ReadinessCheck{
		"postgres": db.PingContext,
	}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}
	return checks
}
