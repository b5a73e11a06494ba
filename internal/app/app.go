package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"jobnest_backend/internal/algorithms"
	"jobnest_backend/internal/config"
	"jobnest_backend/internal/database"
	"jobnest_backend/internal/email"
	"jobnest_backend/internal/handlers"
	"jobnest_backend/internal/logger"
	"jobnest_backend/internal/middleware"
	"jobnest_backend/internal/models"
	"jobnest_backend/internal/otp"
	"jobnest_backend/internal/report"
	"jobnest_backend/internal/repositories"
	"jobnest_backend/internal/routes"
	"jobnest_backend/internal/services"
	"jobnest_backend/internal/storage"
	"jobnest_backend/internal/validator"
	"jobnest_backend/internal/workers"
	"jobnest_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Dependencies are the external collaborators the router is built on.
type Dependencies struct {
	DB       *gorm.DB
	OTPStore otp.Store
	Mailer   email.Provider
	Storage  storage.Storage
	Health   map[string]handlers.HealthCheck
}

// App owns the process-wide resources of the HTTP server.
type App struct {
	cfg    *config.Config
	deps   Dependencies
	redis  *redis.Client
	router *gin.Engine
}

// New connects every dependency described by cfg and builds the router.
func New(cfg *config.Config) (*App, error) {
	logger.Info("Connecting to database...")
	gormDB, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("Database connected")

	a := &App{cfg: cfg}
	a.deps.DB = gormDB
	a.deps.Health = map[string]handlers.HealthCheck{
		"database": func(ctx context.Context) error {
			sqlDB, err := gormDB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}

	if cfg.Redis.Enabled {
		a.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.redis.Ping(ctx).Err(); err != nil {
			a.Close()
			return nil, fmt.Errorf("redis unavailable: %w", err)
		}
		a.deps.OTPStore = otp.NewRedisStore(a.redis)
		a.deps.Health["redis"] = func(ctx context.Context) error {
			return a.redis.Ping(ctx).Err()
		}
		logger.Info("OTP store: redis", "addr", cfg.Redis.Addr)
	} else {
		a.deps.OTPStore = otp.NewMemoryStore()
		logger.Warn("OTP store: in-memory, codes are lost on restart")
	}

	a.deps.Mailer, err = newEmailProvider(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.deps.Storage, err = storage.NewStorage(storage.Config{
		Type:     cfg.Storage.Type,
		BasePath: cfg.Storage.BasePath,
		BaseURL:  cfg.Storage.BaseURL,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	a.router = SetupRouter(cfg, a.deps)
	return a, nil
}

func newEmailProvider(cfg *config.Config) (email.Provider, error) {
	if cfg.Email.Mock {
		logger.Warn("Email provider: MOCK, verification codes are written to the log")
		return &MockEmailProvider{}, nil
	}

	templates, err := email.NewDefaultTemplateManager()
	if err != nil {
		return nil, fmt.Errorf("failed to load email templates: %w", err)
	}
	provider := email.NewSMTPProvider(&email.SMTPConfig{
		Host:      cfg.Email.SMTPHost,
		Port:      cfg.Email.SMTPPort,
		Username:  cfg.Email.SMTPUsername,
		Password:  cfg.Email.SMTPPassword,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
		Timeout:   cfg.Timeouts.Email,
		CodeTTL:   cfg.OTP.TTL,
	}, templates)
	if err := provider.Validate(); err != nil {
		return nil, fmt.Errorf("invalid smtp configuration: %w", err)
	}
	return provider, nil
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
// Background workers share ctx.
func (a *App) Run(ctx context.Context) error {
	workers.NewJobExpiryWorker(
		a.deps.DB,
		repositories.NewJobRepository(),
		a.cfg.Jobs.ExpirySweep,
		a.cfg.Timeouts.Persistence,
	).Start(ctx)

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port),
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("🚀 Server starting on %s", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server startup error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// DB exposes the connection for the migrate and seed commands.
func (a *App) DB() *gorm.DB {
	return a.deps.DB
}

func (a *App) Close() {
	if a.deps.Mailer != nil {
		_ = a.deps.Mailer.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.deps.DB != nil {
		if sqlDB, err := a.deps.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

// SetupRouter wires services and handlers on top of deps.
func SetupRouter(cfg *config.Config, deps Dependencies) *gin.Engine {
	apperrors.SetDebug(cfg.Server.Debug)

	// 1. Инициализируем сервисы
	serviceContainer := initializeServices(cfg, deps)

	// 2. Инициализируем хэндлеры
	appHandlers := initializeHandlers(cfg, serviceContainer, deps.Health)

	// 3. Инициализируем Gin
	ginRouter := initializeGinRouter(cfg, deps.DB)

	// 4. Регистрация маршрутов
	routes.RegisterRoutes(ginRouter, appHandlers)

	return ginRouter
}

func initializeServices(cfg *config.Config, deps Dependencies) *services.ServiceContainer {
	// --- Репозитории ---
	profileRepo := repositories.NewProfileRepository()
	jobRepo := repositories.NewJobRepository()
	questionRepo := repositories.NewQuestionRepository()
	quizRepo := repositories.NewQuizRepository()

	var reports report.Generator
	if deps.Storage != nil {
		reports = report.NewPDFGenerator(deps.Storage)
	}

	// --- Сервисы ---
	otpService := services.NewOTPService(deps.OTPStore, profileRepo, deps.Mailer, cfg.OTP, cfg.Timeouts.Email)
	profileService := services.NewProfileService(profileRepo, otpService, cfg.Timeouts.Persistence)
	jobService := services.NewJobService(jobRepo, profileRepo, cfg.Timeouts.Persistence)
	quizService := services.NewQuizService(
		profileRepo,
		questionRepo,
		quizRepo,
		jobRepo,
		reports,
		algorithms.NewCorrelator(roleProfiles(cfg)),
		services.QuizOptions{
			JobSampleSize:      cfg.Report.JobSampleSize,
			PersistenceTimeout: cfg.Timeouts.Persistence,
			ReportTimeout:      cfg.Timeouts.Report,
		},
	)

	return &services.ServiceContainer{
		OTPService:     otpService,
		ProfileService: profileService,
		QuizService:    quizService,
		JobService:     jobService,
		EmailProvider:  deps.Mailer,
		Reports:        reports,
		Storage:        deps.Storage,
	}
}

// roleProfiles converts configured overrides; unknown categories are skipped.
func roleProfiles(cfg *config.Config) map[models.Category]algorithms.RoleProfile {
	out := make(map[models.Category]algorithms.RoleProfile, len(cfg.Report.RoleProfiles))
	for name, p := range cfg.Report.RoleProfiles {
		category := models.Category(name)
		if !category.IsValid() {
			logger.Warn("ignoring role profile for unknown category", "category", name)
			continue
		}
		out[category] = algorithms.RoleProfile{IdealRoles: p.IdealRoles, Keywords: p.Keywords}
	}
	return out
}

func initializeHandlers(cfg *config.Config, svc *services.ServiceContainer, health map[string]handlers.HealthCheck) *handlers.AppHandlers {
	verifier := middleware.NewTokenVerifier(cfg.JWT.Secret, cfg.JWT.Issuer)
	baseHandler := handlers.NewBaseHandler(validator.New(), middleware.AuthMiddleware(verifier))

	limiter := middleware.RateLimitMiddleware(
		middleware.NewIPRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst),
	)

	return &handlers.AppHandlers{
		HealthHandler:  handlers.NewHealthHandler(health),
		OTPHandler:     handlers.NewOTPHandler(baseHandler, svc.OTPService, limiter),
		AuthHandler:    handlers.NewAuthHandler(baseHandler, svc.ProfileService),
		ProfileHandler: handlers.NewProfileHandler(baseHandler, svc.ProfileService),
		QuizHandler:    handlers.NewQuizHandler(baseHandler, svc.QuizService),
		JobHandler:     handlers.NewJobHandler(baseHandler, svc.JobService),
		ReportHandler:  handlers.NewReportHandler(baseHandler, svc.Storage, svc.ProfileService),
	}
}

func initializeGinRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.Server.AllowedOrigins...))
	router.Use(middleware.DBMiddleware(db))
	return router
}
