package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/eduassist/backend/internal/app/controllers"
	"github.com/eduassist/backend/internal/app/lifecycle"
	appMigrations "github.com/eduassist/backend/internal/app/migrations"
	appRepos "github.com/eduassist/backend/internal/app/repositories"
	appRoutes "github.com/eduassist/backend/internal/app/routes"
	appServices "github.com/eduassist/backend/internal/app/services"
	"github.com/eduassist/backend/internal/config"
	"github.com/eduassist/backend/internal/db"
	appMiddleware "github.com/eduassist/backend/internal/middleware"
	pkgAuth "github.com/eduassist/backend/internal/pkg/auth"
	"github.com/eduassist/backend/internal/pkg/cache"
	"github.com/eduassist/backend/internal/pkg/email"
	"github.com/eduassist/backend/internal/pkg/filestorage"
	"github.com/eduassist/backend/internal/pkg/helpers"
	"github.com/eduassist/backend/internal/pkg/logger"
	"github.com/eduassist/backend/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService            *appServices.AuthService
	UserService            *appServices.UserService
	RequestService         *appServices.RequestService
	CategoryService        *appServices.CategoryService
	TagService             *appServices.TagService
	FeedbackService        *appServices.FeedbackService
	NotificationService    *appServices.NotificationService
	AuthController         *appControllers.AuthController
	UserController         *appControllers.UserController
	RequestController      *appControllers.RequestController
	CategoryController     *appControllers.CategoryController
	TagController          *appControllers.TagController
	FeedbackController     *appControllers.FeedbackController
	NotificationController *appControllers.NotificationController
	AuthMiddleware         *appMiddleware.AuthMiddleware
	Repos                  *appRepos.Repositories
	JWTService             *pkgAuth.JWTService
	StatusSet              *lifecycle.StatusSet
	Engine                 *lifecycle.Engine
	FileStorage            *filestorage.LocalStorage
	Cache                  *cache.Cache
	Logger                 zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// creates default data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool, lgr)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(context.Background(), migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		// Log the error but don't fail the startup
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.StatusSet = lifecycle.NewStatusSet(cfg.Lifecycle)
	deps.Repos = appRepos.NewRepositories(dbPool, deps.StatusSet.Members())

	// File storage base URL must match the static file serving endpoint
	fileStorageBaseURL := strings.TrimRight(cfg.Server.BaseURL, "/") + "/uploads"
	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, fileStorageBaseURL)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	// The cache degrades to always-miss when Redis is not configured
	deps.Cache, err = cache.New(context.Background(), cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		lgr.Warn().Err(err).Msg("Redis unavailable, continuing without cache")
		deps.Cache = nil
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	sender := email.NewSMTPSender(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
		UseTLS:    cfg.SMTP.UseTLS,
	}, lgr)

	deps.NotificationService = appServices.NewNotificationService(
		deps.Repos.NotificationRepository,
		deps.Repos.EmailLogRepository,
		deps.Repos.UserRepository,
		sender,
		helpers.ParseDuration(cfg.SMTP.Timeout, 3*time.Second),
		lgr,
	)

	deps.Engine = lifecycle.NewEngine(
		deps.StatusSet,
		deps.Repos.RequestRepository,
		deps.NotificationService,
		cfg.Lifecycle.BlockReapproval,
	)

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.Repos.TokenRepository,
		deps.JWTService,
		lgr,
	)
	deps.UserService = appServices.NewUserService(deps.Repos.UserRepository, lgr)
	deps.TagService = appServices.NewTagService(deps.Repos.TagRepository, deps.Cache, lgr)
	deps.RequestService = appServices.NewRequestService(
		deps.Repos.RequestRepository,
		deps.Repos.CategoryRepository,
		deps.TagService,
		deps.Engine,
		deps.FileStorage,
		deps.Cache,
		lgr,
	)
	deps.CategoryService = appServices.NewCategoryService(deps.Repos.CategoryRepository, lgr)
	deps.FeedbackService = appServices.NewFeedbackService(deps.Repos.FeedbackRepository, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService)
	deps.UserController = appControllers.NewUserController(deps.UserService)
	deps.RequestController = appControllers.NewRequestController(deps.RequestService)
	deps.CategoryController = appControllers.NewCategoryController(deps.CategoryService)
	deps.TagController = appControllers.NewTagController(deps.TagService)
	deps.FeedbackController = appControllers.NewFeedbackController(deps.FeedbackService)
	deps.NotificationController = appControllers.NewNotificationController(deps.NotificationService)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(appMiddleware.RequestLogger(), gin.Recovery())

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.UserController,
		deps.RequestController,
		deps.CategoryController,
		deps.TagController,
		deps.FeedbackController,
		deps.NotificationController,
		deps.AuthMiddleware,
		cfg.Server.StoragePath,
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
