// Package bootstrap wires configuration, storage, services and the router.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appAuth "github.com/yigit/mentorhub/internal/app/auth"
	appControllers "github.com/yigit/mentorhub/internal/app/controllers"
	appMigrations "github.com/yigit/mentorhub/internal/app/migrations"
	appRepos "github.com/yigit/mentorhub/internal/app/repositories"
	appRoutes "github.com/yigit/mentorhub/internal/app/routes"
	appServices "github.com/yigit/mentorhub/internal/app/services"
	"github.com/yigit/mentorhub/internal/config"
	"github.com/yigit/mentorhub/internal/db"
	appMiddleware "github.com/yigit/mentorhub/internal/middleware"
	pkgAuth "github.com/yigit/mentorhub/internal/pkg/auth"
	"github.com/yigit/mentorhub/internal/pkg/email"
	"github.com/yigit/mentorhub/internal/pkg/filestorage"
	"github.com/yigit/mentorhub/internal/pkg/helpers"
	"github.com/yigit/mentorhub/internal/pkg/logger"
	"github.com/yigit/mentorhub/internal/pkg/notify"
	"github.com/yigit/mentorhub/internal/pkg/websocket"
	"github.com/yigit/mentorhub/internal/seed"
)

// DefaultConfigPath is used when no path is given on the command line
const DefaultConfigPath = "configs/config.yaml"

// Dependencies holds all the application dependencies
type Dependencies struct {
	Store        appRepos.Store
	JWTService   *pkgAuth.JWTService
	AuthzService *appAuth.AuthorizationService
	FileStorage  *filestorage.LocalStorage
	Dispatcher   *notify.Dispatcher
	Hub          *websocket.Hub

	AuthService       appServices.AuthService
	RequestService    appServices.RequestService
	MentorshipService appServices.MentorshipService
	MeetingService    appServices.MeetingService
	ReportService     appServices.ReportService
	DashboardService  appServices.DashboardService
	RecordService     appServices.RecordService

	AuthMiddleware *appMiddleware.AuthMiddleware
	Handlers       appRoutes.Handlers
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})

	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// ConnectDatabase opens the connection pool.
func ConnectDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Str("host", cfg.Database.Host).Str("db", cfg.Database.DBName).Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")
	return database, nil
}

// Migrate applies pending schema migrations.
func Migrate(ctx context.Context, cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) error {
	migrator := appMigrations.NewMigrator(database.Pool, lgr)
	applied, err := migrator.MigrateFromDirectory(ctx, cfg.Database.MigrationsDir)
	if err != nil {
		lgr.Error().Err(err).Int("applied", applied).Msg("Database migration error")
		return fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Int("applied", applied).Msg("Database migrations complete")
	return nil
}

// SetupDatabase connects, migrates and, when configured, seeds demo data.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	database, err := ConnectDatabase(cfg, lgr)
	if err != nil {
		return nil, err
	}

	if err := Migrate(ctx, cfg, database, lgr); err != nil {
		database.Close()
		return nil, err
	}

	if cfg.Database.Seed {
		if _, err := seed.Run(ctx, appRepos.NewRepositories(database), "", lgr); err != nil {
			// Demo data is optional; keep serving.
			lgr.Error().Err(err).Msg("Failed to seed demo data, proceeding anyway")
		}
	}

	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Store = appRepos.NewRepositories(database)

	baseURL := strings.TrimRight(cfg.Server.BaseURL, "/") + "/uploads"
	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, baseURL)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 12*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})
	deps.AuthzService = appAuth.NewAuthorizationService(deps.Store)

	mailer := email.NewSMTPMailer(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
		UseTLS:    cfg.SMTP.UseTLS,
	}, lgr)
	deps.Dispatcher = notify.NewDispatcher(mailer, cfg.Notifications.Workers, cfg.Notifications.QueueSize, lgr)
	deps.Hub = websocket.NewHub(lgr)
	notifier := notify.Fanout{deps.Dispatcher, deps.Hub}

	loc := cfg.Location()
	now := appServices.Clock(time.Now)

	deps.AuthService = appServices.NewAuthService(deps.Store, deps.JWTService, now, lgr)
	deps.RequestService = appServices.NewRequestService(deps.Store, notifier, now, lgr)
	deps.MentorshipService = appServices.NewMentorshipService(deps.Store, cfg.Mentorship.ReassignPolicy, loc, now, lgr)
	deps.MeetingService = appServices.NewMeetingService(deps.Store, notifier, loc, now, lgr)
	deps.ReportService = appServices.NewReportService(deps.Store, deps.FileStorage, loc, now, lgr)
	deps.DashboardService = appServices.NewDashboardService(deps.Store, loc, now, lgr)
	deps.RecordService = appServices.NewRecordService(deps.Store, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.AuthzService)

	deps.Handlers = appRoutes.Handlers{
		Auth:          appControllers.NewAuthController(deps.AuthService, lgr),
		Requests:      appControllers.NewRequestController(deps.RequestService),
		Mentorship:    appControllers.NewMentorshipController(deps.MentorshipService),
		Meetings:      appControllers.NewMeetingController(deps.MeetingService),
		Reports:       appControllers.NewReportController(deps.ReportService),
		Dashboard:     appControllers.NewDashboardController(deps.DashboardService),
		Records:       appControllers.NewRecordController(deps.RecordService),
		Notifications: websocket.NewHandler(deps.Hub, cfg.Server.AllowedOrigins, lgr).HandleConnection,
	}

	return deps, nil
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			corsConfig.AllowAllOrigins = true
			corsConfig.AllowCredentials = false
			return cors.New(corsConfig)
		}
	}
	corsConfig.AllowOrigins = origins
	return cors.New(corsConfig)
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, database *db.PostgresDB, lgr zerolog.Logger) (*gin.Engine, error) {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	if err := appMiddleware.RegisterBindingRules(); err != nil {
		return nil, fmt.Errorf("failed to register binding rules: %w", err)
	}

	router := gin.New()
	router.Use(
		appMiddleware.RequestID(),
		appMiddleware.RequestLogger(lgr),
		gin.Recovery(),
		corsMiddleware(cfg.Server.AllowedOrigins),
		appMiddleware.Timeout(helpers.ParseDuration(cfg.Server.RequestTimeout, 15*time.Second)),
	)

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Handlers, deps.AuthMiddleware)

	router.Static("/uploads", cfg.Server.StoragePath)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})
	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := database.Pool.Ping(ctx); err != nil {
			lgr.Warn().Err(err).Msg("Health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": "down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "up"})
	})

	lgr.Info().Str("mode", gin.Mode()).Str("storage", cfg.Server.StoragePath).Msg("Router configured")
	return router, nil
}
