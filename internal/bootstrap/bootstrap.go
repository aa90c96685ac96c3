package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/yigit/courseplanner/internal/app/catalog"
	appControllers "github.com/yigit/courseplanner/internal/app/controllers"
	"github.com/yigit/courseplanner/internal/app/feed"
	appMigrations "github.com/yigit/courseplanner/internal/app/migrations"
	appRepos "github.com/yigit/courseplanner/internal/app/repositories"
	appRoutes "github.com/yigit/courseplanner/internal/app/routes"
	appServices "github.com/yigit/courseplanner/internal/app/services"
	"github.com/yigit/courseplanner/internal/config"
	"github.com/yigit/courseplanner/internal/db"
	appMiddleware "github.com/yigit/courseplanner/internal/middleware"
	"github.com/yigit/courseplanner/internal/pkg/eventbus"
	"github.com/yigit/courseplanner/internal/pkg/helpers"
	"github.com/yigit/courseplanner/internal/pkg/logger"
	"github.com/yigit/courseplanner/internal/pkg/websocket"
	"github.com/yigit/courseplanner/internal/seed"
)

const (
	// DefaultConfigPath is read when neither a flag nor COURSEPLANNER_CONFIG names a file
	DefaultConfigPath = "configs/config.yaml"
	ConfigPathEnv     = "COURSEPLANNER_CONFIG"
)

// ConfigPath returns the config file named by COURSEPLANNER_CONFIG, else DefaultConfigPath
func ConfigPath() string {
	return config.GetEnv(ConfigPathEnv, DefaultConfigPath)
}

// Dependencies holds all the application dependencies
type Dependencies struct {
	CatalogService     appServices.CatalogService
	OfferingService    appServices.OfferingService
	HistoryService     appServices.HistoryService
	GradeService       appServices.GradeService
	CatalogController  *appControllers.CatalogController
	OfferingController *appControllers.OfferingController
	HistoryController  *appControllers.HistoryController
	HealthController   *appControllers.HealthController
	Hub                *websocket.Hub
	WSHandler          *websocket.Handler
	Bus                *eventbus.RedisBus // nil unless redis is configured
	Repos              *appRepos.Repositories
	Logger             zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	if configPath == "" {
		configPath = ConfigPath()
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and seeds the enrolling term.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg, lgr)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		database.Close()
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Str("path", migrationsDir).Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool, lgr)
	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		database.Close()
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	terms := appRepos.NewTermRepository(database.Pool)
	if err := seed.CreateDefaultData(ctx, terms, cfg.Codec(), cfg.Catalog.EnrollingSemester, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return database, nil
}

// NewFeedClient builds the browse feed client from configuration
func NewFeedClient(cfg *config.Config, lgr zerolog.Logger) *feed.Client {
	codec := cfg.Codec()
	return feed.NewClient(feed.ClientConfig{
		BaseURL:           cfg.Feed.BaseURL,
		Timeout:           helpers.ParseDuration(cfg.Feed.Timeout, 10*time.Second),
		RequestsPerSecond: cfg.Feed.RequestsPerSecond,
		Burst:             cfg.Feed.Burst,
		Codec:             &codec,
	}, lgr.With().Str("component", "feed").Logger())
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(ctx context.Context, cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}
	deps.Repos = appRepos.NewRepositories(database.Pool)
	codec := cfg.Codec()

	deps.Hub = websocket.NewHub(lgr)

	// With redis every process publishes to the bus and the forwarder feeds the local hub
	var publisher appServices.EventPublisher = deps.Hub
	if cfg.Redis.Addr != "" {
		bus, err := eventbus.Dial(ctx, eventbus.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Channel:  cfg.Redis.Channel,
		}, lgr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		deps.Bus = bus
		publisher = bus
	}

	store := catalog.NewStore(codec)
	deps.CatalogService = appServices.NewCatalogService(
		store,
		codec,
		deps.Repos.CourseDataRepository,
		appServices.NewEventLog(cfg.Catalog.EventLogSize),
		logger.Component("catalog"),
		appServices.WithCourseDataWriter(deps.Repos.CourseDataRepository),
		appServices.WithEventPublisher(publisher),
	)

	if cfg.Catalog.LoadOnStart {
		if _, err := deps.CatalogService.Load(ctx); err != nil {
			lgr.Error().Err(err).Msg("Initial catalog load failed, starting with an empty catalog")
		}
	}

	fetcher := NewFeedClient(cfg, lgr)
	resolver := appServices.NewTermResolver(deps.Repos.TermRepository, codec, cfg.Catalog.EnrollingSemester, lgr)
	deps.OfferingService = appServices.NewOfferingService(fetcher, resolver, lgr)
	deps.HistoryService = appServices.NewHistoryService(fetcher, resolver, codec, cfg.Feed.HistoryConcurrency, logger.Component("history"))
	deps.GradeService = appServices.NewGradeService(deps.Repos.CourseStatsRepository)

	deps.CatalogController = appControllers.NewCatalogController(deps.CatalogService)
	deps.OfferingController = appControllers.NewOfferingController(deps.OfferingService)
	deps.HistoryController = appControllers.NewHistoryController(deps.HistoryService, deps.GradeService)
	deps.HealthController = appControllers.NewHealthController(database.Pool)
	deps.WSHandler = websocket.NewHandler(deps.Hub, deps.CatalogService.Events, lgr)

	return deps, nil
}

// Start runs the background workers until ctx is done
func (d *Dependencies) Start(ctx context.Context) error {
	go d.Hub.Run(ctx)
	if d.Bus != nil {
		if err := d.Bus.StartForwarder(ctx, d.Hub.Deliver); err != nil {
			return fmt.Errorf("failed to start event forwarder: %w", err)
		}
	}
	return nil
}

// Close releases connections owned by the dependencies
func (d *Dependencies) Close() {
	if d.Bus != nil {
		if err := d.Bus.Close(); err != nil {
			d.Logger.Warn().Err(err).Msg("Failed to close redis connection")
		}
	}
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
	router.Use(gin.Recovery(), appMiddleware.RequestID(), appMiddleware.RequestLogger(lgr))

	appRoutes.SetupRouter(router,
		deps.CatalogController,
		deps.OfferingController,
		deps.HistoryController,
		deps.HealthController,
		deps.WSHandler,
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
