// Package container provides dependency injection using Uber FX
package container

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/multivarka/kitchen/internal/application/catalog"
	"github.com/multivarka/kitchen/internal/application/common"
	menuapp "github.com/multivarka/kitchen/internal/application/menu"
	pantryapp "github.com/multivarka/kitchen/internal/application/pantry"
	"github.com/multivarka/kitchen/internal/domain/planning"
	"github.com/multivarka/kitchen/internal/infrastructure/config"
	"github.com/multivarka/kitchen/internal/infrastructure/http/handlers"
	"github.com/multivarka/kitchen/internal/infrastructure/http/middleware"
	"github.com/multivarka/kitchen/internal/infrastructure/http/realtime"
	"github.com/multivarka/kitchen/internal/infrastructure/http/server"
	"github.com/multivarka/kitchen/internal/infrastructure/monitoring"
	gormRepo "github.com/multivarka/kitchen/internal/infrastructure/persistence/gorm"
	"github.com/multivarka/kitchen/internal/infrastructure/persistence/memory"
	"github.com/multivarka/kitchen/internal/infrastructure/persistence/migrations"
	"github.com/multivarka/kitchen/internal/infrastructure/persistence/postgres"
	redisRepo "github.com/multivarka/kitchen/internal/infrastructure/persistence/redis"
	"github.com/multivarka/kitchen/internal/infrastructure/persistence/sqlite"
	"github.com/multivarka/kitchen/internal/infrastructure/security"
	"github.com/multivarka/kitchen/internal/ports/inbound"
	"github.com/multivarka/kitchen/internal/ports/outbound"
	"github.com/multivarka/kitchen/pkg/healthcheck"
	"github.com/multivarka/kitchen/pkg/logger"
)

// ConfigPath is the config file the application was started with; empty
// means the default search paths
type ConfigPath string

// Module provides all dependency injection modules
var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	DatabaseModule,
	RepositoryModule,
	ObservabilityModule,
	ServiceModule,
	HTTPModule,
	LifecycleModule,
)

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func(path ConfigPath) (*config.Config, error) {
		return config.Load(string(path))
	},
)

// LoggerModule provides logging
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, zap.AtomicLevel, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
		})
	},
)

// DatabaseModule provides the gorm handle for the configured driver
var DatabaseModule = fx.Provide(NewDatabase)

// NewDatabase opens SQLite or PostgreSQL. PostgreSQL schemas are created by
// the SQL migrations when database.auto_migrate is set.
func NewDatabase(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	switch cfg.Database.Driver {
	case "postgres":
		if cfg.Database.AutoMigrate {
			if err := migrateUp(cfg, log); err != nil {
				return nil, err
			}
		}
		db, err := postgres.Open(cfg, log)
		if err != nil {
			return nil, err
		}
		log.Info("Connected to PostgreSQL",
			zap.String("host", cfg.Database.Host),
			zap.String("database", cfg.Database.Database),
			zap.Int("read_replicas", len(cfg.Database.ReadReplicas)),
		)
		return db, nil

	default:
		db, err := sqlite.SetupDatabase(cfg.Database.Path, sqlite.LogLevel(cfg.Database.LogLevel))
		if err != nil {
			return nil, fmt.Errorf("failed to setup SQLite database: %w", err)
		}
		log.Info("Connected to SQLite database",
			zap.String("path", cfg.Database.Path),
			zap.Bool("in_memory", cfg.Database.Path == "" || cfg.Database.Path == ":memory:"),
		)
		return db, nil
	}
}

func migrateUp(cfg *config.Config, log *zap.Logger) error {
	m, err := migrations.Open(cfg.GetURL(), log)
	if err != nil {
		return err
	}
	defer m.Close()
	return m.Up()
}

// RepositoryModule provides repository implementations
var RepositoryModule = fx.Provide(
	fx.Annotate(
		gormRepo.NewPantryRepository,
		fx.As(new(outbound.PantryRepository)),
	),
	fx.Annotate(
		gormRepo.NewRecipeRepository,
		fx.As(new(outbound.RecipeRepository)),
	),
	NewRedisClient,
	NewMenuRepository,
)

// NewRedisClient connects to Redis when the menu lives there and returns
// nil otherwise
func NewRedisClient(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (goredis.UniversalClient, error) {
	if cfg.Menu.Store != config.MenuStoreRedis {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := redisRepo.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.StopHook(client.Close))
	return client, nil
}

// NewMenuRepository picks the current menu store named by menu.store
func NewMenuRepository(cfg *config.Config, db *gorm.DB, client goredis.UniversalClient, log *zap.Logger) outbound.MenuRepository {
	switch cfg.Menu.Store {
	case config.MenuStoreRedis:
		return redisRepo.NewMenuRepository(client, cfg.Menu.Key, cfg.Menu.TTL, log)
	case config.MenuStoreMemory:
		log.Warn("Current menu is kept in memory and is lost on restart")
		return memory.NewMenuRepository()
	default:
		return gormRepo.NewMenuRepository(db)
	}
}

// ObservabilityModule provides metrics, tracing and event publishing
var ObservabilityModule = fx.Provide(
	monitoring.NewMetrics,
	func(metrics *monitoring.Metrics) (*monitoring.MeterProvider, error) {
		return monitoring.NewMeterProvider(metrics.Registry())
	},
	func(cfg *config.Config, log *zap.Logger) (*monitoring.TracingProvider, error) {
		return monitoring.NewTracingProvider(context.Background(), monitoring.TracingConfig{
			ServiceName:    cfg.App.Name,
			ServiceVersion: cfg.App.Version,
			Environment:    cfg.App.Environment,
			Endpoint:       cfg.Monitoring.OTLPEndpoint,
			Insecure:       cfg.Monitoring.OTLPInsecure,
			SamplingRate:   cfg.Monitoring.SamplingRate,
			Enabled:        cfg.Monitoring.EnableTracing,
		}, log)
	},
	// the meter provider must be global before instruments are created
	func(metrics *monitoring.Metrics, _ *monitoring.MeterProvider, log *zap.Logger) (*monitoring.EventRecorder, error) {
		return monitoring.NewEventRecorder(metrics, log)
	},
	realtime.NewHub,
	func(recorder *monitoring.EventRecorder, hub *realtime.Hub) outbound.EventPublisher {
		return common.Publishers{recorder, hub}
	},
)

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	security.NewValidationService,
	func() common.Clock { return common.SystemClock },
	func() planning.Picker { return common.NewRandomPicker(time.Now().UnixNano()) },
	pantryapp.NewPantryService,
	catalog.NewCatalogService,
	menuapp.NewMenuService,
)

// HTTPModule provides HTTP server and handlers
var HTTPModule = fx.Provide(
	handlers.NewAPIHandlers,
	NewHealthCheck,
	func(cfg *config.Config, metrics *monitoring.Metrics, log *zap.Logger) *middleware.RateLimiter {
		return middleware.NewRateLimiter(cfg.RateLimit, metrics, log)
	},
	server.NewServer,
)

// NewHealthCheck registers a probe per backing store
func NewHealthCheck(cfg *config.Config, db *gorm.DB, client goredis.UniversalClient, log *zap.Logger) *healthcheck.HealthCheck {
	health := healthcheck.New(cfg.App.Version, log.Named("health"))
	health.Register("database", healthcheck.NewDatabaseChecker(db))
	if client != nil {
		health.Register("redis", healthcheck.NewRedisChecker(client))
	}
	return health
}

// LifecycleModule provides lifecycle hooks
var LifecycleModule = fx.Invoke(
	RegisterLifecycleHooks,
	WatchConfig,
)

// lifecycleParams collects what the hooks start and stop
type lifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *zap.Logger
	DB        *gorm.DB
	Server    *server.Server
	Hub       *realtime.Hub
	Limiter   *middleware.RateLimiter
	Tracing   *monitoring.TracingProvider
	Meter     *monitoring.MeterProvider
	Pantry    inbound.PantryService
}

// RegisterLifecycleHooks registers application lifecycle hooks
func RegisterLifecycleHooks(p lifecycleParams) {
	log := p.Logger
	var cancel context.CancelFunc

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting kitchen service",
				zap.String("version", p.Config.App.Version),
				zap.String("environment", p.Config.App.Environment),
				zap.String("database", p.Config.Database.Driver),
				zap.String("menu_store", p.Config.Menu.Store),
			)

			if p.Config.Database.Seed {
				added, err := p.Pantry.SeedDefaults(ctx)
				if err != nil {
					return fmt.Errorf("seed pantry: %w", err)
				}
				log.Info("Seeded pantry", zap.Int("added", added))
			}

			if err := p.Server.Listen(); err != nil {
				return err
			}

			var runCtx context.Context
			runCtx, cancel = context.WithCancel(context.Background())
			go p.Hub.Run(runCtx)
			if p.Config.RateLimit.Enable {
				go p.Limiter.Run(runCtx)
			}
			go func() {
				if err := p.Server.Start(); err != nil {
					log.Error("HTTP server stopped", zap.Error(err))
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down kitchen service")

			if err := p.Server.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown HTTP server", zap.Error(err))
			}
			if cancel != nil {
				cancel()
			}
			if err := p.Tracing.Shutdown(ctx); err != nil {
				log.Error("Failed to flush traces", zap.Error(err))
			}
			if err := p.Meter.Shutdown(ctx); err != nil {
				log.Error("Failed to stop meter provider", zap.Error(err))
			}

			sqlDB, err := p.DB.DB()
			if err == nil {
				if err := sqlDB.Close(); err != nil {
					log.Error("Failed to close database connection", zap.Error(err))
				}
			}

			_ = log.Sync()
			return nil
		},
	})
}

// WatchConfig applies log level edits of the config file at runtime. Other
// settings need a restart.
func WatchConfig(path ConfigPath, level zap.AtomicLevel, log *zap.Logger) error {
	_, err := config.Watch(string(path),
		func(cfg *config.Config) {
			next := logger.ParseLevel(cfg.App.LogLevel)
			if next != level.Level() {
				level.SetLevel(next)
				log.Info("Log level changed", zap.String("level", next.String()))
			}
		},
		func(err error) {
			log.Warn("Ignoring invalid config change", zap.Error(err))
		},
	)
	return err
}
