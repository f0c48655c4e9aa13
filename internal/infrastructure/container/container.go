// Package container provides dependency injection using Uber FX
package container

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/fx"
	"go.uber.org/zap"
	gormLogger "gorm.io/gorm/logger"

	"github.com/nutriplan/client/internal/application/advice"
	"github.com/nutriplan/client/internal/application/catalog"
	"github.com/nutriplan/client/internal/application/nutrition"
	"github.com/nutriplan/client/internal/application/recipe"
	"github.com/nutriplan/client/internal/application/user"
	"github.com/nutriplan/client/internal/domain/shared"
	domainuser "github.com/nutriplan/client/internal/domain/user"
	"github.com/nutriplan/client/internal/infrastructure/config"
	"github.com/nutriplan/client/internal/infrastructure/events"
	"github.com/nutriplan/client/internal/infrastructure/http/apiclient"
	"github.com/nutriplan/client/internal/infrastructure/monitoring"
	"github.com/nutriplan/client/internal/infrastructure/persistence/memory"
	redisstore "github.com/nutriplan/client/internal/infrastructure/persistence/redis"
	"github.com/nutriplan/client/internal/infrastructure/persistence/sqlite"
	"github.com/nutriplan/client/internal/ports/inbound"
	"github.com/nutriplan/client/internal/ports/outbound"
	"github.com/nutriplan/client/pkg/healthcheck"
	"github.com/nutriplan/client/pkg/logger"
)

// ConfigPath is the config file to load; empty searches the default
// locations
type ConfigPath string

// App is the set of services the command line drives
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Telemetry *monitoring.Telemetry
	Health    *healthcheck.HealthCheck

	Session   inbound.SessionService
	Drafts    inbound.DraftService
	Recipes   inbound.RecipeListService
	Catalog   inbound.CatalogService
	Nutrition inbound.NutritionService
	Advice    inbound.AdviceService
}

// Module provides all dependency injection modules
func Module(configPath string) fx.Option {
	return fx.Options(
		fx.Supply(ConfigPath(configPath)),

		// Infrastructure modules
		ConfigModule,
		LoggerModule,
		MonitoringModule,
		StorageModule,

		// Gateway modules
		GatewayModule,

		// Service modules
		ServiceModule,

		// Event modules
		EventModule,

		// Health checks
		HealthModule,

		// Lifecycle hooks
		LifecycleModule,
	)
}

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func(path ConfigPath) (*config.Config, *viper.Viper, error) {
		return config.LoadWithViper(string(path))
	},
)

// LoggerModule provides logging
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, zap.AtomicLevel) {
		return logger.NewWithLevel(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
		})
	},
)

// MonitoringModule provides metrics and telemetry
var MonitoringModule = fx.Provide(
	monitoring.NewMetricsCollector,
	func(m *monitoring.MetricsCollector) outbound.MetricsRecorder {
		return m
	},
	func(cfg *config.Config, m *monitoring.MetricsCollector, log *zap.Logger) (*monitoring.Telemetry, error) {
		return monitoring.NewTelemetry(monitoring.TelemetryConfig{
			ServiceName:    cfg.App.Name,
			ServiceVersion: cfg.App.Version,
			Environment:    cfg.App.Environment,
			OTLPEndpoint:   cfg.Monitoring.OTLPEndpoint,
			SamplingRate:   cfg.Monitoring.SamplingRate,
			TracingEnabled: cfg.Monitoring.EnableTracing,
		}, m.Registry(), log)
	},
)

// StorageModule provides the credential store selected by configuration
var StorageModule = fx.Provide(NewCredentialStore)

// NewCredentialStore opens the configured credential backend and closes it
// when the application stops
func NewCredentialStore(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (outbound.CredentialStore, error) {
	switch cfg.Credentials.Backend {
	case config.BackendMemory:
		log.Debug("Using in-memory credential store")
		return memory.NewCredentialStore(), nil

	case config.BackendRedis:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		client, err := redisstore.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return client.Close()
			},
		})

		log.Debug("Using Redis credential store", zap.String("addr", cfg.Redis.Addr()))
		return redisstore.NewCredentialStore(client, cfg.Credentials.KeyPrefix, log), nil

	case config.BackendSQLite:
		logLevel := gormLogger.Silent
		if cfg.App.Debug {
			logLevel = gormLogger.Info
		}

		db, err := sqlite.SetupDatabase(cfg.Credentials.SQLitePath, logLevel)
		if err != nil {
			return nil, fmt.Errorf("failed to setup SQLite database: %w", err)
		}
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return sqlite.Close(db)
			},
		})

		log.Debug("Using SQLite credential store", zap.String("path", cfg.Credentials.SQLitePath))
		return sqlite.NewCredentialStore(db, log), nil
	}

	return nil, fmt.Errorf("unknown credential backend %q", cfg.Credentials.Backend)
}

// GatewayModule provides the backend API adapters
var GatewayModule = fx.Provide(
	apiclient.NewTokenSource,
	func(cfg *config.Config, tokens *apiclient.TokenSource, metrics outbound.MetricsRecorder, tel *monitoring.Telemetry, log *zap.Logger) *apiclient.Client {
		return apiclient.NewClient(apiclient.Options{
			BaseURL:           cfg.API.BaseURL,
			Timeout:           cfg.API.Timeout,
			RequestsPerSecond: cfg.API.RequestsPerSecond,
			Burst:             cfg.API.Burst,
			UserAgent:         cfg.API.UserAgent,
			TracerProvider:    tel.TracerProvider(),
			MeterProvider:     tel.MeterProvider(),
		}, tokens, metrics, log)
	},
	apiclient.NewRecipeGateway,
	apiclient.NewUserGateway,
	apiclient.NewCatalogGateway,
	func(g *apiclient.UserGateway) outbound.UserGateway { return g },
	func(g *apiclient.UserGateway) outbound.AuthGateway { return g },
	func(g *apiclient.CatalogGateway) outbound.IngredientCatalog { return g },
	func(g *apiclient.CatalogGateway) outbound.AdviceGateway { return g },
)

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	domainuser.NewValidator,
	user.NewResolver,
	user.NewSessionService,
	func(r *user.Resolver) recipe.UserIDResolver { return r },

	recipe.NewListStore,
	recipe.NewDraftManager,

	func(cfg *config.Config, session inbound.SessionService, list *recipe.ListStore, log *zap.Logger) inbound.NutritionService {
		return nutrition.NewService(session, list, nutrition.Config{
			FallbackDailyCalories: cfg.Nutrition.FallbackDailyCalories,
			WarningRatio:          cfg.Nutrition.WarningRatio,
		}, log)
	},
	func(c outbound.IngredientCatalog, log *zap.Logger) inbound.CatalogService {
		return catalog.NewService(c, log)
	},
	func(cfg *config.Config, g outbound.AdviceGateway, log *zap.Logger) inbound.AdviceService {
		return advice.NewService(g, cfg.Nutrition.AdviceLimit, log)
	},

	NewApp,
)

// NewApp collects the services
func NewApp(
	cfg *config.Config,
	log *zap.Logger,
	tel *monitoring.Telemetry,
	health *healthcheck.HealthCheck,
	session inbound.SessionService,
	drafts *recipe.DraftManager,
	list *recipe.ListStore,
	cat inbound.CatalogService,
	nut inbound.NutritionService,
	adv inbound.AdviceService,
) *App {
	return &App{
		Config:    cfg,
		Logger:    log,
		Telemetry: tel,
		Health:    health,
		Session:   session,
		Drafts:    drafts,
		Recipes:   list,
		Catalog:   cat,
		Nutrition: nut,
		Advice:    adv,
	}
}

// HealthModule provides the checks behind the status command
var HealthModule = fx.Provide(NewHealthCheck)

// NewHealthCheck registers the backend, credential store and session checks
func NewHealthCheck(cfg *config.Config, store outbound.CredentialStore, tokens *apiclient.TokenSource, log *zap.Logger) *healthcheck.HealthCheck {
	health := healthcheck.New(cfg.App.Version, log)
	health.SetTimeout(cfg.API.Timeout)

	health.Register("backend", healthcheck.NewHTTPChecker(&http.Client{Timeout: cfg.API.Timeout}, cfg.API.BaseURL))

	health.Register("credentials", healthcheck.CheckerFunc(func(ctx context.Context) healthcheck.Check {
		start := time.Now()
		_, _, err := store.Get(ctx, outbound.KeyUserEmail)
		check := healthcheck.Check{
			Status:      healthcheck.StatusHealthy,
			Message:     cfg.Credentials.Backend,
			LastChecked: start,
			Duration:    time.Since(start),
		}
		if err != nil {
			check.Status = healthcheck.StatusUnhealthy
			check.Message = err.Error()
		}
		return check
	}))

	health.Register("session", healthcheck.CheckerFunc(func(ctx context.Context) healthcheck.Check {
		start := time.Now()
		check := healthcheck.Check{
			Status:      healthcheck.StatusHealthy,
			Message:     "signed in",
			LastChecked: start,
		}
		if _, err := tokens.Token(ctx); err != nil {
			check.Status = healthcheck.StatusDegraded
			check.Message = err.Error()
		}
		check.Duration = time.Since(start)
		return check
	}))

	return health
}

// EventModule provides event handling
var EventModule = fx.Provide(
	fx.Annotate(
		events.NewDispatcher,
		fx.As(new(shared.EventDispatcher)),
	),
)

// LifecycleModule provides lifecycle hooks
var LifecycleModule = fx.Invoke(
	RegisterEventHandlers,
	RegisterLifecycleHooks,
)

// RegisterEventHandlers subscribes the metrics and log observers
func RegisterEventHandlers(dispatcher shared.EventDispatcher, metrics *monitoring.MetricsCollector, log *zap.Logger) {
	dispatcher.Register(events.Wildcard, metrics.EventHandler())
	dispatcher.Register(events.Wildcard, events.LoggingHandler(log.Named("domain")))
}

// RegisterLifecycleHooks registers application lifecycle hooks
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	cfg *config.Config,
	v *viper.Viper,
	level zap.AtomicLevel,
	log *zap.Logger,
	tel *monitoring.Telemetry,
	metrics *monitoring.MetricsCollector,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Debug("Starting NutriPlan client",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
				zap.String("api", cfg.API.BaseURL),
			)

			config.Watch(v, func(updated *config.Config) {
				level.SetLevel(logger.ParseLevel(updated.App.LogLevel))
				log.Info("Configuration reloaded", zap.String("log_level", updated.App.LogLevel))
			}, func(err error) {
				log.Warn("Ignoring invalid configuration change", zap.Error(err))
			})

			return nil
		},
		OnStop: func(ctx context.Context) error {
			if cfg.Monitoring.EnableMetrics && cfg.Monitoring.MetricsFile != "" {
				if err := metrics.WriteTextfile(cfg.Monitoring.MetricsFile); err != nil {
					log.Error("Failed to write metrics", zap.Error(err))
				}
			}

			if err := tel.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown telemetry", zap.Error(err))
			}

			// Flush logs
			_ = log.Sync()

			return nil
		},
	})
}
