package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"modguard/internal/admin"
	"modguard/internal/config"
	"modguard/internal/constants"
	"modguard/internal/filter"
	"modguard/internal/logger"
	"modguard/internal/platform"
	"modguard/migrations"
	"modguard/pkg/bootstrap"
	"modguard/pkg/health"
	"modguard/pkg/metrics"
	"modguard/pkg/middleware"
)

const serviceName = "modguard"

type App struct {
	*bootstrap.Base
	dbConnector *bootstrap.DatabaseConnector
	db          *sql.DB
	redis       *redis.Client
	registry    *filter.Registry
	loader      *filter.Loader
	dispatcher  *filter.Dispatcher
	server      *http.Server
}

func NewApp(cfg *config.Config, log logger.Logger) *App {
	if sugaredLogger, ok := log.(*logger.SugaredLogger); ok {
		sugaredLogger.SetServiceName(serviceName)
	}
	return &App{
		Base:        bootstrap.NewBase(cfg, log),
		dbConnector: bootstrap.NewDatabaseConnector(cfg, log),
	}
}

func (a *App) Initialize(ctx context.Context) error {
	if err := a.initDatabases(ctx); err != nil {
		return fmt.Errorf("failed to initialize databases: %w", err)
	}

	if err := a.initFiltering(ctx); err != nil {
		return fmt.Errorf("failed to initialize filtering: %w", err)
	}

	if err := a.InitBroker(serviceName); err != nil {
		return fmt.Errorf("failed to initialize broker: %w", err)
	}

	metrics.RegisterFilterMetrics()
	metrics.RegisterBrokerMetrics()
	metrics.RegisterCircuitBreakerMetrics()

	if err := a.initHTTPServer(); err != nil {
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}

	return nil
}

func (a *App) initDatabases(ctx context.Context) error {
	db, err := a.dbConnector.InitPostgreSQL(ctx)
	if err != nil {
		return err
	}
	a.db = db

	if a.Config.Database.RunMigrations {
		if err := a.runMigrations(); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	rdb, err := a.dbConnector.InitRedis(ctx)
	if err != nil {
		return err
	}
	a.redis = rdb
	return nil
}

func (a *App) runMigrations() error {
	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("failed to load migration source: %w", err)
	}

	driver, err := migratepg.WithInstance(a.db, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	a.Logger.Info("Database migrations applied")
	return nil
}

func (a *App) initFiltering(ctx context.Context) error {
	var gateway platform.Gateway = platform.NewHTTPGateway(
		a.Config.Platform.BaseURL,
		a.Config.Platform.Token,
		a.Logger,
	)
	if a.redis != nil {
		gateway = platform.WithLedger(gateway, platform.NewLedger(a.redis), a.Logger)
	}

	parser := filter.NewSettingsParser(a.Logger)
	a.registry = filter.NewRegistry(parser, a.Logger)

	repo := filter.NewRepository(a.db)
	reload := a.Config.Filtering.Reload
	interval := time.Duration(reload.IntervalSeconds) * time.Second
	if interval <= 0 {
		interval = constants.DefaultReloadIntervalSeconds * time.Second
	}
	jitter := time.Duration(reload.JitterMaxMilliseconds) * time.Millisecond
	a.loader = filter.NewLoader(repo, a.registry, interval, jitter, a.Logger)

	if err := a.loader.Reload(ctx); err != nil {
		a.Logger.WarnwCtx(ctx, "Failed to load initial filter lists",
			"error", err,
		)
	}

	alertsPerSec := a.Config.Platform.AlertsPerSec
	if alertsPerSec <= 0 {
		alertsPerSec = constants.DefaultAlertsPerSec
	}
	alertsBurst := a.Config.Platform.AlertsBurst
	if alertsBurst <= 0 {
		alertsBurst = constants.DefaultAlertsBurst
	}
	alerts := filter.NewAlertSender(gateway, a.Config.Platform.AlertChannelID, alertsPerSec, alertsBurst, a.Logger)

	env := &filter.Env{
		Gateway:      gateway,
		Logger:       a.Logger,
		ModChannelID: a.Config.Platform.ModChannelID,
		PingRoles:    a.Config.Platform.PingRoles,
	}
	a.dispatcher = filter.NewDispatcher(a.registry, env, alerts, a.Logger)
	return nil
}

func (a *App) initHTTPServer() error {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(a.Logger))
	router.Use(middleware.RecoveryMiddleware(a.Logger))

	healthRegistry := health.NewCheckerRegistry()
	healthRegistry.Register(health.NewPostgreSQLChecker(a.db))
	if a.redis != nil {
		healthRegistry.Register(health.NewRedisChecker(a.redis))
	}

	router.GET("/health", func(c *gin.Context) {
		h := healthRegistry.Check(c.Request.Context())
		statusCode := http.StatusOK
		if h.Status == health.StatusUnhealthy {
			statusCode = http.StatusServiceUnavailable
		}
		c.JSON(statusCode, h)
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	adminHandler := admin.NewHandler(a.registry, a.loader, a.Logger)
	adminHandler.RegisterRoutes(router)

	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      router,
		ReadTimeout:  a.Config.Server.ReadTimeoutSeconds * time.Second,
		WriteTimeout: a.Config.Server.WriteTimeoutSeconds * time.Second,
	}
	return nil
}

func (a *App) Run(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.InfowCtx(ctx, "HTTP server starting", "port", a.Config.Server.Port)
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		a.loader.Start(gCtx)
		return nil
	})

	eventTopic := a.Config.Broker.Kafka.EventTopic
	if eventTopic == "" {
		eventTopic = constants.DefaultEventTopic
	}
	g.Go(func() error {
		return a.Consumer.Consume(gCtx, eventTopic, a.dispatcher.HandleMessage)
	})

	return g.Wait()
}

func (a *App) Shutdown(ctx context.Context) error {
	a.Logger.InfowCtx(ctx, "Shutting down modguard")

	additionalShutdown := func(ctx context.Context) []error {
		var errs []error

		if a.server != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
			defer cancel()
			if err := a.server.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("HTTP server shutdown error: %w", err))
			}
		}

		errs = append(errs, a.dbConnector.ShutdownDatabases(a.redis, a.db)...)

		return errs
	}

	return a.Base.Shutdown(ctx, additionalShutdown)
}
