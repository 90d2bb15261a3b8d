package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/kyros/internal/platform/http"
	"github.com/aussiebroadwan/kyros/internal/platform/metrics"
	"github.com/aussiebroadwan/kyros/internal/platform/service"
	"github.com/aussiebroadwan/kyros/internal/platform/store"
	"github.com/aussiebroadwan/kyros/internal/platform/store/drivers/sqlite"
	"github.com/aussiebroadwan/kyros/pkg/jwtx"
	"github.com/aussiebroadwan/kyros/pkg/slogx"
)

// BuildVersion is overridden at build time via -ldflags.
var BuildVersion = "v0.1.0"

// Application encapsulates the platform API with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db      store.Store
	codec   *jwtx.Codec
	metrics *metrics.Metrics

	// Services
	loginService        *service.LoginService
	exchangeService     *service.ExchangeService
	tenantService       *service.TenantService
	membershipService   *service.MembershipService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New validates cfg and wires every dependency. Nothing is served until Run.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "kyros-platform",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
		metrics: metrics.New(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	app.logger.Info("configuration loaded", "config", cfg)

	codec, err := InitTokenCodec(cfg, app.logger)
	if err != nil {
		return nil, err
	}
	app.codec = codec

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Handler exposes the fully wired router, mainly for tests.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("platform API starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		app.housekeepingService.Stop()
		_ = app.db.Close()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown drains in-flight requests, stops housekeeping and closes the
// database.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down platform API...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("platform API stopped")
	return nil
}

// initDatabase opens the metadata store and applies schema and seed
// migrations.
func (app *Application) initDatabase() error {
	db, err := sqlite.NewStore(sqlite.DSN(app.cfg.DatabasePath))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "path", app.cfg.DatabasePath)
	return nil
}

func (app *Application) initServices() {
	app.loginService = &service.LoginService{
		Store:        app.db,
		Tokens:       app.codec,
		UserTokenTTL: app.cfg.UserTokenTTL,
	}

	app.exchangeService = &service.ExchangeService{
		Authority:        app.db.Memberships(),
		Tokens:           app.codec,
		TenantTokenTTL:   app.cfg.TenantTokenTTL,
		AuthorityTimeout: app.cfg.RoleAuthorityTimeout,
		Audit:            app.db.Exchanges(),
		Metrics:          app.metrics,
	}

	app.tenantService = &service.TenantService{Store: app.db}
	app.membershipService = &service.MembershipService{Store: app.db}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
		app.cfg.AuditRetention,
	)
	app.housekeepingService.Metrics = app.metrics

	if !app.cfg.MockLoginEnabled {
		app.logger.Info("mock login disabled")
	}
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(httpapi.RouterConfig{
		Verifier:     app.codec,
		Signer:       app.codec,
		Issuer:       app.cfg.Issuer,
		BuildVersion: BuildVersion,
		CORSOrigins:  app.cfg.CORSOrigins,
		RateLimits:   app.cfg.RateLimits,
		Metrics:      app.metrics,
	}, app.db, app.logger)

	router.LoginService = app.loginService
	router.ExchangeService = app.exchangeService
	router.TenantService = app.tenantService
	router.MembershipService = app.membershipService
	router.MockLoginEnabled = app.cfg.MockLoginEnabled
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
