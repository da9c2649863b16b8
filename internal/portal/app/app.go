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

	httpapi "github.com/aussiebroadwan/payportal/internal/portal/http"
	"github.com/aussiebroadwan/payportal/internal/portal/metrics"
	"github.com/aussiebroadwan/payportal/internal/portal/service"
	"github.com/aussiebroadwan/payportal/internal/portal/store"
	"github.com/aussiebroadwan/payportal/internal/portal/store/drivers/redis"
	"github.com/aussiebroadwan/payportal/internal/portal/store/drivers/sqlite"
	"github.com/aussiebroadwan/payportal/pkg/cryptox"
	"github.com/aussiebroadwan/payportal/pkg/portalsdk"
	"github.com/aussiebroadwan/payportal/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the portal with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	store   store.Store
	metrics *metrics.Metrics
	portal  *service.Portal

	housekeeper *store.Housekeeper

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "payportal",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
		metrics: metrics.New(),
	}

	if err := app.initStore(); err != nil {
		return nil, err
	}

	app.initServices()

	if err := app.initHTTP(); err != nil {
		_ = app.store.Close()
		return nil, err
	}

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeeper.Start()

	app.logger.Info("portal starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"storage", app.cfg.StorageMode,
		"api", app.cfg.APIURL,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
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

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down portal...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", slogx.Err(err))
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", slogx.Err(err))
		}
	}

	app.housekeeper.Stop()

	if err := app.Close(); err != nil {
		app.logger.Error("error closing storage", slogx.Err(err))
		return err
	}

	app.logger.Info("portal stopped")
	return nil
}

// Handler exposes the routed HTTP handler, mostly for tests.
func (app *Application) Handler() http.Handler { return app.router }

// Close releases the storage backend.
func (app *Application) Close() error { return app.store.Close() }

// initStore opens the configured visitor storage and applies migrations
func (app *Application) initStore() error {
	var (
		st  store.Store
		err error
	)

	switch app.cfg.StorageMode {
	case StorageRedis:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		st, err = redis.NewStore(ctx, redis.Options{
			Addr:     app.cfg.RedisAddr,
			Password: app.cfg.RedisPassword,
			DB:       app.cfg.RedisDB,
		})
	default:
		dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", app.cfg.DatabaseFile)
		st, err = sqlite.NewStore(dsn)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize %s storage: %w", app.cfg.StorageMode, err)
	}
	app.store = st

	if err := st.ApplyMigrations(); err != nil {
		_ = st.Close()
		return fmt.Errorf("failed to apply storage migrations: %w", err)
	}

	attrs := []any{"mode", app.cfg.StorageMode}
	if db, ok := st.(*sqlite.Store); ok {
		if v, dirty, err := db.SchemaVersion(); err == nil {
			attrs = append(attrs, "schema_version", v, "schema_dirty", dirty)
		}
	}
	app.logger.Info("visitor storage ready", attrs...)
	return nil
}

// initServices builds the portal core around the remote API
func (app *Application) initServices() {
	client := portalsdk.NewSDKClient(app.cfg.APIURL)
	client.HTTPClient.Timeout = app.cfg.APITimeout

	app.portal = service.New(service.Config{
		API:           service.SDKAPI{Client: client},
		Messages:      service.MessagesFor(app.cfg.Locale),
		Logger:        app.logger,
		Observer:      app.metrics,
		RedirectDelay: app.cfg.RedirectDelay,
		ReturnHosts:   app.cfg.ReturnHosts,
	})

	app.housekeeper = store.NewHousekeeper(app.store, app.logger, app.cfg.HousekeepingInterval)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() error {
	key, err := app.cookieKey()
	if err != nil {
		return err
	}

	pages, err := httpapi.NewPages(app.cfg.Locale, httpapi.BankDetails{
		Bank:    app.cfg.BankName,
		Holder:  app.cfg.BankHolder,
		Account: app.cfg.BankAccount,
	})
	if err != nil {
		return fmt.Errorf("failed to load pages: %w", err)
	}

	router := httpapi.NewRouter(BuildVersion, app.store, app.logger)
	router.Visitors = &httpapi.Visitors{
		Portal: app.portal,
		Store:  app.store,
		Cookies: httpapi.NewCookies(httpapi.CookieConfig{
			Key:       key,
			Secure:    app.cfg.CookieSecure,
			DeviceTTL: app.cfg.DeviceTTL,
		}),
		DeviceTTL: app.cfg.DeviceTTL,
		TabTTL:    app.cfg.TabTTL,
	}
	router.Pages = pages
	router.MaxUploadBytes = app.cfg.MaxUploadBytes
	router.Metrics = app.metrics.Handler()
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
	return nil
}

// cookieKey derives the cookie signing key from the configured secret.
func (app *Application) cookieKey() ([]byte, error) {
	secret := app.cfg.CookieSecret
	if secret == "" {
		generated, err := cryptox.GenerateToken(cryptox.TokenSize256)
		if err != nil {
			return nil, fmt.Errorf("failed to generate cookie secret: %w", err)
		}
		secret = generated
		app.logger.Warn("PORTAL_COOKIE_SECRET not set, visitors will be forgotten on restart")
	}

	key, err := cryptox.DeriveKey([]byte(secret), cryptox.PurposeCookieSigning)
	if err != nil {
		return nil, fmt.Errorf("failed to derive cookie key: %w", err)
	}
	return key, nil
}
