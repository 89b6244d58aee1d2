package app

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/aussiebroadwan/khpl/internal/team/cache"
	httpapi "github.com/aussiebroadwan/khpl/internal/team/http"
	"github.com/aussiebroadwan/khpl/internal/team/service"
	"github.com/aussiebroadwan/khpl/internal/team/store"
	"github.com/aussiebroadwan/khpl/internal/team/store/drivers/postgres"
	"github.com/aussiebroadwan/khpl/internal/team/store/drivers/sqlite"
	"github.com/aussiebroadwan/khpl/pkg/cryptox"
	"github.com/aussiebroadwan/khpl/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"

	serviceName = "khpl-team"

	// reconnectInterval paces store connection attempts after a failed start.
	reconnectInterval = 5 * time.Second
)

var errNotConnected = errors.New("database not connected yet")

// Application encapsulates the team service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies. db always points at a usable Store; until the
	// database is reached it is store.Unavailable.
	db             *store.Handle
	connected      bool
	cache          *cache.DownlineCache
	shutdownTracer func(context.Context) error

	// Services
	tokenService        *service.TokenService
	authService         *service.AuthService
	teamService         *service.TeamService
	invitationService   *service.InvitationService
	ownerService        *service.OwnerService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router

	stopReconnect chan struct{}
	reconnectWG   sync.WaitGroup
}

// New creates a new Application instance with all dependencies initialized.
// An unreachable database is not fatal: the service starts degraded and
// keeps trying to connect.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: serviceName,
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
		db:            store.NewHandle(store.Unavailable(errNotConnected)),
		stopReconnect: make(chan struct{}),
	}

	// Set pepper path for password hashing
	cryptox.SetPepperPath(app.cfg.PepperFile)

	ctx := context.Background()
	shutdown, err := initTracing(ctx, app.logger, cfg.OTLPEndpoint, cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	app.shutdownTracer = shutdown

	if err := app.initDatabase(); err != nil {
		app.logger.Error("database unavailable, starting degraded", slog.Any("error", err))
	}
	app.initCache()

	if err := app.initServices(); err != nil {
		return nil, err
	}
	app.initHTTP()

	if app.connected {
		app.seedOwner(ctx)
	}
	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()
	if !app.connected {
		app.reconnectWG.Add(1)
		go app.reconnect()
	}

	app.logger.Info("team service starting", "port", app.cfg.Port, "version", BuildVersion)

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
	app.logger.Info("shutting down team service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	close(app.stopReconnect)
	app.reconnectWG.Wait()
	app.housekeepingService.Stop()

	if err := app.shutdownTracer(ctx); err != nil {
		app.logger.Error("error flushing traces", "error", err)
	}
	if app.cache != nil {
		if err := app.cache.Close(); err != nil {
			app.logger.Error("error closing cache", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("team service stopped")
	return nil
}

// openStore opens the configured driver and applies migrations.
func (app *Application) openStore() (store.Store, error) {
	var (
		st  store.Store
		err error
	)
	switch app.cfg.DatabaseDriver {
	case "postgres":
		st, err = postgres.NewStore(app.cfg.DatabaseURL, postgres.PoolConfig{
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
		})
	default:
		host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
		st, err = sqlite.NewStore(host)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := st.ApplyMigrations(); err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("failed to apply database migrations: %w", err)
	}
	return st, nil
}

// initDatabase connects the store handle.
func (app *Application) initDatabase() error {
	st, err := app.openStore()
	if err != nil {
		return err
	}
	app.db.Set(st)
	app.connected = true
	app.logger.Info("database migrations applied successfully", "driver", app.cfg.DatabaseDriver)
	return nil
}

// reconnect retries initDatabase until it succeeds or the app stops, then
// runs the startup work that needed the database.
func (app *Application) reconnect() {
	defer app.reconnectWG.Done()

	ticker := time.NewTicker(reconnectInterval)
	defer ticker.Stop()

	for {
		select {
		case <-app.stopReconnect:
			return
		case <-ticker.C:
			if err := app.initDatabase(); err != nil {
				app.logger.Warn("database still unavailable", slog.Any("error", err))
				continue
			}
			app.seedOwner(context.Background())
			return
		}
	}
}

// initCache connects the optional downline cache. Failing to reach Redis
// only disables caching.
func (app *Application) initCache() {
	if app.cfg.RedisURL == "" {
		return
	}
	c, err := cache.NewDownlineCache(app.cfg.RedisURL)
	if err != nil {
		app.logger.Error("downline cache disabled", slog.Any("error", err))
		return
	}
	app.cache = c
	app.logger.Info("downline cache enabled")
}

func (app *Application) jwtSecret() ([]byte, error) {
	if app.cfg.JWTSecretKey != "" {
		return []byte(app.cfg.JWTSecretKey), nil
	}
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, err
	}
	app.logger.Warn("JWT_SECRET_KEY not set; using a per-process secret, tokens will not survive a restart")
	return secret, nil
}

// initServices initializes all business logic services
func (app *Application) initServices() error {
	secret, err := app.jwtSecret()
	if err != nil {
		return fmt.Errorf("failed to generate JWT secret: %w", err)
	}
	app.tokenService, err = service.NewTokenService(secret, app.cfg.JWTIssuer, app.cfg.AccessTokenTTL)
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}

	app.authService = &service.AuthService{Store: app.db, Tokens: app.tokenService}
	app.teamService = &service.TeamService{Store: app.db, CacheTTL: app.cfg.StatsCacheTTL}
	if app.cache != nil {
		app.teamService.Cache = app.cache
	}
	app.invitationService = &service.InvitationService{
		Store:   app.db,
		Tokens:  app.tokenService,
		Team:    app.teamService,
		BaseURL: app.cfg.PublicBaseURL,
		TTL:     app.cfg.InvitationTTL,
	}
	app.ownerService = &service.OwnerService{Store: app.db, Logger: app.logger}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
		app.cfg.InvitationRetention,
	)
	return nil
}

func (app *Application) seedOwner(ctx context.Context) {
	created, err := app.ownerService.EnsureOwner(ctx, service.OwnerSeed{
		Name:     app.cfg.OwnerName,
		Email:    app.cfg.OwnerEmail,
		Phone:    app.cfg.OwnerPhone,
		Password: app.cfg.OwnerPassword,
	})
	if err != nil {
		app.logger.Error("owner seeding failed", slog.Any("error", err))
		return
	}
	if created {
		app.logger.Info("owner account created", "phone", app.cfg.OwnerPhone)
	}
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.db, app.logger)

	router.AuthService = app.authService
	router.InvitationService = app.invitationService
	router.TeamService = app.teamService
	if app.cache != nil {
		router.Cache = app.cache
	}
	router.CORSOrigins = app.cfg.CORSOrigins
	router.Limits = httpapi.Limits{
		Strict:   app.cfg.RateLimits.Strict,
		Moderate: app.cfg.RateLimits.Moderate,
		Lenient:  app.cfg.RateLimits.Lenient,
	}
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
