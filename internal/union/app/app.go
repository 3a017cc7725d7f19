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

	"github.com/redis/go-redis/v9"

	"github.com/aussiebroadwan/aupwu/internal/union/domain"
	httpapi "github.com/aussiebroadwan/aupwu/internal/union/http"
	"github.com/aussiebroadwan/aupwu/internal/union/service"
	"github.com/aussiebroadwan/aupwu/internal/union/session"
	"github.com/aussiebroadwan/aupwu/internal/union/store"
	"github.com/aussiebroadwan/aupwu/internal/union/store/drivers/postgres"
	"github.com/aussiebroadwan/aupwu/internal/union/store/drivers/sqlite"
	"github.com/aussiebroadwan/aupwu/internal/union/web"
	"github.com/aussiebroadwan/aupwu/pkg/cryptox"
	"github.com/aussiebroadwan/aupwu/pkg/jwtx"
	"github.com/aussiebroadwan/aupwu/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"

	sessionIssuer = "aupwu"
)

// Application wires the portal together: store, session manager, services
// and the HTTP server.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db     store.Store
	redis  *redis.Client // nil unless SESSION_STORE=redis
	hasher cryptox.Hasher

	sessions            *session.Manager
	credentialService   *service.CredentialService
	bootstrapService    *service.BootstrapService
	housekeepingService *service.HousekeepingService // nil unless sessions live in SQL

	server *http.Server
	router *httpapi.Router
}

// New builds the application, applies migrations and runs the bootstrap
// seed. Any error here should abort startup.
func New(cfg Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "aupwu",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
			Writer:  cfg.LogWriter,
		}),
	}
	ctx := slogx.WithContext(context.Background(), app.logger)

	if err := app.initDatabase(ctx); err != nil {
		return nil, err
	}

	if err := app.initServices(); err != nil {
		app.closeBackends()
		return nil, err
	}

	if err := app.bootstrapService.Bootstrap(ctx); err != nil {
		app.closeBackends()
		return nil, err
	}

	if err := app.initSessions(ctx); err != nil {
		app.closeBackends()
		return nil, err
	}

	if err := app.initHTTP(); err != nil {
		app.closeBackends()
		return nil, err
	}

	return app, nil
}

// Handler exposes the router, mainly for tests.
func (app *Application) Handler() http.Handler {
	return app.router
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	if app.housekeepingService != nil {
		app.housekeepingService.Start()
	}

	app.logger.Info("aupwu portal starting", "port", app.cfg.Port, "version", BuildVersion)

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
	app.logger.Info("shutting down aupwu portal...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if app.housekeepingService != nil {
		app.housekeepingService.Stop()
	}

	if err := app.closeBackends(); err != nil {
		app.logger.Error("error closing backends", "error", err)
		return err
	}

	app.logger.Info("aupwu portal stopped")
	return nil
}

func (app *Application) closeBackends() error {
	var errs []error
	if app.redis != nil {
		errs = append(errs, app.redis.Close())
	}
	if app.db != nil {
		errs = append(errs, app.db.Close())
	}
	return errors.Join(errs...)
}

// initDatabase opens the configured driver and applies migrations.
func (app *Application) initDatabase(ctx context.Context) error {
	var (
		db     store.Store
		err    error
		driver string
	)
	if app.cfg.UsesPostgres() {
		driver = "postgres"
		db, err = postgres.NewStore(ctx, app.cfg.DatabaseURL)
	} else {
		driver = "sqlite"
		db, err = sqlite.NewStore(app.cfg.DatabaseURL)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		app.db = nil
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "driver", driver)
	return nil
}

// initServices builds the password hasher and the services that use it.
func (app *Application) initServices() error {
	pepper, err := cryptox.LoadOrCreatePepper(app.cfg.PepperFile)
	if err != nil {
		return fmt.Errorf("failed to load pepper: %w", err)
	}

	argon := &cryptox.Argon2id{Pepper: pepper}
	bc := &cryptox.Bcrypt{Cost: app.cfg.BcryptCost}
	hasher := cryptox.Auto{Primary: argon, Argon2: argon, Bcrypt: bc}
	if app.cfg.PasswordHasher == HasherBcrypt {
		hasher.Primary = bc
	}
	app.hasher = hasher

	app.credentialService = &service.CredentialService{
		Store:  app.db,
		Hasher: app.hasher,
	}
	app.bootstrapService = &service.BootstrapService{
		Store:  app.db,
		Hasher: app.hasher,
		Data: domain.BootstrapData{
			AdminUsername: app.cfg.AdminUsername,
			AdminEmail:    app.cfg.AdminEmail,
			AdminPassword: app.cfg.AdminPassword,
			Committees:    domain.DefaultCommittees,
		},
	}
	return nil
}

// initSessions picks the session backend and builds the manager.
func (app *Application) initSessions(ctx context.Context) error {
	if app.cfg.SessionSecret == DefaultSessionSecret {
		app.logger.Warn("using the default session secret; set SESSION_SECRET")
	}
	signer, err := jwtx.NewHS256(app.cfg.SessionSecret, sessionIssuer)
	if err != nil {
		return fmt.Errorf("failed to create session signer: %w", err)
	}

	var backend session.Backend
	switch app.cfg.SessionStore {
	case SessionStoreRedis:
		opts, err := redis.ParseURL(app.cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		app.redis = redis.NewClient(opts)

		rb := session.NewRedisBackend(app.redis, "", app.cfg.SessionMaxAge)
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rb.Ping(pingCtx); err != nil {
			return fmt.Errorf("failed to reach session redis: %w", err)
		}
		backend = rb
	default:
		backend = &session.SQLBackend{Store: app.db}
		app.housekeepingService = service.NewHousekeepingService(
			app.db,
			app.logger,
			app.cfg.HousekeepingInterval,
			app.cfg.SessionMaxAge,
		)
	}
	app.logger.Info("session backend ready", "store", app.cfg.SessionStore)

	app.sessions = &session.Manager{
		Backend: backend,
		Signer:  signer,
		MaxAge:  app.cfg.SessionMaxAge,
		Secure:  app.cfg.Env == "prod",
	}
	return nil
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() error {
	tpl, err := web.NewTemplates()
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}

	router := httpapi.NewRouter(BuildVersion, app.db, app.sessions, app.logger)
	router.Credentials = app.credentialService
	router.Renderer = tpl
	router.SecureCookies = app.sessions.Secure
	router.LoginLimit = app.cfg.LoginLimit
	router.RegisterLimit = app.cfg.RegisterLimit
	router.HealthLimit = app.cfg.HealthLimit
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
	return nil
}
