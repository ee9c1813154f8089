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

	httpapi "github.com/aussiebroadwan/lectern/internal/auth/http"
	"github.com/aussiebroadwan/lectern/internal/auth/notify"
	"github.com/aussiebroadwan/lectern/internal/auth/service"
	"github.com/aussiebroadwan/lectern/internal/auth/store"
	"github.com/aussiebroadwan/lectern/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/lectern/pkg/cryptox"
	"github.com/aussiebroadwan/lectern/pkg/jwtx"
	"github.com/aussiebroadwan/lectern/pkg/slogx"
)

const (
	ServiceName = "lectern"

	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application holds the service and everything it depends on.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db              store.Store
	keyManager      *jwtx.KeyManager
	dispatcher      *notify.Dispatcher
	shutdownTracing func(context.Context) error

	userService         *service.UserService
	courseService       *service.CourseService
	inviteService       *service.InviteService
	sessionService      *service.SessionService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New builds the application. Nothing is served until Run.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: ServiceName,
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	cryptox.SetPepperPath(app.cfg.PepperFile)

	shutdownTracing, err := SetupTracing(context.Background(), cfg.OTLPEndpoint, ServiceName, BuildVersion)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	app.shutdownTracing = shutdownTracing

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	keyManager, err := InitKeys(app.cfg, app.logger)
	if err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.keyManager = keyManager

	notifier, err := BuildNotifier(app.cfg.Notify, app.logger)
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to initialize notifier: %w", err)
	}
	app.dispatcher = notify.NewDispatcher(notifier, notify.DefaultTimeout)
	app.logger.Info("invite notifications enabled", slog.String("channel", notifier.Channel()))

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run serves until SIGINT/SIGTERM or a server failure.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("lectern starting",
		slog.Int("port", app.cfg.Port),
		slog.String("version", BuildVersion),
		slog.String("public_url", app.cfg.PublicURL),
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
		app.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown stops taking requests, lets in-flight notifications finish
// within the grace period and closes the database.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down lectern...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", slogx.Err(err))
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", slogx.Err(err))
		}
	}

	app.dispatcher.Stop(true, app.cfg.ShutdownGracePeriod)
	app.housekeepingService.Stop()

	if err := app.shutdownTracing(ctx); err != nil {
		app.logger.Error("error flushing traces", slogx.Err(err))
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", slogx.Err(err))
		return err
	}

	app.logger.Info("lectern stopped")
	return nil
}

func (app *Application) initDatabase() error {
	db, err := sqlite.NewStore(app.cfg.DatabaseFile)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

func (app *Application) initServices() {
	provisioner := &service.AccountProvisioner{Store: app.db}

	app.userService = &service.UserService{
		Store:              app.db,
		TeacherSignupToken: app.cfg.TeacherSignupToken,
	}
	app.courseService = &service.CourseService{Store: app.db}
	app.inviteService = &service.InviteService{
		Store:       app.db,
		Notifier:    app.dispatcher,
		Provisioner: provisioner,
		PublicURL:   app.cfg.PublicURL,
		TTL:         app.cfg.InviteTTL,
	}
	app.sessionService = &service.SessionService{
		Authenticator: &service.Authenticator{Store: app.db},
		Invites:       app.inviteService,
		KeyManager:    app.keyManager,
		Issuer:        app.cfg.Issuer,
		TTL:           app.cfg.SessionTTL,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
		app.cfg.InviteRetention,
	)
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.keyManager.KeySet,
		app.keyManager.Verifier,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.UserService = app.userService
	router.CourseService = app.courseService
	router.InviteService = app.inviteService
	router.SessionService = app.sessionService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
