// Package server assembles the BloodBay API: database and migrations,
// object storage, mail, rate limiting and the HTTP router, and runs it
// until SIGINT or SIGTERM.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/bloodbay/internal/logging"
	"github.com/dmitrijs2005/bloodbay/internal/server/config"
	"github.com/dmitrijs2005/bloodbay/internal/server/mail"
	"github.com/dmitrijs2005/bloodbay/internal/server/ratelimit"
	"github.com/dmitrijs2005/bloodbay/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/bloodbay/internal/server/rest"
	"github.com/dmitrijs2005/bloodbay/internal/server/services"
	"github.com/dmitrijs2005/bloodbay/internal/server/storage"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	redis  *redis.Client
	server *rest.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.New(cfg.LogFormat, os.Stdout)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	blobs, err := storage.NewS3Store(ctx, cfg)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	app := &App{config: cfg, logger: logger, db: db}

	mailer, err := app.newMailer()
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	limiter, err := app.newLimiter(ctx)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	svc := rest.Services{
		Auth:         services.NewAuthService(db, rm, mailer, cfg, logger),
		Verification: services.NewVerificationService(db, rm, logger),
		Cases:        services.NewCaseService(db, rm, logger),
		Files:        services.NewFileService(db, rm, blobs, logger),
	}
	if cfg.IsTest() {
		svc.Maintenance = services.NewMaintenanceService(db, rm, blobs, logger, true)
	}

	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	router := rest.NewRouter(cfg, svc, logger, rest.RouterOptions{Limiter: limiter, Registry: registry})
	app.server = rest.NewServer(cfg.Address(), router, logger)

	return app, nil
}

// newMailer returns an SMTP sender, or a logging no-op when mail is
// disabled by the environment or configuration.
func (app *App) newMailer() (mail.Sender, error) {
	if app.config.IsTest() || app.config.SMTPHost == "" {
		return mail.NewNoopSender(app.logger), nil
	}
	s, err := mail.NewSMTPSender(app.config)
	if err != nil {
		return nil, fmt.Errorf("mail init error: %w", err)
	}
	return s, nil
}

func (app *App) newLimiter(ctx context.Context) (ratelimit.Limiter, error) {
	if app.config.RateLimitRequests <= 0 {
		return nil, nil
	}
	if app.config.RedisAddr == "" {
		return ratelimit.NewMemoryLimiter(app.config.RateLimitRequests, app.config.RateLimitWindow), nil
	}

	client, err := ratelimit.NewRedisClient(ctx, app.config)
	if err != nil {
		return nil, err
	}
	app.redis = client
	return ratelimit.NewRedisLimiter(client, app.config.RateLimitRequests, app.config.RateLimitWindow), nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "environment", app.config.Environment)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()
	app.close(ctx)
}

func (app *App) close(ctx context.Context) {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Warn(ctx, "redis close error", "error", err)
		}
	}
	if err := app.db.Close(); err != nil {
		app.logger.Warn(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
