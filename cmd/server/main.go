package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/cloudchaser/dashboard/internal/api"
	"github.com/cloudchaser/dashboard/internal/config"
	"github.com/cloudchaser/dashboard/internal/database"
	"github.com/cloudchaser/dashboard/internal/handler"
	"github.com/cloudchaser/dashboard/internal/middleware"
	"github.com/cloudchaser/dashboard/internal/repository"
	"github.com/cloudchaser/dashboard/internal/router"
	"github.com/cloudchaser/dashboard/internal/service"
	"github.com/cloudchaser/dashboard/internal/session"
	"github.com/cloudchaser/dashboard/internal/validate"
	"github.com/cloudchaser/dashboard/internal/web"
)

// main starts the dashboard web server.  Redis, RabbitMQ and MySQL are
// optional: without them sessions live in memory, activity events are
// dropped and the Activity tab reports that it is not configured.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := cfg.Log.NewLogger(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rdb := config.NewRedisClient(cfg.Redis)
	var store session.Store
	if rdb != nil {
		defer rdb.Close()
		store = session.NewRedisStore(rdb, cfg.Session.Prefix, cfg.Session.TTL)
		logger.Info("session store: redis", slog.String("addr", cfg.Redis.Address()))
	} else {
		store = session.NewMemoryStore()
		logger.Warn("session store: memory (redis unavailable)")
	}
	sessions := session.NewManager(store, session.Cookie{
		Name:   cfg.Session.CookieName,
		Secret: []byte(cfg.Session.Secret),
		Secure: cfg.Session.CookieSecure,
	}, cfg.Session.TTL)

	var publisher service.Publisher = service.NopPublisher{}
	if cfg.AMQP.URL != "" {
		publisher = service.NewActivityPublisher(cfg.AMQP.URL, cfg.AMQP.Queue, logger)
	} else {
		logger.Warn("activity publishing disabled (AMQP_URL not set)")
	}

	var activity handler.ActivityReader
	if cfg.DB.Enabled() {
		db, err := database.Open(cfg.DB)
		if err != nil {
			logger.Warn("activity log unavailable", slog.Any("error", err))
		} else {
			defer db.Close()
			activity = repository.NewActivityRepo(db)
		}
	}

	client := api.New(cfg.API.BaseURL, cfg.API.Timeout)
	dash := &handler.Dashboard{
		API:       client,
		Store:     store,
		Publisher: publisher,
		Activity:  activity,
		Log:       logger,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = web.MustRenderer()
	e.Validator = validate.New()
	e.HTTPErrorHandler = handler.ErrorHandler(logger)
	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger(logger))
	e.Use(middleware.LoadSession(sessions, logger))

	router.RegisterRoutes(e, web.Static())
	router.RegisterAuth(e, handler.NewAuthHandler(client, sessions, logger), middleware.NewTokenBucket(cfg.RateLimit, rdb, logger))
	router.RegisterAdmin(e, handler.NewAdminHandler(dash))
	router.RegisterOperator(e, handler.NewOperatorHandler(dash))
	router.RegisterClient(e, handler.NewClientHandler(dash))

	go func() {
		logger.Info("server listening", slog.String("addr", cfg.Addr()), slog.String("env", cfg.Env), slog.String("api", cfg.API.BaseURL))
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
	} else {
		logger.Info("server gracefully stopped")
	}
}
