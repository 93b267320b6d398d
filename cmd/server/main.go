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

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/Skotchmaster/rbac_api/internal/config"
	"github.com/Skotchmaster/rbac_api/internal/db"
	"github.com/Skotchmaster/rbac_api/internal/events"
	"github.com/Skotchmaster/rbac_api/internal/httpserver"
	"github.com/Skotchmaster/rbac_api/internal/logging"
	"github.com/Skotchmaster/rbac_api/internal/metrics"
	loggingmw "github.com/Skotchmaster/rbac_api/internal/middleware/logging"
	"github.com/Skotchmaster/rbac_api/internal/repo"
	"github.com/Skotchmaster/rbac_api/internal/search"
	"github.com/Skotchmaster/rbac_api/internal/service"
	"github.com/Skotchmaster/rbac_api/internal/tokens"
)

func main() {
	config.LoadDotEnv()
	cfg := config.Load()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logging.IntoContext(ctx, logger)

	gdb, err := db.Open(ctx, db.Options{Driver: cfg.DBDriver, DSN: cfg.DatabaseURL, SQLDriver: cfg.PGSQLDriver})
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(gdb); err != nil {
			logger.Error("db_close_failed", "error", err)
		}
	}()

	store := repo.New(gdb)
	if err := store.Migrate(ctx); err != nil {
		return err
	}
	if cfg.SeedDefaults {
		if err := service.SeedDefaults(ctx, store); err != nil {
			return err
		}
		logger.Info("seed_applied")
	}

	ts, err := tokens.NewService(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		return err
	}

	var pub events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		pub = events.NewProducer(cfg.KafkaBrokers)
		logger.Info("events_enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.EventsTopic)
	}
	defer func() {
		if err := pub.Close(); err != nil {
			logger.Error("kafka_close_failed", "error", err)
		}
	}()

	var index search.Index
	if cfg.ESURL != "" {
		client, err := search.NewClient(ctx, search.Config{URL: cfg.ESURL, Username: cfg.ESUser, Password: cfg.ESPassword})
		if err != nil {
			return err
		}
		index = &search.ESIndex{Client: client, Name: cfg.ESIndex}
		logger.Info("search_enabled", "index", cfg.ESIndex)
	}

	objects := &service.TestObjectService{Repo: store, Index: index}
	if index != nil {
		n, err := objects.Reindex(ctx)
		if err != nil {
			logger.Warn("search_reindex_failed", "indexed", n, "error", err)
		} else {
			logger.Info("search_reindexed", "indexed", n)
		}
	}

	m := metrics.New(cfg.MetricsNamespace)
	notify := service.Notifier{Publisher: pub, Topic: cfg.EventsTopic}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), loggingmw.RequestLogger(logger))

	err = httpserver.Register(e, &httpserver.Deps{
		Auth:        &httpserver.AuthHTTP{Svc: &service.AuthService{Users: store, Roles: store, Tokens: ts, Notify: notify, Metrics: m}},
		Users:       &httpserver.UsersHTTP{Svc: &service.UserService{Users: store, Roles: store, Notify: notify}},
		Roles:       &httpserver.RolesHTTP{Svc: &service.RoleService{Repo: store}},
		Claims:      &httpserver.ClaimsHTTP{Svc: &service.ClaimService{Repo: store}},
		TestObjects: &httpserver.TestObjectsHTTP{Svc: objects},
		Tokens:      ts,
		Metrics:     m,
		Ready:       pinger(gdb),
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http_listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	logger.Info("shutting_down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_failed", "error", err)
	}
	logger.Info("shutdown_complete")
	return nil
}

func pinger(gdb *gorm.DB) func(context.Context) error {
	return func(ctx context.Context) error {
		sqlDB, err := gdb.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}
