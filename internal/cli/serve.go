package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/Skotchmaster/geotag_api/internal/config"
	"github.com/Skotchmaster/geotag_api/internal/db"
	"github.com/Skotchmaster/geotag_api/internal/es"
	"github.com/Skotchmaster/geotag_api/internal/httpserver"
	"github.com/Skotchmaster/geotag_api/internal/logging"
	"github.com/Skotchmaster/geotag_api/internal/middleware/auth"
	loggingmw "github.com/Skotchmaster/geotag_api/internal/middleware/logging"
	"github.com/Skotchmaster/geotag_api/internal/mykafka"
	"github.com/Skotchmaster/geotag_api/internal/repo"
	"github.com/Skotchmaster/geotag_api/internal/service"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

type publisher interface {
	service.Publisher
	Close() error
}

func serve(ctx context.Context, cfg config.Config) error {
	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	gdb, err := db.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	if err := db.Migrate(ctx, gdb); err != nil {
		return err
	}

	var prod publisher = mykafka.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		p, err := mykafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			return err
		}
		prod = p
	} else {
		logger.Info("kafka disabled, events are dropped")
	}

	var idx service.Indexer
	if cfg.ESURL != "" {
		client, err := es.NewClient(ctx, cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			return err
		}
		idx = &es.ProductIndex{Client: client, Name: cfg.ESIndex}
	} else {
		logger.Info("elasticsearch disabled, search endpoint not mounted")
	}

	r := &repo.GormRepo{DB: gdb}
	products := &service.ProductService{Store: r, Events: prod, Search: idx}
	users := &service.AuthService{Store: r, Events: prod}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), loggingmw.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		ProductHandler: &httpserver.ProductHTTP{Svc: products},
		AuthHandler:    &httpserver.AuthHTTP{Svc: users},
		Guards:         &auth.Guards{Users: users, Products: products, MaxPerPage: cfg.MaxPerPage},
		Ready:          func(ctx context.Context) error { return db.Ping(ctx, gdb) },
		DocsURL:        cfg.DocsURL,
		SearchEnabled:  idx != nil,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			shutdown(logger, gdb, prod)
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	shutdown(logger, gdb, prod)
	logger.Info("shutdown complete")
	return nil
}

func shutdown(logger *slog.Logger, gdb *gorm.DB, prod publisher) {
	if err := db.Close(gdb); err != nil {
		logger.Error("db close error", "error", err)
	}
	if err := prod.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}
}
