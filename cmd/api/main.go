package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	_ "orderms/docs"
	"orderms/pkg/api"
	"orderms/pkg/config"
	"orderms/pkg/logger"
	"orderms/pkg/order"
	"orderms/pkg/order/memory"
	pg "orderms/pkg/order/postgres"
	"orderms/pkg/order/postgres/migrations"
	"orderms/pkg/otel"
	"orderms/pkg/remote"
	"orderms/pkg/session"
)

const serviceName = "orderms"

// @title orderms API
// @version 1.0
// @description API for placing and reading orders
// @host localhost:8443
// @BasePath /
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(os.Stdout, level, serviceName, otel.GetTraceID)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error(context.Background(), "startup", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *logger.Logger) error {
	tp, shutdownTracing, err := otel.InitTracing(log, otel.Config{
		ServiceName:    serviceName,
		Host:           cfg.OTELHost,
		ExcludedRoutes: map[string]struct{}{"/health": {}},
		Probability:    cfg.OTELProbability,
	})
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	startupCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	repo, closeRepo, err := openRepository(startupCtx, cfg, log)
	if err != nil {
		return err
	}
	defer closeRepo()

	svc := order.NewService(log,
		repo,
		remote.NewProductClient(cfg.ProductServiceURL, cfg.RemoteTimeout),
		remote.NewCustomerClient(cfg.CustomerServiceURL, cfg.RemoteTimeout),
	)

	opts := []api.Option{api.WithTracer(tp.Tracer(serviceName))}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		if err := rdb.Ping(startupCtx).Err(); err != nil {
			return fmt.Errorf("redis ping: %w", err)
		}
		opts = append(opts, api.WithSessions(session.NewStore(rdb, cfg.SessionTTL)))
	} else {
		log.Warn(ctx, "REDIS_ADDR not set, order routes are not authenticated")
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.New(log, svc, opts...).Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "listening", "addr", cfg.HTTPAddr, "tls", cfg.TLSCert != "")
		if cfg.TLSCert != "" {
			srvErr <- srv.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey)
			return
		}
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
	case <-ctx.Done():
		log.Info(context.Background(), "shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server shutdown: %w", err)
	}
	log.Info(context.Background(), "server stopped")
	return nil
}

func openRepository(ctx context.Context, cfg config.Config, log *logger.Logger) (order.Repository, func(), error) {
	if cfg.Store == config.StoreMemory {
		log.Warn(ctx, "using in-memory order store, orders are lost on restart")
		return memory.New(), func() {}, nil
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("db connect: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("db ping: %w", err)
	}
	if err := migrations.Up(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return pg.New(db), func() { _ = db.Close() }, nil
}
