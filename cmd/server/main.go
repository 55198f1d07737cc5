package main

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

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/spliteasy/internal/config"
	"github.com/mmynk/spliteasy/internal/ledger"
	"github.com/mmynk/spliteasy/internal/middleware"
	"github.com/mmynk/spliteasy/internal/service"
	"github.com/mmynk/spliteasy/pkg/api/apiconnect"
	"github.com/mmynk/spliteasy/pkg/logging"
)

func main() {
	// Setup structured logging
	logging.Setup()

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	// Initialize storage
	store, err := config.OpenStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	slog.Info("Storage initialized", "store", cfg.Store)

	l := ledger.New()
	if err := l.Load(ctx, store); err != nil {
		return err
	}
	slog.Info("Ledger loaded", "users", len(l.Users()), "expenses", len(l.Expenses()))

	opts := []service.Option{service.WithCurrency(cfg.Currency)}
	if mirror := config.OpenMirror(cfg); mirror != nil {
		defer mirror.Close()
		opts = append(opts, service.WithMirror(mirror))
		slog.Info("Gist sync enabled", "gist_id", mirror.ID())
	}
	svc := service.NewLedgerService(l, store, opts...)

	if cfg.SyncSchedule != "" {
		c := cron.New()
		_, err := c.AddFunc(cfg.SyncSchedule, func() {
			pushCtx, cancel := context.WithTimeout(ctx, time.Minute)
			defer cancel()
			if err := svc.PushMirror(pushCtx); err != nil {
				slog.Warn("Scheduled sync failed", "error", err)
				return
			}
			slog.Debug("Scheduled sync done")
		})
		if err != nil {
			return fmt.Errorf("invalid SYNC_SCHEDULE %q: %w", cfg.SyncSchedule, err)
		}
		c.Start()
		defer c.Stop()
		slog.Info("Scheduled sync enabled", "schedule", cfg.SyncSchedule)
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(loggingMiddleware)
	r.Use(corsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	// Register Connect service
	path, handler := apiconnect.NewLedgerServiceHandler(svc,
		connect.WithInterceptors(middleware.LoggingInterceptor(), middleware.MetricsInterceptor()),
	)
	r.Mount(path, handler)

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h2c.NewHandler(r, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", server.Addr, "url", fmt.Sprintf("http://localhost:%s", cfg.Port))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		slog.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"request_id", chimw.GetReqID(r.Context()),
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
