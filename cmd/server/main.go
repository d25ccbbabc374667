package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/goingdutch/internal/auth"
	"github.com/mmynk/goingdutch/internal/config"
	"github.com/mmynk/goingdutch/internal/events"
	"github.com/mmynk/goingdutch/internal/metrics"
	"github.com/mmynk/goingdutch/internal/middleware"
	"github.com/mmynk/goingdutch/internal/notify"
	"github.com/mmynk/goingdutch/internal/service"
	"github.com/mmynk/goingdutch/internal/storage"
	"github.com/mmynk/goingdutch/internal/storage/sqlstore"
	"github.com/mmynk/goingdutch/pkg/api/apiconnect"
	"github.com/mmynk/goingdutch/pkg/logging"
)

const (
	apiPrefix     = "/goingdutch.v1."
	sweepInterval = time.Hour
	shutdownGrace = 10 * time.Second
)

func main() {
	logging.Setup()

	if err := run(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize storage
	sqlStore, err := sqlstore.Open(ctx, sqlstore.Config{Type: cfg.DBType, Path: cfg.DBPath, URL: cfg.DatabaseURL})
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer sqlStore.Close()
	slog.Info("Storage initialized", "type", cfg.DBType)

	// Every write goes through the event store so watchers see it.
	broker := events.NewBroker()
	store := events.NewStore(sqlStore, broker)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authenticator := auth.NewAnonymousAuthenticator(store)
	m := metrics.New()

	sender, err := newSender(ctx, cfg)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()

	// Sign-in is the only public RPC; everything else requires a session token.
	public := connect.WithInterceptors(middleware.LoggingInterceptor(m))
	authed := connect.WithInterceptors(middleware.LoggingInterceptor(m), middleware.RequireAuth(jwtManager))

	mux.Handle(apiconnect.NewSessionServiceHandler(service.NewSessionService(authenticator, jwtManager), public))
	mux.Handle(apiconnect.NewGroupServiceHandler(service.NewGroupService(store, cfg.GroupTTL), authed))
	mux.Handle(apiconnect.NewExpenseServiceHandler(service.NewExpenseService(store), authed))
	mux.Handle(apiconnect.NewSettlementServiceHandler(
		service.NewSettlementService(store, broker, sender, cfg.SettlementUnit, m), authed))
	mux.Handle("/metrics", m.Handler())

	if cfg.StaticPath != "" {
		if err := serveStatic(mux, cfg.StaticPath); err != nil {
			return err
		}
	}

	go sweepExpiredGroups(ctx, store, m)

	// Wrap with h2c for HTTP/2 without TLS (required for Connect streaming)
	handler := h2c.NewHandler(loggingMiddleware(corsMiddleware(mux)), &http2.Server{})

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := newServer(ctx, addr, handler)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", addr, "url", fmt.Sprintf("http://localhost%s", addr))
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
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// newServer builds the HTTP server. Request contexts derive from ctx, so open
// streams end when ctx is cancelled on shutdown.
func newServer(ctx context.Context, addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
}

// newSender uses SES when a sender address is configured and logs messages otherwise.
func newSender(ctx context.Context, cfg *config.Config) (notify.Sender, error) {
	if cfg.SESFromEmail == "" {
		slog.Warn("SES_FROM_EMAIL not set, shared settlements will only be logged")
		return notify.NewLogSender(nil), nil
	}
	sender, err := notify.NewSESSender(ctx, cfg.SESRegion, cfg.SESFromEmail, cfg.SESFromName)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SES: %w", err)
	}
	slog.Info("Email sender initialized", "provider", "ses", "region", cfg.SESRegion)
	return sender, nil
}

// sweepExpiredGroups deletes expired groups on startup and then every sweepInterval.
func sweepExpiredGroups(ctx context.Context, store storage.Store, m *metrics.Metrics) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		n, err := store.DeleteExpiredGroups(ctx, time.Now().Unix())
		if err != nil {
			slog.Error("Failed to delete expired groups", "error", err)
		} else if n > 0 {
			m.GroupsExpired(n)
			slog.Info("Deleted expired groups", "count", n)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// serveStatic serves the web client from dir for every non-API path.
func serveStatic(mux *http.ServeMux, dir string) error {
	staticDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to resolve static path: %w", err)
	}
	slog.Info("Serving static files", "path", staticDir)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, apiPrefix) {
			http.NotFound(w, r)
			return
		}

		urlPath := r.URL.Path
		if urlPath == "/" {
			urlPath = "/index.html"
		}

		filePath := filepath.Join(staticDir, filepath.Clean(urlPath))

		// Unknown paths fall back to index.html so client-side routes work.
		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
			return
		}

		http.ServeFile(w, r, filePath)
	})
	return nil
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		slog.Debug("Request received",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent(),
		)

		next.ServeHTTP(w, r)

		slog.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
