package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	"github.com/ericfisherdev/ledgerdesk/internal/adapter/driven/backend"
	sqliteadapter "github.com/ericfisherdev/ledgerdesk/internal/adapter/driven/sqlite"
	httphandler "github.com/ericfisherdev/ledgerdesk/internal/adapter/driving/http"
	webhandler "github.com/ericfisherdev/ledgerdesk/internal/adapter/driving/web"
	"github.com/ericfisherdev/ledgerdesk/internal/application"
	"github.com/ericfisherdev/ledgerdesk/internal/config"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to read .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"api_base_url", cfg.APIBaseURL,
		"rate_limit", cfg.RateLimit,
		"http_cache", cfg.HTTPCache,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	version, err := sqliteadapter.RunMigrations(db.Writer)
	if err != nil {
		return err
	}
	slog.Info("migrations complete", "version", version)

	// The credential survives restarts; pick up whatever the last run left.
	session := application.NewSession(sqliteadapter.NewCredentialRepo(db, cfg.SecretKey))
	if err := session.Load(ctx); err != nil {
		return err
	}
	slog.Info("session restored", "authenticated", session.Authenticated())

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	broker := httphandler.NewBroker()
	navigator := httphandler.NewBrowserNavigator(broker, slog.Default())
	clock := clockwork.NewRealClock()

	client, err := backend.NewClient(backend.Options{
		BaseURL:      cfg.APIBaseURL,
		Timeout:      cfg.RequestTimeout,
		RenewTimeout: cfg.RenewTimeout,
		EnableCache:  cfg.HTTPCache,
		RateLimit:    cfg.RateLimit,
		RateBurst:    cfg.RateBurst,
		Metrics:      backend.NewMetrics(registry),
		Logger:       slog.Default(),
		Clock:        clock,
	}, session, navigator)
	if err != nil {
		return err
	}
	unsubscribe := client.Subscribe(navigator.Notify)
	defer unsubscribe()

	auth := application.NewAuthService(client, session, navigator, slog.Default())
	apiHandler := httphandler.NewHandler(
		auth,
		application.NewContractService(client),
		application.NewExpenseService(client),
		application.NewUserService(client),
		broker,
		slog.Default(),
	)

	webHandler, err := webhandler.NewHandler(auth, clock, slog.Default())
	if err != nil {
		return err
	}

	handler := httphandler.NewServeMux(apiHandler, registry, slog.Default(), func(mux *http.ServeMux) {
		webhandler.RegisterRoutes(mux, webHandler)
	})

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Event streams are long-lived; they end on client disconnect or shutdown.
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
