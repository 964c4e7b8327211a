package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/VGOWTHAM55/chat-web/internal/config"
	"github.com/VGOWTHAM55/chat-web/internal/handler"
	"github.com/VGOWTHAM55/chat-web/internal/middleware"
	"github.com/VGOWTHAM55/chat-web/internal/observability"
	"github.com/VGOWTHAM55/chat-web/internal/relay"
	"github.com/VGOWTHAM55/chat-web/internal/repository/postgres"
	"github.com/VGOWTHAM55/chat-web/internal/service"
)

func main() {
	cfg := config.Load()

	observability.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("starting chat relay")

	db, err := connectWithRetry(cfg.DatabaseURL, 30*time.Second)
	if err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("connected to postgresql")

	messageStore := postgres.NewMessageRepository(db)

	schemaCtx, schemaCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer schemaCancel()
	if err := messageStore.EnsureSchema(schemaCtx); err != nil {
		slog.Error("failed to ensure schema", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go observability.CollectDBStats(ctx, db, 15*time.Second)

	persister := relay.NewPersister(messageStore)
	go func() {
		if err := persister.Run(ctx); err != nil && err != context.Canceled {
			slog.Error("persister error", slog.String("error", err.Error()))
		}
	}()

	hub := relay.NewHub(persister, relay.PresenceLogger{})
	go func() {
		if err := hub.Run(ctx); err != nil && err != context.Canceled {
			slog.Error("hub error", slog.String("error", err.Error()))
		}
	}()
	slog.Info("relay hub started")

	relayService := service.NewRelayService(messageStore)

	origins := config.ParseOrigins(cfg.AllowedOrigins)
	messageHandler := handler.NewMessageHandler(relayService)
	wsHandler := handler.NewWebSocketHandler(hub, relayService, origins)

	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.CORS(origins))
	r.Use(middleware.Metrics())
	r.Use(middleware.OpenAPIValidator(middleware.DefaultOpenAPIValidatorConfig()))

	r.Get("/health", handler.Health)
	r.Get("/health/ready", handler.Ready(db))
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/messages", messageHandler.History)
	r.Post("/messages", messageHandler.Submit)

	r.Get("/ws", wsHandler.HandleConnection)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("chat relay listening", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("shutting down relay")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", slog.String("error", err.Error()))
	}

	// Stops the hub and lets the persister flush its queue
	cancel()
	time.Sleep(100 * time.Millisecond)

	slog.Info("relay stopped gracefully")
}

// connectWithRetry keeps dialing the database until it answers or the
// deadline passes, so the relay survives the store coming up after it.
func connectWithRetry(dbURL string, timeout time.Duration) (*sql.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := config.NewPostgresConnection(dbURL)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, err
		}
		slog.Warn("database not ready, retrying",
			slog.String("error", err.Error()),
			slog.Bool("connection_error", postgres.IsConnectionError(err)))
		time.Sleep(2 * time.Second)
	}
}
