// Odor → Color survey server.
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

	"github.com/ashureev/odorcolor/internal/api"
	"github.com/ashureev/odorcolor/internal/config"
	"github.com/ashureev/odorcolor/internal/identity"
	"github.com/ashureev/odorcolor/internal/live"
	"github.com/ashureev/odorcolor/internal/middleware"
	"github.com/ashureev/odorcolor/internal/remote"
	"github.com/ashureev/odorcolor/internal/store"
	"github.com/ashureev/odorcolor/internal/survey"
	"github.com/ashureev/odorcolor/internal/wheel"
	"github.com/ashureev/odorcolor/web"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment(), "store", cfg.Store.Driver)

	// Initialize dependencies.
	repo, err := store.Open(cfg.Store.Driver, cfg.Store.Path, cfg.Store.Key)
	if err != nil {
		slog.Error("Failed to initialize store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(context.Background()); err != nil {
		slog.Error("Store health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Store ready", "responses", len(repo.LoadResponses(context.Background())))

	dispatcher := remote.NewDispatcher(cfg.RemoteEndpoint, nil)
	if dispatcher.Enabled() {
		slog.Info("Remote delivery enabled", "endpoint", cfg.RemoteEndpoint)
	} else {
		slog.Info("Remote delivery disabled (REMOTE_ENDPOINT not set)")
	}

	// Initialize services.
	flows := survey.NewRegistry()
	renderer := wheel.NewRenderer(wheel.NewGeometry(cfg.Wheel.Size, cfg.Wheel.Margin))
	conns := live.NewConnManager()

	// Initialize handlers.
	apiHandler := api.NewHandler(api.Deps{
		Flows:         flows,
		Repo:          repo,
		Renderer:      renderer,
		PlotGeometry:  wheel.NewGeometry(cfg.Wheel.PlotSize, cfg.Wheel.Margin),
		Labels:        cfg.Labels,
		Submitter:     remote.NewSubmitter(repo, dispatcher),
		RemoteEnabled: dispatcher.Enabled(),
		SubmitLimiter: middleware.NewRateLimiter(cfg.SubmitRatePerMin),
	})
	wsHandler := live.NewPointerHandler(flows, renderer.Geometry(), cfg.Labels, conns, cfg.FrontendURL, cfg.IsDevelopment())

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	r.Use(middleware.CORS(cfg.AllowedOrigins()))
	r.Use(identity.Middleware(cfg.IsDevelopment()))

	apiHandler.RegisterRoutes(r)

	// WebSocket endpoint.
	r.Get("/ws/pointer", wsHandler.ServeHTTP)

	// Serve embedded frontend (SPA catch-all).
	r.Handle("/*", web.SPAHandler())

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // websocket streams are long-lived
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	flows.StartSweeper(ctx, cfg.SessionTTL)

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conns.CloseAll()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}
	if err := dispatcher.Wait(shutdownCtx); err != nil {
		slog.Warn("Remote deliveries still in flight at shutdown", "error", err)
	}

	slog.Info("Server stopped successfully")
}
