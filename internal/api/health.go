package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

const healthCheckTimeout = 5 * time.Second

// Health returns the health status of the API and its store.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	checks := map[string]string{"api": "ok"}
	status := map[string]interface{}{
		"status": "healthy",
		"checks": checks,
	}
	statusCode := http.StatusOK

	if err := h.repo.Ping(ctx); err != nil {
		slog.Error("Health check failed", "error", err)
		status["status"] = "degraded"
		checks["store"] = "unreachable"
		statusCode = http.StatusServiceUnavailable
	} else {
		checks["store"] = "ok"
	}

	JSON(w, statusCode, status)
}

// GetConfig returns the survey configuration for the frontend.
func (h *Handler) GetConfig(w http.ResponseWriter, _ *http.Request) {
	g := h.renderer.Geometry()
	JSON(w, http.StatusOK, map[string]interface{}{
		"labels":         h.labels,
		"wheel_size":     g.Size,
		"wheel_margin":   g.Margin,
		"plot_size":      h.plot.Size,
		"remote_enabled": h.remoteEnabled,
	})
}
