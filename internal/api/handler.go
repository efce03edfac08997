// Package api provides HTTP handlers for the survey API.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ashureev/odorcolor/internal/domain"
	"github.com/ashureev/odorcolor/internal/identity"
	"github.com/ashureev/odorcolor/internal/middleware"
	"github.com/ashureev/odorcolor/internal/store"
	"github.com/ashureev/odorcolor/internal/survey"
	"github.com/ashureev/odorcolor/internal/wheel"
	"github.com/go-chi/chi/v5"
)

// Deps are the collaborators a Handler needs.
type Deps struct {
	Flows         *survey.Registry
	Repo          store.Repository
	Renderer      *wheel.Renderer
	PlotGeometry  wheel.Geometry
	Labels        [domain.SlotCount]string
	Submitter     survey.Submitter
	RemoteEnabled bool
	SubmitLimiter *middleware.RateLimiter // nil disables limiting
}

// Handler serves the survey, wheel, and results endpoints.
type Handler struct {
	flows         *survey.Registry
	repo          store.Repository
	renderer      *wheel.Renderer
	plot          wheel.Geometry
	labels        [domain.SlotCount]string
	submitter     survey.Submitter
	remoteEnabled bool
	submitLimiter *middleware.RateLimiter
	now           func() time.Time
}

// NewHandler creates a new Handler with common dependencies.
func NewHandler(d Deps) *Handler {
	return &Handler{
		flows:         d.Flows,
		repo:          d.Repo,
		renderer:      d.Renderer,
		plot:          d.PlotGeometry,
		labels:        d.Labels,
		submitter:     d.Submitter,
		remoteEnabled: d.RemoteEnabled,
		submitLimiter: d.SubmitLimiter,
		now:           time.Now,
	}
}

// RegisterRoutes registers all API routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Get("/config", h.GetConfig)

		r.Get("/survey", h.GetSurvey)
		r.Post("/survey/pick", h.Pick)
		r.Post("/survey/edit/{slot}", h.Edit)
		if h.submitLimiter != nil {
			r.With(h.submitLimiter.Middleware(submitKey)).Post("/survey/submit", h.Submit)
		} else {
			r.Post("/survey/submit", h.Submit)
		}
		r.Post("/survey/{action}", h.Action)

		r.Get("/wheel.png", h.WheelPNG)

		r.Get("/results", h.GetResults)
		r.Get("/results.csv", h.ResultsCSV)
		r.Get("/results/plot.png", h.PlotPNG)
		r.Delete("/results", h.ClearResults)
	})
}

func submitKey(r *http.Request) string {
	if id := identity.UserIDFromContext(r.Context()); id != "" {
		return id
	}
	return identity.IPFromRequest(r)
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

func writePNG(w http.ResponseWriter, data []byte, cacheable bool) {
	w.Header().Set("Content-Type", "image/png")
	if cacheable {
		w.Header().Set("Cache-Control", "public, max-age=3600")
	} else {
		w.Header().Set("Cache-Control", "no-store")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
