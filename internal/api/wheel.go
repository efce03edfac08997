package api

import (
	"log/slog"
	"net/http"

	"github.com/ashureev/odorcolor/internal/domain"
	"github.com/ashureev/odorcolor/internal/identity"
	"github.com/ashureev/odorcolor/internal/survey"
)

// WheelPNG serves the picker wheel. With ?marker=1 the caller's current
// selection is drawn on a copy of the cached image.
func (h *Handler) WheelPNG(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("marker") != "1" {
		data, err := h.renderer.PNG()
		if err != nil {
			slog.Error("Failed to encode wheel", "error", err)
			Error(w, http.StatusInternalServerError, "failed to render wheel")
			return
		}
		writePNG(w, data, true)
		return
	}

	var current domain.ColorSample
	_ = h.flows.With(identity.UserIDFromContext(r.Context()), identity.SessionIDFromContext(r.Context()),
		func(f *survey.Flow) error {
			current = f.Current()
			return nil
		})

	data, err := h.renderer.CompositePNG(current)
	if err != nil {
		slog.Error("Failed to encode wheel with marker", "error", err)
		Error(w, http.StatusInternalServerError, "failed to render wheel")
		return
	}
	writePNG(w, data, false)
}
