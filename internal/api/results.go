package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/ashureev/odorcolor/internal/results"
)

// ConfirmClearHeader must be "yes" for DELETE /api/results to proceed.
const ConfirmClearHeader = "X-Confirm-Clear"

// GetResults returns every stored response as table rows.
func (h *Handler) GetResults(w http.ResponseWriter, r *http.Request) {
	rows := results.Table(h.repo.LoadResponses(r.Context()))
	JSON(w, http.StatusOK, map[string]interface{}{
		"count": len(rows),
		"rows":  rows,
	})
}

// ResultsCSV streams the collection as a dated CSV attachment.
func (h *Handler) ResultsCSV(w http.ResponseWriter, r *http.Request) {
	body := results.CSV(h.repo.LoadResponses(r.Context()))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", results.Filename(h.now())))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

// PlotPNG renders every stored selection on the faded wheel.
func (h *Handler) PlotPNG(w http.ResponseWriter, r *http.Request) {
	data, err := results.PlotPNG(h.plot, h.repo.LoadResponses(r.Context()))
	if err != nil {
		slog.Error("Failed to render plot", "error", err)
		Error(w, http.StatusInternalServerError, "failed to render plot")
		return
	}
	writePNG(w, data, false)
}

// ClearResults deletes the whole collection once the caller has confirmed.
func (h *Handler) ClearResults(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get(ConfirmClearHeader) != "yes" {
		Error(w, http.StatusPreconditionRequired, "confirmation required: set "+ConfirmClearHeader+": yes")
		return
	}
	if err := h.repo.ClearResponses(r.Context()); err != nil {
		slog.Error("Failed to clear responses", "error", err)
		Error(w, http.StatusInternalServerError, "failed to clear responses")
		return
	}
	slog.Info("Responses cleared")
	JSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}
