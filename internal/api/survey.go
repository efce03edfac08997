package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ashureev/odorcolor/internal/domain"
	"github.com/ashureev/odorcolor/internal/identity"
	"github.com/ashureev/odorcolor/internal/survey"
	"github.com/go-chi/chi/v5"
)

// pickRequest is a pointer position in wheel pixel space.
type pickRequest struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

type submitResponse struct {
	Response domain.Response `json:"response"`
	Survey   survey.Snapshot `json:"survey"`
}

// withFlow runs fn on the caller's flow and replies with the resulting snapshot.
func (h *Handler) withFlow(w http.ResponseWriter, r *http.Request, fn func(*survey.Flow) error) {
	userID := identity.UserIDFromContext(r.Context())
	sessionID := identity.SessionIDFromContext(r.Context())

	var snap survey.Snapshot
	err := h.flows.With(userID, sessionID, func(f *survey.Flow) error {
		if err := fn(f); err != nil {
			return err
		}
		snap = survey.Snap(f, h.labels, h.renderer.Geometry())
		return nil
	})
	if err != nil {
		writeFlowError(w, err)
		return
	}
	JSON(w, http.StatusOK, snap)
}

func writeFlowError(w http.ResponseWriter, err error) {
	if errors.Is(err, survey.ErrInvalidTransition) {
		Error(w, http.StatusConflict, err.Error())
		return
	}
	slog.Error("Survey action failed", "error", err)
	Error(w, http.StatusInternalServerError, "failed to save response")
}

// GetSurvey returns the caller's current flow snapshot.
func (h *Handler) GetSurvey(w http.ResponseWriter, r *http.Request) {
	h.withFlow(w, r, func(*survey.Flow) error { return nil })
}

// Action applies one navigation action: start, next, back, home, or results.
func (h *Handler) Action(w http.ResponseWriter, r *http.Request) {
	var fn func(*survey.Flow) error
	switch chi.URLParam(r, "action") {
	case "start":
		fn = (*survey.Flow).Start
	case "next":
		fn = (*survey.Flow).Next
	case "back":
		fn = (*survey.Flow).Back
	case "home":
		fn = (*survey.Flow).Home
	case "results":
		fn = func(f *survey.Flow) error {
			f.ViewResults()
			return nil
		}
	default:
		Error(w, http.StatusNotFound, "unknown action")
		return
	}
	h.withFlow(w, r, fn)
}

// Edit reopens one slot from the review screen.
func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	slot, err := strconv.Atoi(chi.URLParam(r, "slot"))
	if err != nil {
		Error(w, http.StatusBadRequest, "slot must be an integer")
		return
	}
	h.withFlow(w, r, func(f *survey.Flow) error { return f.Edit(slot) })
}

// Pick maps a pointer position on the wheel to the current slot's selection.
func (h *Handler) Pick(w http.ResponseWriter, r *http.Request) {
	var req pickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.X == nil || req.Y == nil {
		Error(w, http.StatusBadRequest, "x and y are required")
		return
	}
	sample := h.renderer.Geometry().Pick(*req.X, *req.Y)
	h.withFlow(w, r, func(f *survey.Flow) error { return f.Pick(sample) })
}

// Submit records the reviewed pass.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	sessionID := identity.SessionIDFromContext(r.Context())

	var out submitResponse
	err := h.flows.With(userID, sessionID, func(f *survey.Flow) error {
		resp, err := f.Submit(r.Context(), h.submitter, h.now())
		if err != nil {
			return err
		}
		out = submitResponse{Response: resp, Survey: survey.Snap(f, h.labels, h.renderer.Geometry())}
		return nil
	})
	if err != nil {
		writeFlowError(w, err)
		return
	}
	JSON(w, http.StatusOK, out)
}
