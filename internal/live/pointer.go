package live

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ashureev/odorcolor/internal/domain"
	"github.com/ashureev/odorcolor/internal/identity"
	"github.com/ashureev/odorcolor/internal/survey"
	"github.com/ashureev/odorcolor/internal/wheel"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
)

// Message types exchanged on the pointer stream.
const (
	TypePointer   = "pointer"
	TypePing      = "ping"
	TypePong      = "pong"
	TypeSelection = "selection"
	TypeError     = "error"
)

// clientMessage is what the browser sends.
type clientMessage struct {
	Type string `json:"type"`
	wheel.PointerEvent
}

// serverMessage is what the server replies.
type serverMessage struct {
	Type   string           `json:"type"`
	Survey *survey.Snapshot `json:"survey,omitempty"`
	Error  string           `json:"error,omitempty"`
}

// PointerHandler upgrades to a WebSocket and turns press/drag gestures into
// selections on the caller's current trial.
type PointerHandler struct {
	flows         *survey.Registry
	geom          wheel.Geometry
	labels        [domain.SlotCount]string
	conns         *ConnManager
	allowedOrigin string
	isDev         bool
}

// NewPointerHandler creates a new pointer stream handler.
func NewPointerHandler(flows *survey.Registry, g wheel.Geometry, labels [domain.SlotCount]string, conns *ConnManager, allowedOrigin string, isDev bool) *PointerHandler {
	return &PointerHandler{
		flows:         flows,
		geom:          g,
		labels:        labels,
		conns:         conns,
		allowedOrigin: allowedOrigin,
		isDev:         isDev,
	}
}

// ServeHTTP implements http.Handler for WebSocket upgrade.
func (h *PointerHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	sessionID := identity.SessionIDFromContext(r.Context())

	if !h.checkOrigin(r) {
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("Failed to accept WebSocket", "error", err, "user_id", userID)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "stream ended"); closeErr != nil {
			slog.Debug("Failed to close websocket", "error", closeErr, "user_id", userID)
		}
	}()

	h.conns.Register(userID, sessionID, ws)
	defer h.conns.Unregister(userID, sessionID, ws)

	connID := uuid.NewString()
	slog.Info("Pointer stream opened", "conn_id", connID, "user_id", userID, "session_id", sessionID)
	h.readLoop(r.Context(), ws, userID, sessionID)
	slog.Info("Pointer stream ended", "conn_id", connID, "user_id", userID)
}

func (h *PointerHandler) checkOrigin(r *http.Request) bool {
	if h.isDev {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" || h.allowedOrigin == "" || h.allowedOrigin == "*" {
		return true
	}
	if origin == h.allowedOrigin {
		return true
	}
	slog.Warn("WebSocket origin rejected", "origin", origin, "allowed", h.allowedOrigin)
	return false
}

func (h *PointerHandler) readLoop(ctx context.Context, ws *websocket.Conn, userID, sessionID string) {
	picker := wheel.NewPicker(h.geom)
	for {
		var msg clientMessage
		if err := wsjson.Read(ctx, ws, &msg); err != nil {
			if websocket.CloseStatus(err) != -1 || errors.Is(err, context.Canceled) {
				slog.Debug("Pointer stream closed by client", "user_id", userID)
			} else {
				slog.Warn("Pointer stream read error", "error", err, "user_id", userID)
			}
			return
		}

		switch msg.Type {
		case TypePing:
			if err := wsjson.Write(ctx, ws, serverMessage{Type: TypePong}); err != nil {
				slog.Debug("Failed to send pong", "error", err)
				return
			}
		case TypePointer:
			sample, changed := picker.Handle(msg.PointerEvent)
			if !changed {
				continue
			}
			reply := h.apply(userID, sessionID, sample)
			if err := wsjson.Write(ctx, ws, reply); err != nil {
				slog.Debug("Failed to send selection", "error", err)
				return
			}
		}
	}
}

func (h *PointerHandler) apply(userID, sessionID string, sample domain.ColorSample) serverMessage {
	var snap survey.Snapshot
	err := h.flows.With(userID, sessionID, func(f *survey.Flow) error {
		if err := f.Pick(sample); err != nil {
			return err
		}
		snap = survey.Snap(f, h.labels, h.geom)
		return nil
	})
	if err != nil {
		return serverMessage{Type: TypeError, Error: err.Error()}
	}
	return serverMessage{Type: TypeSelection, Survey: &snap}
}
