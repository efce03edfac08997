package survey

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const sweepInterval = 5 * time.Minute

type entry struct {
	mu       sync.Mutex
	flow     *Flow
	lastSeen time.Time
}

// Registry holds one Flow per (anonymous user, browser tab).
type Registry struct {
	mu    sync.Mutex
	flows map[string]*entry
	now   func() time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		flows: make(map[string]*entry),
		now:   time.Now,
	}
}

func flowKey(userID, sessionID string) string {
	return userID + ":" + sessionID
}

func (r *Registry) get(userID, sessionID string) *entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := flowKey(userID, sessionID)
	e, ok := r.flows[key]
	if !ok {
		e = &entry{flow: NewFlow()}
		r.flows[key] = e
		slog.Debug("Survey flow created", "user_id", userID, "session_id", sessionID)
	}
	e.lastSeen = r.now()
	return e
}

// With runs fn on the tab's flow, creating it on first use. Calls for the
// same tab are serialized.
func (r *Registry) With(userID, sessionID string, fn func(*Flow) error) error {
	e := r.get(userID, sessionID)
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.flow)
}

// Len returns the number of live flows.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.flows)
}

// Sweep drops flows idle for longer than ttl and returns how many were removed.
func (r *Registry) Sweep(ttl time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	threshold := r.now().Add(-ttl)
	removed := 0
	for key, e := range r.flows {
		if e.lastSeen.Before(threshold) {
			delete(r.flows, key)
			removed++
		}
	}
	return removed
}

// StartSweeper periodically evicts idle flows until ctx is done.
func (r *Registry) StartSweeper(ctx context.Context, ttl time.Duration) {
	ticker := time.NewTicker(sweepInterval)
	go func() {
		defer ticker.Stop()
		slog.Info("Flow sweeper started", "interval", sweepInterval, "ttl", ttl)

		for {
			select {
			case <-ticker.C:
				if n := r.Sweep(ttl); n > 0 {
					slog.Info("Flow sweeper evicted idle flows", "count", n)
				}
			case <-ctx.Done():
				slog.Info("Flow sweeper shutting down", "reason", ctx.Err())
				return
			}
		}
	}()
}
