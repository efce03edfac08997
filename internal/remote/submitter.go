package remote

import (
	"context"
	"fmt"

	"github.com/ashureev/odorcolor/internal/domain"
)

// LocalSaver is the authoritative store a submission must reach.
type LocalSaver interface {
	AppendResponse(ctx context.Context, resp domain.Response) error
}

// Submitter saves locally and hands a copy to the dispatcher. The remote
// outcome never affects the local save or the return value.
type Submitter struct {
	local      LocalSaver
	dispatcher *Dispatcher
}

// NewSubmitter wires a local store to a dispatcher (which may be disabled).
func NewSubmitter(local LocalSaver, dispatcher *Dispatcher) *Submitter {
	return &Submitter{local: local, dispatcher: dispatcher}
}

// Submit implements survey.Submitter.
func (s *Submitter) Submit(ctx context.Context, resp domain.Response) error {
	s.dispatcher.Dispatch(resp)
	if err := s.local.AppendResponse(ctx, resp); err != nil {
		return fmt.Errorf("save response locally: %w", err)
	}
	return nil
}
