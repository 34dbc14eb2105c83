// Package sink defines where normalized entries go once they are built.
package sink

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ccollicutt/logsieve/pkg/logentry"
)

// ErrNoRoute is returned by Router when no sink is registered for a kind.
var ErrNoRoute = errors.New("no sink registered for source kind")

// Sink receives one entry per call together with the kind of source it came from.
type Sink interface {
	Submit(ctx context.Context, entry logentry.LogEntry, kind logentry.SourceKind) error
}

// Func adapts a plain function to Sink.
type Func func(ctx context.Context, entry logentry.LogEntry, kind logentry.SourceKind) error

// Submit calls f.
func (f Func) Submit(ctx context.Context, entry logentry.LogEntry, kind logentry.SourceKind) error {
	return f(ctx, entry, kind)
}

// Discard drops every entry.
var Discard Sink = Func(func(context.Context, logentry.LogEntry, logentry.SourceKind) error { return nil })

// Multi fans every entry out to all sinks, in order.
type Multi []Sink

// Submit forwards to each sink and joins their errors.
func (m Multi) Submit(ctx context.Context, entry logentry.LogEntry, kind logentry.SourceKind) error {
	var errs []error
	for _, s := range m {
		if err := s.Submit(ctx, entry, kind); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Router dispatches entries to a sink chosen by source kind.
// Routes may be changed while entries are being submitted.
type Router struct {
	mu       sync.RWMutex
	routes   map[logentry.SourceKind]Sink
	fallback Sink
}

// NewRouter creates a Router. fallback may be nil, in which case unrouted
// kinds fail with ErrNoRoute.
func NewRouter(fallback Sink) *Router {
	return &Router{
		routes:   make(map[logentry.SourceKind]Sink),
		fallback: fallback,
	}
}

// Route registers s for kind, replacing any previous sink. A nil s removes the route.
func (r *Router) Route(kind logentry.SourceKind, s Sink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s == nil {
		delete(r.routes, kind)
		return
	}
	r.routes[kind] = s
}

// Submit sends entry to the sink registered for kind.
func (r *Router) Submit(ctx context.Context, entry logentry.LogEntry, kind logentry.SourceKind) error {
	r.mu.RLock()
	s, ok := r.routes[kind]
	if !ok {
		s = r.fallback
	}
	r.mu.RUnlock()

	if s == nil {
		return fmt.Errorf("%w: %s", ErrNoRoute, kind)
	}
	return s.Submit(ctx, entry, kind)
}
