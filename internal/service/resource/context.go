// Package resource implements the fetch-and-cache layer for one
// backend resource family. The same state machine serves students,
// professors, courses, and recommendations: fetch from the API, fall
// back to a snapshot or the embedded mock dataset on failure, record
// which source served the current state, and block mutations while
// mock-backed.
package resource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/campusrec/campusrec/internal/adapter/outbound/snapshot"
	"github.com/campusrec/campusrec/internal/apierr"
	"github.com/campusrec/campusrec/internal/metrics"
)

// Source tags where the current state came from.
type Source string

const (
	// SourceLoading is set only while the first fetch is in flight.
	SourceLoading Source = "loading"
	// SourceAPI means the state reflects the live backend.
	SourceAPI Source = "api"
	// SourceMock means the state came from a snapshot or the embedded
	// dataset. Mutations are blocked.
	SourceMock Source = "mock"
)

// ErrDemoModeRestriction is returned when a mutation is attempted
// while the context is mock-backed. No network call is made.
var ErrDemoModeRestriction = errors.New("mutations are not available in demo mode")

// ErrClosed is returned for operations on a closed context.
var ErrClosed = errors.New("resource context closed")

// State is a point-in-time view of a context.
type State[T any] struct {
	Items   []T
	Loading bool
	// Err is a non-fatal description of why the last fetch fell back;
	// empty when the state came from the API.
	Err    string
	Source Source
}

// Config parametrizes a context for one resource family.
type Config[T any] struct {
	// Name identifies the resource family in logs, metrics, and the
	// snapshot store.
	Name string
	// Fetch retrieves the collection from the backend.
	Fetch func(ctx context.Context) ([]T, error)
	// Mock returns the embedded fallback dataset.
	Mock func() []T
	// KeyOf extracts the lookup identifier for GetByID.
	KeyOf func(T) string
	// Snapshots, when non-nil, persists the last good API payload and
	// is preferred over Mock when falling back.
	Snapshots *snapshot.Store
	// Degraded, when non-nil, reports the global degraded flag; a
	// degraded fetch goes straight to fallback data.
	Degraded func() bool
	// Logger must be non-nil.
	Logger *slog.Logger
}

// Context owns the in-memory state for one resource family.
type Context[T any] struct {
	cfg Config[T]

	mu      sync.Mutex
	state   State[T]
	gen     uint64
	fetched bool
	closed  bool

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New creates a context in the initial loading state.
func New[T any](cfg Config[T]) *Context[T] {
	return &Context[T]{
		cfg:   cfg,
		state: State[T]{Source: SourceLoading},
		stop:  make(chan struct{}),
	}
}

// State returns a copy of the current state.
func (c *Context[T]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.state
	st.Items = make([]T, len(c.state.Items))
	copy(st.Items, c.state.Items)
	return st
}

// Fetch populates the context. With forceMock, or while the global
// degraded flag is set, it serves fallback data directly. Otherwise it
// calls the backend; any failure (network, empty payload, malformed
// response) is absorbed into fallback data plus a non-fatal Err —
// Fetch never propagates an error. Loading is always cleared once the
// newest in-flight fetch settles, and a late-resolving stale fetch
// cannot clobber a newer one.
func (c *Context[T]) Fetch(ctx context.Context, forceMock bool) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.gen++
	gen := c.gen
	c.state.Loading = true
	if !c.fetched {
		c.state.Source = SourceLoading
	}
	c.mu.Unlock()

	if forceMock || (c.cfg.Degraded != nil && c.cfg.Degraded()) {
		c.settle(ctx, gen, nil, SourceMock, "")
		return
	}

	items, err := c.cfg.Fetch(ctx)
	switch {
	case err == nil && len(items) > 0:
		c.saveSnapshot(ctx, items)
		c.settle(ctx, gen, items, SourceAPI, "")
	case err == nil:
		c.settle(ctx, gen, nil, SourceMock, "backend returned an empty payload")
	default:
		c.cfg.Logger.Warn("fetch failed, serving fallback data",
			"resource", c.cfg.Name, "error", err)
		c.settle(ctx, gen, nil, SourceMock, fallbackMessage(err))
	}
}

// settle commits a fetch outcome. For mock outcomes the items are
// resolved here (snapshot first, then embedded dataset). Outcomes from
// a stale generation or a closed context are dropped; the fetch that
// superseded them owns the loading flag.
func (c *Context[T]) settle(ctx context.Context, gen uint64, items []T, source Source, errMsg string) {
	if source == SourceMock {
		items = c.fallbackItems(ctx)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || gen != c.gen {
		return
	}
	c.state = State[T]{Items: items, Loading: false, Err: errMsg, Source: source}
	c.fetched = true
	metrics.ResourceFetches.WithLabelValues(c.cfg.Name, string(source)).Inc()
}

// Mutate runs a backend mutation and reconciles local state with a
// re-fetch. While mock-backed it fails immediately with
// ErrDemoModeRestriction and issues no network call. A failed
// mutation leaves prior state untouched.
func (c *Context[T]) Mutate(ctx context.Context, op func(context.Context) error) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.state.Source != SourceAPI {
		c.mu.Unlock()
		metrics.MutationsBlocked.WithLabelValues(c.cfg.Name).Inc()
		return fmt.Errorf("%w: %s is backed by demo data", ErrDemoModeRestriction, c.cfg.Name)
	}
	c.mu.Unlock()

	if err := op(ctx); err != nil {
		return err
	}

	// Reconcile with server truth; no optimistic merge.
	c.Fetch(ctx, false)
	return nil
}

// GetByID is a pure lookup in the current in-memory collection.
func (c *Context[T]) GetByID(id string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, item := range c.state.Items {
		if c.cfg.KeyOf(item) == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Bind re-runs Fetch whenever the events channel signals, until the
// channel closes or the context is closed. Wired to the health
// monitor's degraded-flag flips and the auth gateway's
// session-identity changes. One-shot CLI commands fetch once and exit,
// so the binding only matters for long-lived hosts of this context.
func (c *Context[T]) Bind(ctx context.Context, events <-chan struct{}) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for {
			select {
			case <-c.stop:
				return
			case <-ctx.Done():
				return
			case _, ok := <-events:
				if !ok {
					return
				}
				c.Fetch(ctx, false)
			}
		}
	}()
}

// Close tears down the context. In-flight fetches become no-ops on
// resolution; state is never updated after Close.
func (c *Context[T]) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.stopOnce.Do(func() { close(c.stop) })
	c.wg.Wait()
}

// fallbackItems prefers the last good snapshot over the embedded
// dataset.
func (c *Context[T]) fallbackItems(ctx context.Context) []T {
	if c.cfg.Snapshots != nil {
		if payload, err := c.cfg.Snapshots.Get(ctx, c.cfg.Name); err == nil {
			var items []T
			switch unmarshalErr := json.Unmarshal(payload, &items); {
			case unmarshalErr != nil:
				c.cfg.Logger.Warn("snapshot unreadable, using embedded dataset",
					"resource", c.cfg.Name, "error", unmarshalErr)
			case len(items) > 0:
				return items
			}
		}
	}
	return c.cfg.Mock()
}

// saveSnapshot persists a successful API payload for later fallback.
func (c *Context[T]) saveSnapshot(ctx context.Context, items []T) {
	if c.cfg.Snapshots == nil {
		return
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return
	}
	if err := c.cfg.Snapshots.Put(ctx, c.cfg.Name, payload); err != nil {
		c.cfg.Logger.Warn("failed to store snapshot", "resource", c.cfg.Name, "error", err)
	}
}

// fallbackMessage renders the non-fatal error recorded alongside
// fallback state.
func fallbackMessage(err error) string {
	var status *apierr.StatusError
	if errors.As(err, &status) && status.Message != "" {
		return status.Message
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "backend unavailable, showing demo data"
}
