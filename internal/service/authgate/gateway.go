// Package authgate orchestrates login, logout, session rehydration,
// and role checks. It owns the Session exclusively: nothing else
// writes to the session store.
package authgate

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/campusrec/campusrec/internal/apierr"
	"github.com/campusrec/campusrec/internal/domain/auth"
	"github.com/campusrec/campusrec/internal/domain/session"
	"github.com/campusrec/campusrec/internal/metrics"
)

// State is the gateway's authentication state.
type State int

const (
	// StateUnknown is the initial state before rehydration runs.
	StateUnknown State = iota
	// StateRehydrating is set while the persisted session is loaded.
	StateRehydrating
	// StateAuthenticated means a session is active.
	StateAuthenticated
	// StateAnonymous means no session is active.
	StateAnonymous
)

// String returns the state name for logs.
func (s State) String() string {
	switch s {
	case StateUnknown:
		return "unknown"
	case StateRehydrating:
		return "rehydrating"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "invalid"
	}
}

// Backend is the slice of the API client the gateway needs.
type Backend interface {
	// Login authenticates with either an email or a carnet (exactly
	// one non-empty) and returns the raw user record.
	Login(ctx context.Context, email, carnet, password string) (auth.RawUser, error)
}

// Gateway is the authentication state machine.
type Gateway struct {
	mu      sync.RWMutex
	state   State
	current *session.Session

	store   session.Store
	backend Backend
	logger  *slog.Logger

	subMu   sync.Mutex
	subs    map[int]chan struct{}
	nextSub int
}

// New creates a Gateway in StateUnknown. Call Rehydrate before using
// the predicates.
func New(store session.Store, backend Backend, logger *slog.Logger) *Gateway {
	return &Gateway{
		state:   StateUnknown,
		store:   store,
		backend: backend,
		logger:  logger,
		subs:    make(map[int]chan struct{}),
	}
}

// Rehydrate loads the persisted session on startup. A present, valid
// record is accepted as-is: the scheme has no revalidation endpoint,
// so presence is the whole check. A corrupt store is cleared and the
// gateway continues anonymous.
func (g *Gateway) Rehydrate() {
	g.mu.Lock()
	g.state = StateRehydrating
	g.mu.Unlock()

	sess, err := g.store.Load()
	switch {
	case err != nil:
		if errors.Is(err, session.ErrStoreCorrupt) {
			g.logger.Warn("persisted session corrupt, clearing", "error", err)
			_ = g.store.Clear()
		} else {
			g.logger.Warn("failed to load persisted session", "error", err)
		}
		g.setAnonymous()
	case sess.Valid():
		g.mu.Lock()
		g.state = StateAuthenticated
		g.current = sess
		g.mu.Unlock()
		g.logger.Debug("session rehydrated", "name", sess.Name, "role", sess.Role)
	default:
		g.setAnonymous()
	}
}

// Login attempts remote authentication first. An explicit credential
// rejection fails immediately: the demo table only covers the case
// where the backend cannot answer at all.
func (g *Gateway) Login(ctx context.Context, creds auth.Credentials) (*session.Session, error) {
	var email, carnet string
	if creds.IsEmail() {
		email = creds.Identifier
	} else {
		carnet = creds.Identifier
	}

	raw, err := g.backend.Login(ctx, email, carnet, creds.Password)
	if err == nil {
		sess := sessionFromRaw(raw)
		if saveErr := g.store.Save(sess); saveErr != nil {
			return nil, saveErr
		}
		g.setAuthenticated(sess)
		metrics.Logins.WithLabelValues("api").Inc()
		g.logger.Info("login succeeded", "source", "api", "role", sess.Role)
		return sess, nil
	}

	if errors.Is(err, apierr.ErrInvalidCredentials) {
		metrics.Logins.WithLabelValues("invalid").Inc()
		return nil, err
	}

	if !apierr.Degraded(err) {
		metrics.Logins.WithLabelValues("error").Inc()
		return nil, err
	}

	// Backend unreachable or talking garbage: demo credentials only.
	g.logger.Warn("backend unavailable during login, checking demo credentials", "error", err)
	if sess, ok := matchDemo(creds); ok {
		if saveErr := g.store.Save(sess); saveErr != nil {
			return nil, saveErr
		}
		g.setAuthenticated(sess)
		metrics.Logins.WithLabelValues("demo").Inc()
		g.logger.Info("login succeeded", "source", "demo", "role", sess.Role)
		return sess, nil
	}

	metrics.Logins.WithLabelValues("invalid").Inc()
	return nil, &apierr.InvalidCredentialsError{}
}

// Logout clears the persisted session and transitions to Anonymous.
// It never fails and is a no-op when already anonymous.
func (g *Gateway) Logout() {
	if err := g.store.Clear(); err != nil {
		g.logger.Warn("failed to clear session store on logout", "error", err)
	}

	g.mu.Lock()
	wasAuthenticated := g.state == StateAuthenticated
	g.state = StateAnonymous
	g.current = nil
	g.mu.Unlock()

	if wasAuthenticated {
		g.notify()
	}
}

// State returns the current authentication state.
func (g *Gateway) State() State {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

// Current returns a copy of the active session, or nil.
func (g *Gateway) Current() *session.Session {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.current == nil {
		return nil
	}
	sessCopy := *g.current
	return &sessCopy
}

// IsAuthenticated reports whether a session is active.
func (g *Gateway) IsAuthenticated() bool {
	return g.State() == StateAuthenticated
}

// HasRole reports whether the active session carries the given role.
func (g *Gateway) HasRole(role auth.Role) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state == StateAuthenticated && g.current != nil && g.current.Role == role
}

// IsAdmin reports whether the active session is administrative.
func (g *Gateway) IsAdmin() bool { return g.HasRole(auth.RoleAdmin) }

// IsStudent reports whether the active session is a student.
func (g *Gateway) IsStudent() bool { return g.HasRole(auth.RoleStudent) }

// Subscribe returns a channel that receives a signal whenever the
// session identity changes (login or logout), plus a cancel function.
// Per-student contexts bind to this to re-fetch; in a one-shot CLI
// invocation the session cannot change mid-command, so only long-lived
// hosts consume it.
func (g *Gateway) Subscribe() (<-chan struct{}, func()) {
	g.subMu.Lock()
	defer g.subMu.Unlock()

	id := g.nextSub
	g.nextSub++
	ch := make(chan struct{}, 1)
	g.subs[id] = ch

	cancel := func() {
		g.subMu.Lock()
		defer g.subMu.Unlock()
		if _, ok := g.subs[id]; ok {
			delete(g.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

func (g *Gateway) setAuthenticated(sess *session.Session) {
	g.mu.Lock()
	g.state = StateAuthenticated
	sessCopy := *sess
	g.current = &sessCopy
	g.mu.Unlock()
	g.notify()
}

func (g *Gateway) setAnonymous() {
	g.mu.Lock()
	g.state = StateAnonymous
	g.current = nil
	g.mu.Unlock()
}

// notify signals all subscribers without blocking; a subscriber that
// has not drained its previous signal just coalesces the two.
func (g *Gateway) notify() {
	g.subMu.Lock()
	defer g.subMu.Unlock()
	for _, ch := range g.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// sessionFromRaw builds a Session from a backend login record,
// resolving the role through the ordered fallback chain.
func sessionFromRaw(raw auth.RawUser) *session.Session {
	id := raw.ID()
	if id == "" {
		id = uuid.NewString()
	}
	return &session.Session{
		ID:     id,
		Name:   raw.Name(),
		Role:   auth.Resolve(raw),
		Email:  raw.Email(),
		Carnet: raw.Carnet(),
	}
}
