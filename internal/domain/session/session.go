// Package session defines the authenticated identity bound to the
// current client process and the port for persisting it.
package session

import (
	"errors"

	"github.com/campusrec/campusrec/internal/domain/auth"
)

// ErrStoreCorrupt is returned when the persisted session cannot be
// decoded. Callers typically clear the store and continue anonymous.
var ErrStoreCorrupt = errors.New("session store corrupt")

// Session is the authenticated identity and role for this client
// process. At most one Session is active at a time. It is created on
// successful login, destroyed on logout, and rehydrated from the
// Store on startup.
type Session struct {
	// ID identifies the session (backend id, or a fixed id for demo
	// sessions).
	ID string `json:"id"`
	// Name is the user's display name.
	Name string `json:"name"`
	// Role governs route access and mutation permissions.
	Role auth.Role `json:"role"`
	// Email is the user's email address.
	Email string `json:"email"`
	// Carnet is the student number; empty for accounts without one.
	Carnet string `json:"carnet,omitempty"`
}

// Valid reports whether the session carries the minimum fields a
// rehydrated session must have. There is no backend revalidation
// endpoint, so presence of an id and a known role is the whole check.
func (s *Session) Valid() bool {
	return s != nil && s.ID != "" && s.Role.IsValid()
}

// Store persists the single active Session across process restarts.
// Implementations must be atomic: a crash mid-Save must never leave a
// session mixing fields from two different logins.
type Store interface {
	// Load returns the persisted session, or (nil, nil) when none
	// exists.
	Load() (*Session, error)
	// Save persists the session as one consistent record.
	Save(*Session) error
	// Clear removes any persisted session. Clearing an empty store is
	// not an error.
	Clear() error
}
