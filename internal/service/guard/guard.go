// Package guard decides whether a navigation target is accessible for
// the current authentication state.
package guard

import (
	"github.com/campusrec/campusrec/internal/domain/auth"
	"github.com/campusrec/campusrec/internal/service/authgate"
)

// Decision is the outcome of evaluating a guard.
type Decision int

const (
	// DecisionPending means rehydration has not settled yet; hold the
	// navigation instead of redirecting.
	DecisionPending Decision = iota
	// DecisionLogin redirects an anonymous visitor to the login flow.
	DecisionLogin
	// DecisionLanding redirects an authenticated user who lacks the
	// required role to their own landing area.
	DecisionLanding
	// DecisionAllow lets the navigation through.
	DecisionAllow
)

// String returns the decision name for logs.
func (d Decision) String() string {
	switch d {
	case DecisionPending:
		return "pending"
	case DecisionLogin:
		return "login"
	case DecisionLanding:
		return "landing"
	case DecisionAllow:
		return "allow"
	default:
		return "invalid"
	}
}

// Gate is the slice of the auth gateway the guard needs.
type Gate interface {
	State() authgate.State
	HasRole(role auth.Role) bool
}

// Guard evaluates access for an authenticated-only target. Pass a
// role to additionally require it; pass "" for any authenticated user.
func Guard(g Gate, required auth.Role) Decision {
	switch g.State() {
	case authgate.StateUnknown, authgate.StateRehydrating:
		return DecisionPending
	case authgate.StateAnonymous:
		return DecisionLogin
	}
	if required != "" && !g.HasRole(required) {
		return DecisionLanding
	}
	return DecisionAllow
}

// AdminOnly guards administrative targets.
func AdminOnly(g Gate) Decision { return Guard(g, auth.RoleAdmin) }

// StudentOnly guards student targets.
func StudentOnly(g Gate) Decision { return Guard(g, auth.RoleStudent) }

// Authenticated guards targets any signed-in user may reach.
func Authenticated(g Gate) Decision { return Guard(g, "") }

// Landing returns the home target for a session's role.
func Landing(role auth.Role) string {
	if role == auth.RoleAdmin {
		return "admin"
	}
	return "student"
}
