// Package auth contains the domain types and logic for authentication.
package auth

import "strings"

// Role represents a user role for authorization purposes.
type Role string

const (
	// RoleAdmin has full access to all operations, including CRUD
	// over students, professors, courses, and assignments.
	RoleAdmin Role = "admin"
	// RoleStudent has read access to the catalog and its own
	// recommendations.
	RoleStudent Role = "student"
)

// IsValid returns true if the role is a known valid role.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleStudent:
		return true
	default:
		return false
	}
}

// Credentials are the ephemeral inputs to a login attempt. They are
// never persisted anywhere.
type Credentials struct {
	// Identifier is an email address or a carnet (student number).
	Identifier string
	// Password is the cleartext password for this attempt.
	Password string
}

// IsEmail reports whether the identifier should be sent to the backend
// as an email rather than a carnet.
func (c Credentials) IsEmail() bool {
	return strings.Contains(c.Identifier, "@")
}

// RawUser is an untyped user record as returned by the backend. Field
// names vary between endpoints (Spanish and English variants coexist),
// so the record is kept as a map and read through accessor helpers.
// A RawUser is never persisted directly; it is always mapped into a
// Session or a domain entity first.
type RawUser map[string]any

// String returns the first non-empty string value among the given keys.
func (r RawUser) String(keys ...string) string {
	for _, k := range keys {
		if v, ok := r[k]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

// Bool returns the first boolean value among the given keys, or false.
func (r RawUser) Bool(keys ...string) bool {
	for _, k := range keys {
		if v, ok := r[k]; ok {
			if b, ok := v.(bool); ok {
				return b
			}
		}
	}
	return false
}

// ID returns the record identifier, trying the common key variants.
func (r RawUser) ID() string {
	return r.String("id", "_id", "carnet")
}

// Name returns the display name, trying the common key variants.
func (r RawUser) Name() string {
	return r.String("nombre", "name", "nombre_estudiante")
}

// Email returns the email address, trying the common key variants.
func (r RawUser) Email() string {
	return r.String("correo", "email")
}

// Carnet returns the student number, trying the common key variants.
func (r RawUser) Carnet() string {
	return r.String("carnet", "carne")
}
