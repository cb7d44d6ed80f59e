package authgate

import (
	"github.com/campusrec/campusrec/internal/domain/auth"
	"github.com/campusrec/campusrec/internal/domain/session"
)

// Demo credentials accepted only when the backend is unreachable.
// Each pair maps to a fixed session; the role resolver is skipped
// because the role is hardcoded per account. The identifier matches
// either the email or the carnet.
type demoAccount struct {
	email    string
	carnet   string
	password string
	session  session.Session
}

var demoAccounts = []demoAccount{
	{
		email:    "estudiante@uvg.edu.gt",
		carnet:   "20241",
		password: "password123",
		session: session.Session{
			ID:     "demo-est-20241",
			Name:   "JEREZ MELGAR, ALEJANDRO MANUEL",
			Role:   auth.RoleStudent,
			Email:  "estudiante@uvg.edu.gt",
			Carnet: "20241",
		},
	},
	{
		email:    "admin@uvg.edu.gt",
		carnet:   "77777",
		password: "admin123",
		session: session.Session{
			ID:     "demo-adm-77777",
			Name:   "ADMINISTRADOR DEL SISTEMA",
			Role:   auth.RoleAdmin,
			Email:  "admin@uvg.edu.gt",
			Carnet: "77777",
		},
	},
}

// matchDemo returns the hardcoded session for a matching demo
// credential pair, or (nil, false).
func matchDemo(creds auth.Credentials) (*session.Session, bool) {
	for _, acct := range demoAccounts {
		if creds.Identifier != acct.email && creds.Identifier != acct.carnet {
			continue
		}
		if creds.Password != acct.password {
			continue
		}
		sessCopy := acct.session
		return &sessCopy, true
	}
	return nil, false
}
