package auth

import "strings"

// Admin carnets recognized by convention. The 99999 prefix marks
// administrative accounts issued in bulk.
var adminCarnets = map[string]struct{}{
	"77777": {},
	"99999": {},
	"00000": {},
}

const adminCarnetPrefix = "99999"

// adminEmailMarker identifies administrative accounts by email domain,
// e.g. "soporte@admin.uvg.edu.gt".
const adminEmailMarker = "@admin."

// Resolve maps a raw user record to a Role using an ordered fallback
// chain. The order is a precedence contract: explicit signals beat
// inferred ones, so a record with both an explicit role and a
// conflicting isAdmin flag resolves by the explicit role.
//
//  1. Explicit role field, if present and non-empty.
//  2. isAdmin boolean set to true.
//  3. Email domain containing "@admin.".
//  4. Carnet in the admin allowlist, or carrying the admin prefix.
//  5. Default: student.
func Resolve(raw RawUser) Role {
	if r := raw.String("role", "rol"); r != "" {
		return normalizeRole(r)
	}

	if raw.Bool("isAdmin", "is_admin", "esAdmin", "es_admin") {
		return RoleAdmin
	}

	if email := raw.Email(); strings.Contains(strings.ToLower(email), adminEmailMarker) {
		return RoleAdmin
	}

	if carnet := raw.Carnet(); carnet != "" {
		if _, ok := adminCarnets[carnet]; ok {
			return RoleAdmin
		}
		if strings.HasPrefix(carnet, adminCarnetPrefix) {
			return RoleAdmin
		}
	}

	return RoleStudent
}

// normalizeRole coerces an explicit role value into the closed Role
// enumeration. Anything that is not recognizably administrative is a
// student; the enumeration has no third value.
func normalizeRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin", "administrador", "administrator":
		return RoleAdmin
	default:
		return RoleStudent
	}
}
