package auth

import "testing"

// ---------------------------------------------------------------------------
// Resolve precedence tests
// ---------------------------------------------------------------------------

func TestResolve_ExplicitRoleWins(t *testing.T) {
	tests := []struct {
		name string
		raw  RawUser
		want Role
	}{
		{
			name: "explicit admin role",
			raw:  RawUser{"role": "admin"},
			want: RoleAdmin,
		},
		{
			name: "explicit student role beats isAdmin flag",
			raw:  RawUser{"role": "student", "isAdmin": true},
			want: RoleStudent,
		},
		{
			name: "explicit student role beats admin email",
			raw:  RawUser{"role": "student", "correo": "x@admin.uvg.edu.gt"},
			want: RoleStudent,
		},
		{
			name: "explicit student role beats admin carnet",
			raw:  RawUser{"role": "student", "carnet": "77777"},
			want: RoleStudent,
		},
		{
			name: "spanish rol key",
			raw:  RawUser{"rol": "administrador"},
			want: RoleAdmin,
		},
		{
			name: "unknown explicit role coerces to student",
			raw:  RawUser{"role": "supervisor", "isAdmin": true},
			want: RoleStudent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.raw); got != tt.want {
				t.Errorf("Resolve(%v) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestResolve_IsAdminFlag(t *testing.T) {
	if got := Resolve(RawUser{"isAdmin": true}); got != RoleAdmin {
		t.Errorf("expected admin, got %q", got)
	}
	if got := Resolve(RawUser{"is_admin": true}); got != RoleAdmin {
		t.Errorf("expected admin for snake_case key, got %q", got)
	}
	if got := Resolve(RawUser{"isAdmin": false}); got != RoleStudent {
		t.Errorf("expected student for isAdmin=false, got %q", got)
	}
}

func TestResolve_AdminEmailDomain(t *testing.T) {
	if got := Resolve(RawUser{"correo": "jefe@admin.uvg.edu.gt"}); got != RoleAdmin {
		t.Errorf("expected admin, got %q", got)
	}
	if got := Resolve(RawUser{"email": "JEFE@ADMIN.UVG.EDU.GT"}); got != RoleAdmin {
		t.Errorf("expected admin regardless of case, got %q", got)
	}
	if got := Resolve(RawUser{"correo": "alumno@uvg.edu.gt"}); got != RoleStudent {
		t.Errorf("expected student, got %q", got)
	}
}

func TestResolve_AdminCarnets(t *testing.T) {
	for _, carnet := range []string{"77777", "99999", "00000", "999991234"} {
		if got := Resolve(RawUser{"carnet": carnet}); got != RoleAdmin {
			t.Errorf("carnet %s: expected admin, got %q", carnet, got)
		}
	}
	if got := Resolve(RawUser{"carnet": "20241"}); got != RoleStudent {
		t.Errorf("expected student, got %q", got)
	}
}

func TestResolve_NoSignalDefaultsToStudent(t *testing.T) {
	records := []RawUser{
		{},
		{"nombre": "PEREZ LOPEZ, MARIA", "carnet": "23001", "correo": "per23001@uvg.edu.gt"},
		{"role": ""},
	}
	for _, raw := range records {
		if got := Resolve(raw); got != RoleStudent {
			t.Errorf("Resolve(%v) = %q, want student", raw, got)
		}
	}
}

// ---------------------------------------------------------------------------
// RawUser accessor tests
// ---------------------------------------------------------------------------

func TestRawUser_Accessors(t *testing.T) {
	raw := RawUser{
		"nombre": "JEREZ MELGAR, ALEJANDRO MANUEL",
		"carnet": "20241",
		"correo": "jer20241@uvg.edu.gt",
	}
	if raw.Name() != "JEREZ MELGAR, ALEJANDRO MANUEL" {
		t.Errorf("unexpected name %q", raw.Name())
	}
	if raw.Carnet() != "20241" {
		t.Errorf("unexpected carnet %q", raw.Carnet())
	}
	if raw.Email() != "jer20241@uvg.edu.gt" {
		t.Errorf("unexpected email %q", raw.Email())
	}
	if raw.ID() != "20241" {
		t.Errorf("expected ID to fall back to carnet, got %q", raw.ID())
	}
}

func TestCredentials_IsEmail(t *testing.T) {
	if !(Credentials{Identifier: "a@uvg.edu.gt"}).IsEmail() {
		t.Error("expected email identifier")
	}
	if (Credentials{Identifier: "20241"}).IsEmail() {
		t.Error("expected carnet identifier")
	}
}
