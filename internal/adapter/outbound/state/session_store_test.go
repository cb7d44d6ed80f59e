package state

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/campusrec/campusrec/internal/domain/auth"
	"github.com/campusrec/campusrec/internal/domain/session"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testSession() *session.Session {
	return &session.Session{
		ID:     "est-20241",
		Name:   "JEREZ MELGAR, ALEJANDRO MANUEL",
		Role:   auth.RoleStudent,
		Email:  "jer20241@uvg.edu.gt",
		Carnet: "20241",
	}
}

// ---------------------------------------------------------------------------
// Load tests
// ---------------------------------------------------------------------------

func TestLoad_NoFile_ReturnsNil(t *testing.T) {
	s := NewFileSessionStore(filepath.Join(t.TempDir(), "session.json"), testLogger())

	sess, err := s.Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if sess != nil {
		t.Fatalf("expected nil session for missing file, got %+v", sess)
	}
}

func TestLoad_CorruptFile_ReturnsErrStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	s := NewFileSessionStore(path, testLogger())

	_, err := s.Load()
	if !errors.Is(err, session.ErrStoreCorrupt) {
		t.Fatalf("expected ErrStoreCorrupt, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Save / round-trip tests
// ---------------------------------------------------------------------------

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s := NewFileSessionStore(path, testLogger())

	want := testSession()
	if err := s.Save(want); err != nil {
		t.Fatalf("Save() returned unexpected error: %v", err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if got == nil {
		t.Fatal("expected session after Save, got nil")
	}
	if *got != *want {
		t.Errorf("round-trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestSave_OverwritesAsOneRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s := NewFileSessionStore(path, testLogger())

	if err := s.Save(testSession()); err != nil {
		t.Fatal(err)
	}
	admin := &session.Session{
		ID:     "adm-77777",
		Name:   "ADMINISTRADOR DEL SISTEMA",
		Role:   auth.RoleAdmin,
		Email:  "admin@uvg.edu.gt",
		Carnet: "77777",
	}
	if err := s.Save(admin); err != nil {
		t.Fatal(err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	// No field of the previous session may survive the overwrite.
	if *got != *admin {
		t.Errorf("expected the full admin record, got %+v", got)
	}
}

func TestSave_NoTempFileLeftBehind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.json")
	s := NewFileSessionStore(path, testLogger())

	if err := s.Save(testSession()); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind after Save")
	}
}

func TestSave_Permissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s := NewFileSessionStore(path, testLogger())

	if err := s.Save(testSession()); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm&0077 != 0 {
		t.Errorf("expected 0600 permissions, got %04o", perm)
	}
}

func TestSave_ConcurrentWriters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s := NewFileSessionStore(path, testLogger())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Save(testSession())
		}()
	}
	wg.Wait()

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load() after concurrent saves: %v", err)
	}
	if got == nil || *got != *testSession() {
		t.Errorf("unexpected session after concurrent saves: %+v", got)
	}
}

// ---------------------------------------------------------------------------
// Clear tests
// ---------------------------------------------------------------------------

func TestClear_RemovesSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s := NewFileSessionStore(path, testLogger())

	if err := s.Save(testSession()); err != nil {
		t.Fatal(err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear() returned unexpected error: %v", err)
	}

	sess, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if sess != nil {
		t.Errorf("expected nil session after Clear, got %+v", sess)
	}
}

func TestClear_Idempotent(t *testing.T) {
	s := NewFileSessionStore(filepath.Join(t.TempDir(), "session.json"), testLogger())

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear() on empty store returned error: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("second Clear() returned error: %v", err)
	}
}
