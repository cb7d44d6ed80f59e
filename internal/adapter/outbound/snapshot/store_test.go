package snapshot

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "snapshots.db"), testLogger())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestGet_Missing_ReturnsErrNotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Get(context.Background(), "students")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPutGet_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	payload := []byte(`[{"nombre":"JEREZ MELGAR, ALEJANDRO MANUEL"}]`)
	if err := s.Put(ctx, "students", payload); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := s.Get(ctx, "students")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("round-trip mismatch: got %s", got)
	}
}

func TestPut_ReplacesPreviousSnapshot(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, "courses", []byte(`["old"]`)); err != nil {
		t.Fatal(err)
	}
	if err := s.Put(ctx, "courses", []byte(`["new"]`)); err != nil {
		t.Fatal(err)
	}

	got, err := s.Get(ctx, "courses")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != `["new"]` {
		t.Errorf("expected replacement, got %s", got)
	}
}

func TestPut_IdenticalPayloadIsNoop(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	payload := []byte(`["same"]`)
	if err := s.Put(ctx, "professors", payload); err != nil {
		t.Fatal(err)
	}
	// Second write with an identical payload must not fail and must
	// leave the stored data intact.
	if err := s.Put(ctx, "professors", payload); err != nil {
		t.Fatal(err)
	}

	got, err := s.Get(ctx, "professors")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != `["same"]` {
		t.Errorf("unexpected payload after no-op write: %s", got)
	}
}

func TestStore_ResourcesAreIndependent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, "students", []byte(`["s"]`)); err != nil {
		t.Fatal(err)
	}
	if err := s.Put(ctx, "courses", []byte(`["c"]`)); err != nil {
		t.Fatal(err)
	}

	if got, _ := s.Get(ctx, "students"); string(got) != `["s"]` {
		t.Errorf("students snapshot clobbered: %s", got)
	}
	if got, _ := s.Get(ctx, "courses"); string(got) != `["c"]` {
		t.Errorf("courses snapshot clobbered: %s", got)
	}
}
