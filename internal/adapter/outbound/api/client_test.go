package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/campusrec/campusrec/internal/apierr"
	"github.com/campusrec/campusrec/internal/domain/catalog"
)

func okEnvelope(data any) []byte {
	b, _ := json.Marshal(map[string]any{"success": true, "data": data})
	return b
}

func newTestClient(serverURL string) *Client {
	return NewClient(WithBaseURL(serverURL), WithRetryPolicy(NoRetry()))
}

// ---------------------------------------------------------------------------
// Envelope and classification tests
// ---------------------------------------------------------------------------

func TestListStudents_DecodesEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/estudiantes" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(okEnvelope([]map[string]any{
			{"nombre": "JEREZ MELGAR, ALEJANDRO MANUEL", "carnet": "20241", "correo": "jer20241@uvg.edu.gt"},
		}))
	}))
	defer server.Close()

	students, err := newTestClient(server.URL).ListStudents(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(students) != 1 || students[0].Carnet != "20241" {
		t.Errorf("unexpected students: %+v", students)
	}
}

func TestDoRequest_EnvelopeLessBody_IsMalformed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"nombre":"X"}]`)) // valid JSON, no envelope
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).ListStudents(context.Background())
	if !errors.Is(err, apierr.ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestDoRequest_NonJSONBody_IsMalformed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>gateway error</html>"))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).ListCourses(context.Background())
	if !errors.Is(err, apierr.ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestDoRequest_ServerError_IsUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).ListProfessors(context.Background())
	if !errors.Is(err, apierr.ErrUnreachable) {
		t.Fatalf("expected ErrUnreachable, got %v", err)
	}
}

func TestDoRequest_ConnectionRefused_IsUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing listening anymore

	err := newTestClient(server.URL).Health(context.Background())
	if !errors.Is(err, apierr.ErrUnreachable) {
		t.Fatalf("expected ErrUnreachable, got %v", err)
	}
}

func TestDoRequest_SuccessFalse_SurfacesServerMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "curso no encontrado"})
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GetCourse(context.Background(), "CC9999")
	var serr *apierr.StatusError
	if !errors.As(err, &serr) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	if serr.Message != "curso no encontrado" {
		t.Errorf("expected server message to win, got %q", serr.Message)
	}
}

func TestDoRequest_MessageFallsBackToStatusText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{"success": false})
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GetStudent(context.Background(), "NADIE")
	var serr *apierr.StatusError
	if !errors.As(err, &serr) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	if serr.Message != http.StatusText(http.StatusNotFound) {
		t.Errorf("expected status text fallback, got %q", serr.Message)
	}
}

// ---------------------------------------------------------------------------
// Login tests
// ---------------------------------------------------------------------------

func TestLogin_SendsEmailOrCarnet(t *testing.T) {
	var body map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/estudiantes/login" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		body = map[string]string{}
		json.NewDecoder(r.Body).Decode(&body)
		w.Write(okEnvelope(map[string]any{"nombre": "X", "carnet": "20241"}))
	}))
	defer server.Close()

	c := newTestClient(server.URL)

	if _, err := c.Login(context.Background(), "a@uvg.edu.gt", "", "pw"); err != nil {
		t.Fatal(err)
	}
	if body["email"] != "a@uvg.edu.gt" || body["carnet"] != "" {
		t.Errorf("expected email field, got %v", body)
	}

	if _, err := c.Login(context.Background(), "", "20241", "pw"); err != nil {
		t.Fatal(err)
	}
	if body["carnet"] != "20241" || body["email"] != "" {
		t.Errorf("expected carnet field, got %v", body)
	}
}

func TestLogin_Unauthorized_IsInvalidCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "credenciales inválidas"})
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Login(context.Background(), "a@uvg.edu.gt", "", "wrong")
	if !errors.Is(err, apierr.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if apierr.Degraded(err) {
		t.Error("a credential rejection must not count as degraded")
	}
}

// ---------------------------------------------------------------------------
// Path encoding tests
// ---------------------------------------------------------------------------

func TestGetStudent_EscapesNameExactlyOnce(t *testing.T) {
	var gotEscaped string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotEscaped = r.URL.EscapedPath()
		w.Write(okEnvelope(map[string]any{"nombre": "JEREZ MELGAR, ALEJANDRO MANUEL"}))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GetStudent(context.Background(), "JEREZ MELGAR, ALEJANDRO MANUEL")
	if err != nil {
		t.Fatal(err)
	}
	want := "/estudiantes/JEREZ%20MELGAR,%20ALEJANDRO%20MANUEL"
	if gotEscaped != want {
		t.Errorf("escaped path = %q, want %q (single encoding)", gotEscaped, want)
	}
}

func TestRecommendations_LimitQuery(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write(okEnvelope([]map[string]any{{"nombre_profesor": "P", "codigo_curso": "CC2008"}}))
	}))
	defer server.Close()

	recs, err := newTestClient(server.URL).Recommendations(context.Background(), "JEREZ", 5)
	if err != nil {
		t.Fatal(err)
	}
	if gotQuery != "limite=5" {
		t.Errorf("query = %q, want limite=5", gotQuery)
	}
	if len(recs) != 1 || recs[0].CourseCode != "CC2008" {
		t.Errorf("unexpected recommendations: %+v", recs)
	}
}

// ---------------------------------------------------------------------------
// Validation tests
// ---------------------------------------------------------------------------

func TestCreateStudent_InvalidInput_NeverHitsNetwork(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write(okEnvelope(nil))
	}))
	defer server.Close()

	err := newTestClient(server.URL).CreateStudent(context.Background(), catalog.StudentInput{})
	if !errors.Is(err, catalog.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if hits.Load() != 0 {
		t.Errorf("expected zero network calls, got %d", hits.Load())
	}
}

// ---------------------------------------------------------------------------
// Retry tests
// ---------------------------------------------------------------------------

func TestGet_RetriesUnreachableThenSucceeds(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			http.Error(w, "warming up", http.StatusServiceUnavailable)
			return
		}
		w.Write(okEnvelope([]map[string]any{{"codigo": "CC2008", "nombre": "Algoritmos"}}))
	}))
	defer server.Close()

	c := NewClient(WithBaseURL(server.URL), WithRetryPolicy(RetryPolicy{
		MaxAttempts: 3,
		Backoff:     func(int) time.Duration { return time.Millisecond },
	}))

	courses, err := c.ListCourses(context.Background())
	if err != nil {
		t.Fatalf("expected success on third attempt, got %v", err)
	}
	if hits.Load() != 3 {
		t.Errorf("expected 3 attempts, got %d", hits.Load())
	}
	if len(courses) != 1 {
		t.Errorf("unexpected courses: %+v", courses)
	}
}

func TestMutations_AreNotRetried(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewClient(WithBaseURL(server.URL), WithRetryPolicy(RetryPolicy{
		MaxAttempts: 3,
		Backoff:     func(int) time.Duration { return time.Millisecond },
	}))

	err := c.DeleteCourse(context.Background(), "CC2008")
	if !errors.Is(err, apierr.ErrUnreachable) {
		t.Fatalf("expected ErrUnreachable, got %v", err)
	}
	if hits.Load() != 1 {
		t.Errorf("mutations must issue exactly one attempt, got %d", hits.Load())
	}
}
