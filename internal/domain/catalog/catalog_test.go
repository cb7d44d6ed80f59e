package catalog

import (
	"errors"
	"testing"

	"github.com/campusrec/campusrec/internal/domain/auth"
)

// ---------------------------------------------------------------------------
// Mapping tests
// ---------------------------------------------------------------------------

func TestStudentFromRaw_SpanishKeys(t *testing.T) {
	raw := auth.RawUser{
		"carnet":  "20241",
		"nombre":  "JEREZ MELGAR, ALEJANDRO MANUEL",
		"correo":  "jer20241@uvg.edu.gt",
		"carrera": "Computación",
	}
	s := StudentFromRaw(raw)
	if s.Carnet != "20241" || s.Name != "JEREZ MELGAR, ALEJANDRO MANUEL" {
		t.Errorf("unexpected mapping: %+v", s)
	}
	if s.Career != "Computación" {
		t.Errorf("unexpected career: %q", s.Career)
	}
}

func TestStudentFromRaw_EnglishKeys(t *testing.T) {
	raw := auth.RawUser{"name": "DOE, JANE", "email": "jdoe@uvg.edu.gt", "is_admin": true}
	s := StudentFromRaw(raw)
	if s.Name != "DOE, JANE" || s.Email != "jdoe@uvg.edu.gt" || !s.IsAdmin {
		t.Errorf("unexpected mapping: %+v", s)
	}
}

func TestProfessorFromRaw_Courses(t *testing.T) {
	raw := auth.RawUser{
		"nombre":       "MOLINA HERRERA, CARLOS EDUARDO",
		"cursos":       []any{"CC2008", "CC3001", 42},
		"calificacion": 4.6,
	}
	p := ProfessorFromRaw(raw)
	if len(p.Courses) != 2 {
		t.Fatalf("expected 2 courses (non-strings skipped), got %v", p.Courses)
	}
	if p.Rating != 4.6 {
		t.Errorf("unexpected rating %v", p.Rating)
	}
}

func TestRecommendationFromRaw(t *testing.T) {
	raw := auth.RawUser{
		"nombre_profesor": "RODAS CASTILLO, ANA LUCIA",
		"codigo_curso":    "CC2005",
		"puntuacion":      0.87,
	}
	r := RecommendationFromRaw(raw)
	if r.ProfessorName != "RODAS CASTILLO, ANA LUCIA" || r.CourseCode != "CC2005" {
		t.Errorf("unexpected mapping: %+v", r)
	}
	if r.Key() != "RODAS CASTILLO, ANA LUCIA/CC2005" {
		t.Errorf("unexpected key %q", r.Key())
	}
}

// ---------------------------------------------------------------------------
// Mock dataset tests
// ---------------------------------------------------------------------------

func TestMockDatasets_NonEmpty(t *testing.T) {
	if len(MockStudents()) == 0 {
		t.Error("mock students dataset is empty")
	}
	if len(MockProfessors()) == 0 {
		t.Error("mock professors dataset is empty")
	}
	if len(MockCourses()) == 0 {
		t.Error("mock courses dataset is empty")
	}
	if len(MockRecommendations()) == 0 {
		t.Error("mock recommendations dataset is empty")
	}
}

func TestMockStudents_ReturnsCopies(t *testing.T) {
	a := MockStudents()
	a[0].Name = "MUTATED"
	b := MockStudents()
	if b[0].Name == "MUTATED" {
		t.Error("MockStudents leaked internal state")
	}
}

func TestMockStudents_ContainsDemoStudent(t *testing.T) {
	for _, s := range MockStudents() {
		if s.Name == "JEREZ MELGAR, ALEJANDRO MANUEL" {
			return
		}
	}
	t.Error("demo student missing from mock dataset")
}

// ---------------------------------------------------------------------------
// Input validation tests
// ---------------------------------------------------------------------------

func TestValidateInput_Student(t *testing.T) {
	ok := StudentInput{Carnet: "20241", Name: "JEREZ MELGAR, ALEJANDRO MANUEL", Email: "jer20241@uvg.edu.gt"}
	if err := ValidateInput(ok); err != nil {
		t.Fatalf("expected valid input, got %v", err)
	}

	bad := StudentInput{Carnet: "abc", Name: "X", Email: "not-an-email"}
	err := ValidateInput(bad)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	for _, field := range []string{"Carnet", "Name", "Email"} {
		if _, ok := verr.Fields[field]; !ok {
			t.Errorf("expected a message for field %s, got %v", field, verr.Fields)
		}
	}
}

func TestValidateInput_Approval(t *testing.T) {
	err := ValidateInput(Approval{StudentName: "A", ProfessorName: "B", CourseCode: "CC2008"})
	if err != nil {
		t.Fatalf("expected valid approval, got %v", err)
	}
	if err := ValidateInput(Approval{}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for empty approval, got %v", err)
	}
}
