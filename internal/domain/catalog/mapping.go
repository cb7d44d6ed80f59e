package catalog

import (
	"github.com/campusrec/campusrec/internal/domain/auth"
)

// Mapping from raw backend records to domain entities. The backend is
// inconsistent about field names across endpoints (Spanish vs English,
// camelCase vs snake_case), so every record passes through one of
// these before reaching a context or the UI.

// StudentFromRaw maps a raw record to a Student.
func StudentFromRaw(raw auth.RawUser) Student {
	return Student{
		Carnet:  raw.Carnet(),
		Name:    raw.Name(),
		Email:   raw.Email(),
		Career:  raw.String("carrera", "career"),
		IsAdmin: raw.Bool("isAdmin", "is_admin"),
	}
}

// ProfessorFromRaw maps a raw record to a Professor.
func ProfessorFromRaw(raw auth.RawUser) Professor {
	p := Professor{
		Name:       raw.Name(),
		Email:      raw.Email(),
		Department: raw.String("departamento", "department"),
		Rating:     rawFloat(raw, "calificacion", "rating", "promedio"),
	}
	if v, ok := raw["cursos"]; ok {
		p.Courses = rawStrings(v)
	} else if v, ok := raw["courses"]; ok {
		p.Courses = rawStrings(v)
	}
	return p
}

// CourseFromRaw maps a raw record to a Course.
func CourseFromRaw(raw auth.RawUser) Course {
	return Course{
		Code:       raw.String("codigo", "code", "codigo_curso"),
		Name:       raw.String("nombre", "name", "nombre_curso"),
		Credits:    int(rawFloat(raw, "creditos", "credits")),
		Department: raw.String("departamento", "department"),
	}
}

// RecommendationFromRaw maps a raw record to a Recommendation.
func RecommendationFromRaw(raw auth.RawUser) Recommendation {
	return Recommendation{
		ProfessorName: raw.String("nombre_profesor", "profesor", "professor"),
		CourseCode:    raw.String("codigo_curso", "curso", "course_code"),
		CourseName:    raw.String("nombre_curso", "course_name"),
		Score:         rawFloat(raw, "puntuacion", "score", "puntaje"),
		Reason:        raw.String("razon", "reason"),
	}
}

// rawFloat reads a numeric field that may arrive as float64 (JSON) or
// int (YAML fixtures).
func rawFloat(raw auth.RawUser, keys ...string) float64 {
	for _, k := range keys {
		switch v := raw[k].(type) {
		case float64:
			return v
		case int:
			return float64(v)
		}
	}
	return 0
}

// rawStrings converts a decoded JSON array into a string slice,
// skipping non-string elements.
func rawStrings(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
