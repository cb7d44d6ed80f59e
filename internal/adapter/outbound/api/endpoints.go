package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/campusrec/campusrec/internal/domain/auth"
	"github.com/campusrec/campusrec/internal/domain/catalog"
)

// Backend operations. Identifiers embedded in paths are
// percent-encoded exactly once, here and nowhere else; student and
// professor names contain commas and spaces.

// Login authenticates against POST /estudiantes/login. Exactly one of
// email or carnet must be non-empty; the caller disambiguates by the
// presence of "@" in the identifier.
func (c *Client) Login(ctx context.Context, email, carnet, password string) (auth.RawUser, error) {
	body := map[string]string{"password": password}
	if email != "" {
		body["email"] = email
	} else {
		body["carnet"] = carnet
	}

	var raw auth.RawUser
	if err := c.doRequest(ctx, http.MethodPost, "/estudiantes/login", body, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// Health probes GET /health. A nil return means the backend answered.
func (c *Client) Health(ctx context.Context) error {
	return c.doRequest(ctx, http.MethodGet, "/health", nil, nil)
}

// --- students ---

// ListStudents fetches all students.
func (c *Client) ListStudents(ctx context.Context) ([]catalog.Student, error) {
	var raws []auth.RawUser
	if err := c.get(ctx, "/estudiantes", &raws); err != nil {
		return nil, err
	}
	return mapAll(raws, catalog.StudentFromRaw), nil
}

// GetStudent fetches one student by name.
func (c *Client) GetStudent(ctx context.Context, name string) (*catalog.Student, error) {
	var raw auth.RawUser
	if err := c.get(ctx, "/estudiantes/"+url.PathEscape(name), &raw); err != nil {
		return nil, err
	}
	s := catalog.StudentFromRaw(raw)
	return &s, nil
}

// CreateStudent validates and creates a student record.
func (c *Client) CreateStudent(ctx context.Context, in catalog.StudentInput) error {
	if err := catalog.ValidateInput(in); err != nil {
		return err
	}
	return c.doRequest(ctx, http.MethodPost, "/estudiantes", in, nil)
}

// UpdateStudent validates and updates the student with the given name.
func (c *Client) UpdateStudent(ctx context.Context, name string, in catalog.StudentInput) error {
	if err := catalog.ValidateInput(in); err != nil {
		return err
	}
	return c.doRequest(ctx, http.MethodPut, "/estudiantes/"+url.PathEscape(name), in, nil)
}

// DeleteStudent deletes the student with the given name.
func (c *Client) DeleteStudent(ctx context.Context, name string) error {
	return c.doRequest(ctx, http.MethodDelete, "/estudiantes/"+url.PathEscape(name), nil, nil)
}

// --- professors ---

// ListProfessors fetches all professors.
func (c *Client) ListProfessors(ctx context.Context) ([]catalog.Professor, error) {
	var raws []auth.RawUser
	if err := c.get(ctx, "/profesores", &raws); err != nil {
		return nil, err
	}
	return mapAll(raws, catalog.ProfessorFromRaw), nil
}

// GetProfessor fetches one professor by name.
func (c *Client) GetProfessor(ctx context.Context, name string) (*catalog.Professor, error) {
	var raw auth.RawUser
	if err := c.get(ctx, "/profesores/"+url.PathEscape(name), &raw); err != nil {
		return nil, err
	}
	p := catalog.ProfessorFromRaw(raw)
	return &p, nil
}

// ProfessorsByCourse fetches the professors teaching a course.
func (c *Client) ProfessorsByCourse(ctx context.Context, courseCode string) ([]catalog.Professor, error) {
	var raws []auth.RawUser
	if err := c.get(ctx, "/profesores/curso/"+url.PathEscape(courseCode), &raws); err != nil {
		return nil, err
	}
	return mapAll(raws, catalog.ProfessorFromRaw), nil
}

// CreateProfessor validates and creates a professor record.
func (c *Client) CreateProfessor(ctx context.Context, in catalog.ProfessorInput) error {
	if err := catalog.ValidateInput(in); err != nil {
		return err
	}
	return c.doRequest(ctx, http.MethodPost, "/profesores", in, nil)
}

// UpdateProfessor validates and updates the professor with the given name.
func (c *Client) UpdateProfessor(ctx context.Context, name string, in catalog.ProfessorInput) error {
	if err := catalog.ValidateInput(in); err != nil {
		return err
	}
	return c.doRequest(ctx, http.MethodPut, "/profesores/"+url.PathEscape(name), in, nil)
}

// DeleteProfessor deletes the professor with the given name.
func (c *Client) DeleteProfessor(ctx context.Context, name string) error {
	return c.doRequest(ctx, http.MethodDelete, "/profesores/"+url.PathEscape(name), nil, nil)
}

// --- courses ---

// ListCourses fetches the course catalog.
func (c *Client) ListCourses(ctx context.Context) ([]catalog.Course, error) {
	var raws []auth.RawUser
	if err := c.get(ctx, "/cursos", &raws); err != nil {
		return nil, err
	}
	return mapAll(raws, catalog.CourseFromRaw), nil
}

// GetCourse fetches one course by code.
func (c *Client) GetCourse(ctx context.Context, code string) (*catalog.Course, error) {
	var raw auth.RawUser
	if err := c.get(ctx, "/cursos/"+url.PathEscape(code), &raw); err != nil {
		return nil, err
	}
	course := catalog.CourseFromRaw(raw)
	return &course, nil
}

// CreateCourse validates and creates a course.
func (c *Client) CreateCourse(ctx context.Context, in catalog.CourseInput) error {
	if err := catalog.ValidateInput(in); err != nil {
		return err
	}
	return c.doRequest(ctx, http.MethodPost, "/cursos", in, nil)
}

// UpdateCourse validates and updates the course with the given code.
func (c *Client) UpdateCourse(ctx context.Context, code string, in catalog.CourseInput) error {
	if err := catalog.ValidateInput(in); err != nil {
		return err
	}
	return c.doRequest(ctx, http.MethodPut, "/cursos/"+url.PathEscape(code), in, nil)
}

// DeleteCourse deletes the course with the given code.
func (c *Client) DeleteCourse(ctx context.Context, code string) error {
	return c.doRequest(ctx, http.MethodDelete, "/cursos/"+url.PathEscape(code), nil, nil)
}

// --- recommendations and approvals ---

// Recommendations fetches scored professor/course pairs for a student.
// limit caps the number of results when positive.
func (c *Client) Recommendations(ctx context.Context, studentName string, limit int) ([]catalog.Recommendation, error) {
	path := "/recomendaciones/" + url.PathEscape(studentName)
	if limit > 0 {
		path += fmt.Sprintf("?limite=%d", limit)
	}

	var raws []auth.RawUser
	if err := c.get(ctx, path, &raws); err != nil {
		return nil, err
	}
	return mapAll(raws, catalog.RecommendationFromRaw), nil
}

// RegisterApproval validates and records that a student passed a
// course with a professor.
func (c *Client) RegisterApproval(ctx context.Context, approval catalog.Approval) error {
	if err := catalog.ValidateInput(approval); err != nil {
		return err
	}
	return c.doRequest(ctx, http.MethodPost, "/aprobacion", approval, nil)
}

// mapAll applies a raw-record mapper over a slice.
func mapAll[T any](raws []auth.RawUser, f func(auth.RawUser) T) []T {
	out := make([]T, 0, len(raws))
	for _, raw := range raws {
		out = append(out, f(raw))
	}
	return out
}
