// Package catalog contains the domain entities served by the
// recommendation backend: students, professors, courses, and the
// recommendations that tie them together.
package catalog

// Student is a registered student.
type Student struct {
	Carnet  string `json:"carnet" yaml:"carnet"`
	Name    string `json:"nombre" yaml:"nombre"`
	Email   string `json:"correo" yaml:"correo"`
	Career  string `json:"carrera,omitempty" yaml:"carrera,omitempty"`
	IsAdmin bool   `json:"isAdmin,omitempty" yaml:"isAdmin,omitempty"`
}

// Key returns the identifier used in backend paths for this student.
func (s Student) Key() string { return s.Name }

// Professor teaches one or more courses.
type Professor struct {
	Name       string   `json:"nombre" yaml:"nombre"`
	Email      string   `json:"correo,omitempty" yaml:"correo,omitempty"`
	Department string   `json:"departamento,omitempty" yaml:"departamento,omitempty"`
	Courses    []string `json:"cursos,omitempty" yaml:"cursos,omitempty"`
	Rating     float64  `json:"calificacion,omitempty" yaml:"calificacion,omitempty"`
}

// Key returns the identifier used in backend paths for this professor.
func (p Professor) Key() string { return p.Name }

// Course is an entry in the course catalog.
type Course struct {
	Code       string `json:"codigo" yaml:"codigo"`
	Name       string `json:"nombre" yaml:"nombre"`
	Credits    int    `json:"creditos,omitempty" yaml:"creditos,omitempty"`
	Department string `json:"departamento,omitempty" yaml:"departamento,omitempty"`
}

// Key returns the identifier used in backend paths for this course.
func (c Course) Key() string { return c.Code }

// Recommendation pairs a professor with a course for a given student,
// scored by the backend. The scoring model is opaque to this client.
type Recommendation struct {
	ProfessorName string  `json:"nombre_profesor" yaml:"nombre_profesor"`
	CourseCode    string  `json:"codigo_curso" yaml:"codigo_curso"`
	CourseName    string  `json:"nombre_curso,omitempty" yaml:"nombre_curso,omitempty"`
	Score         float64 `json:"puntuacion,omitempty" yaml:"puntuacion,omitempty"`
	Reason        string  `json:"razon,omitempty" yaml:"razon,omitempty"`
}

// Key returns a stable identifier for in-memory lookups.
func (r Recommendation) Key() string { return r.ProfessorName + "/" + r.CourseCode }

// Approval records that a student passed a course with a professor.
type Approval struct {
	StudentName   string `json:"nombre_estudiante" validate:"required"`
	ProfessorName string `json:"nombre_profesor" validate:"required"`
	CourseCode    string `json:"codigo_curso" validate:"required"`
}

// StudentInput is the payload for creating or updating a student.
// Validated client-side before any network call.
type StudentInput struct {
	Carnet   string `json:"carnet" validate:"required,numeric"`
	Name     string `json:"nombre" validate:"required,min=3"`
	Email    string `json:"correo" validate:"required,email"`
	Password string `json:"password,omitempty" validate:"omitempty,min=8"`
	Career   string `json:"carrera,omitempty"`
}

// ProfessorInput is the payload for creating or updating a professor.
type ProfessorInput struct {
	Name       string   `json:"nombre" validate:"required,min=3"`
	Email      string   `json:"correo,omitempty" validate:"omitempty,email"`
	Department string   `json:"departamento,omitempty"`
	Courses    []string `json:"cursos,omitempty" validate:"omitempty,dive,required"`
}

// CourseInput is the payload for creating or updating a course.
type CourseInput struct {
	Code       string `json:"codigo" validate:"required,alphanum"`
	Name       string `json:"nombre" validate:"required,min=3"`
	Credits    int    `json:"creditos" validate:"omitempty,min=1,max=12"`
	Department string `json:"departamento,omitempty"`
}
