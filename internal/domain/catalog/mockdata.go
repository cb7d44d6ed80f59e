package catalog

import (
	"embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed mockdata/*.yaml
var mockFS embed.FS

var mockOnce sync.Once
var mockStudents []Student
var mockProfessors []Professor
var mockCourses []Course
var mockRecommendations []Recommendation

// loadMockData parses the embedded datasets once. The files are part
// of the binary, so a parse failure is a programming error.
func loadMockData() {
	mustLoad("mockdata/students.yaml", &mockStudents)
	mustLoad("mockdata/professors.yaml", &mockProfessors)
	mustLoad("mockdata/courses.yaml", &mockCourses)
	mustLoad("mockdata/recommendations.yaml", &mockRecommendations)
}

func mustLoad(name string, out any) {
	data, err := mockFS.ReadFile(name)
	if err != nil {
		panic(fmt.Sprintf("embedded dataset %s missing: %v", name, err))
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		panic(fmt.Sprintf("embedded dataset %s invalid: %v", name, err))
	}
}

// MockStudents returns a copy of the static student dataset.
func MockStudents() []Student {
	mockOnce.Do(loadMockData)
	out := make([]Student, len(mockStudents))
	copy(out, mockStudents)
	return out
}

// MockProfessors returns a copy of the static professor dataset.
func MockProfessors() []Professor {
	mockOnce.Do(loadMockData)
	out := make([]Professor, len(mockProfessors))
	copy(out, mockProfessors)
	return out
}

// MockCourses returns a copy of the static course dataset.
func MockCourses() []Course {
	mockOnce.Do(loadMockData)
	out := make([]Course, len(mockCourses))
	copy(out, mockCourses)
	return out
}

// MockRecommendations returns a copy of the static recommendation
// dataset. The same set is served regardless of student, mirroring the
// placeholder nature of mock mode.
func MockRecommendations() []Recommendation {
	mockOnce.Do(loadMockData)
	out := make([]Recommendation, len(mockRecommendations))
	copy(out, mockRecommendations)
	return out
}
