package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/SAP-F-2025/academy-service/internal/models"
)

func TestCanAccessCourse(t *testing.T) {
	sales := &models.Course{Slug: "vendas-avancadas", Audience: models.RoleVendedor}
	shared := &models.Course{Slug: models.SharedCourseSlug, Audience: models.RoleGestor}

	tests := []struct {
		name     string
		role     models.UserRole
		course   *models.Course
		enrolled bool
		want     bool
	}{
		{name: "admin without enrollment", role: models.RoleAdmin, course: sales, want: true},
		{name: "admin nil course", role: models.RoleAdmin, want: true},
		{name: "matching audience enrolled", role: models.RoleVendedor, course: sales, enrolled: true, want: true},
		{name: "matching audience not enrolled", role: models.RoleVendedor, course: sales, want: false},
		{name: "other audience enrolled", role: models.RoleGestor, course: sales, enrolled: true, want: false},
		{name: "student enrolled", role: models.RoleStudent, course: sales, enrolled: true, want: false},
		{name: "shared course any role", role: models.RoleVendedor, course: shared, enrolled: true, want: true},
		{name: "shared course student", role: models.RoleStudent, course: shared, enrolled: true, want: true},
		{name: "shared course needs enrollment", role: models.RoleVendedor, course: shared, want: false},
		{name: "nil course", role: models.RoleGestor, enrolled: true, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanAccessCourse(tt.role, tt.course, tt.enrolled))
		})
	}
}

func TestScoreAttempt(t *testing.T) {
	tests := []struct {
		name       string
		correct    int
		total      int
		wantScore  int
		wantPassed bool
	}{
		{name: "all correct", correct: 3, total: 3, wantScore: 100, wantPassed: true},
		{name: "half", correct: 1, total: 2, wantScore: 50, wantPassed: false},
		{name: "none", correct: 0, total: 4, wantScore: 0, wantPassed: false},
		{name: "exactly seventy", correct: 7, total: 10, wantScore: 70, wantPassed: true},
		{name: "sixty nine", correct: 69, total: 100, wantScore: 69, wantPassed: false},
		{name: "rounds half up", correct: 2, total: 3, wantScore: 67, wantPassed: false},
		{name: "rounds down", correct: 1, total: 3, wantScore: 33, wantPassed: false},
		{name: "no questions", correct: 0, total: 0, wantScore: 0, wantPassed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, passed := ScoreAttempt(tt.correct, tt.total)
			assert.Equal(t, tt.wantScore, score)
			assert.Equal(t, tt.wantPassed, passed)
		})
	}
}

func TestCompletionPercent(t *testing.T) {
	assert.Equal(t, 0, completionPercent(0, 0))
	assert.Equal(t, 50, completionPercent(1, 2))
	assert.Equal(t, 67, completionPercent(2, 3))
	assert.Equal(t, 100, completionPercent(4, 4))
}
