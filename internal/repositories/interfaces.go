package repositories

import (
	"github.com/SAP-F-2025/academy-service/internal/models"
)

// ===== SHARED QUERY STRUCTS =====

// LessonContext is a lesson resolved with its module, course and the
// requesting user's enrollment state.
type LessonContext struct {
	Lesson              *models.Lesson
	Module              *models.Module
	Course              *models.Course
	HasActiveEnrollment bool
}

type ReportFilters struct {
	CourseID *string          `json:"course_id"`
	Role     *models.UserRole `json:"role"`
}

type PostFilters struct {
	Limit int `json:"limit"`
}

// ExternalIdentity is a user as described by the external identity provider
type ExternalIdentity struct {
	ExternalID string          `json:"external_id"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Role       models.UserRole `json:"role"`
	Avatar     string          `json:"avatar,omitempty"`
}
