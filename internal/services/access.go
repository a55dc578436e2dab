package services

import (
	"math"

	"github.com/SAP-F-2025/academy-service/internal/models"
)

// CanAccessCourse is the single authorization gate for course content.
// ADMIN always passes. Everyone else needs an ACTIVE enrollment and either
// the shared course or a role matching the course audience.
func CanAccessCourse(role models.UserRole, course *models.Course, hasActiveEnrollment bool) bool {
	if role == models.RoleAdmin {
		return true
	}
	if course == nil || !hasActiveEnrollment {
		return false
	}
	return course.Slug == models.SharedCourseSlug || role == course.Audience
}

// CanSeeInCatalog decides catalog visibility for an already ACTIVE enrollment
func CanSeeInCatalog(role models.UserRole, course *models.Course) bool {
	return CanAccessCourse(role, course, true)
}

// ScoreAttempt returns the percentage rounded half-up and whether it passes
func ScoreAttempt(correct, total int) (int, bool) {
	if total <= 0 {
		return 0, false
	}
	score := int(math.Floor(float64(correct*100)/float64(total) + 0.5))
	return score, score >= models.QuizPassingScore
}
