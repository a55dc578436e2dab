package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/academy-service/internal/models"
)

// CourseRepository manages courses, modules, lessons and enrollments
type CourseRepository interface {
	// Courses
	CreateCourse(ctx context.Context, tx *gorm.DB, course *models.Course) error
	GetCourseByID(ctx context.Context, tx *gorm.DB, id string) (*models.Course, error)
	GetCourseBySlug(ctx context.Context, tx *gorm.DB, slug string) (*models.Course, error)
	// GetCourseOutline returns modules ordered by order, each with its lessons ordered by order
	GetCourseOutline(ctx context.Context, tx *gorm.DB, courseID string) ([]models.Module, error)

	// Modules
	CreateModule(ctx context.Context, tx *gorm.DB, module *models.Module) error
	GetModule(ctx context.Context, tx *gorm.DB, id string) (*models.Module, error)

	// Lessons
	CreateLesson(ctx context.Context, tx *gorm.DB, lesson *models.Lesson) error
	GetLessonContext(ctx context.Context, tx *gorm.DB, lessonID, userID string) (*LessonContext, error)
	GetLessonContextBySlug(ctx context.Context, tx *gorm.DB, lessonSlug, userID string) (*LessonContext, error)
	GetLastLessonOrder(ctx context.Context, tx *gorm.DB, moduleID string) (int, error)
	CountLessons(ctx context.Context, tx *gorm.DB, courseID string) (int64, error)

	// Enrollments
	UpsertEnrollment(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error
	HasActiveEnrollment(ctx context.Context, tx *gorm.DB, userID, courseID string) (bool, error)
	// ListActiveEnrollments returns ACTIVE enrollments in published courses, oldest first
	ListActiveEnrollments(ctx context.Context, tx *gorm.DB, userID string) ([]models.Enrollment, error)
}
