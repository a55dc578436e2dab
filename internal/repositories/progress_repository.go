package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/academy-service/internal/models"
)

// ProgressRepository tracks lesson completions
type ProgressRepository interface {
	Get(ctx context.Context, tx *gorm.DB, userID, lessonID string) (*models.Progress, error)
	// MarkCompleted creates or refreshes the completion of a lesson
	MarkCompleted(ctx context.Context, tx *gorm.DB, userID, lessonID string, at time.Time) error
	Delete(ctx context.Context, tx *gorm.DB, userID, lessonID string) error

	CountCompleted(ctx context.Context, tx *gorm.DB, userID string) (int64, error)
	CourseCompletion(ctx context.Context, tx *gorm.DB, userID, courseID string) (models.CourseCompletion, error)
	CompletedLessonIDs(ctx context.Context, tx *gorm.DB, userID, courseID string) (map[string]bool, error)
	// SumStudySeconds totals duration_sec of completed lessons, optionally within one course
	SumStudySeconds(ctx context.Context, tx *gorm.DB, userID string, courseID *string) (int64, error)
}

// GamificationRepository manages badges
type GamificationRepository interface {
	HasBadge(ctx context.Context, tx *gorm.DB, userID, name string) (bool, error)
	// AwardBadge inserts the badge unless (user, name) exists. Reports whether a row was created.
	AwardBadge(ctx context.Context, tx *gorm.DB, badge *models.GamificationBadge) (bool, error)
	ListBadges(ctx context.Context, tx *gorm.DB, userID string) ([]models.GamificationBadge, error)
}

// CertificateRepository manages course certificates
type CertificateRepository interface {
	Get(ctx context.Context, tx *gorm.DB, userID, courseID string) (*models.Certificate, error)
	// CreateIfAbsent inserts the certificate unless (user, course) exists. Reports whether a row was created.
	CreateIfAbsent(ctx context.Context, tx *gorm.DB, certificate *models.Certificate) (bool, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID string) ([]models.Certificate, error)
}
