package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/academy-service/internal/models"
	"github.com/SAP-F-2025/academy-service/internal/repositories"
)

type reportRepository struct {
	baseRepository
}

func NewReportRepository(db *gorm.DB) repositories.ReportRepository {
	return &reportRepository{baseRepository{db: db}}
}

// ===== PROGRESS REPORT =====

const (
	totalLessonsSubquery = `(SELECT COUNT(*) FROM lessons
		JOIN modules ON modules.id = lessons.module_id
		WHERE modules.course_id = courses.id)`
	completedLessonsSubquery = `(SELECT COUNT(*) FROM progress
		JOIN lessons ON lessons.id = progress.lesson_id
		JOIN modules ON modules.id = lessons.module_id
		WHERE modules.course_id = courses.id
		AND progress.user_id = users.id
		AND progress.completed_at IS NOT NULL)`
)

func (r *reportRepository) ProgressReport(ctx context.Context, tx *gorm.DB, filters repositories.ReportFilters) ([]models.ProgressReportRow, error) {
	db := r.getDB(tx)

	query := db.WithContext(ctx).
		Table("enrollments").
		Select(`users.id AS user_id,
			users.name AS user_name,
			users.email AS email,
			users.role AS role,
			users.points AS points,
			courses.slug AS course_slug,
			courses.title AS course_title,
			`+totalLessonsSubquery+` AS total_lessons,
			`+completedLessonsSubquery+` AS completed_lessons,
			certificates.issued_at AS certificate_at`).
		Joins("JOIN users ON users.id = enrollments.user_id").
		Joins("JOIN courses ON courses.id = enrollments.course_id").
		Joins("LEFT JOIN certificates ON certificates.user_id = users.id AND certificates.course_id = courses.id").
		Where("enrollments.status = ?", models.EnrollmentActive)

	if filters.CourseID != nil {
		query = query.Where("courses.id = ?", *filters.CourseID)
	}
	if filters.Role != nil {
		query = query.Where("users.role = ?", *filters.Role)
	}

	var rows []models.ProgressReportRow
	if err := query.
		Order("users.name ASC").
		Order("courses.title ASC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to build progress report: %w", err)
	}

	return rows, nil
}
