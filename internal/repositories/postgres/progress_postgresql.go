package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SAP-F-2025/academy-service/internal/models"
	"github.com/SAP-F-2025/academy-service/internal/repositories"
)

type ProgressPostgreSQL struct {
	baseRepository
}

func NewProgressPostgreSQL(db *gorm.DB) repositories.ProgressRepository {
	return &ProgressPostgreSQL{baseRepository{db: db}}
}

func (p *ProgressPostgreSQL) Get(ctx context.Context, tx *gorm.DB, userID, lessonID string) (*models.Progress, error) {
	db := p.getDB(tx)
	var progress models.Progress
	if err := db.WithContext(ctx).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		First(&progress).Error; err != nil {
		return nil, err
	}
	return &progress, nil
}

func (p *ProgressPostgreSQL) MarkCompleted(ctx context.Context, tx *gorm.DB, userID, lessonID string, at time.Time) error {
	db := p.getDB(tx)
	progress := &models.Progress{
		UserID:      userID,
		LessonID:    lessonID,
		CompletedAt: &at,
	}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"completed_at", "updated_at"}),
		}).
		Create(progress).Error
}

func (p *ProgressPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, userID, lessonID string) error {
	db := p.getDB(tx)
	return db.WithContext(ctx).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		Delete(&models.Progress{}).Error
}

func (p *ProgressPostgreSQL) CountCompleted(ctx context.Context, tx *gorm.DB, userID string) (int64, error) {
	db := p.getDB(tx)
	var count int64
	if err := db.WithContext(ctx).
		Model(&models.Progress{}).
		Where("user_id = ? AND completed_at IS NOT NULL", userID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count completed lessons: %w", err)
	}
	return count, nil
}

func (p *ProgressPostgreSQL) CourseCompletion(ctx context.Context, tx *gorm.DB, userID, courseID string) (models.CourseCompletion, error) {
	db := p.getDB(tx)
	result := models.CourseCompletion{CourseID: courseID}

	if err := courseLessons(db.WithContext(ctx).Model(&models.Lesson{}), courseID).
		Count(&result.TotalLessons).Error; err != nil {
		return result, fmt.Errorf("failed to count course lessons: %w", err)
	}

	if err := db.WithContext(ctx).
		Model(&models.Progress{}).
		Joins("JOIN lessons ON lessons.id = progress.lesson_id").
		Joins("JOIN modules ON modules.id = lessons.module_id").
		Where("progress.user_id = ? AND progress.completed_at IS NOT NULL AND modules.course_id = ?", userID, courseID).
		Count(&result.CompletedLessons).Error; err != nil {
		return result, fmt.Errorf("failed to count completed course lessons: %w", err)
	}

	return result, nil
}

func (p *ProgressPostgreSQL) CompletedLessonIDs(ctx context.Context, tx *gorm.DB, userID, courseID string) (map[string]bool, error) {
	db := p.getDB(tx)
	var ids []string
	if err := db.WithContext(ctx).
		Model(&models.Progress{}).
		Joins("JOIN lessons ON lessons.id = progress.lesson_id").
		Joins("JOIN modules ON modules.id = lessons.module_id").
		Where("progress.user_id = ? AND progress.completed_at IS NOT NULL AND modules.course_id = ?", userID, courseID).
		Pluck("progress.lesson_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list completed lessons: %w", err)
	}

	completed := make(map[string]bool, len(ids))
	for _, id := range ids {
		completed[id] = true
	}
	return completed, nil
}

func (p *ProgressPostgreSQL) SumStudySeconds(ctx context.Context, tx *gorm.DB, userID string, courseID *string) (int64, error) {
	db := p.getDB(tx)
	query := db.WithContext(ctx).
		Model(&models.Progress{}).
		Select("COALESCE(SUM(lessons.duration_sec), 0)").
		Joins("JOIN lessons ON lessons.id = progress.lesson_id").
		Where("progress.user_id = ? AND progress.completed_at IS NOT NULL", userID)

	if courseID != nil {
		query = query.
			Joins("JOIN modules ON modules.id = lessons.module_id").
			Where("modules.course_id = ?", *courseID)
	}

	var total int64
	if err := query.Scan(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to sum study time: %w", err)
	}
	return total, nil
}

// ===== GAMIFICATION =====

type GamificationPostgreSQL struct {
	baseRepository
}

func NewGamificationPostgreSQL(db *gorm.DB) repositories.GamificationRepository {
	return &GamificationPostgreSQL{baseRepository{db: db}}
}

func (g *GamificationPostgreSQL) HasBadge(ctx context.Context, tx *gorm.DB, userID, name string) (bool, error) {
	db := g.getDB(tx)
	var count int64
	if err := db.WithContext(ctx).
		Model(&models.GamificationBadge{}).
		Where("user_id = ? AND name = ?", userID, name).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check badge: %w", err)
	}
	return count > 0, nil
}

func (g *GamificationPostgreSQL) AwardBadge(ctx context.Context, tx *gorm.DB, badge *models.GamificationBadge) (bool, error) {
	db := g.getDB(tx)
	result := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(badge)
	if result.Error != nil {
		return false, fmt.Errorf("failed to award badge: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (g *GamificationPostgreSQL) ListBadges(ctx context.Context, tx *gorm.DB, userID string) ([]models.GamificationBadge, error) {
	db := g.getDB(tx)
	var badges []models.GamificationBadge
	if err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("awarded_at ASC").
		Find(&badges).Error; err != nil {
		return nil, fmt.Errorf("failed to list badges: %w", err)
	}
	return badges, nil
}

// ===== CERTIFICATES =====

type CertificatePostgreSQL struct {
	baseRepository
}

func NewCertificatePostgreSQL(db *gorm.DB) repositories.CertificateRepository {
	return &CertificatePostgreSQL{baseRepository{db: db}}
}

func (c *CertificatePostgreSQL) Get(ctx context.Context, tx *gorm.DB, userID, courseID string) (*models.Certificate, error) {
	db := c.getDB(tx)
	var certificate models.Certificate
	if err := db.WithContext(ctx).
		Preload("Course").
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&certificate).Error; err != nil {
		return nil, err
	}
	return &certificate, nil
}

func (c *CertificatePostgreSQL) CreateIfAbsent(ctx context.Context, tx *gorm.DB, certificate *models.Certificate) (bool, error) {
	db := c.getDB(tx)
	result := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(certificate)
	if result.Error != nil {
		return false, fmt.Errorf("failed to create certificate: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (c *CertificatePostgreSQL) ListByUser(ctx context.Context, tx *gorm.DB, userID string) ([]models.Certificate, error) {
	db := c.getDB(tx)
	var certificates []models.Certificate
	if err := db.WithContext(ctx).
		Preload("Course").
		Where("user_id = ?", userID).
		Order("issued_at DESC").
		Find(&certificates).Error; err != nil {
		return nil, fmt.Errorf("failed to list certificates: %w", err)
	}
	return certificates, nil
}
