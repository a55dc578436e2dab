package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/academy-service/internal/models"
	"github.com/SAP-F-2025/academy-service/internal/repositories"
)

type QuizPostgreSQL struct {
	baseRepository
}

func NewQuizPostgreSQL(db *gorm.DB) repositories.QuizRepository {
	return &QuizPostgreSQL{baseRepository{db: db}}
}

func (q *QuizPostgreSQL) Create(ctx context.Context, tx *gorm.DB, quiz *models.Quiz) error {
	db := q.getDB(tx)
	return db.WithContext(ctx).Create(quiz).Error
}

func (q *QuizPostgreSQL) GetWithQuestions(ctx context.Context, tx *gorm.DB, quizID string) (*models.Quiz, error) {
	db := q.getDB(tx)
	var quiz models.Quiz
	if err := db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order(orderAsc)
		}).
		Preload("Lesson.Module.Course").
		First(&quiz, "id = ?", quizID).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (q *QuizPostgreSQL) GetByLessonID(ctx context.Context, tx *gorm.DB, lessonID string) (*models.Quiz, error) {
	db := q.getDB(tx)
	var quiz models.Quiz
	if err := db.WithContext(ctx).
		First(&quiz, "lesson_id = ?", lessonID).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

// ===== ATTEMPTS =====

// CreateAttempt inserts the attempt and its answers in one statement batch
func (q *QuizPostgreSQL) CreateAttempt(ctx context.Context, tx *gorm.DB, attempt *models.QuizAttempt) error {
	db := q.getDB(tx)
	if err := db.WithContext(ctx).Create(attempt).Error; err != nil {
		return fmt.Errorf("failed to create attempt: %w", err)
	}
	return nil
}

func (q *QuizPostgreSQL) HasPassed(ctx context.Context, tx *gorm.DB, userID, quizID string) (bool, error) {
	db := q.getDB(tx)
	var count int64
	if err := db.WithContext(ctx).
		Model(&models.QuizAttempt{}).
		Where("user_id = ? AND quiz_id = ? AND passed = ?", userID, quizID, true).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check passed attempts: %w", err)
	}
	return count > 0, nil
}

func (q *QuizPostgreSQL) CountPassedAttempts(ctx context.Context, tx *gorm.DB, userID string) (int64, error) {
	db := q.getDB(tx)
	var count int64
	if err := db.WithContext(ctx).
		Model(&models.QuizAttempt{}).
		Where("user_id = ? AND passed = ?", userID, true).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count passed attempts: %w", err)
	}
	return count, nil
}

func (q *QuizPostgreSQL) CountPassedQuizzes(ctx context.Context, tx *gorm.DB, userID string) (int64, error) {
	db := q.getDB(tx)
	var count int64
	if err := db.WithContext(ctx).
		Model(&models.QuizAttempt{}).
		Where("user_id = ? AND passed = ?", userID, true).
		Distinct("quiz_id").
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count passed quizzes: %w", err)
	}
	return count, nil
}

func (q *QuizPostgreSQL) ListAttempts(ctx context.Context, tx *gorm.DB, userID, quizID string) ([]models.QuizAttempt, error) {
	db := q.getDB(tx)
	var attempts []models.QuizAttempt
	if err := db.WithContext(ctx).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Order("created_at DESC").
		Find(&attempts).Error; err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	return attempts, nil
}

func (q *QuizPostgreSQL) GetLatestPassing(ctx context.Context, tx *gorm.DB, userID, quizID string) (*models.QuizAttempt, error) {
	db := q.getDB(tx)
	var attempt models.QuizAttempt
	if err := db.WithContext(ctx).
		Preload("Answers").
		Where("user_id = ? AND quiz_id = ? AND passed = ?", userID, quizID, true).
		Order("created_at DESC").
		First(&attempt).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}
