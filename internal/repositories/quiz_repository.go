package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/academy-service/internal/models"
)

// QuizRepository manages quizzes, their questions and attempts
type QuizRepository interface {
	Create(ctx context.Context, tx *gorm.DB, quiz *models.Quiz) error
	// GetWithQuestions loads the quiz with questions ordered by order and,
	// when attached, its lesson, module and course.
	GetWithQuestions(ctx context.Context, tx *gorm.DB, quizID string) (*models.Quiz, error)
	GetByLessonID(ctx context.Context, tx *gorm.DB, lessonID string) (*models.Quiz, error)

	// Attempts
	CreateAttempt(ctx context.Context, tx *gorm.DB, attempt *models.QuizAttempt) error
	HasPassed(ctx context.Context, tx *gorm.DB, userID, quizID string) (bool, error)
	CountPassedAttempts(ctx context.Context, tx *gorm.DB, userID string) (int64, error)
	CountPassedQuizzes(ctx context.Context, tx *gorm.DB, userID string) (int64, error)
	ListAttempts(ctx context.Context, tx *gorm.DB, userID, quizID string) ([]models.QuizAttempt, error)
	GetLatestPassing(ctx context.Context, tx *gorm.DB, userID, quizID string) (*models.QuizAttempt, error)
}
