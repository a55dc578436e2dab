package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/academy-service/internal/models"
)

// NoteRepository manages personal lesson notes
type NoteRepository interface {
	Create(ctx context.Context, tx *gorm.DB, note *models.Note) error
	// GetByID loads the note with its lesson, module and course
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Note, error)
	Delete(ctx context.Context, tx *gorm.DB, id string) error
	ListByLesson(ctx context.Context, tx *gorm.DB, userID, lessonID string) ([]models.Note, error)
}

// CommunityRepository manages the social feed
type CommunityRepository interface {
	CreatePost(ctx context.Context, tx *gorm.DB, post *models.Post) error
	GetPost(ctx context.Context, tx *gorm.DB, id string) (*models.Post, error)
	// ListRecentPosts returns posts newest first with author, likes and comments (oldest first)
	ListRecentPosts(ctx context.Context, tx *gorm.DB, filters PostFilters) ([]models.Post, error)

	FindLike(ctx context.Context, tx *gorm.DB, postID, userID string) (*models.Like, error)
	CreateLike(ctx context.Context, tx *gorm.DB, like *models.Like) error
	DeleteLike(ctx context.Context, tx *gorm.DB, id string) error

	CreateComment(ctx context.Context, tx *gorm.DB, comment *models.Comment) error
}
