package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/academy-service/internal/models"
	"github.com/SAP-F-2025/academy-service/internal/repositories"
)

const defaultFeedLimit = 30

// ===== NOTES =====

type NotePostgreSQL struct {
	baseRepository
}

func NewNotePostgreSQL(db *gorm.DB) repositories.NoteRepository {
	return &NotePostgreSQL{baseRepository{db: db}}
}

func (n *NotePostgreSQL) Create(ctx context.Context, tx *gorm.DB, note *models.Note) error {
	db := n.getDB(tx)
	return db.WithContext(ctx).Create(note).Error
}

func (n *NotePostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Note, error) {
	db := n.getDB(tx)
	var note models.Note
	if err := db.WithContext(ctx).
		Preload("Lesson.Module.Course").
		First(&note, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &note, nil
}

func (n *NotePostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	db := n.getDB(tx)
	result := db.WithContext(ctx).Delete(&models.Note{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete note: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (n *NotePostgreSQL) ListByLesson(ctx context.Context, tx *gorm.DB, userID, lessonID string) ([]models.Note, error) {
	db := n.getDB(tx)
	var notes []models.Note
	if err := db.WithContext(ctx).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		Order("created_at DESC").
		Find(&notes).Error; err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	return notes, nil
}

// ===== COMMUNITY =====

type CommunityPostgreSQL struct {
	baseRepository
}

func NewCommunityPostgreSQL(db *gorm.DB) repositories.CommunityRepository {
	return &CommunityPostgreSQL{baseRepository{db: db}}
}

func (c *CommunityPostgreSQL) CreatePost(ctx context.Context, tx *gorm.DB, post *models.Post) error {
	db := c.getDB(tx)
	return db.WithContext(ctx).Omit("User", "Likes", "Comments").Create(post).Error
}

func (c *CommunityPostgreSQL) GetPost(ctx context.Context, tx *gorm.DB, id string) (*models.Post, error) {
	db := c.getDB(tx)
	var post models.Post
	if err := db.WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *CommunityPostgreSQL) ListRecentPosts(ctx context.Context, tx *gorm.DB, filters repositories.PostFilters) ([]models.Post, error) {
	db := c.getDB(tx)
	limit := filters.Limit
	if limit <= 0 {
		limit = defaultFeedLimit
	}

	var posts []models.Post
	if err := db.WithContext(ctx).
		Preload("User").
		Preload("Likes").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Comments.User").
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

func (c *CommunityPostgreSQL) FindLike(ctx context.Context, tx *gorm.DB, postID, userID string) (*models.Like, error) {
	db := c.getDB(tx)
	var like models.Like
	if err := db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		First(&like).Error; err != nil {
		return nil, err
	}
	return &like, nil
}

func (c *CommunityPostgreSQL) CreateLike(ctx context.Context, tx *gorm.DB, like *models.Like) error {
	db := c.getDB(tx)
	return db.WithContext(ctx).Create(like).Error
}

func (c *CommunityPostgreSQL) DeleteLike(ctx context.Context, tx *gorm.DB, id string) error {
	db := c.getDB(tx)
	return db.WithContext(ctx).Delete(&models.Like{}, "id = ?", id).Error
}

func (c *CommunityPostgreSQL) CreateComment(ctx context.Context, tx *gorm.DB, comment *models.Comment) error {
	db := c.getDB(tx)
	return db.WithContext(ctx).Omit("User").Create(comment).Error
}
