package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/academy-service/internal/cache"
	"github.com/SAP-F-2025/academy-service/internal/events"
	"github.com/SAP-F-2025/academy-service/internal/models"
	"github.com/SAP-F-2025/academy-service/internal/repositories"
	"github.com/SAP-F-2025/academy-service/internal/utils"
	"github.com/SAP-F-2025/academy-service/internal/validator"
)

// Post titles are the content itself, shortened past this many characters
const postTitleMaxLength = 50

type communityService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	cache     *cache.CacheManager
	effects   afterCommit
}

func NewCommunityService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, cm *cache.CacheManager, publisher events.EventPublisher) CommunityService {
	effects := newAfterCommit(cm, publisher, logger)
	return &communityService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		cache:     effects.cache,
		effects:   effects,
	}
}

// PostTitle derives the title shown in the feed from the post content
func PostTitle(content string) string {
	return utils.Summarize(content, postTitleMaxLength)
}

func (s *communityService) ListFeed(ctx context.Context, actor Actor) ([]models.FeedPost, error) {
	if actor.UserID == "" {
		return nil, ErrUnauthorized
	}

	var feed []models.FeedPost
	err := s.cache.Feed.CacheOrExecute(ctx, actor.UserID, &feed, cache.FeedCacheConfig.TTL, func() (interface{}, error) {
		posts, err := s.repo.Community().ListRecentPosts(ctx, s.db, repositories.PostFilters{})
		if err != nil {
			return nil, err
		}
		return buildFeed(posts, actor.UserID), nil
	})
	if err != nil {
		return nil, err
	}
	return feed, nil
}

func buildFeed(posts []models.Post, viewerID string) []models.FeedPost {
	feed := make([]models.FeedPost, 0, len(posts))
	for _, p := range posts {
		item := models.FeedPost{
			ID:        p.ID,
			Title:     p.Title,
			Content:   p.Content,
			UserID:    p.UserID,
			LikeCount: len(p.Likes),
			Comments:  make([]models.FeedComment, 0, len(p.Comments)),
			CreatedAt: p.CreatedAt,
		}
		if p.User != nil {
			item.UserName = p.User.Name
			item.UserImage = p.User.Image
		}
		for _, like := range p.Likes {
			if like.UserID == viewerID {
				item.LikedByMe = true
				break
			}
		}
		for _, c := range p.Comments {
			fc := models.FeedComment{
				ID:        c.ID,
				Content:   c.Content,
				UserID:    c.UserID,
				CreatedAt: c.CreatedAt,
			}
			if c.User != nil {
				fc.UserName = c.User.Name
			}
			item.Comments = append(item.Comments, fc)
		}
		feed = append(feed, item)
	}
	return feed
}

func (s *communityService) CreatePost(ctx context.Context, actor Actor, req *validator.CreatePostRequest) (*models.Post, error) {
	s.logger.Info("Creating post", "user_id", actor.UserID)

	if actor.UserID == "" {
		return nil, ErrUnauthorized
	}
	if req == nil || strings.TrimSpace(req.Content) == "" {
		return nil, ErrContentRequired
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	post := &models.Post{
		UserID:  actor.UserID,
		Title:   PostTitle(req.Content),
		Content: req.Content,
	}
	if err := s.repo.Community().CreatePost(ctx, s.db, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	s.effects.revalidate(ctx, "", models.CommunityPath)
	s.effects.publish(ctx, events.NewEvent(events.PostCreated, actor.UserID, map[string]interface{}{
		"post_id": post.ID,
		"title":   post.Title,
	}))
	return post, nil
}

func (s *communityService) ToggleLike(ctx context.Context, actor Actor, postID string) (*ToggleLikeResult, error) {
	if actor.UserID == "" {
		return nil, ErrUnauthorized
	}

	result := &ToggleLikeResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.repo.Community().GetPost(ctx, tx, postID); err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrPostNotFound
			}
			return err
		}

		existing, err := s.repo.Community().FindLike(ctx, tx, postID, actor.UserID)
		if err != nil && !repositories.IsNotFoundError(err) {
			return err
		}
		if existing != nil {
			return s.repo.Community().DeleteLike(ctx, tx, existing.ID)
		}

		result.Liked = true
		return s.repo.Community().CreateLike(ctx, tx, &models.Like{PostID: postID, UserID: actor.UserID})
	})
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return nil, err
		}
		// A concurrent like by the same user already holds the unique slot
		if repositories.IsDuplicateError(err) {
			return &ToggleLikeResult{Liked: true}, nil
		}
		return nil, fmt.Errorf("failed to toggle like: %w", err)
	}

	s.effects.revalidate(ctx, "", models.CommunityPath)
	return result, nil
}

func (s *communityService) CreateComment(ctx context.Context, actor Actor, postID string, req *validator.CreateCommentRequest) (*models.Comment, error) {
	if actor.UserID == "" {
		return nil, ErrUnauthorized
	}
	if req == nil || strings.TrimSpace(req.Content) == "" {
		return nil, ErrContentRequired
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.repo.Community().GetPost(ctx, s.db, postID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	comment := &models.Comment{
		PostID:  postID,
		UserID:  actor.UserID,
		Content: req.Content,
	}
	if err := s.repo.Community().CreateComment(ctx, s.db, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	s.effects.revalidate(ctx, "", models.CommunityPath)
	return comment, nil
}
