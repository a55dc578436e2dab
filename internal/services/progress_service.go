package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/academy-service/internal/cache"
	"github.com/SAP-F-2025/academy-service/internal/events"
	"github.com/SAP-F-2025/academy-service/internal/models"
	"github.com/SAP-F-2025/academy-service/internal/observability"
	"github.com/SAP-F-2025/academy-service/internal/repositories"
	"github.com/SAP-F-2025/academy-service/internal/validator"
)

type progressService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	effects   afterCommit
	now       func() time.Time
}

func NewProgressService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, cm *cache.CacheManager, publisher events.EventPublisher) ProgressService {
	return &progressService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		effects:   newAfterCommit(cm, publisher, logger),
		now:       time.Now,
	}
}

func (s *progressService) ToggleCompletion(ctx context.Context, actor Actor, lessonID, pathHint string) (*ToggleCompletionResult, error) {
	ctx, span := observability.StartSpan(ctx, "progress.toggle_completion",
		attribute.String("lesson_id", lessonID),
		attribute.String("user_id", actor.UserID))
	defer span.End()

	s.logger.Info("Toggling lesson completion",
		"lesson_id", lessonID,
		"user_id", actor.UserID)

	if actor.UserID == "" {
		return nil, ErrUnauthorized
	}

	lc, err := s.repo.Course().GetLessonContext(ctx, s.db, lessonID, actor.UserID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrLessonNotFound
		}
		s.logger.Error("Failed to load lesson", "lesson_id", lessonID, "error", err)
		return nil, ErrProgressUpdateFailed
	}

	if !CanAccessCourse(actor.Role, lc.Course, lc.HasActiveEnrollment) {
		return nil, NewPermissionError(actor.UserID, lessonID, "lesson", "toggle_completion", "no active enrollment for this course")
	}

	result := &ToggleCompletionResult{Success: true}
	var badge *models.GamificationBadge

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := s.repo.User().LockByID(ctx, tx, actor.UserID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrUnauthorized
			}
			return fmt.Errorf("failed to lock user: %w", err)
		}

		progress, err := s.repo.Progress().Get(ctx, tx, actor.UserID, lessonID)
		if err != nil && !repositories.IsNotFoundError(err) {
			return fmt.Errorf("failed to get progress: %w", err)
		}

		if progress.IsCompleted() {
			if err := s.repo.Progress().Delete(ctx, tx, actor.UserID, lessonID); err != nil {
				return fmt.Errorf("failed to delete progress: %w", err)
			}
			deducted, err := s.repo.User().DeductPoints(ctx, tx, actor.UserID, models.LessonCompletionPoints)
			if err != nil {
				return err
			}
			result.Completed = false
			result.Points = user.Points
			if deducted {
				result.Points -= models.LessonCompletionPoints
			}
			return nil
		}

		if err := s.repo.Progress().MarkCompleted(ctx, tx, actor.UserID, lessonID, s.now()); err != nil {
			return fmt.Errorf("failed to mark lesson completed: %w", err)
		}
		if err := s.repo.User().AddPoints(ctx, tx, actor.UserID, models.LessonCompletionPoints); err != nil {
			return err
		}
		result.Completed = true
		result.Points = user.Points + models.LessonCompletionPoints

		completed, err := s.repo.Progress().CountCompleted(ctx, tx, actor.UserID)
		if err != nil {
			return err
		}
		if completed == 1 {
			badge, err = awardBadgeOnce(ctx, s.repo, tx, actor.UserID,
				models.BadgeFirstSteps, models.BadgeFirstStepsDescription)
			if err != nil {
				return fmt.Errorf("failed to award badge: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			return nil, ErrUnauthorized
		}
		span.RecordError(err)
		s.logger.Error("Failed to toggle lesson completion",
			"lesson_id", lessonID,
			"user_id", actor.UserID,
			"error", err)
		return nil, ErrProgressUpdateFailed
	}

	result.BadgeAwarded = badgeName(badge)
	result.Revalidate = compactPaths(
		pathHint,
		models.LessonPath(lc.Course.Slug, lc.Lesson.Slug),
		models.ProfilePath,
	)
	s.effects.revalidate(ctx, actor.UserID, result.Revalidate...)

	eventType := events.LessonUncompleted
	if result.Completed {
		eventType = events.LessonCompleted
	}
	evs := []events.Event{events.NewEvent(eventType, actor.UserID, map[string]interface{}{
		"lesson_id": lessonID,
		"course_id": lc.Course.ID,
		"points":    result.Points,
	})}
	if badge != nil {
		evs = append(evs, badgeAwardedEvent(badge))
	}
	s.effects.publish(ctx, evs...)

	s.logger.Info("Lesson completion toggled",
		"lesson_id", lessonID,
		"user_id", actor.UserID,
		"completed", result.Completed,
		"points", result.Points)

	return result, nil
}
