package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/academy-service/internal/cache"
	"github.com/SAP-F-2025/academy-service/internal/models"
	"github.com/SAP-F-2025/academy-service/internal/repositories"
	"github.com/SAP-F-2025/academy-service/internal/validator"
)

type noteService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	effects   afterCommit
}

func NewNoteService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, cm *cache.CacheManager) NoteService {
	return &noteService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		effects:   newAfterCommit(cm, nil, logger),
	}
}

func (s *noteService) Create(ctx context.Context, actor Actor, lessonID string, req *validator.CreateNoteRequest) (*models.Note, error) {
	s.logger.Info("Creating note", "lesson_id", lessonID, "user_id", actor.UserID)

	if actor.UserID == "" {
		return nil, ErrUnauthorized
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	lc, err := s.authorizedLesson(ctx, actor, lessonID, "create_note")
	if err != nil {
		return nil, err
	}

	note := &models.Note{
		UserID:    actor.UserID,
		LessonID:  lessonID,
		Content:   req.Content,
		Timestamp: req.Timestamp,
	}
	if err := s.repo.Note().Create(ctx, s.db, note); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	s.effects.revalidate(ctx, "", models.LessonPath(lc.Course.Slug, lc.Lesson.Slug))
	return note, nil
}

func (s *noteService) List(ctx context.Context, actor Actor, lessonID string) ([]models.Note, error) {
	if actor.UserID == "" {
		return nil, ErrUnauthorized
	}

	if _, err := s.authorizedLesson(ctx, actor, lessonID, "list_notes"); err != nil {
		if isForbidden(err) {
			return nil, ErrLessonNotFound
		}
		return nil, err
	}

	return s.repo.Note().ListByLesson(ctx, s.db, actor.UserID, lessonID)
}

// Delete removes a note owned by the actor. Foreign notes look missing.
func (s *noteService) Delete(ctx context.Context, actor Actor, noteID string) error {
	s.logger.Info("Deleting note", "note_id", noteID, "user_id", actor.UserID)

	if actor.UserID == "" {
		return ErrUnauthorized
	}

	note, err := s.repo.Note().GetByID(ctx, s.db, noteID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrNoteNotFound
		}
		return fmt.Errorf("failed to get note: %w", err)
	}
	if note.UserID != actor.UserID {
		return ErrNoteNotFound
	}

	if err := s.repo.Note().Delete(ctx, s.db, noteID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrNoteNotFound
		}
		return err
	}

	if note.Lesson != nil && note.Lesson.Module != nil && note.Lesson.Module.Course != nil {
		s.effects.revalidate(ctx, "", models.LessonPath(note.Lesson.Module.Course.Slug, note.Lesson.Slug))
	}
	return nil
}

func (s *noteService) authorizedLesson(ctx context.Context, actor Actor, lessonID, action string) (*repositories.LessonContext, error) {
	lc, err := s.repo.Course().GetLessonContext(ctx, s.db, lessonID, actor.UserID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrLessonNotFound
		}
		return nil, fmt.Errorf("failed to get lesson: %w", err)
	}
	if !CanAccessCourse(actor.Role, lc.Course, lc.HasActiveEnrollment) {
		return nil, NewPermissionError(actor.UserID, lessonID, "lesson", action, "no active enrollment for this course")
	}
	return lc, nil
}
