package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/academy-service/internal/cache"
	"github.com/SAP-F-2025/academy-service/internal/events"
	"github.com/SAP-F-2025/academy-service/internal/models"
	"github.com/SAP-F-2025/academy-service/internal/repositories"
	"github.com/SAP-F-2025/academy-service/internal/utils"
	"github.com/SAP-F-2025/academy-service/internal/validator"
)

const lessonSlugAttempts = 3

type adminService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	effects   afterCommit
	now       func() time.Time
}

func NewAdminService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, cm *cache.CacheManager, publisher events.EventPublisher) AdminService {
	return &adminService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		effects:   newAfterCommit(cm, publisher, logger),
		now:       time.Now,
	}
}

// LessonSlug builds a lesson slug from its title and the last four digits of
// the unix millisecond clock.
func LessonSlug(title string, at time.Time) string {
	millis := strconv.FormatInt(at.UnixMilli(), 10)
	if len(millis) > 4 {
		millis = millis[len(millis)-4:]
	}
	return utils.Slugify(title) + "-" + millis
}

func (s *adminService) CreateLesson(ctx context.Context, actor Actor, req *validator.CreateLessonRequest) (*models.Lesson, error) {
	if actor.Role != models.RoleAdmin {
		return nil, NewPermissionError(actor.UserID, "", "lesson", "create", "admin only")
	}
	if req == nil || strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.YoutubeID) == "" || strings.TrimSpace(req.ModuleID) == "" {
		return nil, ErrMissingFields
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	s.logger.Info("Creating lesson",
		"module_id", req.ModuleID,
		"title", req.Title,
		"admin_id", actor.UserID)

	module, err := s.repo.Course().GetModule(ctx, s.db, req.ModuleID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvalidModule
		}
		return nil, fmt.Errorf("failed to get module: %w", err)
	}

	var lesson *models.Lesson
	for attempt := 0; attempt < lessonSlugAttempts; attempt++ {
		lesson, err = s.createLesson(ctx, req, s.now().Add(time.Duration(attempt)*time.Millisecond))
		if err == nil || !repositories.IsDuplicateError(err) {
			break
		}
		s.logger.Warn("Lesson slug collision, retrying", "title", req.Title, "attempt", attempt+1)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create lesson: %w", err)
	}

	var paths []string
	if module.Course != nil {
		paths = append(paths, models.CoursePath(module.Course.Slug))
	}
	s.effects.revalidate(ctx, "", paths...)
	s.effects.publish(ctx, events.NewEvent(events.LessonCreated, actor.UserID, map[string]interface{}{
		"lesson_id": lesson.ID,
		"module_id": lesson.ModuleID,
		"slug":      lesson.Slug,
	}))

	return lesson, nil
}

func (s *adminService) createLesson(ctx context.Context, req *validator.CreateLessonRequest, at time.Time) (*models.Lesson, error) {
	lesson := &models.Lesson{
		ModuleID:       req.ModuleID,
		Slug:           LessonSlug(req.Title, at),
		Title:          req.Title,
		Description:    req.Description,
		YoutubeVideoID: req.YoutubeID,
		DurationSec:    req.DurationSec,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		last, err := s.repo.Course().GetLastLessonOrder(ctx, tx, req.ModuleID)
		if err != nil {
			return err
		}
		lesson.Order = last + 1
		return s.repo.Course().CreateLesson(ctx, tx, lesson)
	})
	if err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *adminService) Enroll(ctx context.Context, actor Actor, req *validator.EnrollRequest) (*models.Enrollment, error) {
	if actor.Role != models.RoleAdmin {
		return nil, NewPermissionError(actor.UserID, "", "enrollment", "create", "admin only")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.repo.User().GetByID(ctx, s.db, req.UserID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	course, err := s.repo.Course().GetCourseByID(ctx, s.db, req.CourseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	enrollment := &models.Enrollment{
		UserID:   req.UserID,
		CourseID: course.ID,
		Status:   models.EnrollmentActive,
	}
	if err := s.repo.Course().UpsertEnrollment(ctx, s.db, enrollment); err != nil {
		return nil, fmt.Errorf("failed to enroll user: %w", err)
	}

	s.logger.Info("User enrolled",
		"user_id", req.UserID,
		"course_id", course.ID,
		"admin_id", actor.UserID)

	s.effects.revalidate(ctx, req.UserID, models.CatalogPath)
	return enrollment, nil
}
