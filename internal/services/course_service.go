package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/academy-service/internal/cache"
	"github.com/SAP-F-2025/academy-service/internal/models"
	"github.com/SAP-F-2025/academy-service/internal/repositories"
)

type courseService struct {
	repo   repositories.Repository
	db     *gorm.DB
	logger *slog.Logger
	cache  *cache.CacheManager
}

func NewCourseService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, cm *cache.CacheManager) CourseService {
	if cm == nil {
		cm = cache.NewCacheManager(nil)
	}
	return &courseService{
		repo:   repo,
		db:     db,
		logger: logger,
		cache:  cm,
	}
}

// ===== CATALOG =====

// ListCatalog returns the courses the actor is actively enrolled in and may see.
// Roles without an audience (STUDENT) have an empty catalog.
func (s *courseService) ListCatalog(ctx context.Context, actor Actor) ([]models.CatalogCourse, error) {
	if actor.UserID == "" {
		return nil, ErrUnauthorized
	}
	if actor.Role != models.RoleAdmin && actor.Role != models.RoleGestor && actor.Role != models.RoleVendedor {
		return []models.CatalogCourse{}, nil
	}

	var catalog []models.CatalogCourse
	err := s.cache.Catalog.CacheOrExecute(ctx, actor.UserID, &catalog, cache.CatalogCacheConfig.TTL, func() (interface{}, error) {
		return s.buildCatalog(ctx, actor)
	})
	if err != nil {
		return nil, err
	}
	return catalog, nil
}

func (s *courseService) buildCatalog(ctx context.Context, actor Actor) ([]models.CatalogCourse, error) {
	enrollments, err := s.repo.Course().ListActiveEnrollments(ctx, s.db, actor.UserID)
	if err != nil {
		return nil, err
	}

	catalog := make([]models.CatalogCourse, 0, len(enrollments))
	for _, enrollment := range enrollments {
		course := enrollment.Course
		if course == nil || !CanSeeInCatalog(actor.Role, course) {
			continue
		}

		outline, err := s.repo.Course().GetCourseOutline(ctx, s.db, course.ID)
		if err != nil {
			return nil, err
		}
		completed, err := s.repo.Progress().CompletedLessonIDs(ctx, s.db, actor.UserID, course.ID)
		if err != nil {
			return nil, err
		}

		item := models.CatalogCourse{
			ID:          course.ID,
			Slug:        course.Slug,
			Title:       course.Title,
			Description: course.Description,
			CoverImage:  course.CoverImage,
			Audience:    course.Audience,
			ModuleCount: len(outline),
			Completed:   len(completed),
			EnrolledAt:  enrollment.CreatedAt,
		}
		for _, module := range outline {
			item.LessonCount += len(module.Lessons)
			if item.FirstLesson == nil && len(module.Lessons) > 0 {
				slug := module.Lessons[0].Slug
				item.FirstLesson = &slug
			}
		}
		catalog = append(catalog, item)
	}

	return catalog, nil
}

// ===== LESSON VIEW =====

// GetLessonView renders a lesson page. Lessons outside courseSlug and lessons
// the actor may not access are reported as not found.
func (s *courseService) GetLessonView(ctx context.Context, actor Actor, courseSlug, lessonSlug string) (*models.LessonView, error) {
	if actor.UserID == "" {
		return nil, ErrUnauthorized
	}

	lc, err := s.repo.Course().GetLessonContextBySlug(ctx, s.db, lessonSlug, actor.UserID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrLessonNotFound
		}
		return nil, fmt.Errorf("failed to get lesson: %w", err)
	}
	if lc.Course.Slug != courseSlug {
		return nil, ErrLessonNotFound
	}
	if !CanAccessCourse(actor.Role, lc.Course, lc.HasActiveEnrollment) {
		s.logger.Info("Lesson view denied",
			"lesson_slug", lessonSlug,
			"user_id", actor.UserID)
		return nil, ErrLessonNotFound
	}

	var view models.LessonView
	key := cache.ViewKey(actor.UserID, models.LessonPath(courseSlug, lessonSlug))
	err = s.cache.View.CacheOrExecute(ctx, key, &view, cache.ViewCacheConfig.TTL, func() (interface{}, error) {
		return s.buildLessonView(ctx, actor, lc)
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (s *courseService) buildLessonView(ctx context.Context, actor Actor, lc *repositories.LessonContext) (*models.LessonView, error) {
	course := lc.Course
	lesson := lc.Lesson

	outline, err := s.repo.Course().GetCourseOutline(ctx, s.db, course.ID)
	if err != nil {
		return nil, err
	}
	completed, err := s.repo.Progress().CompletedLessonIDs(ctx, s.db, actor.UserID, course.ID)
	if err != nil {
		return nil, err
	}
	notes, err := s.repo.Note().ListByLesson(ctx, s.db, actor.UserID, lesson.ID)
	if err != nil {
		return nil, err
	}

	view := &models.LessonView{
		Lesson:      *lesson,
		CourseID:    course.ID,
		CourseSlug:  course.Slug,
		CourseTitle: course.Title,
		Completed:   completed[lesson.ID],
		ModuleCount: len(outline),
		Outline:     make([]models.OutlineModule, 0, len(outline)),
		Notes:       notes,
		TogglePath:  models.LessonPath(course.Slug, lesson.Slug),
	}
	view.Lesson.Module = nil
	view.Lesson.Quiz = nil

	var flat []models.Lesson
	for _, module := range outline {
		om := models.OutlineModule{
			ID:      module.ID,
			Title:   module.Title,
			Order:   module.Order,
			Lessons: make([]models.OutlineLesson, 0, len(module.Lessons)),
		}
		for _, l := range module.Lessons {
			done := completed[l.ID]
			if done {
				om.CompletedCount++
			}
			om.Lessons = append(om.Lessons, models.OutlineLesson{
				ID:        l.ID,
				Slug:      l.Slug,
				Title:     l.Title,
				Order:     l.Order,
				Completed: done,
				Active:    l.ID == lesson.ID,
			})
			flat = append(flat, l)
		}
		view.Outline = append(view.Outline, om)
	}
	view.LessonCount = len(flat)
	view.CourseIsDone = models.CourseCompletion{
		TotalLessons:     int64(len(flat)),
		CompletedLessons: int64(len(completed)),
	}.IsComplete()

	for i, l := range flat {
		if l.ID != lesson.ID {
			continue
		}
		if i > 0 {
			view.Previous = lessonLink(course.Slug, flat[i-1])
		}
		if i < len(flat)-1 {
			view.Next = lessonLink(course.Slug, flat[i+1])
		}
		break
	}

	quiz, err := s.repo.Quiz().GetByLessonID(ctx, s.db, lesson.ID)
	if err != nil && !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to get lesson quiz: %w", err)
	}
	if quiz != nil {
		attempts, err := s.repo.Quiz().ListAttempts(ctx, s.db, actor.UserID, quiz.ID)
		if err != nil {
			return nil, err
		}
		summary := &models.LessonQuizSummary{
			ID:       quiz.ID,
			Title:    quiz.Title,
			Path:     models.QuizPath(quiz.ID),
			Attempts: len(attempts),
		}
		for _, a := range attempts {
			if a.Score > summary.BestScore {
				summary.BestScore = a.Score
			}
			if a.Passed {
				summary.Passed = true
			}
		}
		view.Quiz = summary
	}

	return view, nil
}

func lessonLink(courseSlug string, lesson models.Lesson) *models.LessonLink {
	return &models.LessonLink{
		Slug:  lesson.Slug,
		Title: lesson.Title,
		Path:  models.LessonPath(courseSlug, lesson.Slug),
	}
}
