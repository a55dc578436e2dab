package services

import (
	"context"
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
)

type certificateService struct {
	repo    repositories.Repository
	db      *gorm.DB
	logger  *slog.Logger
	effects afterCommit
	now     func() time.Time
}

func NewCertificateService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, cm *cache.CacheManager, publisher events.EventPublisher) CertificateService {
	return &certificateService{
		repo:    repo,
		db:      db,
		logger:  logger,
		effects: newAfterCommit(cm, publisher, logger),
		now:     time.Now,
	}
}

// EnsureCertificate issues the course certificate once every lesson is done.
// Repeated calls return the certificate created by the first one.
func (s *certificateService) EnsureCertificate(ctx context.Context, userID, courseID string) (*models.Certificate, error) {
	ctx, span := observability.StartSpan(ctx, "certificate.ensure",
		attribute.String("course_id", courseID),
		attribute.String("user_id", userID))
	defer span.End()

	var (
		certificate *models.Certificate
		created     bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		completion, err := s.repo.Progress().CourseCompletion(ctx, tx, userID, courseID)
		if err != nil {
			return err
		}
		if !completion.IsComplete() {
			return NewBusinessRuleError(ErrCourseNotCompleted, "course_completion", map[string]interface{}{
				"total_lessons":     completion.TotalLessons,
				"completed_lessons": completion.CompletedLessons,
			})
		}

		existing, err := s.repo.Certificate().Get(ctx, tx, userID, courseID)
		if err == nil {
			certificate = existing
			return nil
		}
		if !repositories.IsNotFoundError(err) {
			return fmt.Errorf("failed to get certificate: %w", err)
		}

		candidate := &models.Certificate{
			UserID:   userID,
			CourseID: courseID,
			IssuedAt: s.now(),
		}
		created, err = s.repo.Certificate().CreateIfAbsent(ctx, tx, candidate)
		if err != nil {
			return err
		}

		// Re-read so a concurrent winner's row is returned
		certificate, err = s.repo.Certificate().Get(ctx, tx, userID, courseID)
		if err != nil {
			return fmt.Errorf("failed to reload certificate: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if created {
		s.logger.Info("Certificate issued",
			"certificate_id", certificate.ID,
			"course_id", courseID,
			"user_id", userID)
		s.effects.revalidate(ctx, userID, models.ProfilePath)
		s.effects.publish(ctx, events.NewEvent(events.CertificateIssued, userID, map[string]interface{}{
			"certificate_id": certificate.ID,
			"course_id":      courseID,
			"issued_at":      certificate.IssuedAt,
		}))
	}

	return certificate, nil
}

func (s *certificateService) GetCertificateView(ctx context.Context, actor Actor, courseSlug string) (*models.CertificateView, error) {
	if actor.UserID == "" {
		return nil, ErrUnauthorized
	}

	user, err := s.repo.User().GetByID(ctx, s.db, actor.UserID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	course, err := s.repo.Course().GetCourseBySlug(ctx, s.db, courseSlug)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	completion, err := s.repo.Progress().CourseCompletion(ctx, s.db, actor.UserID, course.ID)
	if err != nil {
		return nil, err
	}

	view := &models.CertificateView{
		Status:           models.CertificateNotCompleted,
		UserName:         user.Name,
		CourseSlug:       course.Slug,
		CourseTitle:      course.Title,
		TotalLessons:     completion.TotalLessons,
		CompletedLessons: completion.CompletedLessons,
	}
	if !completion.IsComplete() {
		return view, nil
	}

	certificate, err := s.EnsureCertificate(ctx, actor.UserID, course.ID)
	if err != nil {
		return nil, err
	}

	studySeconds, err := s.repo.Progress().SumStudySeconds(ctx, s.db, actor.UserID, &course.ID)
	if err != nil {
		return nil, err
	}

	view.Status = models.CertificateIssued
	view.Certificate = certificate
	view.StudySeconds = studySeconds
	return view, nil
}
