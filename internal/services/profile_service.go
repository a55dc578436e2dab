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

type profileService struct {
	repo   repositories.Repository
	db     *gorm.DB
	logger *slog.Logger
	cache  *cache.CacheManager
}

func NewProfileService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, cm *cache.CacheManager) ProfileService {
	if cm == nil {
		cm = cache.NewCacheManager(nil)
	}
	return &profileService{
		repo:   repo,
		db:     db,
		logger: logger,
		cache:  cm,
	}
}

func (s *profileService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, s.db, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *profileService) GetProfile(ctx context.Context, userID string) (*models.ProfileView, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}

	var profile models.ProfileView
	err := s.cache.Profile.CacheOrExecute(ctx, userID, &profile, cache.ProfileCacheConfig.TTL, func() (interface{}, error) {
		return s.buildProfile(ctx, userID)
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *profileService) buildProfile(ctx context.Context, userID string) (*models.ProfileView, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	badges, err := s.repo.Gamification().ListBadges(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	certificates, err := s.repo.Certificate().ListByUser(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	completedLessons, err := s.repo.Progress().CountCompleted(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	studySeconds, err := s.repo.Progress().SumStudySeconds(ctx, s.db, userID, nil)
	if err != nil {
		return nil, err
	}
	quizzesPassed, err := s.repo.Quiz().CountPassedQuizzes(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	enrollments, err := s.repo.Course().ListActiveEnrollments(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}

	profile := &models.ProfileView{
		User:             *user,
		Points:           user.Points,
		Badges:           badges,
		Certificates:     make([]models.CertificateSummary, 0, len(certificates)),
		CompletedLessons: completedLessons,
		StudySeconds:     studySeconds,
		CoursesEnrolled:  len(enrollments),
		QuizzesPassed:    quizzesPassed,
	}

	for _, enrollment := range enrollments {
		completion, err := s.repo.Progress().CourseCompletion(ctx, s.db, userID, enrollment.CourseID)
		if err != nil {
			return nil, err
		}
		if completion.IsComplete() {
			profile.CoursesCompleted++
		}
	}

	for _, c := range certificates {
		summary := models.CertificateSummary{
			ID:       c.ID,
			IssuedAt: c.IssuedAt,
		}
		if c.Course != nil {
			summary.CourseSlug = c.Course.Slug
			summary.CourseTitle = c.Course.Title
		}
		profile.Certificates = append(profile.Certificates, summary)
	}

	return profile, nil
}
