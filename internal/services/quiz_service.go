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

type quizService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	cache     *cache.CacheManager
	effects   afterCommit
	now       func() time.Time
}

func NewQuizService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, cm *cache.CacheManager, publisher events.EventPublisher) QuizService {
	effects := newAfterCommit(cm, publisher, logger)
	return &quizService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		cache:     effects.cache,
		effects:   effects,
		now:       time.Now,
	}
}

// ===== SUBMISSION =====

func (s *quizService) SubmitAttempt(ctx context.Context, actor Actor, quizID string, req *validator.SubmitAttemptRequest) (*SubmitAttemptResult, error) {
	ctx, span := observability.StartSpan(ctx, "quiz.submit_attempt",
		attribute.String("quiz_id", quizID),
		attribute.String("user_id", actor.UserID))
	defer span.End()

	s.logger.Info("Submitting quiz attempt",
		"quiz_id", quizID,
		"user_id", actor.UserID)

	if actor.UserID == "" {
		return nil, ErrUnauthorized
	}
	if req == nil {
		return nil, ErrAllQuestionsRequired
	}

	quiz, err := s.loadQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if len(quiz.Questions) == 0 {
		return nil, ErrQuizWithoutQuestions
	}
	if err := s.authorizeQuiz(ctx, actor, quiz, "submit"); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	answers, correct, err := gradeAnswers(quiz.Questions, req.Answers)
	if err != nil {
		return nil, err
	}
	score, passed := ScoreAttempt(correct, len(quiz.Questions))

	attempt := &models.QuizAttempt{
		UserID:      actor.UserID,
		QuizID:      quiz.ID,
		Score:       score,
		Passed:      passed,
		CompletedAt: s.now(),
		Answers:     answers,
	}

	result := &SubmitAttemptResult{Success: true, Score: score, Passed: passed}
	var badge *models.GamificationBadge

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.repo.User().LockByID(ctx, tx, actor.UserID); err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrUnauthorized
			}
			return fmt.Errorf("failed to lock user: %w", err)
		}

		alreadyPassed := false
		if passed {
			alreadyPassed, err = s.repo.Quiz().HasPassed(ctx, tx, actor.UserID, quiz.ID)
			if err != nil {
				return err
			}
		}

		if err := s.repo.Quiz().CreateAttempt(ctx, tx, attempt); err != nil {
			return err
		}

		if !passed || alreadyPassed {
			return nil
		}

		if err := s.repo.User().AddPoints(ctx, tx, actor.UserID, models.QuizPassPoints); err != nil {
			return err
		}
		result.PointsAwarded = models.QuizPassPoints

		passedCount, err := s.repo.Quiz().CountPassedAttempts(ctx, tx, actor.UserID)
		if err != nil {
			return err
		}
		if passedCount == 1 {
			badge, err = awardBadgeOnce(ctx, s.repo, tx, actor.UserID,
				models.BadgeFirstQuiz, models.BadgeFirstQuizDescription)
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
		s.logger.Error("Failed to submit quiz attempt",
			"quiz_id", quizID,
			"user_id", actor.UserID,
			"error", err)
		return nil, ErrQuizSubmitFailed
	}

	result.AttemptID = attempt.ID
	result.BadgeAwarded = badgeName(badge)
	result.Revalidate = compactPaths(models.QuizPath(quiz.ID), quizLessonPath(quiz))
	if result.PointsAwarded > 0 {
		result.Revalidate = append(result.Revalidate, models.ProfilePath)
	}
	s.effects.revalidate(ctx, actor.UserID, result.Revalidate...)

	evs := []events.Event{events.NewEvent(events.QuizAttemptSubmitted, actor.UserID, map[string]interface{}{
		"quiz_id":        quiz.ID,
		"attempt_id":     attempt.ID,
		"score":          score,
		"passed":         passed,
		"points_awarded": result.PointsAwarded,
	})}
	if badge != nil {
		evs = append(evs, badgeAwardedEvent(badge))
	}
	s.effects.publish(ctx, evs...)

	s.logger.Info("Quiz attempt submitted",
		"quiz_id", quizID,
		"attempt_id", attempt.ID,
		"score", score,
		"passed", passed)

	return result, nil
}

// gradeAnswers checks the submission covers every question exactly once and
// builds the answer rows in question order.
func gradeAnswers(questions []models.Question, submitted []validator.AnswerInput) ([]models.QuizAnswer, int, error) {
	selected := make(map[string]string, len(submitted))
	for _, a := range submitted {
		selected[a.QuestionID] = a.SelectedOptionID
	}
	if len(submitted) != len(questions) || len(selected) != len(questions) {
		return nil, 0, ErrAllQuestionsRequired
	}

	answers := make([]models.QuizAnswer, 0, len(questions))
	correct := 0
	for _, q := range questions {
		optionID, ok := selected[q.ID]
		if !ok || optionID == "" {
			return nil, 0, ErrInvalidAnswerPayload
		}
		isCorrect := optionID == q.CorrectOptionID
		if isCorrect {
			correct++
		}
		answers = append(answers, models.QuizAnswer{
			QuestionID:       q.ID,
			SelectedOptionID: optionID,
			IsCorrect:        isCorrect,
		})
	}
	return answers, correct, nil
}

// ===== VIEW =====

func (s *quizService) GetQuizView(ctx context.Context, actor Actor, quizID string) (*models.QuizView, error) {
	if actor.UserID == "" {
		return nil, ErrUnauthorized
	}

	quiz, err := s.loadQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeQuiz(ctx, actor, quiz, "read"); err != nil {
		if errors.Is(err, ErrForbidden) {
			return nil, ErrQuizNotFound
		}
		return nil, err
	}

	var view models.QuizView
	err = s.cache.View.CacheOrExecute(ctx, cache.ViewKey(actor.UserID, models.QuizPath(quiz.ID)), &view,
		cache.ViewCacheConfig.TTL, func() (interface{}, error) {
			return s.buildQuizView(ctx, actor, quiz)
		})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (s *quizService) buildQuizView(ctx context.Context, actor Actor, quiz *models.Quiz) (*models.QuizView, error) {
	view := &models.QuizView{
		ID:          quiz.ID,
		Title:       quiz.Title,
		Description: quiz.Description,
		BackPath:    quizLessonPath(quiz),
		Questions:   make([]models.QuizViewQuestion, 0, len(quiz.Questions)),
	}
	if view.BackPath == "" {
		view.BackPath = models.CatalogPath
	}

	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		options, err := q.ParseOptions()
		if err != nil {
			return nil, err
		}
		view.Questions = append(view.Questions, models.QuizViewQuestion{
			ID:      q.ID,
			Text:    q.Text,
			Order:   q.Order,
			Options: options,
		})
	}

	latest, err := s.repo.Quiz().GetLatestPassing(ctx, s.db, actor.UserID, quiz.ID)
	if err != nil && !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to get latest passing attempt: %w", err)
	}
	view.LatestPassing = latest

	return view, nil
}

// ===== HELPERS =====

func (s *quizService) loadQuiz(ctx context.Context, quizID string) (*models.Quiz, error) {
	quiz, err := s.repo.Quiz().GetWithQuestions(ctx, s.db, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}
	return quiz, nil
}

// authorizeQuiz applies the course gate of the quiz's lesson.
// Standalone quizzes are reserved to admins.
func (s *quizService) authorizeQuiz(ctx context.Context, actor Actor, quiz *models.Quiz, action string) error {
	if quiz.Lesson == nil {
		if actor.Role != models.RoleAdmin {
			return NewPermissionError(actor.UserID, quiz.ID, "quiz", action, "standalone quiz")
		}
		return nil
	}

	if quiz.Lesson.Module == nil || quiz.Lesson.Module.Course == nil {
		return ErrQuizNotFound
	}
	course := quiz.Lesson.Module.Course

	enrolled, err := s.repo.Course().HasActiveEnrollment(ctx, s.db, actor.UserID, course.ID)
	if err != nil {
		return err
	}
	if !CanAccessCourse(actor.Role, course, enrolled) {
		return NewPermissionError(actor.UserID, quiz.ID, "quiz", action, "no active enrollment for this course")
	}
	return nil
}

func quizLessonPath(quiz *models.Quiz) string {
	if quiz.Lesson == nil || quiz.Lesson.Module == nil || quiz.Lesson.Module.Course == nil {
		return ""
	}
	return models.LessonPath(quiz.Lesson.Module.Course.Slug, quiz.Lesson.Slug)
}
