package services

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/SAP-F-2025/academy-service/internal/events"
	"github.com/SAP-F-2025/academy-service/internal/models"
	"github.com/SAP-F-2025/academy-service/internal/repositories"
	"github.com/SAP-F-2025/academy-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/academy-service/internal/validator"
	"github.com/SAP-F-2025/academy-service/pkg"
)

type fixture struct {
	db        *gorm.DB
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	publisher *events.MockEventPublisher
	seq       int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, pkg.Migrate(db))

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &fixture{
		db:        db,
		repo:      postgres.NewPostgreSQLRepository(postgres.RepositoryConfig{DB: db}),
		logger:    log,
		validator: validator.New(),
		publisher: events.NewMockEventPublisher(log),
	}
}

func (f *fixture) next() int {
	f.seq++
	return f.seq
}

func (f *fixture) user(t *testing.T, role models.UserRole) *models.User {
	t.Helper()
	n := f.next()
	u := &models.User{
		Name:  fmt.Sprintf("User %d", n),
		Email: fmt.Sprintf("user%d@empresa.com", n),
		Role:  role,
	}
	require.NoError(t, f.db.Create(u).Error)
	return u
}

func (f *fixture) course(t *testing.T, slug string, audience models.UserRole) *models.Course {
	t.Helper()
	c := &models.Course{
		Slug:      slug,
		Title:     "Curso " + slug,
		Audience:  audience,
		Published: true,
	}
	require.NoError(t, f.db.Create(c).Error)
	return c
}

func (f *fixture) module(t *testing.T, course *models.Course, order int) *models.Module {
	t.Helper()
	m := &models.Module{CourseID: course.ID, Title: fmt.Sprintf("Modulo %d", order), Order: order}
	require.NoError(t, f.db.Create(m).Error)
	return m
}

func (f *fixture) lesson(t *testing.T, module *models.Module, order int) *models.Lesson {
	t.Helper()
	n := f.next()
	duration := 600
	l := &models.Lesson{
		ModuleID:       module.ID,
		Slug:           fmt.Sprintf("aula-%d", n),
		Title:          fmt.Sprintf("Aula %d", n),
		YoutubeVideoID: "dQw4w9WgXcQ",
		DurationSec:    &duration,
		Order:          order,
	}
	require.NoError(t, f.db.Create(l).Error)
	return l
}

func (f *fixture) enroll(t *testing.T, user *models.User, course *models.Course) {
	t.Helper()
	require.NoError(t, f.db.Create(&models.Enrollment{
		UserID:   user.ID,
		CourseID: course.ID,
		Status:   models.EnrollmentActive,
	}).Error)
}

// quiz creates a quiz with n questions whose correct option is always "a"
func (f *fixture) quiz(t *testing.T, lesson *models.Lesson, n int) *models.Quiz {
	t.Helper()
	q := &models.Quiz{Title: "Quiz"}
	if lesson != nil {
		q.LessonID = &lesson.ID
	}
	require.NoError(t, f.db.Create(q).Error)

	for i := 0; i < n; i++ {
		question := &models.Question{
			QuizID:          q.ID,
			Text:            fmt.Sprintf("Pergunta %d", i+1),
			Order:           i + 1,
			CorrectOptionID: "a",
		}
		require.NoError(t, question.SetOptions([]models.QuestionOption{
			{ID: "a", Text: "Certa"},
			{ID: "b", Text: "Errada"},
		}))
		require.NoError(t, f.db.Create(question).Error)
		q.Questions = append(q.Questions, *question)
	}
	return q
}

// answers answers the first `right` questions correctly and the rest wrong
func answers(q *models.Quiz, right int) *validator.SubmitAttemptRequest {
	req := &validator.SubmitAttemptRequest{}
	for i, question := range q.Questions {
		option := "b"
		if i < right {
			option = "a"
		}
		req.Answers = append(req.Answers, validator.AnswerInput{QuestionID: question.ID, SelectedOptionID: option})
	}
	return req
}

func (f *fixture) points(t *testing.T, userID string) int {
	t.Helper()
	var u models.User
	require.NoError(t, f.db.First(&u, "id = ?", userID).Error)
	return u.Points
}

func (f *fixture) count(t *testing.T, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}

func actorOf(u *models.User) Actor {
	return Actor{UserID: u.ID, Role: u.Role}
}
