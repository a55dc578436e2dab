package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/academy-service/internal/events"
	"github.com/SAP-F-2025/academy-service/internal/models"
	"github.com/SAP-F-2025/academy-service/internal/validator"
)

type quizFixture struct {
	*fixture
	svc     QuizService
	member  *models.User
	subject *models.Lesson
	track   *models.Course
}

func newQuizFixture(t *testing.T) *quizFixture {
	f := newFixture(t)
	user := f.user(t, models.RoleVendedor)
	course := f.course(t, "vendas", models.RoleVendedor)
	lesson := f.lesson(t, f.module(t, course, 1), 1)
	f.enroll(t, user, course)

	return &quizFixture{
		fixture: f,
		svc:     NewQuizService(f.repo, f.db, f.logger, f.validator, nil, f.publisher),
		member:  user,
		subject: lesson,
		track:   course,
	}
}

func TestQuizService_SubmitAttempt_Scores(t *testing.T) {
	tests := []struct {
		name       string
		questions  int
		right      int
		wantScore  int
		wantPassed bool
	}{
		{name: "all correct", questions: 2, right: 2, wantScore: 100, wantPassed: true},
		{name: "half", questions: 2, right: 1, wantScore: 50, wantPassed: false},
		{name: "none", questions: 3, right: 0, wantScore: 0, wantPassed: false},
		{name: "seventy passes", questions: 10, right: 7, wantScore: 70, wantPassed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qf := newQuizFixture(t)
			quiz := qf.quiz(t, qf.subject, tt.questions)

			res, err := qf.svc.SubmitAttempt(context.Background(), actorOf(qf.member), quiz.ID, answers(quiz, tt.right))
			require.NoError(t, err)
			assert.True(t, res.Success)
			assert.Equal(t, tt.wantScore, res.Score)
			assert.Equal(t, tt.wantPassed, res.Passed)
			assert.NotEmpty(t, res.AttemptID)

			var attempt models.QuizAttempt
			require.NoError(t, qf.db.Preload("Answers").First(&attempt, "id = ?", res.AttemptID).Error)
			assert.Equal(t, tt.wantScore, attempt.Score)
			assert.Len(t, attempt.Answers, tt.questions)

			if tt.wantPassed {
				assert.Equal(t, models.QuizPassPoints, res.PointsAwarded)
				assert.Contains(t, res.Revalidate, models.ProfilePath)
			} else {
				assert.Zero(t, res.PointsAwarded)
				assert.Zero(t, qf.points(t, qf.member.ID))
			}
			assert.Contains(t, res.Revalidate, models.QuizPath(quiz.ID))
			assert.Contains(t, res.Revalidate, models.LessonPath("vendas", qf.subject.Slug))
		})
	}
}

func TestQuizService_SubmitAttempt_PointsOnce(t *testing.T) {
	ctx := context.Background()
	qf := newQuizFixture(t)
	quiz := qf.quiz(t, qf.subject, 2)

	first, err := qf.svc.SubmitAttempt(ctx, actorOf(qf.member), quiz.ID, answers(quiz, 2))
	require.NoError(t, err)
	assert.Equal(t, 50, first.PointsAwarded)
	require.NotNil(t, first.BadgeAwarded)
	assert.Equal(t, models.BadgeFirstQuiz, *first.BadgeAwarded)

	second, err := qf.svc.SubmitAttempt(ctx, actorOf(qf.member), quiz.ID, answers(quiz, 2))
	require.NoError(t, err)
	assert.True(t, second.Passed)
	assert.Zero(t, second.PointsAwarded)
	assert.Nil(t, second.BadgeAwarded)
	assert.NotContains(t, second.Revalidate, models.ProfilePath)

	assert.Equal(t, 50, qf.points(t, qf.member.ID))
	assert.EqualValues(t, 2, qf.count(t, &models.QuizAttempt{}, "user_id = ?", qf.member.ID))
	assert.EqualValues(t, 1, qf.count(t, &models.GamificationBadge{}, "user_id = ? AND name = ?", qf.member.ID, models.BadgeFirstQuiz))
	assert.Len(t, qf.publisher.OfType(events.QuizAttemptSubmitted), 2)
}

func TestQuizService_SubmitAttempt_FailThenPass(t *testing.T) {
	ctx := context.Background()
	qf := newQuizFixture(t)
	quiz := qf.quiz(t, qf.subject, 2)

	_, err := qf.svc.SubmitAttempt(ctx, actorOf(qf.member), quiz.ID, answers(quiz, 0))
	require.NoError(t, err)

	res, err := qf.svc.SubmitAttempt(ctx, actorOf(qf.member), quiz.ID, answers(quiz, 2))
	require.NoError(t, err)
	assert.Equal(t, 50, res.PointsAwarded)
	assert.NotNil(t, res.BadgeAwarded)
}

func TestQuizService_SubmitAttempt_InvalidPayload(t *testing.T) {
	ctx := context.Background()
	qf := newQuizFixture(t)
	quiz := qf.quiz(t, qf.subject, 3)

	partial := answers(quiz, 3)
	partial.Answers = partial.Answers[:2]

	foreign := answers(quiz, 3)
	foreign.Answers[2].QuestionID = "not-in-this-quiz"

	duplicated := answers(quiz, 3)
	duplicated.Answers[2] = duplicated.Answers[0]

	extra := answers(quiz, 3)
	extra.Answers = append(extra.Answers, extra.Answers[0])

	blank := answers(quiz, 3)
	blank.Answers[1].SelectedOptionID = ""

	tests := []struct {
		name string
		req  *validator.SubmitAttemptRequest
		want error
	}{
		{name: "empty", req: &validator.SubmitAttemptRequest{}, want: ErrAllQuestionsRequired},
		{name: "nil", req: nil, want: ErrAllQuestionsRequired},
		{name: "missing answer", req: partial, want: ErrAllQuestionsRequired},
		{name: "duplicated question", req: duplicated, want: ErrAllQuestionsRequired},
		{name: "extra answer", req: extra, want: ErrAllQuestionsRequired},
		{name: "foreign question", req: foreign, want: ErrInvalidAnswerPayload},
		{name: "empty option", req: blank, want: ErrInvalidAnswerPayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := qf.svc.SubmitAttempt(ctx, actorOf(qf.member), quiz.ID, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	assert.EqualValues(t, 0, qf.count(t, &models.QuizAttempt{}, "quiz_id = ?", quiz.ID))
	assert.Empty(t, qf.publisher.Events())
}

func TestQuizService_SubmitAttempt_NotFound(t *testing.T) {
	ctx := context.Background()
	qf := newQuizFixture(t)

	_, err := qf.svc.SubmitAttempt(ctx, actorOf(qf.member), "missing", &validator.SubmitAttemptRequest{})
	assert.ErrorIs(t, err, ErrQuizNotFound)

	other := qf.lesson(t, qf.module(t, qf.track, 2), 1)
	empty := qf.quiz(t, other, 0)
	_, err = qf.svc.SubmitAttempt(ctx, actorOf(qf.member), empty.ID, &validator.SubmitAttemptRequest{})
	assert.ErrorIs(t, err, ErrQuizWithoutQuestions)
}

func TestQuizService_SubmitAttempt_Denied(t *testing.T) {
	ctx := context.Background()
	qf := newQuizFixture(t)
	quiz := qf.quiz(t, qf.subject, 2)

	outsider := qf.user(t, models.RoleGestor)
	_, err := qf.svc.SubmitAttempt(ctx, actorOf(outsider), quiz.ID, answers(quiz, 2))
	var permErr *PermissionError
	require.True(t, errors.As(err, &permErr))

	standalone := qf.quiz(t, nil, 1)
	_, err = qf.svc.SubmitAttempt(ctx, actorOf(qf.member), standalone.ID, answers(standalone, 1))
	assert.ErrorIs(t, err, ErrForbidden)

	admin := qf.user(t, models.RoleAdmin)
	res, err := qf.svc.SubmitAttempt(ctx, actorOf(admin), standalone.ID, answers(standalone, 1))
	require.NoError(t, err)
	assert.Equal(t, 100, res.Score)
	assert.Equal(t, []string{models.QuizPath(standalone.ID), models.ProfilePath}, res.Revalidate)

	assert.EqualValues(t, 0, qf.count(t, &models.QuizAttempt{}, "user_id = ?", outsider.ID))
}

func TestQuizService_SubmitAttempt_OversizedPayload(t *testing.T) {
	ctx := context.Background()
	qf := newQuizFixture(t)
	quiz := qf.quiz(t, qf.subject, 2)

	oversized := &validator.SubmitAttemptRequest{}
	for i := 0; i < 201; i++ {
		oversized.Answers = append(oversized.Answers, validator.AnswerInput{
			QuestionID:       quiz.Questions[i%2].ID,
			SelectedOptionID: "a",
		})
	}

	// the course gate answers before payload validation
	outsider := qf.user(t, models.RoleGestor)
	_, err := qf.svc.SubmitAttempt(ctx, actorOf(outsider), quiz.ID, oversized)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = qf.svc.SubmitAttempt(ctx, actorOf(qf.member), "missing", oversized)
	assert.ErrorIs(t, err, ErrQuizNotFound)

	_, err = qf.svc.SubmitAttempt(ctx, actorOf(qf.member), quiz.ID, oversized)
	var ve ValidationErrors
	assert.True(t, errors.As(err, &ve))

	assert.EqualValues(t, 0, qf.count(t, &models.QuizAttempt{}, "quiz_id = ?", quiz.ID))
}

func TestQuizService_GetQuizView(t *testing.T) {
	ctx := context.Background()
	qf := newQuizFixture(t)
	quiz := qf.quiz(t, qf.subject, 2)

	view, err := qf.svc.GetQuizView(ctx, actorOf(qf.member), quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, quiz.ID, view.ID)
	assert.Equal(t, models.LessonPath("vendas", qf.subject.Slug), view.BackPath)
	require.Len(t, view.Questions, 2)
	assert.Len(t, view.Questions[0].Options, 2)
	assert.Nil(t, view.LatestPassing)

	_, err = qf.svc.SubmitAttempt(ctx, actorOf(qf.member), quiz.ID, answers(quiz, 2))
	require.NoError(t, err)

	view, err = qf.svc.GetQuizView(ctx, actorOf(qf.member), quiz.ID)
	require.NoError(t, err)
	require.NotNil(t, view.LatestPassing)
	assert.Equal(t, 100, view.LatestPassing.Score)

	outsider := qf.user(t, models.RoleGestor)
	_, err = qf.svc.GetQuizView(ctx, actorOf(outsider), quiz.ID)
	assert.ErrorIs(t, err, ErrQuizNotFound)
}
