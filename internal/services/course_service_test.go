package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/academy-service/internal/models"
)

func TestCourseService_ListCatalog(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewCourseService(f.repo, f.db, f.logger, nil)

	gestao := f.course(t, "lideranca", models.RoleGestor)
	vendas := f.course(t, "vendas", models.RoleVendedor)
	shared := f.course(t, models.SharedCourseSlug, models.RoleVendedor)
	f.lesson(t, f.module(t, gestao, 1), 1)

	gestor := f.user(t, models.RoleGestor)
	f.enroll(t, gestor, gestao)
	f.enroll(t, gestor, vendas)
	f.enroll(t, gestor, shared)

	admin := f.user(t, models.RoleAdmin)
	f.enroll(t, admin, gestao)
	f.enroll(t, admin, vendas)

	student := f.user(t, models.RoleStudent)
	f.enroll(t, student, shared)

	slugs := func(catalog []models.CatalogCourse) []string {
		out := make([]string, 0, len(catalog))
		for _, c := range catalog {
			out = append(out, c.Slug)
		}
		return out
	}

	tests := []struct {
		name  string
		actor Actor
		want  []string
	}{
		{name: "gestor sees own audience and shared course", actor: actorOf(gestor), want: []string{"lideranca", models.SharedCourseSlug}},
		{name: "admin sees every enrollment", actor: actorOf(admin), want: []string{"lideranca", "vendas"}},
		{name: "student has no catalog", actor: actorOf(student), want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog, err := svc.ListCatalog(ctx, tt.actor)
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, slugs(catalog))
		})
	}

	catalog, err := svc.ListCatalog(ctx, actorOf(gestor))
	require.NoError(t, err)
	for _, c := range catalog {
		if c.Slug != "lideranca" {
			continue
		}
		assert.Equal(t, 1, c.ModuleCount)
		assert.Equal(t, 1, c.LessonCount)
		require.NotNil(t, c.FirstLesson)
	}

	_, err = svc.ListCatalog(ctx, Actor{})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestCourseService_GetLessonView(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewCourseService(f.repo, f.db, f.logger, nil)
	progress := NewProgressService(f.repo, f.db, f.logger, f.validator, nil, nil)
	quizzes := NewQuizService(f.repo, f.db, f.logger, f.validator, nil, nil)

	course := f.course(t, "vendas", models.RoleVendedor)
	first := f.module(t, course, 1)
	second := f.module(t, course, 2)
	l1 := f.lesson(t, first, 1)
	l2 := f.lesson(t, first, 2)
	l3 := f.lesson(t, second, 1)
	quiz := f.quiz(t, l2, 2)

	member := f.user(t, models.RoleVendedor)
	f.enroll(t, member, course)

	_, err := progress.ToggleCompletion(ctx, actorOf(member), l1.ID, "")
	require.NoError(t, err)
	_, err = quizzes.SubmitAttempt(ctx, actorOf(member), quiz.ID, answers(quiz, 1))
	require.NoError(t, err)

	view, err := svc.GetLessonView(ctx, actorOf(member), course.Slug, l2.Slug)
	require.NoError(t, err)

	assert.Equal(t, l2.ID, view.Lesson.ID)
	assert.False(t, view.Completed)
	assert.Equal(t, 2, view.ModuleCount)
	assert.Equal(t, 3, view.LessonCount)
	assert.False(t, view.CourseIsDone)
	assert.Equal(t, models.LessonPath(course.Slug, l2.Slug), view.TogglePath)

	require.Len(t, view.Outline, 2)
	assert.Equal(t, 1, view.Outline[0].CompletedCount)
	require.Len(t, view.Outline[0].Lessons, 2)
	assert.True(t, view.Outline[0].Lessons[0].Completed)
	assert.True(t, view.Outline[0].Lessons[1].Active)

	require.NotNil(t, view.Previous)
	assert.Equal(t, l1.Slug, view.Previous.Slug)
	require.NotNil(t, view.Next)
	assert.Equal(t, l3.Slug, view.Next.Slug)

	require.NotNil(t, view.Quiz)
	assert.Equal(t, quiz.ID, view.Quiz.ID)
	assert.Equal(t, 1, view.Quiz.Attempts)
	assert.Equal(t, 50, view.Quiz.BestScore)
	assert.False(t, view.Quiz.Passed)

	edge, err := svc.GetLessonView(ctx, actorOf(member), course.Slug, l1.Slug)
	require.NoError(t, err)
	assert.Nil(t, edge.Previous)
	assert.True(t, edge.Completed)
	assert.Nil(t, edge.Quiz)
}

func TestCourseService_GetLessonView_Hidden(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewCourseService(f.repo, f.db, f.logger, nil)

	course := f.course(t, "vendas", models.RoleVendedor)
	other := f.course(t, "lideranca", models.RoleGestor)
	lesson := f.lesson(t, f.module(t, course, 1), 1)

	member := f.user(t, models.RoleVendedor)
	f.enroll(t, member, course)
	outsider := f.user(t, models.RoleVendedor)
	gestor := f.user(t, models.RoleGestor)
	f.enroll(t, gestor, course)

	tests := []struct {
		name       string
		actor      Actor
		courseSlug string
		lessonSlug string
		want       error
	}{
		{name: "lesson outside course", actor: actorOf(member), courseSlug: other.Slug, lessonSlug: lesson.Slug, want: ErrLessonNotFound},
		{name: "unknown lesson", actor: actorOf(member), courseSlug: course.Slug, lessonSlug: "nope", want: ErrLessonNotFound},
		{name: "not enrolled", actor: actorOf(outsider), courseSlug: course.Slug, lessonSlug: lesson.Slug, want: ErrLessonNotFound},
		{name: "wrong audience", actor: actorOf(gestor), courseSlug: course.Slug, lessonSlug: lesson.Slug, want: ErrLessonNotFound},
		{name: "anonymous", actor: Actor{}, courseSlug: course.Slug, lessonSlug: lesson.Slug, want: ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.GetLessonView(ctx, tt.actor, tt.courseSlug, tt.lessonSlug)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	admin := f.user(t, models.RoleAdmin)
	view, err := svc.GetLessonView(ctx, actorOf(admin), course.Slug, lesson.Slug)
	require.NoError(t, err)
	assert.Equal(t, lesson.ID, view.Lesson.ID)
}

func TestProfileService_GetProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewProfileService(f.repo, f.db, f.logger, nil)
	progress := NewProgressService(f.repo, f.db, f.logger, f.validator, nil, nil)
	quizzes := NewQuizService(f.repo, f.db, f.logger, f.validator, nil, nil)
	certificates := NewCertificateService(f.repo, f.db, f.logger, nil, nil)

	course := f.course(t, "vendas", models.RoleVendedor)
	module := f.module(t, course, 1)
	l1 := f.lesson(t, module, 1)
	l2 := f.lesson(t, module, 2)
	quiz := f.quiz(t, l1, 2)

	member := f.user(t, models.RoleVendedor)
	f.enroll(t, member, course)

	for _, l := range []*models.Lesson{l1, l2} {
		_, err := progress.ToggleCompletion(ctx, actorOf(member), l.ID, "")
		require.NoError(t, err)
	}
	_, err := quizzes.SubmitAttempt(ctx, actorOf(member), quiz.ID, answers(quiz, 2))
	require.NoError(t, err)
	_, err = certificates.EnsureCertificate(ctx, member.ID, course.ID)
	require.NoError(t, err)

	profile, err := svc.GetProfile(ctx, member.ID)
	require.NoError(t, err)

	assert.Equal(t, 2*models.LessonCompletionPoints+models.QuizPassPoints, profile.Points)
	assert.Len(t, profile.Badges, 2)
	require.Len(t, profile.Certificates, 1)
	assert.Equal(t, course.Slug, profile.Certificates[0].CourseSlug)
	assert.EqualValues(t, 2, profile.CompletedLessons)
	assert.EqualValues(t, 1200, profile.StudySeconds)
	assert.Equal(t, 1, profile.CoursesEnrolled)
	assert.Equal(t, 1, profile.CoursesCompleted)
	assert.EqualValues(t, 1, profile.QuizzesPassed)

	_, err = svc.GetProfile(ctx, "")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.GetProfile(ctx, "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
