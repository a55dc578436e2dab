package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/academy-service/internal/events"
	"github.com/SAP-F-2025/academy-service/internal/models"
	"github.com/SAP-F-2025/academy-service/internal/repositories"
	"github.com/SAP-F-2025/academy-service/internal/validator"
)

func TestNewProgressService(t *testing.T) {
	type args struct {
		repo      repositories.Repository
		db        *gorm.DB
		logger    *slog.Logger
		validator *validator.Validator
	}
	tests := []struct {
		name string
		args args
	}{
		{name: "ok"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, NewProgressService(tt.args.repo, tt.args.db, tt.args.logger, tt.args.validator, nil, nil))
		})
	}
}

func newProgressFixture(t *testing.T) (*fixture, ProgressService) {
	f := newFixture(t)
	return f, NewProgressService(f.repo, f.db, f.logger, f.validator, nil, f.publisher)
}

func TestProgressService_ToggleCompletion(t *testing.T) {
	ctx := context.Background()
	f, svc := newProgressFixture(t)

	user := f.user(t, models.RoleVendedor)
	course := f.course(t, "vendas", models.RoleVendedor)
	lesson := f.lesson(t, f.module(t, course, 1), 1)
	f.enroll(t, user, course)

	res, err := svc.ToggleCompletion(ctx, actorOf(user), lesson.ID, "/custom/path")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.True(t, res.Completed)
	assert.Equal(t, 10, res.Points)
	require.NotNil(t, res.BadgeAwarded)
	assert.Equal(t, models.BadgeFirstSteps, *res.BadgeAwarded)
	assert.Equal(t, []string{"/custom/path", models.LessonPath("vendas", lesson.Slug), models.ProfilePath}, res.Revalidate)
	assert.Equal(t, 10, f.points(t, user.ID))
	assert.EqualValues(t, 1, f.count(t, &models.Progress{}, "user_id = ? AND lesson_id = ?", user.ID, lesson.ID))

	res, err = svc.ToggleCompletion(ctx, actorOf(user), lesson.ID, "")
	require.NoError(t, err)
	assert.False(t, res.Completed)
	assert.Equal(t, 0, res.Points)
	assert.Nil(t, res.BadgeAwarded)
	assert.Equal(t, 0, f.points(t, user.ID))
	assert.EqualValues(t, 0, f.count(t, &models.Progress{}, "user_id = ?", user.ID))

	// Completing again must not hand out the badge twice
	res, err = svc.ToggleCompletion(ctx, actorOf(user), lesson.ID, "")
	require.NoError(t, err)
	assert.True(t, res.Completed)
	assert.Nil(t, res.BadgeAwarded)
	assert.EqualValues(t, 1, f.count(t, &models.GamificationBadge{}, "user_id = ?", user.ID))

	assert.Len(t, f.publisher.OfType(events.LessonCompleted), 2)
	assert.Len(t, f.publisher.OfType(events.LessonUncompleted), 1)
	assert.Len(t, f.publisher.OfType(events.BadgeAwarded), 1)
}

func TestProgressService_ToggleCompletion_PointsFloor(t *testing.T) {
	ctx := context.Background()
	f, svc := newProgressFixture(t)

	user := f.user(t, models.RoleGestor)
	course := f.course(t, "gestao", models.RoleGestor)
	lesson := f.lesson(t, f.module(t, course, 1), 1)
	f.enroll(t, user, course)

	_, err := svc.ToggleCompletion(ctx, actorOf(user), lesson.ID, "")
	require.NoError(t, err)

	// Points spent elsewhere: the deduction must not go negative
	require.NoError(t, f.db.Model(&models.User{}).Where("id = ?", user.ID).Update("points", 4).Error)

	res, err := svc.ToggleCompletion(ctx, actorOf(user), lesson.ID, "")
	require.NoError(t, err)
	assert.False(t, res.Completed)
	assert.Equal(t, 4, res.Points)
	assert.Equal(t, 4, f.points(t, user.ID))
}

func TestProgressService_ToggleCompletion_SharedCourse(t *testing.T) {
	f, svc := newProgressFixture(t)

	user := f.user(t, models.RoleStudent)
	course := f.course(t, models.SharedCourseSlug, models.RoleGestor)
	lesson := f.lesson(t, f.module(t, course, 1), 1)
	f.enroll(t, user, course)

	res, err := svc.ToggleCompletion(context.Background(), actorOf(user), lesson.ID, "")
	require.NoError(t, err)
	assert.True(t, res.Completed)
}

func TestProgressService_ToggleCompletion_Denied(t *testing.T) {
	ctx := context.Background()
	f, svc := newProgressFixture(t)

	course := f.course(t, "vendas", models.RoleVendedor)
	lesson := f.lesson(t, f.module(t, course, 1), 1)

	notEnrolled := f.user(t, models.RoleVendedor)
	wrongAudience := f.user(t, models.RoleGestor)
	f.enroll(t, wrongAudience, course)

	for _, u := range []*models.User{notEnrolled, wrongAudience} {
		_, err := svc.ToggleCompletion(ctx, actorOf(u), lesson.ID, "")
		var permErr *PermissionError
		require.True(t, errors.As(err, &permErr))
		assert.ErrorIs(t, err, ErrForbidden)
		assert.Equal(t, 0, f.points(t, u.ID))
	}
	assert.EqualValues(t, 0, f.count(t, &models.Progress{}, "lesson_id = ?", lesson.ID))
	assert.Empty(t, f.publisher.Events())

	// Admins pass without enrolling
	admin := f.user(t, models.RoleAdmin)
	res, err := svc.ToggleCompletion(ctx, actorOf(admin), lesson.ID, "")
	require.NoError(t, err)
	assert.True(t, res.Completed)
}

func TestProgressService_ToggleCompletion_NotFound(t *testing.T) {
	ctx := context.Background()
	f, svc := newProgressFixture(t)
	user := f.user(t, models.RoleAdmin)

	_, err := svc.ToggleCompletion(ctx, actorOf(user), "missing", "")
	assert.ErrorIs(t, err, ErrLessonNotFound)

	_, err = svc.ToggleCompletion(ctx, Actor{}, "missing", "")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestProgressService_ToggleCompletion_UnknownUser(t *testing.T) {
	f, svc := newProgressFixture(t)
	course := f.course(t, "vendas", models.RoleVendedor)
	lesson := f.lesson(t, f.module(t, course, 1), 1)

	_, err := svc.ToggleCompletion(context.Background(), Actor{UserID: "ghost", Role: models.RoleAdmin}, lesson.ID, "")
	assert.ErrorIs(t, err, ErrUnauthorized)
}
