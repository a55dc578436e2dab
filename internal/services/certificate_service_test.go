package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/academy-service/internal/events"
	"github.com/SAP-F-2025/academy-service/internal/models"
)

func TestCertificateService_EnsureCertificate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewCertificateService(f.repo, f.db, f.logger, nil, f.publisher)
	progress := NewProgressService(f.repo, f.db, f.logger, f.validator, nil, nil)

	user := f.user(t, models.RoleGestor)
	course := f.course(t, "lideranca", models.RoleGestor)
	module := f.module(t, course, 1)
	first := f.lesson(t, module, 1)
	second := f.lesson(t, module, 2)
	f.enroll(t, user, course)

	_, err := progress.ToggleCompletion(ctx, actorOf(user), first.ID, "")
	require.NoError(t, err)

	_, err = svc.EnsureCertificate(ctx, user.ID, course.ID)
	assert.ErrorIs(t, err, ErrCourseNotCompleted)
	var ruleErr *BusinessRuleError
	require.True(t, errors.As(err, &ruleErr))
	assert.EqualValues(t, 2, ruleErr.Context["total_lessons"])
	assert.EqualValues(t, 1, ruleErr.Context["completed_lessons"])

	_, err = progress.ToggleCompletion(ctx, actorOf(user), second.ID, "")
	require.NoError(t, err)

	cert, err := svc.EnsureCertificate(ctx, user.ID, course.ID)
	require.NoError(t, err)
	require.NotNil(t, cert)

	again, err := svc.EnsureCertificate(ctx, user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, cert.ID, again.ID)
	assert.True(t, cert.IssuedAt.Equal(again.IssuedAt))

	assert.EqualValues(t, 1, f.count(t, &models.Certificate{}, "user_id = ? AND course_id = ?", user.ID, course.ID))
	assert.Len(t, f.publisher.OfType(events.CertificateIssued), 1)
}

func TestCertificateService_EmptyCourse(t *testing.T) {
	f := newFixture(t)
	svc := NewCertificateService(f.repo, f.db, f.logger, nil, nil)

	user := f.user(t, models.RoleGestor)
	course := f.course(t, "vazio", models.RoleGestor)

	_, err := svc.EnsureCertificate(context.Background(), user.ID, course.ID)
	assert.ErrorIs(t, err, ErrCourseNotCompleted)
}

func TestCertificateService_GetCertificateView(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewCertificateService(f.repo, f.db, f.logger, nil, nil)
	progress := NewProgressService(f.repo, f.db, f.logger, f.validator, nil, nil)

	user := f.user(t, models.RoleVendedor)
	course := f.course(t, "vendas", models.RoleVendedor)
	lesson := f.lesson(t, f.module(t, course, 1), 1)
	f.enroll(t, user, course)

	view, err := svc.GetCertificateView(ctx, actorOf(user), "vendas")
	require.NoError(t, err)
	assert.Equal(t, models.CertificateNotCompleted, view.Status)
	assert.Nil(t, view.Certificate)
	assert.EqualValues(t, 1, view.TotalLessons)

	_, err = progress.ToggleCompletion(ctx, actorOf(user), lesson.ID, "")
	require.NoError(t, err)

	view, err = svc.GetCertificateView(ctx, actorOf(user), "vendas")
	require.NoError(t, err)
	assert.Equal(t, models.CertificateIssued, view.Status)
	require.NotNil(t, view.Certificate)
	assert.EqualValues(t, 600, view.StudySeconds)
	assert.Equal(t, user.Name, view.UserName)

	_, err = svc.GetCertificateView(ctx, actorOf(user), "nao-existe")
	assert.ErrorIs(t, err, ErrCourseNotFound)

	_, err = svc.GetCertificateView(ctx, Actor{UserID: "ghost"}, "vendas")
	assert.ErrorIs(t, err, ErrUnauthorized)
}
