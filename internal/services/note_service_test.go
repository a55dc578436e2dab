package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/academy-service/internal/models"
	"github.com/SAP-F-2025/academy-service/internal/validator"
)

func TestNoteService(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewNoteService(f.repo, f.db, f.logger, f.validator, nil)

	owner := f.user(t, models.RoleVendedor)
	other := f.user(t, models.RoleVendedor)
	course := f.course(t, "vendas", models.RoleVendedor)
	lesson := f.lesson(t, f.module(t, course, 1), 1)
	f.enroll(t, owner, course)
	f.enroll(t, other, course)

	ts := 42
	note, err := svc.Create(ctx, actorOf(owner), lesson.ID, &validator.CreateNoteRequest{Content: "Revisar objeções", Timestamp: &ts})
	require.NoError(t, err)
	assert.Equal(t, owner.ID, note.UserID)

	notes, err := svc.List(ctx, actorOf(owner), lesson.ID)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, 42, *notes[0].Timestamp)

	notes, err = svc.List(ctx, actorOf(other), lesson.ID)
	require.NoError(t, err)
	assert.Empty(t, notes)

	// Someone else's note looks missing
	assert.ErrorIs(t, svc.Delete(ctx, actorOf(other), note.ID), ErrNoteNotFound)
	assert.EqualValues(t, 1, f.count(t, &models.Note{}, "id = ?", note.ID))

	require.NoError(t, svc.Delete(ctx, actorOf(owner), note.ID))
	assert.ErrorIs(t, svc.Delete(ctx, actorOf(owner), note.ID), ErrNoteNotFound)
}

func TestNoteService_Denied(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewNoteService(f.repo, f.db, f.logger, f.validator, nil)

	outsider := f.user(t, models.RoleGestor)
	course := f.course(t, "vendas", models.RoleVendedor)
	lesson := f.lesson(t, f.module(t, course, 1), 1)

	_, err := svc.Create(ctx, actorOf(outsider), lesson.ID, &validator.CreateNoteRequest{Content: "x"})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.List(ctx, actorOf(outsider), lesson.ID)
	assert.ErrorIs(t, err, ErrLessonNotFound)

	_, err = svc.Create(ctx, actorOf(outsider), lesson.ID, &validator.CreateNoteRequest{Content: "  "})
	var ve ValidationErrors
	assert.True(t, errors.As(err, &ve))
}
