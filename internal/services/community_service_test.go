package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/academy-service/internal/events"
	"github.com/SAP-F-2025/academy-service/internal/models"
	"github.com/SAP-F-2025/academy-service/internal/validator"
)

func TestPostTitle(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "short", content: "Bom dia time", want: "Bom dia time"},
		{name: "exactly fifty", content: strings.Repeat("a", 50), want: strings.Repeat("a", 50)},
		{name: "long", content: strings.Repeat("b", 60), want: strings.Repeat("b", 47) + "..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PostTitle(tt.content))
		})
	}
}

func TestCommunityService(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewCommunityService(f.repo, f.db, f.logger, f.validator, nil, f.publisher)

	author := f.user(t, models.RoleVendedor)
	reader := f.user(t, models.RoleGestor)

	_, err := svc.CreatePost(ctx, actorOf(author), &validator.CreatePostRequest{Content: "   "})
	assert.ErrorIs(t, err, ErrContentRequired)

	post, err := svc.CreatePost(ctx, actorOf(author), &validator.CreatePostRequest{Content: "Batemos a meta do trimestre"})
	require.NoError(t, err)
	assert.Equal(t, "Batemos a meta do trimestre", post.Title)
	assert.Len(t, f.publisher.OfType(events.PostCreated), 1)

	liked, err := svc.ToggleLike(ctx, actorOf(reader), post.ID)
	require.NoError(t, err)
	assert.True(t, liked.Liked)

	_, err = svc.CreateComment(ctx, actorOf(reader), post.ID, &validator.CreateCommentRequest{Content: "Parabéns!"})
	require.NoError(t, err)

	feed, err := svc.ListFeed(ctx, actorOf(reader))
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, 1, feed[0].LikeCount)
	assert.True(t, feed[0].LikedByMe)
	assert.Equal(t, author.Name, feed[0].UserName)
	require.Len(t, feed[0].Comments, 1)
	assert.Equal(t, reader.Name, feed[0].Comments[0].UserName)

	unliked, err := svc.ToggleLike(ctx, actorOf(reader), post.ID)
	require.NoError(t, err)
	assert.False(t, unliked.Liked)
	assert.EqualValues(t, 0, f.count(t, &models.Like{}, "post_id = ?", post.ID))

	_, err = svc.ToggleLike(ctx, actorOf(reader), "missing")
	assert.ErrorIs(t, err, ErrPostNotFound)

	_, err = svc.CreateComment(ctx, actorOf(reader), "missing", &validator.CreateCommentRequest{Content: "oi"})
	assert.ErrorIs(t, err, ErrPostNotFound)
}
