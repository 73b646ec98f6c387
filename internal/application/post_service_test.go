package application

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/devlinkhq/devlink-api/internal/domain/entity"
	"github.com/devlinkhq/devlink-api/internal/domain/store"
	"github.com/devlinkhq/devlink-api/internal/domain/store/storefake"
)

func seedAccount(t *testing.T, st store.Store, name, email string) string {
	t.Helper()
	acct := entity.Account{
		ID:     uuid.NewString(),
		Name:   name,
		Email:  email,
		Avatar: "https://www.gravatar.com/avatar/x",
		Date:   time.Now().UTC(),
	}
	require.NoError(t, st.Create(context.Background(), store.Users, store.Doc{ID: acct.ID, Key: email, Body: acct}))
	return acct.ID
}

func newPostService(t *testing.T) (*PostService, string) {
	t.Helper()
	st := storefake.New()
	uid := seedAccount(t, st, "Jane", "jane@example.com")
	return NewPostService(st, nil, testLogger()), uid
}

func TestCreatePostSnapshotsAuthor(t *testing.T) {
	svc, uid := newPostService(t)

	post, err := svc.Create(context.Background(), uid, "hello world")
	require.NoError(t, err)
	require.NotEmpty(t, post.ID)
	require.Equal(t, uid, post.User)
	require.Equal(t, "Jane", post.Name)
	require.NotEmpty(t, post.Avatar)
	require.Empty(t, post.Likes)
	require.Empty(t, post.Comments)
}

func TestCreatePostUnknownAuthor(t *testing.T) {
	svc, _ := newPostService(t)

	_, err := svc.Create(context.Background(), "missing-user", "hello")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestFeedNewestFirst(t *testing.T) {
	svc, uid := newPostService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, uid, "first")
	require.NoError(t, err)
	second, err := svc.Create(ctx, uid, "second")
	require.NoError(t, err)

	posts, err := svc.Feed(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	require.Equal(t, second.ID, posts[0].ID)
	require.Equal(t, first.ID, posts[1].ID)
}

func TestGetAndDeleteOwnPostsOnly(t *testing.T) {
	svc, uid := newPostService(t)
	ctx := context.Background()
	other := seedAccount(t, svc.Store, "Rival", "rival@example.com")

	post, err := svc.Create(ctx, uid, "mine")
	require.NoError(t, err)

	_, err = svc.Get(ctx, other, post.ID)
	require.ErrorIs(t, err, ErrPostNotFound)

	require.ErrorIs(t, svc.Delete(ctx, other, post.ID), ErrPostNotFound)
	require.NoError(t, svc.Delete(ctx, uid, post.ID))
	require.ErrorIs(t, svc.Delete(ctx, uid, post.ID), ErrPostNotFound)
}

func TestLikeIsGuardedAgainstDuplicates(t *testing.T) {
	svc, uid := newPostService(t)
	ctx := context.Background()

	post, err := svc.Create(ctx, uid, "likeable")
	require.NoError(t, err)

	require.NoError(t, svc.Like(ctx, uid, post.ID))
	require.ErrorIs(t, svc.Like(ctx, uid, post.ID), ErrAlreadyLiked)

	got, err := svc.Get(ctx, uid, post.ID)
	require.NoError(t, err)
	require.Len(t, got.Likes, 1)
	require.Equal(t, uid, got.Likes[0].User)
}

func TestUnlikeRequiresExistingLike(t *testing.T) {
	svc, uid := newPostService(t)
	ctx := context.Background()

	post, err := svc.Create(ctx, uid, "likeable")
	require.NoError(t, err)

	require.ErrorIs(t, svc.Unlike(ctx, uid, post.ID), ErrNotYetLiked)

	require.NoError(t, svc.Like(ctx, uid, post.ID))
	require.NoError(t, svc.Unlike(ctx, uid, post.ID))
	require.ErrorIs(t, svc.Unlike(ctx, uid, post.ID), ErrNotYetLiked)

	got, err := svc.Get(ctx, uid, post.ID)
	require.NoError(t, err)
	require.Empty(t, got.Likes)
}

func TestLikeMissingPost(t *testing.T) {
	svc, uid := newPostService(t)

	// a missing post fails the same precondition as a duplicate like
	require.ErrorIs(t, svc.Like(context.Background(), uid, "missing-post"), ErrAlreadyLiked)
}

func TestComments(t *testing.T) {
	svc, uid := newPostService(t)
	ctx := context.Background()
	other := seedAccount(t, svc.Store, "Rival", "rival@example.com")

	post, err := svc.Create(ctx, uid, "commentable")
	require.NoError(t, err)

	require.NoError(t, svc.AddComment(ctx, other, post.ID, "nice post"))

	got, err := svc.Get(ctx, uid, post.ID)
	require.NoError(t, err)
	require.Len(t, got.Comments, 1)
	comment := got.Comments[0]
	require.NotEmpty(t, comment.ID)
	require.Equal(t, other, comment.User)
	require.Equal(t, "Rival", comment.Name)

	// only the comment's author may remove it; missing and foreign comments
	// are the same failure
	require.ErrorIs(t, svc.DeleteComment(ctx, uid, post.ID, comment.ID), ErrCommentNotFound)
	require.ErrorIs(t, svc.DeleteComment(ctx, other, post.ID, "missing-comment"), ErrCommentNotFound)

	require.NoError(t, svc.DeleteComment(ctx, other, post.ID, comment.ID))
	got, err = svc.Get(ctx, uid, post.ID)
	require.NoError(t, err)
	require.Empty(t, got.Comments)
}
