package application

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/devlinkhq/devlink-api/internal/domain/entity"
	"github.com/devlinkhq/devlink-api/internal/domain/store"
	"github.com/devlinkhq/devlink-api/pkg/helpers"
)

var (
	ErrPostNotFound    = errors.New("post not found")
	ErrAlreadyLiked    = errors.New("already liked")
	ErrNotYetLiked     = errors.New("not yet liked")
	ErrCommentNotFound = errors.New("comment not found")
)

const (
	feedCacheKey = "posts:feed"
	feedCacheTTL = 30 * time.Second
)

// PostService owns posts and their nested like/comment collections. Every
// nested mutation is a guarded update: the precondition and the change go to
// the store as one atomic conditional write, so a concurrent duplicate
// request fails the precondition instead of corrupting the collection.
type PostService struct {
	Store  store.Store
	Redis  *redis.Client
	Logger *logrus.Logger
}

func NewPostService(st store.Store, rdb *redis.Client, logger *logrus.Logger) *PostService {
	return &PostService{Store: st, Redis: rdb, Logger: logger}
}

// Create stores a new post with the author's current name and avatar copied
// in as snapshots; they never track later account changes.
func (s *PostService) Create(ctx context.Context, userID, text string) (entity.Post, error) {
	acct, err := s.author(ctx, userID)
	if err != nil {
		return entity.Post{}, err
	}

	post := entity.Post{
		ID:       uuid.NewString(),
		User:     userID,
		Text:     text,
		Name:     acct.Name,
		Avatar:   acct.Avatar,
		Likes:    []entity.Like{},
		Comments: []entity.Comment{},
		Date:     time.Now().UTC(),
	}
	if err := s.Store.Create(ctx, store.Posts, store.Doc{ID: post.ID, Body: post}); err != nil {
		return entity.Post{}, err
	}
	s.dropFeedCache(ctx)
	return post, nil
}

// Feed lists every post, newest first, served from a short-lived cache when
// one is configured. The cache holds derived data only; the store stays the
// single authority.
func (s *PostService) Feed(ctx context.Context) ([]entity.Post, error) {
	if s.Redis != nil {
		var cached []entity.Post
		if ok, err := helpers.RedisGetJSON(ctx, s.Redis, feedCacheKey, &cached); err == nil && ok {
			return cached, nil
		}
	}

	raws, err := s.Store.FindMany(ctx, store.Posts, store.Filter{}, store.SortDateDesc)
	if err != nil {
		return nil, err
	}
	posts, err := decodePosts(raws)
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if err := helpers.RedisSetJSON(ctx, s.Redis, feedCacheKey, posts, feedCacheTTL); err != nil && s.Logger != nil {
			s.Logger.WithError(err).Warn("feed cache write failed")
		}
	}
	return posts, nil
}

// ByAuthor lists the account's own posts, newest first.
func (s *PostService) ByAuthor(ctx context.Context, userID string) ([]entity.Post, error) {
	raws, err := s.Store.FindMany(ctx, store.Posts,
		store.Filter{Fields: map[string]string{"user": userID}}, store.SortDateDesc)
	if err != nil {
		return nil, err
	}
	return decodePosts(raws)
}

// Get returns one of the account's own posts.
func (s *PostService) Get(ctx context.Context, userID, postID string) (entity.Post, error) {
	var post entity.Post
	err := s.Store.FindOne(ctx, store.Posts,
		store.Filter{ID: postID, Fields: map[string]string{"user": userID}}, &post)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return entity.Post{}, ErrPostNotFound
		}
		return entity.Post{}, err
	}
	return post, nil
}

// Delete removes one of the account's own posts.
func (s *PostService) Delete(ctx context.Context, userID, postID string) error {
	err := s.Store.Delete(ctx, store.Posts,
		store.Filter{ID: postID, Fields: map[string]string{"user": userID}})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrPostNotFound
		}
		return err
	}
	s.dropFeedCache(ctx)
	return nil
}

// Like appends a like entry, guarded on no like existing for this account.
// A repeat attempt fails the precondition and reports ErrAlreadyLiked; the
// collection keeps exactly one entry per account.
func (s *PostService) Like(ctx context.Context, userID, postID string) error {
	err := s.Store.ConditionalUpdate(ctx, store.Posts,
		store.Filter{
			ID:          postID,
			NotContains: []store.ElemMatch{{Field: "likes", Match: map[string]any{"user": userID}}},
		},
		store.Mutation{
			Push: []store.ArrayPush{{Field: "likes", Value: entity.Like{User: userID}}},
		}, nil)
	if errors.Is(err, store.ErrPreconditionFailed) {
		return ErrAlreadyLiked
	}
	return err
}

// Unlike removes the account's like entry, guarded on it existing.
func (s *PostService) Unlike(ctx context.Context, userID, postID string) error {
	err := s.Store.ConditionalUpdate(ctx, store.Posts,
		store.Filter{
			ID:       postID,
			Contains: []store.ElemMatch{{Field: "likes", Match: map[string]any{"user": userID}}},
		},
		store.Mutation{
			Pull: []store.ElemMatch{{Field: "likes", Match: map[string]any{"user": userID}}},
		}, nil)
	if errors.Is(err, store.ErrPreconditionFailed) {
		return ErrNotYetLiked
	}
	return err
}

// AddComment appends a comment with a generated identity and an author
// snapshot. The only guard is post existence.
func (s *PostService) AddComment(ctx context.Context, userID, postID, text string) error {
	acct, err := s.author(ctx, userID)
	if err != nil {
		return err
	}
	comment := entity.Comment{
		ID:     uuid.NewString(),
		User:   userID,
		Text:   text,
		Name:   acct.Name,
		Avatar: acct.Avatar,
		Date:   time.Now().UTC(),
	}
	return s.Store.ConditionalUpdate(ctx, store.Posts,
		store.Filter{ID: postID},
		store.Mutation{
			Push: []store.ArrayPush{{Field: "comments", Value: comment}},
		}, nil)
}

// DeleteComment removes a comment, guarded on a comment carrying both the
// given id and this account as author. A missing comment and someone else's
// comment are deliberately indistinguishable.
func (s *PostService) DeleteComment(ctx context.Context, userID, postID, commentID string) error {
	match := map[string]any{"id": commentID, "user": userID}
	err := s.Store.ConditionalUpdate(ctx, store.Posts,
		store.Filter{
			ID:       postID,
			Contains: []store.ElemMatch{{Field: "comments", Match: match}},
		},
		store.Mutation{
			Pull: []store.ElemMatch{{Field: "comments", Match: match}},
		}, nil)
	if errors.Is(err, store.ErrPreconditionFailed) {
		return ErrCommentNotFound
	}
	return err
}

func (s *PostService) author(ctx context.Context, userID string) (entity.Account, error) {
	var acct entity.Account
	err := s.Store.FindOne(ctx, store.Users, store.Filter{ID: userID}, &acct)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return entity.Account{}, ErrUserNotFound
		}
		return entity.Account{}, err
	}
	return acct, nil
}

func (s *PostService) dropFeedCache(ctx context.Context) {
	if s.Redis == nil {
		return
	}
	if err := helpers.RedisDel(ctx, s.Redis, feedCacheKey); err != nil && s.Logger != nil {
		s.Logger.WithError(err).Warn("feed cache invalidation failed")
	}
}

func decodePosts(raws []json.RawMessage) ([]entity.Post, error) {
	posts := make([]entity.Post, 0, len(raws))
	for _, raw := range raws {
		var p entity.Post
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, nil
}
