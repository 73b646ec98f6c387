package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/devlinkhq/devlink-api/internal/application"
	"github.com/devlinkhq/devlink-api/internal/interface/middleware"
	"github.com/devlinkhq/devlink-api/pkg/response"
	"github.com/devlinkhq/devlink-api/pkg/validation"
)

// PostHandler serves posts and their nested like/comment operations. The
// guarded preconditions live in the service; here their failures map back to
// the API's domain responses ("Already liked post" is a 400, not a fault).
type PostHandler struct {
	Svc    *application.PostService
	Logger *logrus.Logger
}

func NewPostHandler(svc *application.PostService, logger *logrus.Logger) *PostHandler {
	return &PostHandler{Svc: svc, Logger: logger}
}

type postRequest struct {
	Text string `json:"text" binding:"required"`
}

var postMessages = map[string]string{
	"text": "Post body is required",
}

var commentMessages = map[string]string{
	"text": "Comment body is required",
}

// Create handles POST /api/posts.
func (h *PostHandler) Create(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)

	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorList(c, http.StatusUnprocessableEntity, validation.ToMessages(err, postMessages))
		return
	}

	post, err := h.Svc.Create(c.Request.Context(), uid, req.Text)
	if err != nil {
		h.Logger.WithError(err).WithField("user_id", uid).Error("create post failed")
		response.Errors(c, http.StatusInternalServerError, "Server error")
		return
	}

	c.JSON(http.StatusCreated, post)
}

// Feed handles GET /api/posts/all: the public feed, newest first.
func (h *PostHandler) Feed(c *gin.Context) {
	posts, err := h.Svc.Feed(c.Request.Context())
	if err != nil {
		h.Logger.WithError(err).Error("feed failed")
		response.Errors(c, http.StatusInternalServerError, "Server error")
		return
	}
	c.JSON(http.StatusOK, posts)
}

// Mine handles GET /api/posts: the account's own posts.
func (h *PostHandler) Mine(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)

	posts, err := h.Svc.ByAuthor(c.Request.Context(), uid)
	if err != nil {
		h.Logger.WithError(err).WithField("user_id", uid).Error("list posts failed")
		response.Errors(c, http.StatusInternalServerError, "Server error")
		return
	}
	c.JSON(http.StatusOK, posts)
}

// Get handles GET /api/posts/:id.
func (h *PostHandler) Get(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)

	post, err := h.Svc.Get(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		if errors.Is(err, application.ErrPostNotFound) {
			response.Errors(c, http.StatusNotFound, "Post not found")
			return
		}
		h.Logger.WithError(err).Error("get post failed")
		response.Errors(c, http.StatusInternalServerError, "Server error")
		return
	}
	c.JSON(http.StatusOK, post)
}

// Delete handles DELETE /api/posts/:id.
func (h *PostHandler) Delete(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)

	if err := h.Svc.Delete(c.Request.Context(), uid, c.Param("id")); err != nil {
		if errors.Is(err, application.ErrPostNotFound) {
			response.Errors(c, http.StatusNotFound, "Post not found")
			return
		}
		h.Logger.WithError(err).Error("delete post failed")
		response.Errors(c, http.StatusInternalServerError, "Server error")
		return
	}
	response.Info(c, http.StatusOK, "Post deleted successfully!")
}

// Like handles PUT /api/posts/like/:id.
func (h *PostHandler) Like(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)

	if err := h.Svc.Like(c.Request.Context(), uid, c.Param("id")); err != nil {
		if errors.Is(err, application.ErrAlreadyLiked) {
			response.Errors(c, http.StatusBadRequest, "Already liked post")
			return
		}
		h.Logger.WithError(err).Error("like failed")
		response.Errors(c, http.StatusInternalServerError, "Server error")
		return
	}
	response.Info(c, http.StatusOK, "Liked post")
}

// Unlike handles PUT /api/posts/unlike/:id.
func (h *PostHandler) Unlike(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)

	if err := h.Svc.Unlike(c.Request.Context(), uid, c.Param("id")); err != nil {
		if errors.Is(err, application.ErrNotYetLiked) {
			response.Errors(c, http.StatusBadRequest, "Post has not yet been liked")
			return
		}
		h.Logger.WithError(err).Error("unlike failed")
		response.Errors(c, http.StatusInternalServerError, "Server error")
		return
	}
	response.Info(c, http.StatusOK, "Un-liked post")
}

// AddComment handles POST /api/posts/comment/:id.
func (h *PostHandler) AddComment(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)

	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorList(c, http.StatusUnprocessableEntity, validation.ToMessages(err, commentMessages))
		return
	}

	if err := h.Svc.AddComment(c.Request.Context(), uid, c.Param("id"), req.Text); err != nil {
		h.Logger.WithError(err).WithField("user_id", uid).Error("add comment failed")
		response.Errors(c, http.StatusInternalServerError, "Server error")
		return
	}
	response.Info(c, http.StatusOK, "Comment added")
}

// DeleteComment handles DELETE /api/posts/comment/:id/:comment_id. Not
// found covers both a missing comment and one authored by someone else.
func (h *PostHandler) DeleteComment(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)

	err := h.Svc.DeleteComment(c.Request.Context(), uid, c.Param("id"), c.Param("comment_id"))
	if err != nil {
		if errors.Is(err, application.ErrCommentNotFound) {
			response.Errors(c, http.StatusNotFound, "Comment not found")
			return
		}
		h.Logger.WithError(err).Error("delete comment failed")
		response.Errors(c, http.StatusInternalServerError, "Server error")
		return
	}
	response.Info(c, http.StatusOK, "Comment deleted")
}
