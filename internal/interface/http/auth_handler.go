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

// AuthHandler serves registration, login, and the current-account lookup.
type AuthHandler struct {
	Svc    *application.AccountService
	Logger *logrus.Logger
}

func NewAuthHandler(svc *application.AccountService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

var registerMessages = map[string]string{
	"name":     "Name is required",
	"email":    "Please include a valid email",
	"password": "Please enter a password of 6 characters or more",
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

var loginMessages = map[string]string{
	"email":    "Please enter a valid email",
	"password": "Please enter a password",
}

// Register handles POST /api/users.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorList(c, http.StatusUnprocessableEntity, validation.ToMessages(err, registerMessages))
		return
	}

	token, _, err := h.Svc.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, application.ErrAlreadyRegistered) {
			response.Errors(c, http.StatusConflict, "User already registered")
			return
		}
		h.Logger.WithError(err).Error("register failed")
		response.Errors(c, http.StatusInternalServerError, "Server error")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": token})
}

// Login handles POST /api/auth.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorList(c, http.StatusUnprocessableEntity, validation.ToMessages(err, loginMessages))
		return
	}

	token, _, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, application.ErrInvalidCredentials) {
			response.Errors(c, http.StatusBadRequest, "Invalid credentials")
			return
		}
		h.Logger.WithError(err).Error("login failed")
		response.Errors(c, http.StatusInternalServerError, "Server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Current handles GET /api/auth: the authenticated account, password
// excluded.
func (h *AuthHandler) Current(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)

	acct, err := h.Svc.Current(c.Request.Context(), uid)
	if err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			response.Errors(c, http.StatusNotFound, "User was not found")
			return
		}
		h.Logger.WithError(err).Error("current account lookup failed")
		response.Errors(c, http.StatusInternalServerError, "Server error")
		return
	}

	c.JSON(http.StatusOK, acct)
}
