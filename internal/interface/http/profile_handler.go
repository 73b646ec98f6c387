package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/devlinkhq/devlink-api/internal/application"
	"github.com/devlinkhq/devlink-api/internal/interface/middleware"
	"github.com/devlinkhq/devlink-api/pkg/github"
	"github.com/devlinkhq/devlink-api/pkg/response"
	"github.com/devlinkhq/devlink-api/pkg/validation"
)

// ProfileHandler serves the profile document and its sub-record operations.
type ProfileHandler struct {
	Svc    *application.ProfileService
	Github *github.Client
	Logger *logrus.Logger
}

func NewProfileHandler(svc *application.ProfileService, gh *github.Client, logger *logrus.Logger) *ProfileHandler {
	return &ProfileHandler{Svc: svc, Github: gh, Logger: logger}
}

type profileRequest struct {
	Company        string `json:"company"`
	Website        string `json:"website"`
	Location       string `json:"location"`
	Status         string `json:"status" binding:"required"`
	Skills         string `json:"skills" binding:"required"`
	Bio            string `json:"bio"`
	GithubUsername string `json:"githubusername"`
	Youtube        string `json:"youtube"`
	Twitter        string `json:"twitter"`
	Facebook       string `json:"facebook"`
	Linkedin       string `json:"linkedin"`
	Instagram      string `json:"instagram"`
}

var profileMessages = map[string]string{
	"status": "Status is required",
	"skills": "Skills is required",
}

// Upsert handles POST /api/profile: create or update, keyed by the account.
func (h *ProfileHandler) Upsert(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)

	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorList(c, http.StatusUnprocessableEntity, validation.ToMessages(err, profileMessages))
		return
	}

	p, err := h.Svc.Upsert(c.Request.Context(), uid, application.ProfileInput{
		Company:        req.Company,
		Website:        req.Website,
		Location:       req.Location,
		Status:         req.Status,
		Skills:         req.Skills,
		Bio:            req.Bio,
		GithubUsername: req.GithubUsername,
		Youtube:        req.Youtube,
		Twitter:        req.Twitter,
		Facebook:       req.Facebook,
		Linkedin:       req.Linkedin,
		Instagram:      req.Instagram,
	})
	if err != nil {
		h.Logger.WithError(err).Error("profile upsert failed")
		response.Errors(c, http.StatusInternalServerError, "Server error")
		return
	}

	c.JSON(http.StatusOK, p)
}

// Me handles GET /api/profile/me.
func (h *ProfileHandler) Me(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)

	p, err := h.Svc.Me(c.Request.Context(), uid)
	if err != nil {
		h.respondProfileErr(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// All handles GET /api/profile.
func (h *ProfileHandler) All(c *gin.Context) {
	profiles, err := h.Svc.All(c.Request.Context())
	if err != nil {
		h.Logger.WithError(err).Error("profile list failed")
		response.Errors(c, http.StatusInternalServerError, "Server error")
		return
	}
	c.JSON(http.StatusOK, profiles)
}

// ByUser handles GET /api/profile/user/:user_id.
func (h *ProfileHandler) ByUser(c *gin.Context) {
	p, err := h.Svc.ByUser(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		h.respondProfileErr(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

type experienceRequest struct {
	Title       string `json:"title" binding:"required"`
	Company     string `json:"company" binding:"required"`
	Location    string `json:"location"`
	From        string `json:"from" binding:"required"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

var experienceMessages = map[string]string{
	"title":   "Title is required",
	"company": "Company is required",
	"from":    "From date is required",
}

// AddExperience handles PUT /api/profile/experience. The profile is
// expected to pre-exist; its absence is a server fault, not a 404.
func (h *ProfileHandler) AddExperience(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)

	var req experienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorList(c, http.StatusUnprocessableEntity, validation.ToMessages(err, experienceMessages))
		return
	}

	p, err := h.Svc.AddExperience(c.Request.Context(), uid, application.ExperienceInput{
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		From:        req.From,
		To:          req.To,
		Current:     req.Current,
		Description: req.Description,
	})
	if err != nil {
		h.Logger.WithError(err).WithField("user_id", uid).Error("add experience failed")
		response.Errors(c, http.StatusInternalServerError, "Server error")
		return
	}

	c.JSON(http.StatusOK, p)
}

// DeleteExperience handles DELETE /api/profile/experience/:exp_id.
// Idempotent: deleting an absent entry still succeeds.
func (h *ProfileHandler) DeleteExperience(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)

	p, err := h.Svc.DeleteExperience(c.Request.Context(), uid, c.Param("exp_id"))
	if err != nil {
		h.Logger.WithError(err).WithField("user_id", uid).Error("delete experience failed")
		response.Errors(c, http.StatusInternalServerError, "Server error")
		return
	}
	c.JSON(http.StatusOK, p)
}

type educationRequest struct {
	School       string `json:"school" binding:"required"`
	Degree       string `json:"degree" binding:"required"`
	FieldOfStudy string `json:"fieldofstudy" binding:"required"`
	From         string `json:"from" binding:"required"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

var educationMessages = map[string]string{
	"school":       "School is required",
	"degree":       "Degree is required",
	"fieldofstudy": "Field of study is required",
	"from":         "From date is required",
}

// AddEducation handles PUT /api/profile/education.
func (h *ProfileHandler) AddEducation(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)

	var req educationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorList(c, http.StatusUnprocessableEntity, validation.ToMessages(err, educationMessages))
		return
	}

	p, err := h.Svc.AddEducation(c.Request.Context(), uid, application.EducationInput{
		School:       req.School,
		Degree:       req.Degree,
		FieldOfStudy: req.FieldOfStudy,
		From:         req.From,
		To:           req.To,
		Current:      req.Current,
		Description:  req.Description,
	})
	if err != nil {
		h.Logger.WithError(err).WithField("user_id", uid).Error("add education failed")
		response.Errors(c, http.StatusInternalServerError, "Server error")
		return
	}

	c.JSON(http.StatusOK, p)
}

// DeleteEducation handles DELETE /api/profile/education/:edu_id.
func (h *ProfileHandler) DeleteEducation(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)

	p, err := h.Svc.DeleteEducation(c.Request.Context(), uid, c.Param("edu_id"))
	if err != nil {
		h.Logger.WithError(err).WithField("user_id", uid).Error("delete education failed")
		response.Errors(c, http.StatusInternalServerError, "Server error")
		return
	}
	c.JSON(http.StatusOK, p)
}

// GithubRepos handles GET /api/profile/github/:username.
func (h *ProfileHandler) GithubRepos(c *gin.Context) {
	repos, err := h.Github.Repos(c.Request.Context(), c.Param("username"))
	if err != nil {
		response.Errors(c, http.StatusNotFound, "No Github profile found")
		return
	}
	c.JSON(http.StatusOK, repos)
}

// Search handles GET /api/profile/search?q=.
func (h *ProfileHandler) Search(c *gin.Context) {
	hits, err := h.Svc.Search(c.Request.Context(), c.Query("q"), 10)
	if err != nil {
		h.Logger.WithError(err).Error("profile search failed")
		response.Errors(c, http.StatusInternalServerError, "Server error")
		return
	}
	c.JSON(http.StatusOK, hits)
}

func (h *ProfileHandler) respondProfileErr(c *gin.Context, err error) {
	if errors.Is(err, application.ErrProfileNotFound) {
		response.Errors(c, http.StatusNotFound, "Profile not found")
		return
	}
	h.Logger.WithError(err).Error("profile lookup failed")
	response.Errors(c, http.StatusInternalServerError, "Server error")
}
