package modules

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	handlers "github.com/devlinkhq/devlink-api/internal/interface/http"
	"github.com/devlinkhq/devlink-api/internal/interface/middleware"
	"github.com/devlinkhq/devlink-api/pkg/helpers"
)

// ProfileModule wires the profile document and sub-record routes under
// /api/profile.
type ProfileModule struct {
	Handler *handlers.ProfileHandler
	JWT     *helpers.JWTManager
	Logger  *logrus.Logger
}

func NewProfile(h *handlers.ProfileHandler, jwt *helpers.JWTManager, logger *logrus.Logger) *ProfileModule {
	return &ProfileModule{Handler: h, JWT: jwt, Logger: logger}
}

func (m *ProfileModule) Register(rg *gin.RouterGroup) {
	grp := rg.Group("/profile")

	// Public
	grp.GET("", m.Handler.All)
	grp.GET("/user/:user_id", m.Handler.ByUser)
	grp.GET("/github/:username", m.Handler.GithubRepos)
	grp.GET("/search", m.Handler.Search)

	// Protected
	auth := grp.Group("")
	auth.Use(middleware.Auth(m.JWT, m.Logger))
	{
		auth.POST("", m.Handler.Upsert)
		auth.GET("/me", m.Handler.Me)
		auth.PUT("/experience", m.Handler.AddExperience)
		auth.DELETE("/experience/:exp_id", m.Handler.DeleteExperience)
		auth.PUT("/education", m.Handler.AddEducation)
		auth.DELETE("/education/:edu_id", m.Handler.DeleteEducation)
	}
}
