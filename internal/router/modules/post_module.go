package modules

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	handlers "github.com/devlinkhq/devlink-api/internal/interface/http"
	"github.com/devlinkhq/devlink-api/internal/interface/middleware"
	"github.com/devlinkhq/devlink-api/pkg/helpers"
)

// PostModule wires post routes under /api/posts. Only the public feed
// skips the auth gate.
type PostModule struct {
	Handler *handlers.PostHandler
	JWT     *helpers.JWTManager
	Logger  *logrus.Logger
}

func NewPost(h *handlers.PostHandler, jwt *helpers.JWTManager, logger *logrus.Logger) *PostModule {
	return &PostModule{Handler: h, JWT: jwt, Logger: logger}
}

func (m *PostModule) Register(rg *gin.RouterGroup) {
	grp := rg.Group("/posts")

	// Public feed
	grp.GET("/all", m.Handler.Feed)

	// Protected
	auth := grp.Group("")
	auth.Use(middleware.Auth(m.JWT, m.Logger))
	{
		auth.POST("", m.Handler.Create)
		auth.GET("", m.Handler.Mine)
		auth.GET("/:id", m.Handler.Get)
		auth.DELETE("/:id", m.Handler.Delete)
		auth.PUT("/like/:id", m.Handler.Like)
		auth.PUT("/unlike/:id", m.Handler.Unlike)
		auth.POST("/comment/:id", m.Handler.AddComment)
		auth.DELETE("/comment/:id/:comment_id", m.Handler.DeleteComment)
	}
}
