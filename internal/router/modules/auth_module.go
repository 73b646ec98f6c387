package modules

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	handlers "github.com/devlinkhq/devlink-api/internal/interface/http"
	"github.com/devlinkhq/devlink-api/internal/interface/middleware"
	"github.com/devlinkhq/devlink-api/pkg/helpers"
)

// AuthModule wires registration and login routes.
// Public: POST /api/users (register), POST /api/auth (login)
// Protected: GET /api/auth (current account)
type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
	Logger  *logrus.Logger
}

func NewAuth(h *handlers.AuthHandler, jwt *helpers.JWTManager, logger *logrus.Logger) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt, Logger: logger}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rg.POST("/users", m.Handler.Register)
	rg.POST("/auth", m.Handler.Login)
	rg.GET("/auth", middleware.Auth(m.JWT, m.Logger), m.Handler.Current)
}
