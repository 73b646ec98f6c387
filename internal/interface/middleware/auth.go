package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/devlinkhq/devlink-api/pkg/helpers"
	"github.com/devlinkhq/devlink-api/pkg/response"
)

// CtxUserIDKey is where the verified account id lives in the Gin context.
const CtxUserIDKey = "userID"

// TokenHeader carries the opaque session token.
const TokenHeader = "x-auth-token"

// Auth is the request gate for protected routes. A missing header rejects
// with "Access denied", a failed verification with "Token not valid"; on
// success the verified user id is attached to the context and the handler
// runs. Rejection is terminal and has no side effect beyond a log line.
func Auth(jwt *helpers.JWTManager, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(TokenHeader)
		if token == "" {
			response.AbortErrors(c, http.StatusUnauthorized, "Access denied")
			return
		}
		claims, err := jwt.Parse(token)
		if err != nil {
			if logger != nil {
				logger.WithField("request_id", c.GetString("request_id")).Debug("token verification failed")
			}
			response.AbortErrors(c, http.StatusUnauthorized, "Token not valid")
			return
		}
		c.Set(CtxUserIDKey, claims.UserID)
		c.Next()
	}
}
