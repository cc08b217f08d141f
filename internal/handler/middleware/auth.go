package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"giftcard-fulfillment/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
)

const ctxAdminUserKey = "admin_user"

type AuthMiddleware struct {
	jwt *jwt.Service
}

func NewAuthMiddleware(jwtService *jwt.Service) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwtService}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string

		authHeader := c.GetHeader("Authorization")
		if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimSpace(authHeader[len("Bearer "):])
		}

		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Access token required",
			})
			c.Abort()
			return
		}

		claims, err := m.jwt.ValidateToken(token)
		if err != nil {
			slog.Warn("Token validation failed in auth middleware", "error", err.Error())
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set(ctxAdminUserKey, claims.User)
		c.Next()
	}
}

func GetAdminUser(c *gin.Context) (string, bool) {
	user, ok := c.Get(ctxAdminUserKey)
	if !ok {
		return "", false
	}
	s, ok := user.(string)
	return s, ok
}
