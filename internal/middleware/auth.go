package middleware

import (
	"errors"
	"net/http"
	"strings"

	"Campus_Portal/internal/pkg"
	"Campus_Portal/internal/repository"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserIDKey = "user_id"
	ContextRoleKey   = "role"
)

// AuthMiddleware 校验 access token，并要求它是 redis 中当前的登录态
func AuthMiddleware(jwtm *pkg.JWTManager, sessions repository.SessionRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, "invalid authorization format")
			return
		}
		tokenStr := parts[1]

		claims, err := jwtm.ParseAccess(tokenStr)
		if err != nil {
			if errors.Is(err, pkg.ErrTokenExpired) {
				abortUnauthorized(c, "token expired")
				return
			}
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		// redis校验是否是正确的token
		sess, err := sessions.Get(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrSessionNotFound) {
				abortUnauthorized(c, "session expired")
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"code": "internal", "msg": err.Error()})
			return
		}
		if sess.AccessToken != tokenStr {
			abortUnauthorized(c, "account has been logged in elsewhere")
			return
		}

		// 校验通过后更新过期时间
		if err := sessions.Extend(c.Request.Context(), claims.UserID, pkg.RefreshTTL); err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"code": "internal", "msg": err.Error()})
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextRoleKey, claims.Role)
		c.Next()
	}
}

// AdminOnly 必须在 AuthMiddleware 之后使用
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextRoleKey) != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"code": pkg.ErrForbidden.Code, "msg": "admin access required"})
			return
		}
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": "unauthorized", "msg": msg})
}
