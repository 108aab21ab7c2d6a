package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vicdevmanx/gurutasks/internal/domain/repository"
	"github.com/vicdevmanx/gurutasks/pkg/helpers"
	"github.com/vicdevmanx/gurutasks/pkg/response"
)

const CtxUserIDKey = "userID"

// Auth reads the Authorization bearer token, validates it, and injects the
// user id into the Gin context.
func Auth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			response.AbortError(c, http.StatusUnauthorized, "not authorized, no token", nil)
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")
		uid, err := jwt.Parse(token)
		if err != nil {
			response.AbortError(c, http.StatusUnauthorized, "invalid access token", err.Error())
			return
		}
		c.Set(CtxUserIDKey, uid)
		c.Next()
	}
}

// UserID returns the authenticated user id set by Auth.
func UserID(c *gin.Context) int64 {
	v, ok := c.Get(CtxUserIDKey)
	if !ok {
		return 0
	}
	id, _ := v.(int64)
	return id
}

// AdminOnly gates a route to users whose access_role is admin. The check
// reads the user row so a role change takes effect without reissuing
// tokens.
func AdminOnly(users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := UserID(c)
		if uid == 0 {
			response.AbortError(c, http.StatusUnauthorized, "not authorized", nil)
			return
		}
		u, err := users.GetByID(c.Request.Context(), uid)
		if err != nil {
			response.AbortError(c, http.StatusUnauthorized, "not authorized", nil)
			return
		}
		if u.AccessRole != "admin" {
			response.AbortError(c, http.StatusForbidden, "forbidden, admins only", nil)
			return
		}
		c.Next()
	}
}
