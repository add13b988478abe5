// README: JWT auth middleware and role gates.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"fleetops/internal/auth"
	"fleetops/internal/modules/user"
	"fleetops/internal/types"
)

// UserSource resolves the authenticated principal; in production it is
// the user service.
type UserSource interface {
	Get(ctx context.Context, id types.ID) (*user.User, error)
}

// Auth validates the bearer token and attaches the active user to the
// request context under the "user" key.
func Auth(tokens *auth.TokenService, users UserSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abort(c, http.StatusUnauthorized, "missing or malformed authorization header")
			return
		}
		claims, err := tokens.Validate(parts[1])
		if err != nil {
			abort(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		u, err := users.Get(c.Request.Context(), types.ID(claims.Subject))
		if err != nil || !u.IsActive {
			abort(c, http.StatusUnauthorized, "inactive or missing user")
			return
		}
		c.Set("user", u)
		c.Next()
	}
}

// RequireRole gates a route on a role name.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get("user")
		if !ok {
			abort(c, http.StatusUnauthorized, "not authenticated")
			return
		}
		u, ok := v.(*user.User)
		if !ok || !u.HasRole(role) {
			abort(c, http.StatusForbidden, "permission denied")
			return
		}
		c.Next()
	}
}

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
