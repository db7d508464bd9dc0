package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RequireRole must be mounted after RequireAuth. Without an identity on the
// context it rejects rather than letting the request through.
func (m *AuthMiddleware) RequireRole(allowed ...string) gin.HandlerFunc {
	set := make(map[string]struct{}, len(allowed))
	for _, r := range allowed {
		set[r] = struct{}{}
	}

	message := "Requires role: " + strings.Join(allowed, " or ")

	return func(c *gin.Context) {
		role, ok := RoleFromContext(c)

		if !ok {
			abortUnauthorized(c, "Missing identity context")
			return
		}

		if _, permitted := set[role]; !permitted {
			abortWithError(c, http.StatusForbidden, "forbidden", message)
			return
		}
		c.Next()
	}
}
