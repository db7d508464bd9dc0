package middlewares

import (
	"net/http"
	"strings"

	"github.com/geocoder89/docgate/internal/actorctx"
	"github.com/geocoder89/docgate/internal/auth"
	"github.com/gin-gonic/gin"
)

// Keep this small interface so tests can fake it easily.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type AuthMiddleware struct {
	jwt TokenVerifier
}

func NewAuthMiddleware(jwt TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt}
}

func abortUnauthorized(c *gin.Context, message string) {
	abortWithError(c, http.StatusUnauthorized, "unauthorized", message)
}

// RequireAuth admits a request only with a valid "Bearer <token>" header.
// On success the identity is stored on both the gin and the request context.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "Missing Authorization header")
			return
		}

		scheme, raw, found := strings.Cut(authHeader, " ")
		raw = strings.TrimSpace(raw)
		if !found || !strings.EqualFold(scheme, "Bearer") || raw == "" || strings.Contains(raw, " ") {
			abortUnauthorized(c, "Malformed Authorization header")
			return
		}

		claims, err := m.jwt.Verify(raw)
		if err != nil {
			abortUnauthorized(c, "Invalid or expired access token")
			return
		}

		c.Set(ctxUserIDKey, claims.UserID())
		c.Set(ctxUsernameKey, claims.Username)
		c.Set(ctxRoleKey, claims.Role)

		c.Request = c.Request.WithContext(actorctx.With(c.Request.Context(), actorctx.Identity{
			UserID:   claims.UserID(),
			Username: claims.Username,
			Role:     claims.Role,
		}))

		c.Next()
	}
}

// helpers so handlers don't need to know the magic keys

func UserIDFromContext(c *gin.Context) (string, bool) {
	return stringFromContext(c, ctxUserIDKey)
}

func UsernameFromContext(c *gin.Context) (string, bool) {
	return stringFromContext(c, ctxUsernameKey)
}

func RoleFromContext(c *gin.Context) (string, bool) {
	return stringFromContext(c, ctxRoleKey)
}

func stringFromContext(c *gin.Context, key string) (string, bool) {
	v, ok := c.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok && s != ""
}
