package httpx

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/aura-store/internal/auth"
)

const userIDKey = "uid"

// TokenParser is satisfied by *auth.Tokens.
type TokenParser interface {
	Parse(raw string) (*auth.Claims, error)
}

func bearer(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if t, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(t)
		}
	}
	return strings.TrimSpace(c.GetHeader("Token"))
}

// RequireRole rejects requests whose token is missing, invalid or carries another role.
func RequireRole(tokens TokenParser, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearer(c)
		if raw == "" {
			Fail(c, http.StatusUnauthorized, "Not authorized, login again")
			return
		}
		claims, err := tokens.Parse(raw)
		if err != nil {
			Fail(c, http.StatusUnauthorized, "Not authorized, login again")
			return
		}
		if claims.Role != role {
			Fail(c, http.StatusForbidden, "Forbidden")
			return
		}
		c.Set(userIDKey, claims.Subject)
		c.Next()
	}
}

// UserID is the subject of the token accepted by RequireRole.
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
