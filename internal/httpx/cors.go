package httpx

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS allows credentialed browser requests from the listed origins only.
// Requests without an Origin header (curl, server-to-server) and same-host
// requests pass through; any other origin is answered with 403.
func CORS(allowed []string) gin.HandlerFunc {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		set[o] = struct{}{}
	}
	isAllowed := func(origin string) bool {
		_, ok := set[origin]
		return ok
	}

	mw := cors.New(cors.Config{
		AllowOriginFunc: isAllowed,
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowHeaders:     []string{"Content-Type", "Authorization", "X-Requested-With", "Token"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		sameHost := origin == "http://"+c.Request.Host || origin == "https://"+c.Request.Host
		if origin != "" && !sameHost && !isAllowed(origin) {
			Fail(c, http.StatusForbidden, "Not allowed by CORS")
			return
		}
		mw(c)
	}
}
