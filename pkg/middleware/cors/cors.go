package cors

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const allowedHeaders = "Authorization, Content-Type, X-Requested-With, X-Request-ID"
const allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"

// New returns a CORS middleware honoring the configured origin list. An empty
// list or a "*" entry allows any origin.
func New(allowedOrigins []string) gin.HandlerFunc {
	allowAll := len(allowedOrigins) == 0
	originSet := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		if origin == "*" {
			allowAll = true
			continue
		}
		originSet[strings.TrimRight(origin, "/")] = struct{}{}
	}

	return func(c *gin.Context) {
		header := c.Writer.Header()

		switch origin := c.GetHeader("Origin"); {
		case origin == "" && allowAll:
			header.Set("Access-Control-Allow-Origin", "*")
		case origin != "" && allowAll:
			header.Set("Access-Control-Allow-Origin", origin)
		case origin != "":
			if _, ok := originSet[strings.TrimRight(origin, "/")]; ok {
				header.Set("Access-Control-Allow-Origin", origin)
			}
		}

		header.Set("Vary", "Origin")
		header.Set("Access-Control-Allow-Credentials", "true")
		header.Set("Access-Control-Allow-Headers", allowedHeaders)
		header.Set("Access-Control-Allow-Methods", allowedMethods)
		header.Set("Access-Control-Max-Age", "600")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
