package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	authctx "github.com/atelier-interiors/cms-backend/internal/auth"
)

const HeaderAdminKey = "X-Admin-Key"

// APIKey admits requests carrying the shared admin key. With no key
// configured every request is refused.
func APIKey(expected string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(HeaderAdminKey)
		if expected == "" || key == "" || subtle.ConstantTimeCompare([]byte(key), []byte(expected)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"ok":    false,
				"error": "invalid admin key",
			})
			return
		}
		authctx.GrantAdmin(c, "api_key")
		c.Next()
	}
}
