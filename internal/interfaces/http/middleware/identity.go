// internal/interfaces/http/middleware/identity.go
package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Identity resolves the acting user from the X-User-ID header set by the
// authenticating gateway in front of this service. Requests without a valid
// ID are rejected; document and ledger writes need an actor for their audit
// trails.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.Request.Header.Get("X-User-ID")
		if header == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "X-User-ID header is required",
			})
			c.Abort()
			return
		}

		userID, err := strconv.ParseUint(header, 10, 32)
		if err != nil || userID == 0 {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "X-User-ID header must be a positive integer",
			})
			c.Abort()
			return
		}

		c.Set("user_id", uint(userID))
		c.Next()
	}
}

// GetUserID returns the acting user resolved by Identity, 0 when absent
func GetUserID(c *gin.Context) uint {
	if v, ok := c.Get("user_id"); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}
