package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RequireAdmin lets through only callers whose verified email is on the operator list.
func RequireAdmin(emails []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			allowed[e] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		email := strings.ToLower(c.GetString(ContextEmail))
		if _, ok := allowed[email]; !ok || email == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}
		c.Next()
	}
}
