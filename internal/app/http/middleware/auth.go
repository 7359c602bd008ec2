package middleware

import (
	"net/http"
	"strings"

	"replyforge/internal/infra/identity"

	"github.com/gin-gonic/gin"
)

const (
	ContextAccountID = "account_id"
	ContextEmail     = "email"
	ContextAccount   = "account"
)

// AuthMiddleware accepts a bearer token or the session cookie and resolves the caller through verifier.
func AuthMiddleware(verifier identity.Verifier, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c.GetHeader("Authorization"))
		if raw == "" && cookieName != "" {
			raw, _ = c.Cookie(cookieName)
		}
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		principal, err := verifier.Verify(c.Request.Context(), raw)
		if err != nil || principal.Subject == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Set(ContextAccountID, principal.Subject)
		c.Set(ContextEmail, principal.Email)
		c.Next()
	}
}

func bearerToken(header string) string {
	token := strings.TrimPrefix(header, "Bearer ")
	if token == header {
		return ""
	}
	return strings.TrimSpace(token)
}
