package middleware

import (
	"net/http"

	"replyforge/internal/infra/ratelimit"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// KeyFunc picks the identifier a request is counted under.
type KeyFunc func(c *gin.Context) string

// RateLimit rejects requests over cfg with 429. A nil limiter or a limiter error lets the request through.
func RateLimit(limiter ratelimit.Limiter, cfg ratelimit.Config, key KeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		k := key(c)
		allowed, err := limiter.Allow(c.Request.Context(), k, cfg)
		if err != nil {
			log.Warn().Err(err).Str("key", k).Msg("rate limiter unavailable")
			c.Next()
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests. Please try again later."})
			return
		}
		c.Next()
	}
}

func ByAccount(prefix string) KeyFunc {
	return func(c *gin.Context) string {
		return prefix + ":" + c.GetString(ContextAccountID)
	}
}

func ByClientIP(prefix string) KeyFunc {
	return func(c *gin.Context) string {
		return prefix + ":" + c.ClientIP()
	}
}
