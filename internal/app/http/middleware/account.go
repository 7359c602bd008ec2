package middleware

import (
	"errors"
	"net/http"

	"replyforge/internal/domain/accounts"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// RequireAccount loads the caller's account row. Runs after AuthMiddleware.
func RequireAccount(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		account, err := accounts.Find(c.Request.Context(), db, c.GetString(ContextAccountID))
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		if err != nil {
			log.Error().Err(err).Msg("load account")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load account"})
			return
		}
		c.Set(ContextAccount, account)
		c.Next()
	}
}

// CurrentAccount returns the account loaded by RequireAccount.
func CurrentAccount(c *gin.Context) *accounts.Account {
	v, ok := c.Get(ContextAccount)
	if !ok {
		return nil
	}
	a, _ := v.(*accounts.Account)
	return a
}
