// Package respond writes JSON error bodies for handlers.
package respond

import (
	"net/http"

	apperrors "replyforge/internal/shared/errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Error writes err as {"error": message, "details": [...]} and aborts the request.
// Errors that are not AppErrors become a generic 500 with the given fallback message.
func Error(c *gin.Context, err error, fallback string) {
	appErr := apperrors.GetAppError(err)
	if appErr == nil {
		appErr = apperrors.NewInternalError(fallback, err)
	}

	if appErr.Code >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Str("account_id", c.GetString("account_id")).Msg(appErr.Message)
	}

	body := gin.H{"error": appErr.Message}
	if len(appErr.Fields) > 0 {
		body["details"] = appErr.Fields
	}
	c.AbortWithStatusJSON(appErr.Code, body)
}

// BindJSON binds and validates the request body, answering 400 on failure.
func BindJSON(c *gin.Context, v interface{}, message string) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		Error(c, apperrors.FromBinding(err, message), message)
		return false
	}
	return true
}
