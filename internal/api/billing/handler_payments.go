package billing

import (
	"net/http"

	"replyforge/internal/api/respond"
	"replyforge/internal/domain/billing"

	"github.com/gin-gonic/gin"
)

// GetPaymentHistory handles GET /payments, newest first.
func (h *Handler) GetPaymentHistory(c *gin.Context) {
	var payments []billing.Payment
	if err := h.db.WithContext(c.Request.Context()).
		Where("account_id = ?", c.GetString("account_id")).
		Order("created_at DESC").
		Find(&payments).Error; err != nil {
		respond.Error(c, err, "Failed to load payments")
		return
	}

	c.JSON(http.StatusOK, gin.H{"payments": payments})
}
