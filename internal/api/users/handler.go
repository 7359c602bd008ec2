package users

import (
	"net/http"
	"time"

	"replyforge/internal/api/respond"
	"replyforge/internal/app/http/middleware"
	"replyforge/internal/domain/accounts"
	"replyforge/internal/domain/billing"
	"replyforge/internal/domain/businesses"
	"replyforge/internal/domain/responses"
	"replyforge/internal/domain/templates"
	"replyforge/internal/domain/usage"
	stripeinfra "replyforge/internal/infra/stripe"
	apperrors "replyforge/internal/shared/errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type Handler struct {
	db     *gorm.DB
	stripe stripeinfra.Gateway
}

func NewHandler(db *gorm.DB, gateway stripeinfra.Gateway) *Handler {
	return &Handler{db: db, stripe: gateway}
}

// GetCurrentUser handles GET /user.
func (h *Handler) GetCurrentUser(c *gin.Context) {
	c.JSON(http.StatusOK, BuildMeResponse(middleware.CurrentAccount(c)))
}

// UpdateCurrentUser handles PATCH /user.
func (h *Handler) UpdateCurrentUser(c *gin.Context) {
	var req UpdateMeRequest
	if !respond.BindJSON(c, &req, "Invalid data") {
		return
	}

	a := middleware.CurrentAccount(c)
	ctx := c.Request.Context()
	if cols := updateColumns(req); len(cols) > 0 {
		cols["updated_at"] = time.Now()
		if err := h.db.WithContext(ctx).Model(&accounts.Account{}).Where("id = ?", a.ID).Updates(cols).Error; err != nil {
			respond.Error(c, err, "Failed to update user")
			return
		}
	}

	updated, err := accounts.Find(ctx, h.db, a.ID)
	if err != nil {
		respond.Error(c, err, "Failed to update user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": BuildMeResponse(updated)})
}

// DeleteCurrentUser handles DELETE /user. The Stripe subscription is cancelled first so a
// failed cancellation leaves the account intact.
func (h *Handler) DeleteCurrentUser(c *gin.Context) {
	a := middleware.CurrentAccount(c)
	ctx := c.Request.Context()

	if a.HasActiveSubscription() {
		if err := h.stripe.CancelSubscription(ctx, *a.StripeSubscriptionID); err != nil {
			respond.Error(c, apperrors.NewDownstreamError("Failed to delete account", err), "Failed to delete account")
			return
		}
	}

	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owned := []interface{}{
			&responses.GeneratedResponse{},
			&usage.Record{},
			&templates.Template{},
			&businesses.Business{},
			&billing.Payment{},
		}
		for _, model := range owned {
			if err := tx.Where("account_id = ?", a.ID).Delete(model).Error; err != nil {
				return err
			}
		}
		return tx.Where("id = ?", a.ID).Delete(&accounts.Account{}).Error
	})
	if err != nil {
		respond.Error(c, err, "Failed to delete account")
		return
	}

	log.Info().Str("account_id", a.ID).Msg("account deleted")
	c.JSON(http.StatusOK, gin.H{"success": true})
}
