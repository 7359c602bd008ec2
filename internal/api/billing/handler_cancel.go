package billing

import (
	"net/http"

	"replyforge/internal/api/respond"
	"replyforge/internal/app/http/middleware"
	"replyforge/internal/domain/accounts"
	apperrors "replyforge/internal/shared/errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// setCancelAtPeriodEnd schedules or withdraws cancellation at the end of the paid period.
// The plan itself only changes when Stripe reports the subscription deleted.
func (h *Handler) setCancelAtPeriodEnd(c *gin.Context, cancel bool) {
	a := middleware.CurrentAccount(c)
	if !a.HasActiveSubscription() {
		respond.Error(c, apperrors.NewBadRequestError("No active subscription found"), "")
		return
	}

	sub, err := h.stripe.SetCancelAtPeriodEnd(c.Request.Context(), *a.StripeSubscriptionID, cancel)
	if err != nil {
		respond.Error(c, apperrors.NewDownstreamError(msgSubscriptionFailed, err), msgSubscriptionFailed)
		return
	}

	fields := map[string]interface{}{"cancel_at_period_end": sub.CancelAtPeriodEnd}
	if sub.Status != "" {
		fields["stripe_subscription_status"] = sub.Status
	}
	if err := h.db.WithContext(c.Request.Context()).
		Model(&accounts.Account{}).
		Where("id = ?", a.ID).
		Updates(fields).Error; err != nil {
		respond.Error(c, err, msgSubscriptionFailed)
		return
	}

	log.Info().Str("account_id", a.ID).Bool("cancel_at_period_end", sub.CancelAtPeriodEnd).Msg("subscription cancellation toggled")

	var periodEnd interface{}
	if !sub.CurrentPeriodEnd.IsZero() {
		periodEnd = sub.CurrentPeriodEnd
	}
	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"cancelAtPeriodEnd": sub.CancelAtPeriodEnd,
		"currentPeriodEnd":  periodEnd,
	})
}
