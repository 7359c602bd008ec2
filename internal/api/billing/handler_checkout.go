package billing

import (
	"net/http"

	"replyforge/internal/api/respond"
	"replyforge/internal/app/http/middleware"
	"replyforge/internal/domain/plans"
	stripeinfra "replyforge/internal/infra/stripe"
	apperrors "replyforge/internal/shared/errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const msgSubscriptionFailed = "Failed to process subscription request"

func (h *Handler) checkout(c *gin.Context, planKey string) {
	tier, err := plans.ParseTier(planKey)
	if err != nil || !tier.Paid() {
		respond.Error(c, apperrors.NewBadRequestError("Invalid plan"), "")
		return
	}
	priceID, ok := h.registry.PriceID(tier)
	if !ok {
		respond.Error(c, apperrors.NewBadRequestError("Invalid plan"), "")
		return
	}

	a := middleware.CurrentAccount(c)
	params := stripeinfra.CheckoutParams{
		AccountID:  a.ID,
		Email:      a.Email,
		PriceID:    priceID,
		SuccessURL: h.returnURL() + "?success=true&session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  h.returnURL() + "?canceled=true",
	}
	if a.StripeCustomerID != nil {
		params.CustomerID = *a.StripeCustomerID
	}

	url, err := h.stripe.CreateCheckoutSession(c.Request.Context(), params)
	if err != nil {
		respond.Error(c, apperrors.NewDownstreamError(msgSubscriptionFailed, err), msgSubscriptionFailed)
		return
	}

	log.Info().Str("account_id", a.ID).Str("plan", string(tier)).Msg("checkout session created")
	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (h *Handler) portal(c *gin.Context) {
	a := middleware.CurrentAccount(c)
	if a.StripeCustomerID == nil || *a.StripeCustomerID == "" {
		respond.Error(c, apperrors.NewBadRequestError("No active subscription found"), "")
		return
	}

	url, err := h.stripe.CreatePortalSession(c.Request.Context(), *a.StripeCustomerID, h.returnURL())
	if err != nil {
		respond.Error(c, apperrors.NewDownstreamError(msgSubscriptionFailed, err), msgSubscriptionFailed)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
