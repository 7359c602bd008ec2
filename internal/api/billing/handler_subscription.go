package billing

import (
	"net/http"
	"time"

	"replyforge/internal/api/respond"
	"replyforge/internal/app/http/middleware"
	"replyforge/internal/domain/plans"
	stripeinfra "replyforge/internal/infra/stripe"
	apperrors "replyforge/internal/shared/errors"

	"github.com/gin-gonic/gin"
)

type subscriptionView struct {
	Plan                  plans.Tier `json:"plan"`
	HasActiveSubscription bool       `json:"hasActiveSubscription"`
	Status                string     `json:"status"`
	CancelAtPeriodEnd     bool       `json:"cancelAtPeriodEnd"`
	CurrentPeriodEnd      *time.Time `json:"currentPeriodEnd"`
	ResponsesUsed         int        `json:"responsesUsed"`
	ResponsesLimit        int        `json:"responsesLimit"`
}

// GetSubscription handles GET /subscription.
func (h *Handler) GetSubscription(c *gin.Context) {
	a := middleware.CurrentAccount(c)
	c.JSON(http.StatusOK, subscriptionView{
		Plan:                  a.Plan,
		HasActiveSubscription: a.HasActiveSubscription(),
		Status:                stripeinfra.NormalizeStatus(a.StripeStatus),
		CancelAtPeriodEnd:     a.CancelAtPeriodEnd,
		CurrentPeriodEnd:      a.StripeCurrentPeriodEnd,
		ResponsesUsed:         a.ResponsesUsed,
		ResponsesLimit:        a.ResponsesLimit,
	})
}

type subscriptionAction struct {
	Action string `json:"action"`
	Plan   string `json:"plan"`
}

// PostSubscription handles POST /subscription with action checkout, portal, cancel or reactivate.
func (h *Handler) PostSubscription(c *gin.Context) {
	var body subscriptionAction
	if !respond.BindJSON(c, &body, "Invalid request data") {
		return
	}

	switch body.Action {
	case "checkout":
		h.checkout(c, body.Plan)
	case "portal":
		h.portal(c)
	case "cancel":
		h.setCancelAtPeriodEnd(c, true)
	case "reactivate":
		h.setCancelAtPeriodEnd(c, false)
	default:
		respond.Error(c, apperrors.NewBadRequestError("Invalid action"), "")
	}
}
