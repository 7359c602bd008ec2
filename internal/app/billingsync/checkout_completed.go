package billingsync

import (
	"context"
	"fmt"

	"replyforge/internal/infra/stripe"

	gostripe "github.com/stripe/stripe-go/v75"
	"gorm.io/gorm"
)

func (s *Service) handleCheckoutCompleted(ctx context.Context, event gostripe.Event) (*update, error) {
	var session gostripe.CheckoutSession
	if err := decode(event, &session); err != nil {
		return nil, err
	}
	if session.Mode != gostripe.CheckoutSessionModeSubscription {
		return s.skip(event, "checkout session is not a subscription")
	}
	if session.Subscription == nil || session.Subscription.ID == "" {
		return s.skip(event, "checkout session missing subscription")
	}

	sub, err := s.subs.GetSubscription(ctx, session.Subscription.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch subscription: %w", err)
	}

	// client_reference_id preferred, else subscription metadata
	accountID := session.ClientReferenceID
	if accountID == "" {
		accountID = sub.Metadata[stripe.AccountIDMetadataKey]
	}
	if accountID == "" {
		return s.skip(event, "checkout session has no account reference")
	}

	account, err := s.findByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return s.skip(event, "account not found for checkout")
	}

	tier, ok := s.registry.TierForPrice(sub.PriceID)
	if !ok {
		return s.skip(event, "unknown price id "+sub.PriceID)
	}

	customerID := sub.CustomerID
	if session.Customer != nil && session.Customer.ID != "" {
		customerID = session.Customer.ID
	}

	if account.HasActiveSubscription() && *account.StripeSubscriptionID != sub.ID {
		s.log.Warn().Str("account_id", account.ID).Str("old_subscription", *account.StripeSubscriptionID).
			Str("new_subscription", sub.ID).Msg("checkout replaces an existing subscription")
	}

	fields := map[string]interface{}{
		"plan":                       tier,
		"responses_limit":            tier.Limits().Responses,
		"responses_used":             0,
		"stripe_subscription_id":     sub.ID,
		"stripe_price_id":            sub.PriceID,
		"stripe_current_period_end":  periodEnd(sub.CurrentPeriodEnd),
		"stripe_subscription_status": sub.Status,
		"cancel_at_period_end":       sub.CancelAtPeriodEnd,
	}
	if customerID != "" {
		fields["stripe_customer_id"] = customerID
	}

	return &update{
		accountID: account.ID,
		fromPlan:  account.Plan,
		toPlan:    tier,
		apply: func(tx *gorm.DB) error {
			return updateAccount(tx, account.ID, fields)
		},
	}, nil
}
