package billingsync

import (
	"context"

	"replyforge/internal/infra/stripe"

	gostripe "github.com/stripe/stripe-go/v75"
	"gorm.io/gorm"
)

// handleSubscriptionUpdated follows upgrades and downgrades. Usage carries over.
func (s *Service) handleSubscriptionUpdated(ctx context.Context, event gostripe.Event) (*update, error) {
	var raw gostripe.Subscription
	if err := decode(event, &raw); err != nil {
		return nil, err
	}
	sub := stripe.FromStripe(&raw)
	if sub.ID == "" || sub.PriceID == "" {
		return s.skip(event, "subscription missing id or price")
	}

	account, err := s.findAccount(ctx, sub.ID, sub.Metadata)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return s.skip(event, "no account for subscription "+sub.ID)
	}
	if supersedes(account, sub.ID) {
		return s.skip(event, "subscription is not the account's current one")
	}

	tier, ok := s.registry.TierForPrice(sub.PriceID)
	if !ok {
		return s.skip(event, "unknown price id "+sub.PriceID)
	}

	fields := map[string]interface{}{
		"plan":                       tier,
		"responses_limit":            tier.Limits().Responses,
		"stripe_subscription_id":     sub.ID,
		"stripe_price_id":            sub.PriceID,
		"stripe_current_period_end":  periodEnd(sub.CurrentPeriodEnd),
		"stripe_subscription_status": sub.Status,
		"cancel_at_period_end":       sub.CancelAtPeriodEnd,
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
