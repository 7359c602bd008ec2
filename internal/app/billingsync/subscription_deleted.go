package billingsync

import (
	"context"

	"replyforge/internal/domain/plans"
	"replyforge/internal/infra/stripe"

	gostripe "github.com/stripe/stripe-go/v75"
	"gorm.io/gorm"
)

// handleSubscriptionDeleted always lands the account on FREE.
func (s *Service) handleSubscriptionDeleted(ctx context.Context, event gostripe.Event) (*update, error) {
	var raw gostripe.Subscription
	if err := decode(event, &raw); err != nil {
		return nil, err
	}
	if raw.ID == "" {
		return s.skip(event, "subscription missing id")
	}

	account, err := s.findAccount(ctx, raw.ID, raw.Metadata)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return s.skip(event, "no account for subscription "+raw.ID)
	}
	// a stale deletion must not drop a newer subscription
	if supersedes(account, raw.ID) {
		return s.skip(event, "deleted subscription is not the account's current one")
	}

	fields := map[string]interface{}{
		"plan":                       plans.TierFree,
		"responses_limit":            plans.TierFree.Limits().Responses,
		"stripe_customer_id":         nil,
		"stripe_subscription_id":     nil,
		"stripe_price_id":            nil,
		"stripe_current_period_end":  nil,
		"stripe_subscription_status": stripe.StatusCanceled,
		"cancel_at_period_end":       false,
	}

	return &update{
		accountID: account.ID,
		fromPlan:  account.Plan,
		toPlan:    plans.TierFree,
		apply: func(tx *gorm.DB) error {
			return updateAccount(tx, account.ID, fields)
		},
	}, nil
}
