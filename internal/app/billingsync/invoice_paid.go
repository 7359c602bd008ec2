package billingsync

import (
	"context"
	"fmt"
	"strings"

	"replyforge/internal/domain/billing"

	gostripe "github.com/stripe/stripe-go/v75"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// handleInvoicePaid starts a new billing period: usage goes back to zero.
func (s *Service) handleInvoicePaid(ctx context.Context, event gostripe.Event) (*update, error) {
	var inv gostripe.Invoice
	if err := decode(event, &inv); err != nil {
		return nil, err
	}
	if inv.Subscription == nil || inv.Subscription.ID == "" {
		return s.skip(event, "invoice is not tied to a subscription")
	}

	sub, err := s.subs.GetSubscription(ctx, inv.Subscription.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch subscription: %w", err)
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

	fields := map[string]interface{}{
		"responses_used":             0,
		"stripe_subscription_id":     sub.ID,
		"stripe_current_period_end":  periodEnd(sub.CurrentPeriodEnd),
		"stripe_subscription_status": sub.Status,
	}
	tier := account.Plan
	if t, ok := s.registry.TierForPrice(sub.PriceID); ok {
		tier = t
		fields["plan"] = t
		fields["responses_limit"] = t.Limits().Responses
		fields["stripe_price_id"] = sub.PriceID
	} else {
		s.log.Warn().Str("event_id", event.ID).Str("price_id", sub.PriceID).Msg("unknown price, keeping current plan")
	}

	payment := &billing.Payment{
		AccountID:            account.ID,
		Plan:                 tier,
		StripeInvoiceID:      inv.ID,
		StripeSubscriptionID: &sub.ID,
		AmountUSD:            float64(inv.AmountPaid) / 100.0,
		Currency:             strings.ToUpper(string(inv.Currency)),
		Status:               "paid",
	}
	if inv.HostedInvoiceURL != "" {
		payment.ReceiptURL = &inv.HostedInvoiceURL
	}

	return &update{
		accountID: account.ID,
		fromPlan:  account.Plan,
		toPlan:    tier,
		apply: func(tx *gorm.DB) error {
			if err := updateAccount(tx, account.ID, fields); err != nil {
				return err
			}
			if inv.ID == "" {
				return nil
			}
			return tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "stripe_invoice_id"}},
				DoNothing: true,
			}).Create(payment).Error
		},
	}, nil
}
