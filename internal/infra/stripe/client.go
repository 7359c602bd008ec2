// Package stripe wraps the Stripe calls the service makes.
package stripe

import (
	"context"
	"errors"
	"fmt"
	"time"

	gostripe "github.com/stripe/stripe-go/v75"
	portalSession "github.com/stripe/stripe-go/v75/billingportal/session"
	checkoutsession "github.com/stripe/stripe-go/v75/checkout/session"
	"github.com/stripe/stripe-go/v75/subscription"
	"github.com/stripe/stripe-go/v75/webhook"
)

// AccountIDMetadataKey links Stripe objects back to the account.
const AccountIDMetadataKey = "user_id"

var ErrNotConfigured = errors.New("stripe is not configured")

// Subscription is the subset of a Stripe subscription the service reads.
type Subscription struct {
	ID                string
	CustomerID        string
	PriceID           string
	Status            string
	CurrentPeriodEnd  time.Time
	CancelAtPeriodEnd bool
	Metadata          map[string]string
}

type CheckoutParams struct {
	AccountID  string
	Email      string
	CustomerID string
	PriceID    string
	SuccessURL string
	CancelURL  string
}

// Subscriptions is the read side used by billing sync.
type Subscriptions interface {
	GetSubscription(ctx context.Context, id string) (*Subscription, error)
}

// Gateway is every Stripe operation the HTTP layer needs.
type Gateway interface {
	Subscriptions
	CreateCheckoutSession(ctx context.Context, p CheckoutParams) (string, error)
	CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error)
	SetCancelAtPeriodEnd(ctx context.Context, subscriptionID string, cancel bool) (*Subscription, error)
	CancelSubscription(ctx context.Context, subscriptionID string) error
	ConstructEvent(payload []byte, signature string) (gostripe.Event, error)
}

type Client struct {
	webhookSecret string
}

// NewClient sets the package-level Stripe key used by stripe-go resource calls.
func NewClient(secretKey, webhookSecret string) *Client {
	gostripe.Key = secretKey
	return &Client{webhookSecret: webhookSecret}
}

// NewWebhookVerifier builds a client that only verifies webhook signatures.
func NewWebhookVerifier(webhookSecret string) *Client {
	return &Client{webhookSecret: webhookSecret}
}

func (c *Client) configured() error {
	if gostripe.Key == "" {
		return ErrNotConfigured
	}
	return nil
}

func (c *Client) GetSubscription(ctx context.Context, id string) (*Subscription, error) {
	if err := c.configured(); err != nil {
		return nil, err
	}
	params := &gostripe.SubscriptionParams{}
	params.Context = ctx

	sub, err := subscription.Get(id, params)
	if err != nil {
		return nil, fmt.Errorf("get subscription %s: %w", id, err)
	}
	return FromStripe(sub), nil
}

func (c *Client) CreateCheckoutSession(ctx context.Context, p CheckoutParams) (string, error) {
	if err := c.configured(); err != nil {
		return "", err
	}

	params := &gostripe.CheckoutSessionParams{
		SuccessURL: gostripe.String(p.SuccessURL),
		CancelURL:  gostripe.String(p.CancelURL),
		Mode:       gostripe.String(string(gostripe.CheckoutSessionModeSubscription)),
		LineItems: []*gostripe.CheckoutSessionLineItemParams{
			{Price: gostripe.String(p.PriceID), Quantity: gostripe.Int64(1)},
		},
		ClientReferenceID:   gostripe.String(p.AccountID),
		AllowPromotionCodes: gostripe.Bool(true),
		SubscriptionData: &gostripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{AccountIDMetadataKey: p.AccountID},
		},
	}
	if p.CustomerID != "" {
		params.Customer = gostripe.String(p.CustomerID)
	} else {
		params.CustomerEmail = gostripe.String(p.Email)
	}
	params.Context = ctx

	s, err := checkoutsession.New(params)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	return s.URL, nil
}

func (c *Client) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	if err := c.configured(); err != nil {
		return "", err
	}
	params := &gostripe.BillingPortalSessionParams{
		Customer:  gostripe.String(customerID),
		ReturnURL: gostripe.String(returnURL),
	}
	params.Context = ctx

	portal, err := portalSession.New(params)
	if err != nil {
		return "", fmt.Errorf("create billing portal session: %w", err)
	}
	return portal.URL, nil
}

func (c *Client) SetCancelAtPeriodEnd(ctx context.Context, subscriptionID string, cancel bool) (*Subscription, error) {
	if err := c.configured(); err != nil {
		return nil, err
	}
	params := &gostripe.SubscriptionParams{CancelAtPeriodEnd: gostripe.Bool(cancel)}
	params.Context = ctx

	sub, err := subscription.Update(subscriptionID, params)
	if err != nil {
		return nil, fmt.Errorf("update subscription %s: %w", subscriptionID, err)
	}
	return FromStripe(sub), nil
}

// CancelSubscription ends the subscription immediately.
func (c *Client) CancelSubscription(ctx context.Context, subscriptionID string) error {
	if err := c.configured(); err != nil {
		return err
	}
	params := &gostripe.SubscriptionCancelParams{}
	params.Context = ctx

	if _, err := subscription.Cancel(subscriptionID, params); err != nil {
		return fmt.Errorf("cancel subscription %s: %w", subscriptionID, err)
	}
	return nil
}

// ConstructEvent verifies the Stripe-Signature header and decodes the event.
func (c *Client) ConstructEvent(payload []byte, signature string) (gostripe.Event, error) {
	if c.webhookSecret == "" {
		return gostripe.Event{}, ErrNotConfigured
	}
	return webhook.ConstructEventWithOptions(
		payload,
		signature,
		c.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
}

// FromStripe flattens a stripe-go subscription. The first item's price is the plan price.
func FromStripe(sub *gostripe.Subscription) *Subscription {
	if sub == nil {
		return nil
	}
	out := &Subscription{
		ID:                sub.ID,
		Status:            string(sub.Status),
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
		Metadata:          sub.Metadata,
	}
	if sub.Customer != nil {
		out.CustomerID = sub.Customer.ID
	}
	if sub.CurrentPeriodEnd > 0 {
		out.CurrentPeriodEnd = time.Unix(sub.CurrentPeriodEnd, 0).UTC()
	}
	if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
		out.PriceID = sub.Items.Data[0].Price.ID
	}
	return out
}
