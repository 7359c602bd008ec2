package testutil

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"replyforge/internal/infra/identity"
	"replyforge/internal/infra/llm"
	"replyforge/internal/infra/mail"
	stripeinfra "replyforge/internal/infra/stripe"

	gostripe "github.com/stripe/stripe-go/v75"
)

// StaticVerifier maps raw tokens to principals.
type StaticVerifier map[string]*identity.Principal

func (v StaticVerifier) Verify(_ context.Context, raw string) (*identity.Principal, error) {
	if p, ok := v[raw]; ok {
		return p, nil
	}
	return nil, identity.ErrInvalidToken
}

// Provider returns a fixed completion and remembers the last prompts.
type Provider struct {
	mu       sync.Mutex
	Text     string
	Tokens   int
	Err      error
	Calls    int
	LastUser string
}

func (p *Provider) Name() string { return "fake" }

func (p *Provider) Complete(_ context.Context, _, user string) (*llm.Completion, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Calls++
	p.LastUser = user
	if p.Err != nil {
		return nil, p.Err
	}
	return &llm.Completion{Text: p.Text, TokensUsed: p.Tokens, Model: "fake-model"}, nil
}

// Gateway is an in-memory Stripe gateway. Webhook verification uses the real signature check.
type Gateway struct {
	mu            sync.Mutex
	Subs          map[string]*stripeinfra.Subscription
	Checkouts     []stripeinfra.CheckoutParams
	Portals       []string
	Cancelled     []string
	CancelToggles map[string]bool
	Err           error

	verifier *stripeinfra.Client
}

func NewGateway(webhookSecret string) *Gateway {
	return &Gateway{
		Subs:          map[string]*stripeinfra.Subscription{},
		CancelToggles: map[string]bool{},
		verifier:      stripeinfra.NewWebhookVerifier(webhookSecret),
	}
}

func (g *Gateway) GetSubscription(_ context.Context, id string) (*stripeinfra.Subscription, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Err != nil {
		return nil, g.Err
	}
	s, ok := g.Subs[id]
	if !ok {
		return nil, errors.New("no such subscription: " + id)
	}
	return s, nil
}

func (g *Gateway) CreateCheckoutSession(_ context.Context, p stripeinfra.CheckoutParams) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Err != nil {
		return "", g.Err
	}
	g.Checkouts = append(g.Checkouts, p)
	return "https://checkout.stripe.test/" + p.PriceID, nil
}

func (g *Gateway) CreatePortalSession(_ context.Context, customerID, _ string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Err != nil {
		return "", g.Err
	}
	g.Portals = append(g.Portals, customerID)
	return "https://billing.stripe.test/" + customerID, nil
}

func (g *Gateway) SetCancelAtPeriodEnd(_ context.Context, id string, cancel bool) (*stripeinfra.Subscription, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Err != nil {
		return nil, g.Err
	}
	g.CancelToggles[id] = cancel
	return &stripeinfra.Subscription{
		ID:                id,
		Status:            "active",
		CancelAtPeriodEnd: cancel,
		CurrentPeriodEnd:  time.Date(2026, 11, 19, 0, 0, 0, 0, time.UTC),
	}, nil
}

func (g *Gateway) CancelSubscription(_ context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Err != nil {
		return g.Err
	}
	g.Cancelled = append(g.Cancelled, id)
	return nil
}

func (g *Gateway) ConstructEvent(payload []byte, signature string) (gostripe.Event, error) {
	return g.verifier.ConstructEvent(payload, signature)
}

// StripeSignature builds a Stripe-Signature header for payload.
func StripeSignature(secret string, payload []byte, ts time.Time) string {
	signed := fmt.Sprintf("%d.%s", ts.Unix(), payload)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(signed))
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

// Mailbox records sent mail.
type Mailbox struct {
	mu   sync.Mutex
	Sent []mail.Message
	Err  error
}

func (m *Mailbox) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, msg)
	return nil
}
