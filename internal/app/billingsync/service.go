// Package billingsync applies verified Stripe events to account billing state.
package billingsync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"replyforge/internal/domain/accounts"
	"replyforge/internal/domain/billing"
	"replyforge/internal/domain/plans"
	"replyforge/internal/infra/events"
	stripeinfra "replyforge/internal/infra/stripe"
	"replyforge/internal/shared/logger"

	"github.com/rs/zerolog"
	gostripe "github.com/stripe/stripe-go/v75"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Outcome string

const (
	OutcomeProcessed Outcome = "processed"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeIgnored   Outcome = "ignored"
)

const (
	EventCheckoutCompleted   = "checkout.session.completed"
	EventInvoicePaid         = "invoice.paid"
	EventSubscriptionUpdated = "customer.subscription.updated"
	EventSubscriptionDeleted = "customer.subscription.deleted"
)

// update is the account mutation derived from one event.
type update struct {
	accountID string
	fromPlan  plans.Tier
	toPlan    plans.Tier
	apply     func(tx *gorm.DB) error
}

// handlerFunc resolves an event into an update. A nil update means the event is acknowledged without effect.
type handlerFunc func(ctx context.Context, event gostripe.Event) (*update, error)

type Service struct {
	db        *gorm.DB
	subs      stripeinfra.Subscriptions
	registry  *plans.Registry
	publisher events.Publisher
	log       zerolog.Logger
	handlers  map[string]handlerFunc
}

func NewService(db *gorm.DB, subs stripeinfra.Subscriptions, registry *plans.Registry, publisher events.Publisher) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	s := &Service{
		db:        db,
		subs:      subs,
		registry:  registry,
		publisher: publisher,
		log:       logger.Component("billingsync"),
	}
	s.handlers = map[string]handlerFunc{
		EventCheckoutCompleted:   s.handleCheckoutCompleted,
		EventInvoicePaid:         s.handleInvoicePaid,
		EventSubscriptionUpdated: s.handleSubscriptionUpdated,
		EventSubscriptionDeleted: s.handleSubscriptionDeleted,
	}
	return s
}

// Apply processes one event at most once. Returned errors are worth a retry from Stripe.
func (s *Service) Apply(ctx context.Context, event gostripe.Event) (Outcome, error) {
	handle, ok := s.handlers[string(event.Type)]
	if !ok {
		s.log.Debug().Str("event_id", event.ID).Str("type", string(event.Type)).Msg("ignoring event type")
		return OutcomeIgnored, nil
	}
	if event.ID == "" || event.Data == nil {
		return OutcomeSkipped, errors.New("event missing id or data")
	}

	seen, err := s.processed(ctx, event.ID)
	if err != nil {
		return "", err
	}
	if seen {
		s.log.Info().Str("event_id", event.ID).Msg("duplicate event delivery")
		return OutcomeDuplicate, nil
	}

	u, err := handle(ctx, event)
	if err != nil {
		return "", fmt.Errorf("%s %s: %w", event.Type, event.ID, err)
	}

	outcome := OutcomeSkipped
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		mark := billing.ProcessedWebhookEvent{
			EventID:     event.ID,
			EventType:   string(event.Type),
			ProcessedAt: time.Now().UTC(),
		}
		if u != nil {
			mark.AccountID = &u.accountID
		}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&mark)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			outcome = OutcomeDuplicate
			return nil
		}
		if u == nil {
			return nil
		}
		if err := u.apply(tx); err != nil {
			return err
		}
		outcome = OutcomeProcessed
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("apply %s %s: %w", event.Type, event.ID, err)
	}

	if outcome == OutcomeProcessed {
		s.log.Info().Str("event_id", event.ID).Str("type", string(event.Type)).Str("account_id", u.accountID).
			Str("plan", string(u.toPlan)).Msg("billing state synced")
		s.publishPlanChange(ctx, u)
	}
	return outcome, nil
}

func (s *Service) processed(ctx context.Context, eventID string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&billing.ProcessedWebhookEvent{}).Where("event_id = ?", eventID).Count(&n).Error
	return n > 0, err
}

// findAccount looks up by subscription id first and falls back to the account id in subscription metadata.
func (s *Service) findAccount(ctx context.Context, subscriptionID string, metadata map[string]string) (*accounts.Account, error) {
	if subscriptionID != "" {
		a, err := accounts.FindBySubscription(ctx, s.db, subscriptionID)
		if err == nil {
			return a, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	if id := metadata[stripeinfra.AccountIDMetadataKey]; id != "" {
		return s.findByID(ctx, id)
	}
	return nil, nil
}

// supersedes reports whether the account already belongs to a subscription other than subscriptionID.
// Metadata lookups can reach an account through an older subscription tagged with its id.
func supersedes(a *accounts.Account, subscriptionID string) bool {
	return a.HasActiveSubscription() && *a.StripeSubscriptionID != subscriptionID
}

func (s *Service) findByID(ctx context.Context, id string) (*accounts.Account, error) {
	a, err := accounts.Find(ctx, s.db, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return a, err
}

func (s *Service) skip(event gostripe.Event, reason string) (*update, error) {
	s.log.Warn().Str("event_id", event.ID).Str("type", string(event.Type)).Msg(reason)
	return nil, nil
}

func (s *Service) publishPlanChange(ctx context.Context, u *update) {
	if u.fromPlan == u.toPlan {
		return
	}
	e := events.New(events.AccountPlanChanged, u.accountID, map[string]any{
		"from": string(u.fromPlan),
		"to":   string(u.toPlan),
	})
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.log.Warn().Err(err).Str("account_id", u.accountID).Msg("failed to publish event")
	}
}

func decode(event gostripe.Event, v interface{}) error {
	if err := json.Unmarshal(event.Data.Raw, v); err != nil {
		return fmt.Errorf("decode %s payload: %w", event.Type, err)
	}
	return nil
}

func updateAccount(tx *gorm.DB, id string, fields map[string]interface{}) error {
	return tx.Model(&accounts.Account{}).Where("id = ?", id).Updates(fields).Error
}

func periodEnd(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}
