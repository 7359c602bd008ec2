// Package events publishes domain events to a message broker.
package events

import (
	"context"
	"time"
)

const (
	ResponseGenerated  = "response.generated"
	AccountPlanChanged = "account.plan_changed"
)

// Event is the envelope written to the broker.
type Event struct {
	Type       string         `json:"type"`
	AccountID  string         `json:"accountId"`
	OccurredAt time.Time      `json:"occurredAt"`
	Data       map[string]any `json:"data,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Nop drops every event. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// New builds an Event stamped with the current time.
func New(eventType, accountID string, data map[string]any) Event {
	return Event{Type: eventType, AccountID: accountID, OccurredAt: time.Now().UTC(), Data: data}
}
