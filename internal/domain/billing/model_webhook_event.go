package billing

import "time"

// ProcessedWebhookEvent records a provider event id once its effects are committed.
type ProcessedWebhookEvent struct {
	EventID     string    `gorm:"primaryKey;type:varchar(255)"`
	EventType   string    `gorm:"type:varchar(100);not null"`
	AccountID   *string   `gorm:"type:varchar(64);index"`
	ProcessedAt time.Time `gorm:"not null"`
}
