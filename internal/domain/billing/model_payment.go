package billing

import (
	"time"

	"replyforge/internal/domain/plans"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment is one paid Stripe invoice, recorded when invoice.paid arrives.
type Payment struct {
	ID                   string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	AccountID            string     `gorm:"not null;index" json:"-"`
	Plan                 plans.Tier `gorm:"type:varchar(20);not null" json:"plan"`
	StripeInvoiceID      string     `gorm:"not null;uniqueIndex" json:"invoiceId"`
	StripeSubscriptionID *string    `json:"-"`
	AmountUSD            float64    `json:"amountUsd"`
	Currency             string     `gorm:"type:varchar(8)" json:"currency"`
	Status               string     `json:"status"`
	ReceiptURL           *string    `json:"receiptUrl"`
	CreatedAt            time.Time  `json:"createdAt"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
