package accounts

import (
	"time"

	"replyforge/internal/domain/plans"
)

// Account is keyed by the identity provider's subject, so the id arrives with the first login.
type Account struct {
	ID        string  `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Email     string  `gorm:"not null;uniqueIndex:idx_accounts_email" json:"email"`
	Name      *string `json:"name"`
	AvatarURL *string `gorm:"column:avatar_url" json:"avatarUrl"`

	// profile defaults for the generator form
	BusinessName *string `json:"businessName"`
	BusinessType *string `json:"businessType"`
	BrandVoice   *string `json:"brandVoice"`

	Plan           plans.Tier `gorm:"type:varchar(20);not null;default:'FREE'" json:"plan"`
	ResponsesUsed  int        `gorm:"not null;default:0" json:"responsesUsed"`
	ResponsesLimit int        `gorm:"not null" json:"responsesLimit"`

	StripeCustomerID       *string    `gorm:"column:stripe_customer_id;uniqueIndex:idx_accounts_stripe_customer_id" json:"-"`
	StripeSubscriptionID   *string    `gorm:"column:stripe_subscription_id;uniqueIndex:idx_accounts_stripe_subscription_id" json:"-"`
	StripePriceID          *string    `gorm:"column:stripe_price_id" json:"-"`
	StripeCurrentPeriodEnd *time.Time `gorm:"column:stripe_current_period_end" json:"-"`
	StripeStatus           *string    `gorm:"column:stripe_subscription_status" json:"-"`
	CancelAtPeriodEnd      bool       `gorm:"not null;default:false" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// New builds a FREE account for a freshly authenticated principal.
func New(id, email string) Account {
	return Account{
		ID:             id,
		Email:          email,
		Plan:           plans.TierFree,
		ResponsesUsed:  0,
		ResponsesLimit: plans.TierFree.Limits().Responses,
	}
}

// CanGenerate reports whether one more response fits in the current period.
func (a *Account) CanGenerate() bool {
	return plans.Within(a.ResponsesLimit, a.ResponsesUsed)
}

// Remaining is the number of responses left, or plans.Unlimited.
func (a *Account) Remaining() int {
	if plans.IsUnlimited(a.ResponsesLimit) {
		return plans.Unlimited
	}
	if a.ResponsesUsed >= a.ResponsesLimit {
		return 0
	}
	return a.ResponsesLimit - a.ResponsesUsed
}

func (a *Account) HasActiveSubscription() bool {
	return a.StripeSubscriptionID != nil && *a.StripeSubscriptionID != ""
}
