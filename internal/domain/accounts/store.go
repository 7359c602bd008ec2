package accounts

import (
	"context"
	"strings"
	"time"

	"replyforge/internal/domain/plans"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Identity is what the identity provider tells us about a principal.
type Identity struct {
	Subject   string
	Email     string
	Name      string
	AvatarURL string
}

func Find(ctx context.Context, db *gorm.DB, id string) (*Account, error) {
	var a Account
	if err := db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func FindBySubscription(ctx context.Context, db *gorm.DB, subscriptionID string) (*Account, error) {
	var a Account
	if err := db.WithContext(ctx).Where("stripe_subscription_id = ?", subscriptionID).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// ConsumeResponse adds one response to the account's usage only while it is under its limit.
// It returns false when the limit was already reached; the check and the increment are one statement.
func ConsumeResponse(ctx context.Context, db *gorm.DB, id string) (bool, error) {
	res := db.WithContext(ctx).
		Model(&Account{}).
		Where("id = ? AND (responses_limit = ? OR responses_used < responses_limit)", id, plans.Unlimited).
		UpdateColumns(map[string]interface{}{
			"responses_used": gorm.Expr("responses_used + ?", 1),
			"updated_at":     time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// Upsert creates a FREE account on first login and refreshes profile fields afterwards.
// Plan and usage columns are never touched on update.
func Upsert(ctx context.Context, db *gorm.DB, id Identity) (*Account, error) {
	a := New(id.Subject, id.Email)
	a.Name = nonEmpty(id.Name)
	a.AvatarURL = nonEmpty(id.AvatarURL)

	update := []string{"email", "updated_at"}
	if a.Name != nil {
		update = append(update, "name")
	}
	if a.AvatarURL != nil {
		update = append(update, "avatar_url")
	}

	err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(update),
	}).Create(&a).Error
	if err != nil {
		return nil, err
	}
	return Find(ctx, db, id.Subject)
}

func nonEmpty(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
