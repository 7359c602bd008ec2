package responses

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GeneratedResponse is written once and never updated.
type GeneratedResponse struct {
	ID         string  `gorm:"primaryKey;type:varchar(36)" json:"id"`
	AccountID  string  `gorm:"type:varchar(64);not null;index" json:"-"`
	BusinessID *string `gorm:"type:varchar(36);index" json:"businessId"`
	TemplateID *string `gorm:"type:varchar(36)" json:"templateId"`

	ReviewText     string  `gorm:"type:text;not null" json:"reviewText"`
	ReviewerName   *string `json:"reviewerName"`
	ReviewRating   *int    `json:"reviewRating"`
	ReviewPlatform *string `json:"reviewPlatform"`

	ResponseText     string `gorm:"type:text;not null" json:"responseText"`
	ResponseTone     string `gorm:"type:varchar(20);not null" json:"responseTone"`
	TokensUsed       int    `gorm:"not null;default:0" json:"tokensUsed"`
	ModelUsed        string `json:"modelUsed"`
	GenerationTimeMs int64  `gorm:"column:generation_time_ms" json:"generationTime"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

func (r *GeneratedResponse) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

func (r *GeneratedResponse) BeforeUpdate(tx *gorm.DB) error {
	return ErrImmutable
}
