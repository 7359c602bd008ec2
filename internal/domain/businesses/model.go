package businesses

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Business struct {
	ID          string  `gorm:"primaryKey;type:varchar(36)" json:"id"`
	AccountID   string  `gorm:"type:varchar(64);not null;index" json:"-"`
	Name        string  `gorm:"not null" json:"name"`
	Type        *string `json:"type"`
	Description *string `json:"description"`
	Address     *string `json:"address"`
	Phone       *string `json:"phone"`
	Website     *string `json:"website"`
	BrandVoice  *string `json:"brandVoice"`

	ToneKeywords  datatypes.JSONSlice[string] `json:"toneKeywords"`
	AvoidKeywords datatypes.JSONSlice[string] `json:"avoidKeywords"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (b *Business) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

func (b *Business) OwnedBy(accountID string) bool {
	return b.AccountID == accountID
}
