package templates

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category string

const (
	CategoryPositive  Category = "positive"
	CategoryNegative  Category = "negative"
	CategoryNeutral   Category = "neutral"
	CategoryComplaint Category = "complaint"
)

// CategoryOneOf is the validator tag listing every category.
const CategoryOneOf = "oneof=positive negative neutral complaint"

type Template struct {
	ID             string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	AccountID      string    `gorm:"type:varchar(64);not null;index" json:"userId"`
	Name           string    `gorm:"not null" json:"name"`
	Description    *string   `json:"description"`
	Category       *Category `gorm:"type:varchar(20);index" json:"category"`
	PromptTemplate string    `gorm:"type:text;not null" json:"promptTemplate"`
	ExampleOutput  *string   `gorm:"type:text" json:"exampleOutput"`
	Tone           *string   `gorm:"type:varchar(20)" json:"tone"`
	IsPublic       bool      `gorm:"not null;default:false;index" json:"isPublic"`
	UseCount       int       `gorm:"not null;default:0" json:"useCount"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (t *Template) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

func (t *Template) OwnedBy(accountID string) bool {
	return t.AccountID == accountID
}

// ReadableBy reports whether accountID may read the template.
func (t *Template) ReadableBy(accountID string) bool {
	return t.OwnedBy(accountID) || t.IsPublic
}
