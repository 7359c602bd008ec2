package usage

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Action string

const (
	ActionGenerate Action = "generate"
	ActionImprove  Action = "improve"
)

// costPer1K is the approximate USD cost per thousand tokens.
const costPer1K = 0.01

// Record is one entry in the usage ledger.
type Record struct {
	ID         string            `gorm:"primaryKey;type:varchar(36)" json:"id"`
	AccountID  string            `gorm:"type:varchar(64);not null;index" json:"-"`
	Action     Action            `gorm:"type:varchar(20);not null" json:"action"`
	TokensUsed int               `gorm:"not null;default:0" json:"tokensUsed"`
	Cost       float64           `json:"cost"`
	Metadata   datatypes.JSONMap `json:"metadata"`
	CreatedAt  time.Time         `gorm:"index" json:"createdAt"`
}

func (Record) TableName() string {
	return "usage_records"
}

func (r *Record) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// EstimateCost derives the ledger cost from a token count.
func EstimateCost(tokens int) float64 {
	if tokens <= 0 {
		return 0
	}
	return float64(tokens) / 1000 * costPer1K
}
