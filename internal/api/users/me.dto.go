package users

import "replyforge/internal/domain/plans"

type MeResponse struct {
	ID                 string       `json:"id"`
	Email              string       `json:"email"`
	Name               *string      `json:"name"`
	AvatarURL          *string      `json:"avatarUrl"`
	BusinessName       *string      `json:"businessName"`
	BusinessType       *string      `json:"businessType"`
	BrandVoice         *string      `json:"brandVoice"`
	Plan               plans.Tier   `json:"plan"`
	ResponsesUsed      int          `json:"responsesUsed"`
	ResponsesLimit     int          `json:"responsesLimit"`
	ResponsesRemaining int          `json:"responsesRemaining"`
	Limits             plans.Limits `json:"limits"`
}

// UpdateMeRequest is a partial profile update. An empty string clears an optional field.
type UpdateMeRequest struct {
	Name         *string `json:"name" binding:"omitnil,min=2,max=100"`
	BusinessName *string `json:"businessName" binding:"omitnil,max=200"`
	BusinessType *string `json:"businessType" binding:"omitnil,max=100"`
	BrandVoice   *string `json:"brandVoice" binding:"omitnil,toneorempty"`
}
