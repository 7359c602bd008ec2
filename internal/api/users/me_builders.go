package users

import (
	"strings"

	"replyforge/internal/domain/accounts"
)

func BuildMeResponse(a *accounts.Account) MeResponse {
	return MeResponse{
		ID:                 a.ID,
		Email:              a.Email,
		Name:               a.Name,
		AvatarURL:          a.AvatarURL,
		BusinessName:       a.BusinessName,
		BusinessType:       a.BusinessType,
		BrandVoice:         a.BrandVoice,
		Plan:               a.Plan,
		ResponsesUsed:      a.ResponsesUsed,
		ResponsesLimit:     a.ResponsesLimit,
		ResponsesRemaining: a.Remaining(),
		Limits:             a.Plan.Limits(),
	}
}

// updateColumns maps the request onto account columns. Name is never cleared.
func updateColumns(req UpdateMeRequest) map[string]interface{} {
	cols := map[string]interface{}{}
	if req.Name != nil {
		cols["name"] = strings.TrimSpace(*req.Name)
	}
	setOptional(cols, "business_name", req.BusinessName)
	setOptional(cols, "business_type", req.BusinessType)
	setOptional(cols, "brand_voice", req.BrandVoice)
	return cols
}

func setOptional(cols map[string]interface{}, column string, v *string) {
	if v == nil {
		return
	}
	if s := strings.TrimSpace(*v); s != "" {
		cols[column] = s
		return
	}
	cols[column] = nil
}
