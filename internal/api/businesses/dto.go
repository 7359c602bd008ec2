package businesses

import (
	"strings"

	"replyforge/internal/domain/businesses"

	"gorm.io/datatypes"
)

type createRequest struct {
	Name          string   `json:"name" binding:"required,min=1,max=200"`
	Type          string   `json:"type" binding:"omitempty,max=100"`
	Description   string   `json:"description" binding:"omitempty,max=1000"`
	Address       string   `json:"address" binding:"omitempty,max=500"`
	Phone         string   `json:"phone" binding:"omitempty,max=50"`
	Website       string   `json:"website" binding:"urlorempty,max=500"`
	BrandVoice    string   `json:"brandVoice" binding:"toneorempty"`
	ToneKeywords  []string `json:"toneKeywords" binding:"omitempty,max=20,dive,max=50"`
	AvoidKeywords []string `json:"avoidKeywords" binding:"omitempty,max=20,dive,max=50"`
}

// updateRequest is partial: nil leaves a field alone, "" clears an optional one.
type updateRequest struct {
	Name          *string  `json:"name" binding:"omitnil,min=1,max=200"`
	Type          *string  `json:"type" binding:"omitnil,max=100"`
	Description   *string  `json:"description" binding:"omitnil,max=1000"`
	Address       *string  `json:"address" binding:"omitnil,max=500"`
	Phone         *string  `json:"phone" binding:"omitnil,max=50"`
	Website       *string  `json:"website" binding:"omitnil,urlorempty,max=500"`
	BrandVoice    *string  `json:"brandVoice" binding:"omitnil,toneorempty"`
	ToneKeywords  []string `json:"toneKeywords" binding:"omitempty,max=20,dive,max=50"`
	AvoidKeywords []string `json:"avoidKeywords" binding:"omitempty,max=20,dive,max=50"`
}

type businessView struct {
	businesses.Business
	ResponseCount int64 `json:"responseCount"`
}

func (r createRequest) model(accountID string) *businesses.Business {
	return &businesses.Business{
		AccountID:     accountID,
		Name:          strings.TrimSpace(r.Name),
		Type:          optional(r.Type),
		Description:   optional(r.Description),
		Address:       optional(r.Address),
		Phone:         optional(r.Phone),
		Website:       optional(r.Website),
		BrandVoice:    optional(r.BrandVoice),
		ToneKeywords:  keywords(r.ToneKeywords),
		AvoidKeywords: keywords(r.AvoidKeywords),
	}
}

func (r updateRequest) columns() map[string]interface{} {
	cols := map[string]interface{}{}
	if r.Name != nil {
		cols["name"] = strings.TrimSpace(*r.Name)
	}
	for column, v := range map[string]*string{
		"type":        r.Type,
		"description": r.Description,
		"address":     r.Address,
		"phone":       r.Phone,
		"website":     r.Website,
		"brand_voice": r.BrandVoice,
	} {
		if v != nil {
			cols[column] = optional(*v)
		}
	}
	if r.ToneKeywords != nil {
		cols["tone_keywords"] = keywords(r.ToneKeywords)
	}
	if r.AvoidKeywords != nil {
		cols["avoid_keywords"] = keywords(r.AvoidKeywords)
	}
	return cols
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func keywords(in []string) datatypes.JSONSlice[string] {
	out := make(datatypes.JSONSlice[string], 0, len(in))
	for _, k := range in {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}
