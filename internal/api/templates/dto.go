package templates

import (
	"strings"

	"replyforge/internal/domain/templates"
)

type createRequest struct {
	Name           string `json:"name" binding:"required,min=1,max=100"`
	Description    string `json:"description" binding:"omitempty,max=500"`
	Category       string `json:"category" binding:"omitempty,oneof=positive negative neutral complaint"`
	PromptTemplate string `json:"promptTemplate" binding:"required,min=1,max=5000"`
	ExampleOutput  string `json:"exampleOutput" binding:"omitempty,max=2000"`
	Tone           string `json:"tone" binding:"toneorempty"`
	IsPublic       bool   `json:"isPublic"`
}

type updateRequest struct {
	Name           *string `json:"name" binding:"omitnil,min=1,max=100"`
	Description    *string `json:"description" binding:"omitnil,max=500"`
	Category       *string `json:"category" binding:"omitnil,oneof=positive negative neutral complaint"`
	PromptTemplate *string `json:"promptTemplate" binding:"omitnil,min=1,max=5000"`
	ExampleOutput  *string `json:"exampleOutput" binding:"omitnil,max=2000"`
	Tone           *string `json:"tone" binding:"omitnil,toneorempty"`
	IsPublic       *bool   `json:"isPublic"`
}

func (r createRequest) model(accountID string) *templates.Template {
	t := &templates.Template{
		AccountID:      accountID,
		Name:           strings.TrimSpace(r.Name),
		Description:    optional(r.Description),
		PromptTemplate: r.PromptTemplate,
		ExampleOutput:  optional(r.ExampleOutput),
		Tone:           optional(r.Tone),
		IsPublic:       r.IsPublic,
	}
	if r.Category != "" {
		cat := templates.Category(r.Category)
		t.Category = &cat
	}
	return t
}

func (r updateRequest) columns() map[string]interface{} {
	cols := map[string]interface{}{}
	if r.Name != nil {
		cols["name"] = strings.TrimSpace(*r.Name)
	}
	if r.PromptTemplate != nil {
		cols["prompt_template"] = *r.PromptTemplate
	}
	if r.Description != nil {
		cols["description"] = optional(*r.Description)
	}
	if r.Category != nil {
		cols["category"] = optional(*r.Category)
	}
	if r.ExampleOutput != nil {
		cols["example_output"] = optional(*r.ExampleOutput)
	}
	if r.Tone != nil {
		cols["tone"] = optional(*r.Tone)
	}
	if r.IsPublic != nil {
		cols["is_public"] = *r.IsPublic
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
