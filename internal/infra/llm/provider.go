package llm

import (
	"context"
	"errors"
)

// Completion is one finished chat completion.
type Completion struct {
	Text       string
	TokensUsed int
	Model      string
}

// Provider produces a completion for a system/user prompt pair.
type Provider interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (*Completion, error)
	Name() string
}

var ErrEmptyCompletion = errors.New("llm returned no content")
