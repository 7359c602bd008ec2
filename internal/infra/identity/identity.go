// Package identity verifies tokens and resolves the authenticated principal.
package identity

import (
	"context"
	"errors"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Principal is the authenticated caller.
type Principal struct {
	Subject   string
	Email     string
	Name      string
	AvatarURL string
}

type Verifier interface {
	Verify(ctx context.Context, rawToken string) (*Principal, error)
}

// Chain tries each verifier in order and returns the first success.
type Chain []Verifier

func (c Chain) Verify(ctx context.Context, rawToken string) (*Principal, error) {
	for _, v := range c {
		if v == nil {
			continue
		}
		if p, err := v.Verify(ctx, rawToken); err == nil {
			return p, nil
		}
	}
	return nil, ErrInvalidToken
}

// profileClaims covers standard OIDC claims and the user_metadata block some providers emit.
type profileClaims struct {
	Email        string `json:"email"`
	Name         string `json:"name"`
	Picture      string `json:"picture"`
	UserMetadata struct {
		FullName  string `json:"full_name"`
		Name      string `json:"name"`
		AvatarURL string `json:"avatar_url"`
	} `json:"user_metadata"`
}

func (c profileClaims) principal(subject string) *Principal {
	return &Principal{
		Subject:   subject,
		Email:     c.Email,
		Name:      firstNonEmpty(c.Name, c.UserMetadata.FullName, c.UserMetadata.Name),
		AvatarURL: firstNonEmpty(c.Picture, c.UserMetadata.AvatarURL),
	}
}

func firstNonEmpty(s ...string) string {
	for _, v := range s {
		if v != "" {
			return v
		}
	}
	return ""
}
