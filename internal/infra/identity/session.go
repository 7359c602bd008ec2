package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	sessionIssuer  = "replyforge"
	DefaultSession = 7 * 24 * time.Hour
)

type sessionClaims struct {
	profileClaims
	jwt.RegisteredClaims
}

// SessionTokens issues and verifies the HS256 tokens stored in the session cookie.
type SessionTokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionTokens(secret string, ttl time.Duration) *SessionTokens {
	if ttl <= 0 {
		ttl = DefaultSession
	}
	return &SessionTokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *SessionTokens) TTL() time.Duration { return s.ttl }

func (s *SessionTokens) Issue(p *Principal) (string, error) {
	if len(s.secret) == 0 {
		return "", errors.New("session secret not configured")
	}
	now := s.now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.Subject,
			Issuer:    sessionIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	claims.Email = p.Email
	claims.Name = p.Name
	claims.Picture = p.AvatarURL
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *SessionTokens) Verify(_ context.Context, rawToken string) (*Principal, error) {
	if len(s.secret) == 0 {
		return nil, ErrInvalidToken
	}

	var claims sessionClaims
	_, err := jwt.ParseWithClaims(rawToken, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithIssuer(sessionIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims.principal(claims.Subject), nil
}
