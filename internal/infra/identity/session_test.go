package identity

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokens_RoundTrip(t *testing.T) {
	s := NewSessionTokens("test-secret", time.Hour)

	raw, err := s.Issue(&Principal{Subject: "user-1", Email: "a@example.com", Name: "Ana", AvatarURL: "https://img/a.png"})
	require.NoError(t, err)

	p, err := s.Verify(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "user-1", p.Subject)
	assert.Equal(t, "a@example.com", p.Email)
	assert.Equal(t, "Ana", p.Name)
	assert.Equal(t, "https://img/a.png", p.AvatarURL)
}

func TestSessionTokens_Rejects(t *testing.T) {
	s := NewSessionTokens("test-secret", time.Hour)
	raw, err := s.Issue(&Principal{Subject: "user-1", Email: "a@example.com"})
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewSessionTokens("other", time.Hour).Verify(context.Background(), raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		later := NewSessionTokens("test-secret", time.Hour)
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := later.Verify(context.Background(), raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unsigned", func(t *testing.T) {
		none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
			"sub": "user-1", "iss": sessionIssuer, "exp": time.Now().Add(time.Hour).Unix(),
		}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = s.Verify(context.Background(), none)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := s.Verify(context.Background(), "not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("no secret configured", func(t *testing.T) {
		_, err := NewSessionTokens("", time.Hour).Issue(&Principal{Subject: "x"})
		assert.Error(t, err)
	})
}

type stubVerifier struct {
	p   *Principal
	err error
}

func (s stubVerifier) Verify(context.Context, string) (*Principal, error) { return s.p, s.err }

func TestChain(t *testing.T) {
	want := &Principal{Subject: "s"}
	c := Chain{nil, stubVerifier{err: ErrInvalidToken}, stubVerifier{p: want}}

	got, err := c.Verify(context.Background(), "tok")
	require.NoError(t, err)
	assert.Same(t, want, got)

	_, err = Chain{stubVerifier{err: ErrInvalidToken}}.Verify(context.Background(), "tok")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
