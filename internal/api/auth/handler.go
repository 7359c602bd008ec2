// Package auth completes the identity provider's authorization-code flow and manages the session cookie.
package auth

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"strings"

	"replyforge/internal/infra/identity"

	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

const (
	stateCookie     = "oauth_state"
	redirectCookie  = "oauth_redirect"
	stateMaxAge     = 300
	defaultRedirect = "/dashboard"
	failurePath     = "/login?error=auth-failed"
)

type Config struct {
	OAuth        *oauth2.Config
	IDTokens     identity.Verifier
	Sessions     *identity.SessionTokens
	CookieName   string
	SecureCookie bool
	AppURL       string
}

type Handler struct {
	db  *gorm.DB
	cfg Config
}

func NewHandler(db *gorm.DB, cfg Config) *Handler {
	cfg.AppURL = strings.TrimRight(cfg.AppURL, "/")
	return &Handler{db: db, cfg: cfg}
}

func randomState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// safeRedirect keeps post-login redirects on this site: only absolute paths are accepted.
func safeRedirect(p string) string {
	if p == "" || !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.HasPrefix(p, "/\\") {
		return defaultRedirect
	}
	return p
}

func (h *Handler) setCookie(w http.ResponseWriter, name, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   h.cfg.SecureCookie,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
