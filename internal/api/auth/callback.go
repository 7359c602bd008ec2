package auth

import (
	"errors"
	"net/http"

	"replyforge/internal/domain/accounts"
	"replyforge/internal/infra/identity"
	"replyforge/internal/shared/logger"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
)

// Login handles GET /auth/login and sends the browser to the identity provider.
func (h *Handler) Login(c *gin.Context) {
	state, err := randomState()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate state"})
		return
	}

	h.setCookie(c.Writer, stateCookie, state, stateMaxAge)
	h.setCookie(c.Writer, redirectCookie, safeRedirect(c.Query("redirect")), stateMaxAge)
	c.Redirect(http.StatusFound, h.cfg.OAuth.AuthCodeURL(state, oauth2.AccessTypeOnline))
}

// Callback handles GET /auth/callback: exchanges the code, verifies the ID token, upserts the
// account and issues the session cookie. Every failure lands on the login page.
func (h *Handler) Callback(c *gin.Context) {
	log := logger.Component("auth")

	principal, err := h.authenticate(c)
	if err != nil {
		log.Warn().Err(err).Msg("auth callback failed")
		c.Redirect(http.StatusFound, h.cfg.AppURL+failurePath)
		return
	}

	// The principal is authenticated even when the account sync fails.
	if _, err := accounts.Upsert(c.Request.Context(), h.db, accounts.Identity{
		Subject:   principal.Subject,
		Email:     principal.Email,
		Name:      principal.Name,
		AvatarURL: principal.AvatarURL,
	}); err != nil {
		log.Error().Err(err).Str("account_id", principal.Subject).Msg("error syncing account to database")
	}

	session, err := h.cfg.Sessions.Issue(principal)
	if err != nil {
		log.Error().Err(err).Msg("issue session token")
		c.Redirect(http.StatusFound, h.cfg.AppURL+failurePath)
		return
	}
	h.setCookie(c.Writer, h.cfg.CookieName, session, int(h.cfg.Sessions.TTL().Seconds()))
	h.setCookie(c.Writer, stateCookie, "", -1)
	h.setCookie(c.Writer, redirectCookie, "", -1)

	redirect := c.Query("redirect")
	if redirect == "" {
		redirect, _ = c.Cookie(redirectCookie)
	}
	c.Redirect(http.StatusFound, h.cfg.AppURL+safeRedirect(redirect))
}

// Logout handles POST /auth/logout.
func (h *Handler) Logout(c *gin.Context) {
	h.setCookie(c.Writer, h.cfg.CookieName, "", -1)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) authenticate(c *gin.Context) (*identity.Principal, error) {
	code := c.Query("code")
	if code == "" {
		return nil, errors.New("missing code")
	}

	// A state cookie means the flow started at /auth/login and the state must round-trip.
	if want, err := c.Cookie(stateCookie); err == nil && want != "" && want != c.Query("state") {
		return nil, errors.New("invalid oauth state")
	}

	tok, err := h.cfg.OAuth.Exchange(c.Request.Context(), code)
	if err != nil {
		return nil, err
	}
	rawIDToken, ok := tok.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, errors.New("missing id_token")
	}
	return h.cfg.IDTokens.Verify(c.Request.Context(), rawIDToken)
}
