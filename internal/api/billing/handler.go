// Package billing serves subscription status, checkout, portal and payment history.
package billing

import (
	"strings"

	"replyforge/internal/domain/plans"
	stripeinfra "replyforge/internal/infra/stripe"

	"gorm.io/gorm"
)

const billingPath = "/billing"

type Handler struct {
	db       *gorm.DB
	stripe   stripeinfra.Gateway
	registry *plans.Registry
	appURL   string
}

func NewHandler(db *gorm.DB, gateway stripeinfra.Gateway, registry *plans.Registry, appURL string) *Handler {
	if appURL == "" {
		appURL = "http://localhost:3000"
	}
	return &Handler{
		db:       db,
		stripe:   gateway,
		registry: registry,
		appURL:   strings.TrimRight(appURL, "/"),
	}
}

func (h *Handler) returnURL() string {
	return h.appURL + billingPath
}
