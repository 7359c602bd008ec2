package stripewebhooks

import (
	"io"
	"net/http"

	"replyforge/internal/app/billingsync"
	"replyforge/internal/shared/logger"

	"github.com/gin-gonic/gin"
	gostripe "github.com/stripe/stripe-go/v75"
)

const maxBodyBytes = 65536

// EventVerifier checks the Stripe-Signature header and decodes the event.
type EventVerifier interface {
	ConstructEvent(payload []byte, signature string) (gostripe.Event, error)
}

type Handler struct {
	verifier EventVerifier
	sync     *billingsync.Service
}

func NewHandler(verifier EventVerifier, sync *billingsync.Service) *Handler {
	return &Handler{verifier: verifier, sync: sync}
}

// StripeWebhook handles POST /webhooks/stripe. Non-2xx answers make Stripe redeliver.
func (h *Handler) StripeWebhook(c *gin.Context) {
	log := logger.Component("stripe_webhook")

	payload, err := readStripeBody(c, maxBodyBytes)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error reading request body"})
		return
	}

	event, err := h.verifier.ConstructEvent(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		log.Warn().Err(err).Msg("stripe signature verification failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Signature verification failed"})
		return
	}

	outcome, err := h.sync.Apply(c.Request.Context(), event)
	if err != nil {
		log.Error().Err(err).Str("event_id", event.ID).Str("type", string(event.Type)).Msg("webhook processing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Webhook processing failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true, "status": outcome})
}

func readStripeBody(c *gin.Context, maxBytes int64) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	return io.ReadAll(c.Request.Body)
}
