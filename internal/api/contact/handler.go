// Package contact accepts the public contact form.
package contact

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"replyforge/internal/api/respond"
	"replyforge/internal/infra/mail"
	apperrors "replyforge/internal/shared/errors"
	"replyforge/internal/shared/logger"

	"github.com/gin-gonic/gin"
)

const msgSubmitFailed = "Failed to submit contact form. Please try again."

var subjectLabels = map[string]string{
	"sales":       "Sales Inquiry",
	"support":     "Technical Support",
	"billing":     "Billing Question",
	"partnership": "Partnership Opportunity",
	"press":       "Press & Media",
	"other":       "Other",
}

type Request struct {
	Name    string `json:"name" binding:"required,min=2,max=100"`
	Email   string `json:"email" binding:"required,email"`
	Company string `json:"company" binding:"omitempty,max=200"`
	Subject string `json:"subject" binding:"required,min=1,max=50"`
	Message string `json:"message" binding:"required,min=10,max=5000"`
}

type Handler struct {
	mailer       mail.Sender
	supportEmail string
	now          func() time.Time
}

func NewHandler(mailer mail.Sender, supportEmail string) *Handler {
	if mailer == nil {
		mailer = mail.Nop{}
	}
	return &Handler{mailer: mailer, supportEmail: supportEmail, now: time.Now}
}

// Submit handles POST /contact.
func (h *Handler) Submit(c *gin.Context) {
	var req Request
	if !respond.BindJSON(c, &req, "Invalid form data") {
		return
	}

	ticketID := TicketID(h.now())
	category := Category(req.Subject)

	log := logger.Component("contact")
	log.Info().
		Str("ticket_id", ticketID).
		Str("category", category).
		Str("email", req.Email).
		Str("ip", c.ClientIP()).
		Msg("contact form submission")

	if h.supportEmail != "" {
		err := h.mailer.Send(c.Request.Context(), mail.Message{
			To:      h.supportEmail,
			ReplyTo: req.Email,
			Subject: fmt.Sprintf("[%s] %s from %s", ticketID, category, req.Name),
			Text:    body(req, ticketID, category),
		})
		if err != nil {
			respond.Error(c, apperrors.NewDownstreamError(msgSubmitFailed, err), msgSubmitFailed)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Your message has been received. We'll respond within 24 hours.",
		"ticketId": ticketID,
		"category": category,
	})
}

// TicketID derives a support ticket id from the submission time.
func TicketID(t time.Time) string {
	return "RF-" + strings.ToUpper(strconv.FormatInt(t.UnixMilli(), 36))
}

// Category maps a subject key to its label; unknown subjects pass through.
func Category(subject string) string {
	if label, ok := subjectLabels[subject]; ok {
		return label
	}
	return subject
}

func body(req Request, ticketID, category string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Ticket: %s\nCategory: %s\nName: %s\nEmail: %s\n", ticketID, category, req.Name, req.Email)
	if req.Company != "" {
		fmt.Fprintf(&b, "Company: %s\n", req.Company)
	}
	fmt.Fprintf(&b, "\n%s\n", req.Message)
	return b.String()
}
