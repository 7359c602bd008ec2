package stripe

import "strings"

const (
	StatusNone     = "none"
	StatusActive   = "active"
	StatusTrialing = "trialing"
	StatusPastDue  = "past_due"
	StatusCanceled = "canceled"
)

// NormalizeStatus folds Stripe subscription statuses into the set shown to clients.
func NormalizeStatus(s *string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return StatusNone
	}
	switch v := strings.TrimSpace(*s); v {
	case "active":
		return StatusActive
	case "trialing":
		return StatusTrialing
	case "past_due", "unpaid":
		return StatusPastDue
	case "canceled", "incomplete_expired":
		return StatusCanceled
	default:
		return v
	}
}
