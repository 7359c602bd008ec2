package plans

import (
	"fmt"
	"strings"
)

// Tier is the subscription level stored on an account.
type Tier string

// Tier constants (single source of truth)
const (
	TierFree    Tier = "FREE"
	TierStarter Tier = "STARTER"
	TierPro     Tier = "PRO"
	TierAgency  Tier = "AGENCY"
)

// Unlimited is the limit value meaning "no cap".
const Unlimited = -1

// Tiers lists every tier in ascending price order.
var Tiers = []Tier{TierFree, TierStarter, TierPro, TierAgency}

// IsUnlimited reports whether limit is the unlimited sentinel.
func IsUnlimited(limit int) bool {
	return limit == Unlimited
}

// Within reports whether one more unit fits under limit given count already used.
func Within(limit, count int) bool {
	return IsUnlimited(limit) || count < limit
}

// ParseTier accepts any casing of a tier key.
func ParseTier(s string) (Tier, error) {
	t := Tier(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown plan %q", s)
	}
	return t, nil
}

func (t Tier) Valid() bool {
	switch t {
	case TierFree, TierStarter, TierPro, TierAgency:
		return true
	}
	return false
}

// Paid reports whether the tier is sold through checkout.
func (t Tier) Paid() bool {
	return t.Valid() && t != TierFree
}

// Plan returns the static definition for the tier. Unknown tiers fall back to FREE.
func (t Tier) Plan() Plan {
	switch t {
	case TierStarter:
		return Plan{
			Key:         TierStarter,
			Name:        "Starter",
			Description: "Perfect for small businesses",
			PriceUSD:    29,
			Limits:      Limits{Responses: 100, Businesses: 3, Templates: 10},
			Features: []string{
				"100 AI responses/month",
				"3 business profiles",
				"10 custom templates",
				"Basic analytics",
				"Email support",
			},
		}
	case TierPro:
		return Plan{
			Key:         TierPro,
			Name:        "Pro",
			Description: "For growing businesses",
			PriceUSD:    79,
			Popular:     true,
			Limits:      Limits{Responses: 500, Businesses: 10, Templates: 50},
			Features: []string{
				"500 AI responses/month",
				"10 business profiles",
				"50 custom templates",
				"Advanced analytics",
				"Priority support",
				"Custom brand voice",
				"Response history export",
			},
		}
	case TierAgency:
		return Plan{
			Key:         TierAgency,
			Name:        "Agency",
			Description: "For agencies & enterprises",
			PriceUSD:    199,
			Limits:      Limits{Responses: Unlimited, Businesses: Unlimited, Templates: Unlimited},
			Features: []string{
				"Unlimited AI responses",
				"Unlimited business profiles",
				"Unlimited templates",
				"White-label options",
				"API access",
				"Dedicated support",
				"Custom integrations",
				"Team collaboration",
			},
		}
	default:
		return Plan{
			Key:         TierFree,
			Name:        "Free",
			Description: "Try it out",
			PriceUSD:    0,
			Limits:      Limits{Responses: 5, Businesses: 1, Templates: 3},
			Features: []string{
				"5 AI responses/month",
				"1 business profile",
				"3 custom templates",
			},
		}
	}
}

// Limits is shorthand for t.Plan().Limits.
func (t Tier) Limits() Limits {
	return t.Plan().Limits
}
