package plans

import "strings"

type Limits struct {
	Responses  int `json:"responses"`
	Businesses int `json:"businesses"`
	Templates  int `json:"templates"`
}

type Plan struct {
	Key         Tier     `json:"key"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	PriceUSD    float64  `json:"price"`
	Popular     bool     `json:"popular,omitempty"`
	Limits      Limits   `json:"limits"`
	Features    []string `json:"features"`
}

// Registry binds paid tiers to the payment provider's price ids.
type Registry struct {
	prices map[Tier]string
}

func NewRegistry(prices map[Tier]string) *Registry {
	r := &Registry{prices: make(map[Tier]string, len(prices))}
	for t, id := range prices {
		id = strings.TrimSpace(id)
		if t.Paid() && id != "" {
			r.prices[t] = id
		}
	}
	return r
}

// PriceID returns the configured price for a paid tier.
func (r *Registry) PriceID(t Tier) (string, bool) {
	id, ok := r.prices[t]
	return id, ok
}

// TierForPrice maps a provider price id back to its tier.
func (r *Registry) TierForPrice(priceID string) (Tier, bool) {
	if priceID == "" {
		return "", false
	}
	for t, id := range r.prices {
		if id == priceID {
			return t, true
		}
	}
	return "", false
}

// Catalog returns every plan with its configured price id, FREE first.
func (r *Registry) Catalog() []CatalogEntry {
	out := make([]CatalogEntry, 0, len(Tiers))
	for _, t := range Tiers {
		out = append(out, CatalogEntry{Plan: t.Plan(), PriceID: r.prices[t]})
	}
	return out
}

type CatalogEntry struct {
	Plan
	PriceID string `json:"priceId,omitempty"`
}
