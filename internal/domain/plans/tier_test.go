package plans

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsUnlimited(t *testing.T) {
	assert.True(t, IsUnlimited(-1))
	for _, v := range []int{-2, 0, 1, 5, 500} {
		assert.False(t, IsUnlimited(v), "limit %d", v)
	}

	for _, tier := range Tiers {
		l := tier.Limits()
		assert.Equal(t, l.Responses == -1, IsUnlimited(l.Responses), tier)
		assert.Equal(t, l.Businesses == -1, IsUnlimited(l.Businesses), tier)
		assert.Equal(t, l.Templates == -1, IsUnlimited(l.Templates), tier)
	}
}

func TestWithin(t *testing.T) {
	assert.True(t, Within(5, 4))
	assert.False(t, Within(5, 5))
	assert.False(t, Within(5, 6))
	assert.True(t, Within(Unlimited, 1_000_000))
	assert.False(t, Within(0, 0))
}

func TestTierLimits(t *testing.T) {
	tests := []struct {
		tier Tier
		want Limits
	}{
		{TierFree, Limits{Responses: 5, Businesses: 1, Templates: 3}},
		{TierStarter, Limits{Responses: 100, Businesses: 3, Templates: 10}},
		{TierPro, Limits{Responses: 500, Businesses: 10, Templates: 50}},
		{TierAgency, Limits{Responses: Unlimited, Businesses: Unlimited, Templates: Unlimited}},
	}
	for _, tt := range tests {
		t.Run(string(tt.tier), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.tier.Limits())
			assert.Equal(t, tt.tier, tt.tier.Plan().Key)
		})
	}

	assert.Equal(t, TierFree, Tier("GOLD").Plan().Key)
}

func TestParseTier(t *testing.T) {
	got, err := ParseTier(" pro ")
	require.NoError(t, err)
	assert.Equal(t, TierPro, got)

	_, err = ParseTier("enterprise")
	assert.Error(t, err)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(map[Tier]string{
		TierStarter: "price_starter",
		TierPro:     " price_pro ",
		TierAgency:  "",
		TierFree:    "price_free",
	})

	id, ok := r.PriceID(TierPro)
	require.True(t, ok)
	assert.Equal(t, "price_pro", id)

	_, ok = r.PriceID(TierAgency)
	assert.False(t, ok)
	_, ok = r.PriceID(TierFree)
	assert.False(t, ok)

	tier, ok := r.TierForPrice("price_starter")
	require.True(t, ok)
	assert.Equal(t, TierStarter, tier)

	_, ok = r.TierForPrice("price_unknown")
	assert.False(t, ok)
	_, ok = r.TierForPrice("")
	assert.False(t, ok)

	catalog := r.Catalog()
	require.Len(t, catalog, 4)
	assert.Equal(t, TierFree, catalog[0].Key)
	assert.Equal(t, "price_pro", catalog[2].PriceID)
}
