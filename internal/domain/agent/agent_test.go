package agent

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTierDiscountRate(t *testing.T) {
	cases := []struct {
		tier Tier
		want string
	}{
		{TierBronze, "0.05"},
		{TierSilver, "0.1"},
		{TierGold, "0.15"},
		{TierPlatinum, "0.2"},
		{Tier("UNKNOWN"), "0"},
		{Tier(""), "0"},
	}
	for _, tc := range cases {
		t.Run(string(tc.tier), func(t *testing.T) {
			want, _ := decimal.NewFromString(tc.want)
			assert.True(t, tc.tier.DiscountRate().Equal(want))
		})
	}
}

func TestTierForPax(t *testing.T) {
	cases := []struct {
		pax  int
		want Tier
	}{
		{0, TierBronze},
		{49, TierBronze},
		{50, TierSilver},
		{199, TierSilver},
		{200, TierGold},
		{499, TierGold},
		{500, TierPlatinum},
		{10000, TierPlatinum},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, TierForPax(tc.pax), "pax=%d", tc.pax)
	}
}

func TestTierOutranks(t *testing.T) {
	assert.True(t, TierPlatinum.Outranks(TierGold))
	assert.True(t, TierSilver.Outranks(TierBronze))
	assert.False(t, TierGold.Outranks(TierGold))
	assert.False(t, TierBronze.Outranks(TierSilver))
}

func TestNextTier(t *testing.T) {
	next, minPax, ok := TierBronze.NextTier()
	assert.True(t, ok)
	assert.Equal(t, TierSilver, next)
	assert.Equal(t, 50, minPax)

	next, minPax, ok = TierGold.NextTier()
	assert.True(t, ok)
	assert.Equal(t, TierPlatinum, next)
	assert.Equal(t, 500, minPax)

	_, _, ok = TierPlatinum.NextTier()
	assert.False(t, ok, "platinum has no next bracket")
}

func TestAgentProgress(t *testing.T) {
	t.Run("halfway to silver", func(t *testing.T) {
		a := Agent{Tier: TierBronze, TotalPax: 25}
		p := a.Progress()
		assert.Equal(t, TierSilver, p.Next)
		assert.Equal(t, 50, p.NextMinPax)
		assert.Equal(t, 50, p.ProgressPercent)
	})

	t.Run("manually promoted agent caps at 100", func(t *testing.T) {
		// Pax above the next threshold happens when a tier was assigned
		// by hand rather than earned.
		a := Agent{Tier: TierBronze, TotalPax: 120}
		assert.Equal(t, 100, a.Progress().ProgressPercent)
	})

	t.Run("platinum is terminal", func(t *testing.T) {
		a := Agent{Tier: TierPlatinum, TotalPax: 900}
		p := a.Progress()
		assert.Equal(t, TierPlatinum, p.Next)
		assert.Equal(t, 100, p.ProgressPercent)
	})
}

func TestTierValid(t *testing.T) {
	assert.True(t, TierGold.Valid())
	assert.False(t, Tier("DIAMOND").Valid())
}
