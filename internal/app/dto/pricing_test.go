package dto

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domaincatalog "tripquote/internal/domain/catalog"
	domainpricing "tripquote/internal/domain/pricing"
	"tripquote/internal/domain/season"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNewTotalsDTO(t *testing.T) {
	totals := domainpricing.QuoteTotals{
		Subtotal:      dec("300"),
		AgentDiscount: dec("45"),
		Markup:        dec("25.5"),
		Total:         dec("280.5"),
		Commission:    dec("2.55"),
	}

	t.Run("amounts are rendered to cents", func(t *testing.T) {
		out := NewTotalsDTO(totals, "USD")
		assert.Equal(t, "300.00", out.Subtotal)
		assert.Equal(t, "45.00", out.AgentDiscount)
		assert.Equal(t, "25.50", out.Markup)
		assert.Equal(t, "280.50", out.Total)
		assert.Equal(t, "2.55", out.Commission)
	})

	t.Run("an empty currency still renders", func(t *testing.T) {
		assert.Equal(t, "280.50", NewTotalsDTO(totals, "").Total)
	})
}

func TestNewRateDTO(t *testing.T) {
	fixed := dec("350")
	rate := domaincatalog.SeasonalRate{
		ID:         "rate-1",
		SeasonName: "Christmas",
		Season:     season.Peak,
		StartDate:  time.Date(2025, time.December, 20, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC),
		Multiplier: dec("1.5"),
		FixedPrice: &fixed,
		Active:     true,
	}

	out := NewRateDTO(rate)
	assert.Equal(t, "1.5", out.Multiplier, "multipliers are ratios and stay exact")
	require.NotNil(t, out.FixedPrice)
	assert.Equal(t, "350.00", *out.FixedPrice, "fixed prices are amounts and round to cents")
	assert.Equal(t, "2025-12-20", out.StartDate)
}
