package catalog

import (
	"time"

	"github.com/shopspring/decimal"

	"tripquote/internal/domain/season"
)

type PackageID string

// TourPackage is a pre-built multi-day itinerary sold at a per-person base
// price. Package-level seasonal rates adjust by multiplier only; fixed
// price overrides exist for individual items, not packages.
type TourPackage struct {
	ID        PackageID
	Name      string
	Duration  int
	Nights    []int
	BasePrice decimal.Decimal
	Rates     []SeasonalRate
	Active    bool
}

// ResolveRate returns the package rate applying on date, or nil. Same
// candidate rules and newest-wins tie-break as SellableItem.ResolveRate.
func (p TourPackage) ResolveRate(date time.Time) *SeasonalRate {
	band := season.Resolve(date)
	var match *SeasonalRate
	for idx := range p.Rates {
		r := &p.Rates[idx]
		if !r.AppliesOn(date) || r.Season != band {
			continue
		}
		if match == nil || r.CreatedAt.After(match.CreatedAt) {
			match = r
		}
	}
	if match == nil {
		return nil
	}
	out := *match
	return &out
}

// SeasonMultiplier resolves the effective package multiplier for a date,
// defaulting to 1 when no rate applies.
func (p TourPackage) SeasonMultiplier(date time.Time) decimal.Decimal {
	if rate := p.ResolveRate(date); rate != nil {
		return rate.Multiplier
	}
	return decimal.NewFromInt(1)
}
