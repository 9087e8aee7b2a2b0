package agent

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var ErrAgentNotFound = errors.New("agent: not found")

type AgentID string

// Tier is the discount bracket assigned to a reselling agent. Discount
// rates are fixed per tier and used uniformly across the pricing engine.
type Tier string

const (
	TierBronze   Tier = "BRONZE"
	TierSilver   Tier = "SILVER"
	TierGold     Tier = "GOLD"
	TierPlatinum Tier = "PLATINUM"
)

var tierDiscounts = map[Tier]decimal.Decimal{
	TierBronze:   decimal.New(5, -2),
	TierSilver:   decimal.New(10, -2),
	TierGold:     decimal.New(15, -2),
	TierPlatinum: decimal.New(20, -2),
}

// Pax thresholds for automatic tier promotion.
var tierThresholds = []struct {
	tier   Tier
	minPax int
}{
	{TierPlatinum, 500},
	{TierGold, 200},
	{TierSilver, 50},
	{TierBronze, 0},
}

func (t Tier) Valid() bool {
	_, ok := tierDiscounts[t]
	return ok
}

// DiscountRate returns the fractional discount for the tier. Unknown or
// empty tiers get zero discount rather than an error: pricing treats the
// tier as a trusted input and an unclassified agent simply pays list price.
func (t Tier) DiscountRate() decimal.Decimal {
	if rate, ok := tierDiscounts[t]; ok {
		return rate
	}
	return decimal.Zero
}

var tierOrder = map[Tier]int{TierBronze: 0, TierSilver: 1, TierGold: 2, TierPlatinum: 3}

// Outranks reports whether t sits above other in the bracket ladder.
// Promotions from booked pax never demote a manually assigned tier.
func (t Tier) Outranks(other Tier) bool {
	return tierOrder[t] > tierOrder[other]
}

// TierForPax returns the tier an agent qualifies for given lifetime pax.
func TierForPax(totalPax int) Tier {
	for _, th := range tierThresholds {
		if totalPax >= th.minPax {
			return th.tier
		}
	}
	return TierBronze
}

// NextTier returns the tier above t, or t itself when already at the top.
func (t Tier) NextTier() (Tier, int, bool) {
	switch t {
	case TierBronze:
		return TierSilver, 50, true
	case TierSilver:
		return TierGold, 200, true
	case TierGold:
		return TierPlatinum, 500, true
	default:
		return t, 0, false
	}
}

// Agent is a B2B reseller building quotes for end clients. The pricing
// engine only reads the tier; profile upkeep happens elsewhere.
type Agent struct {
	ID          AgentID
	CompanyName string
	Contact     string
	Tier        Tier
	TotalPax    int
}

// TierProgress describes how far an agent is from the next bracket.
type TierProgress struct {
	Current         Tier
	Next            Tier
	NextMinPax      int
	ProgressPercent int
}

// Progress computes promotion progress from lifetime pax.
func (a Agent) Progress() TierProgress {
	next, minPax, ok := a.Tier.NextTier()
	if !ok {
		return TierProgress{Current: a.Tier, Next: a.Tier, ProgressPercent: 100}
	}
	pct := a.TotalPax * 100 / minPax
	if pct > 100 {
		pct = 100
	}
	return TierProgress{Current: a.Tier, Next: next, NextMinPax: minPax, ProgressPercent: pct}
}

type Repository interface {
	ByID(ctx context.Context, id AgentID) (*Agent, error)
	Save(ctx context.Context, a *Agent) error
}
