package pricing

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"tripquote/internal/domain/agent"
	"tripquote/internal/domain/catalog"
	"tripquote/internal/domain/season"
)

var (
	ErrInvalidPax    = errors.New("pricing: pax must be at least 1")
	ErrInvalidNights = errors.New("pricing: nights must be at least 1")
	ErrInvalidMarkup = errors.New("pricing: unknown markup type")
	ErrNegativeValue = errors.New("pricing: markup value cannot be negative")
	ErrNoItems       = errors.New("pricing: quote needs at least one item")
)

// CommissionRate is the platform's share of the agent's markup.
var CommissionRate = decimal.New(10, -2)

var one = decimal.NewFromInt(1)

type MarkupType string

const (
	MarkupNone       MarkupType = ""
	MarkupPercentage MarkupType = "percentage"
	MarkupFixed      MarkupType = "fixed"
)

// Markup is the agent's own margin on top of the discounted wholesale
// price. Percentage markups scale the discounted price; fixed markups add
// a flat amount to it.
type Markup struct {
	Type  MarkupType
	Value decimal.Decimal
}

func (m Markup) Validate() error {
	switch m.Type {
	case MarkupNone, MarkupPercentage, MarkupFixed:
	default:
		return ErrInvalidMarkup
	}
	if m.Value.IsNegative() {
		return ErrNegativeValue
	}
	return nil
}

// Context carries the caller-supplied inputs for one pricing computation.
// Ephemeral; never persisted.
type Context struct {
	Date   time.Time
	Pax    int
	Nights int
	Tier   agent.Tier
	Markup Markup
}

func (c Context) Validate() error {
	if c.Pax < 1 {
		return ErrInvalidPax
	}
	if c.Nights < 0 {
		return ErrInvalidNights
	}
	return c.Markup.Validate()
}

// nights treats the zero value as a single night.
func (c Context) nights() int64 {
	if c.Nights == 0 {
		return 1
	}
	return int64(c.Nights)
}

// ItemPricingResult is the fully-loaded price for one catalog item under a
// given context. Immutable, returned by value.
type ItemPricingResult struct {
	BasePrice     decimal.Decimal
	SeasonalPrice decimal.Decimal
	FinalPrice    decimal.Decimal
	Season        season.Type
	AppliedRate   *catalog.SeasonalRate
}

// PriceItem computes the per-item final price: seasonal adjustment first,
// then the quantity multiplier for the item kind. Rooms scale by nights,
// activities by pax. Add-ons are priced from the raw base price times pax;
// they are deliberately exempt from seasonal adjustment.
func PriceItem(item *catalog.SellableItem, ctx Context) (ItemPricingResult, error) {
	if item == nil {
		return ItemPricingResult{}, catalog.ErrItemNotFound
	}
	if !item.Kind.Valid() {
		return ItemPricingResult{}, catalog.ErrInvalidKind
	}
	if err := ctx.Validate(); err != nil {
		return ItemPricingResult{}, err
	}

	band := season.Resolve(ctx.Date)
	rate := item.ResolveRate(ctx.Date)

	seasonalPrice := item.BasePrice
	if rate != nil {
		if rate.FixedPrice != nil {
			seasonalPrice = *rate.FixedPrice
		} else {
			seasonalPrice = item.BasePrice.Mul(rate.Multiplier)
		}
	}

	var finalPrice decimal.Decimal
	switch item.Kind {
	case catalog.KindRoom:
		finalPrice = seasonalPrice.Mul(decimal.NewFromInt(ctx.nights()))
	case catalog.KindActivity:
		finalPrice = seasonalPrice.Mul(decimal.NewFromInt(int64(ctx.Pax)))
	case catalog.KindAddon:
		finalPrice = item.BasePrice.Mul(decimal.NewFromInt(int64(ctx.Pax)))
		seasonalPrice = item.BasePrice
		rate = nil
	}

	return ItemPricingResult{
		BasePrice:     item.BasePrice,
		SeasonalPrice: seasonalPrice,
		FinalPrice:    finalPrice,
		Season:        band,
		AppliedRate:   rate,
	}, nil
}

// PricedItem is one quote line ready for assembly.
type PricedItem struct {
	ItemID   catalog.ItemID
	Name     string
	Kind     catalog.ItemKind
	Quantity int
	Pricing  ItemPricingResult
}

// QuoteTotals is the assembled quote arithmetic: subtotal over all lines,
// tier discount, agent markup and the platform commission derived from it.
type QuoteTotals struct {
	Subtotal      decimal.Decimal
	AgentDiscount decimal.Decimal
	Markup        decimal.Decimal
	Total         decimal.Decimal
	Commission    decimal.Decimal
}

// AssembleItemized sums priced lines into a quote total. The tier discount
// applies to the subtotal; the markup applies to the discounted price, not
// the subtotal. Commission is a flat share of the markup alone.
func AssembleItemized(items []PricedItem, tier agent.Tier, markup Markup) (QuoteTotals, error) {
	if len(items) == 0 {
		return QuoteTotals{}, ErrNoItems
	}
	if err := markup.Validate(); err != nil {
		return QuoteTotals{}, err
	}

	subtotal := decimal.Zero
	for _, it := range items {
		qty := int64(it.Quantity)
		if qty < 1 {
			qty = 1
		}
		subtotal = subtotal.Add(it.Pricing.FinalPrice.Mul(decimal.NewFromInt(qty)))
	}
	return applyDiscountAndMarkup(subtotal, tier, markup), nil
}

// AssemblePackage prices a package quote: per-person base price times total
// pax, adjusted by the package multiplier active on the start date, then
// the same tier discount and markup steps as itemized quotes.
func AssemblePackage(pkg *catalog.TourPackage, totalPax int, startDate time.Time, tier agent.Tier, markup Markup) (QuoteTotals, error) {
	if pkg == nil {
		return QuoteTotals{}, catalog.ErrPackageNotFound
	}
	if totalPax < 1 {
		return QuoteTotals{}, ErrInvalidPax
	}
	if err := markup.Validate(); err != nil {
		return QuoteTotals{}, err
	}

	base := pkg.BasePrice.Mul(decimal.NewFromInt(int64(totalPax)))
	base = base.Mul(pkg.SeasonMultiplier(startDate))
	return applyDiscountAndMarkup(base, tier, markup), nil
}

func applyDiscountAndMarkup(subtotal decimal.Decimal, tier agent.Tier, markup Markup) QuoteTotals {
	discountRate := tier.DiscountRate()
	discounted := subtotal.Mul(one.Sub(discountRate))
	agentDiscount := subtotal.Sub(discounted)

	total := discounted
	switch markup.Type {
	case MarkupPercentage:
		total = discounted.Mul(one.Add(markup.Value.Div(decimal.NewFromInt(100))))
	case MarkupFixed:
		total = discounted.Add(markup.Value)
	}
	markupAmount := total.Sub(discounted)

	return QuoteTotals{
		Subtotal:      subtotal,
		AgentDiscount: agentDiscount,
		Markup:        markupAmount,
		Total:         total,
		Commission:    markupAmount.Mul(CommissionRate),
	}
}
