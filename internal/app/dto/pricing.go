package dto

import (
	"github.com/shopspring/decimal"

	domaincatalog "tripquote/internal/domain/catalog"
	domainpricing "tripquote/internal/domain/pricing"
	"tripquote/internal/domain/shared/money"
)

const dateLayout = "2006-01-02"

// Money amounts cross the wire as strings rounded to cents. Ratios
// (multipliers, discount rates) stay exact and unrounded.
func amountString(d decimal.Decimal, currency string) string {
	return money.For(d, currency).Display()
}

type TotalsDTO struct {
	Subtotal      string `json:"subtotal"`
	AgentDiscount string `json:"agent_discount"`
	Markup        string `json:"markup"`
	Total         string `json:"total"`
	Commission    string `json:"commission"`
}

func NewTotalsDTO(t domainpricing.QuoteTotals, currency string) TotalsDTO {
	return TotalsDTO{
		Subtotal:      amountString(t.Subtotal, currency),
		AgentDiscount: amountString(t.AgentDiscount, currency),
		Markup:        amountString(t.Markup, currency),
		Total:         amountString(t.Total, currency),
		Commission:    amountString(t.Commission, currency),
	}
}

type RateDTO struct {
	ID         string  `json:"id"`
	SeasonName string  `json:"season_name"`
	Season     string  `json:"season"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	Multiplier string  `json:"multiplier"`
	FixedPrice *string `json:"fixed_price,omitempty"`
	MinStay    int     `json:"min_stay,omitempty"`
	Active     bool    `json:"active"`
}

func NewRateDTO(r domaincatalog.SeasonalRate) RateDTO {
	dto := RateDTO{
		ID:         r.ID,
		SeasonName: r.SeasonName,
		Season:     string(r.Season),
		StartDate:  r.StartDate.Format(dateLayout),
		EndDate:    r.EndDate.Format(dateLayout),
		Multiplier: r.Multiplier.String(),
		MinStay:    r.MinStay,
		Active:     r.Active,
	}
	if r.FixedPrice != nil {
		s := amountString(*r.FixedPrice, money.DefaultCurrency)
		dto.FixedPrice = &s
	}
	return dto
}

type RateCollection struct {
	Items []RateDTO `json:"items"`
}

func NewRateCollection(rates []domaincatalog.SeasonalRate) RateCollection {
	out := RateCollection{Items: make([]RateDTO, 0, len(rates))}
	for _, r := range rates {
		out.Items = append(out.Items, NewRateDTO(r))
	}
	return out
}

type ItemPricingDTO struct {
	BasePrice     string   `json:"base_price"`
	SeasonalPrice string   `json:"seasonal_price"`
	FinalPrice    string   `json:"final_price"`
	Season        string   `json:"season"`
	AppliedRate   *RateDTO `json:"applied_rate,omitempty"`
}

func NewItemPricingDTO(r domainpricing.ItemPricingResult) ItemPricingDTO {
	dto := ItemPricingDTO{
		BasePrice:     amountString(r.BasePrice, money.DefaultCurrency),
		SeasonalPrice: amountString(r.SeasonalPrice, money.DefaultCurrency),
		FinalPrice:    amountString(r.FinalPrice, money.DefaultCurrency),
		Season:        string(r.Season),
	}
	if r.AppliedRate != nil {
		rate := NewRateDTO(*r.AppliedRate)
		dto.AppliedRate = &rate
	}
	return dto
}

type PricedLineDTO struct {
	ItemID   string         `json:"item_id"`
	Name     string         `json:"name"`
	Kind     string         `json:"kind"`
	Quantity int            `json:"quantity"`
	Pricing  ItemPricingDTO `json:"pricing"`
}

type CalculationDTO struct {
	Lines  []PricedLineDTO `json:"lines"`
	Totals TotalsDTO       `json:"totals"`
}

func NewCalculationDTO(lines []domainpricing.PricedItem, totals domainpricing.QuoteTotals) CalculationDTO {
	out := CalculationDTO{Lines: make([]PricedLineDTO, 0, len(lines)), Totals: NewTotalsDTO(totals, money.DefaultCurrency)}
	for _, l := range lines {
		out.Lines = append(out.Lines, PricedLineDTO{
			ItemID:   string(l.ItemID),
			Name:     l.Name,
			Kind:     string(l.Kind),
			Quantity: l.Quantity,
			Pricing:  NewItemPricingDTO(l.Pricing),
		})
	}
	return out
}
