package quotes

import (
	"context"
	"time"

	"tripquote/internal/app/handlers/support"
	"tripquote/internal/app/uow"
	domainagent "tripquote/internal/domain/agent"
	domainpricing "tripquote/internal/domain/pricing"
	domainquote "tripquote/internal/domain/quote"
	domainrange "tripquote/internal/domain/shared/daterange"
)

type CalculateQuoteCommand struct {
	AgentID   string
	StartDate time.Time
	EndDate   time.Time
	Pax       PaxInput
	Items     []ItemInput
	Markup    MarkupInput
}

type CalculateQuoteResult struct {
	Lines   []domainpricing.PricedItem
	Pricing domainpricing.QuoteTotals
}

// CalculateQuoteHandler runs the full pricing pipeline without persisting
// anything: agents preview totals before committing to a quote.
type CalculateQuoteHandler struct {
	UoWFactory uow.Factory
}

func (h *CalculateQuoteHandler) Handle(ctx context.Context, cmd CalculateQuoteCommand) (*CalculateQuoteResult, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	ag, err := unit.Agents().ByID(ctx, domainagent.AgentID(cmd.AgentID))
	if err != nil {
		return nil, err
	}
	dr, err := domainrange.New(cmd.StartDate, cmd.EndDate)
	if err != nil {
		return nil, err
	}
	pax := domainquote.PaxBreakdown{
		Adults:          cmd.Pax.Adults,
		ChildWithBed:    cmd.Pax.ChildWithBed,
		ChildWithoutBed: cmd.Pax.ChildWithoutBed,
	}
	markup := domainpricing.Markup{Type: domainpricing.MarkupType(cmd.Markup.Type), Value: cmd.Markup.Value}

	priced, _, err := priceLines(ctx, unit, cmd.Items, dr, pax, ag.Tier, markup)
	if err != nil {
		return nil, err
	}
	totals, err := domainpricing.AssembleItemized(priced, ag.Tier, markup)
	if err != nil {
		return nil, err
	}
	return &CalculateQuoteResult{Lines: priced, Pricing: totals}, nil
}
