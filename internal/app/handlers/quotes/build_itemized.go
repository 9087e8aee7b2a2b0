package quotes

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tripquote/internal/app/handlers/support"
	"tripquote/internal/app/outbox"
	"tripquote/internal/app/uow"
	domainagent "tripquote/internal/domain/agent"
	domaincatalog "tripquote/internal/domain/catalog"
	domainpricing "tripquote/internal/domain/pricing"
	domainquote "tripquote/internal/domain/quote"
	domainrange "tripquote/internal/domain/shared/daterange"
)

// ItemInput selects one catalog item for a quote line. Zero Pax or Nights
// fall back to the quote-level values.
type ItemInput struct {
	ItemID   string
	Quantity int
	Nights   int
	Pax      int
}

type PaxInput struct {
	Adults          int
	ChildWithBed    int
	ChildWithoutBed int
}

type MarkupInput struct {
	Type  string
	Value decimal.Decimal
}

type BuildItemizedQuoteCommand struct {
	AgentID     string
	ClientName  string
	ClientEmail string
	ClientPhone string
	StartDate   time.Time
	EndDate     time.Time
	Pax         PaxInput
	Items       []ItemInput
	Markup      MarkupInput
	Notes       string
}

type BuildQuoteResult struct {
	Quote   *domainquote.Quote
	Pricing domainpricing.QuoteTotals
}

// BuildItemizedQuoteHandler looks up the catalog, prices every line, runs
// the quote assembly and persists the quote with its items in one unit of
// work. Any missing item or agent fails the whole operation.
type BuildItemizedQuoteHandler struct {
	UoWFactory uow.Factory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *BuildItemizedQuoteHandler) Handle(ctx context.Context, cmd BuildItemizedQuoteCommand) (*BuildQuoteResult, error) {
	unit, ctx, cleanup, err := support.BeginUnit(ctx, h.UoWFactory, uow.TxOptions{})
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
	if err := markup.Validate(); err != nil {
		return nil, err
	}

	priced, lines, err := priceLines(ctx, unit, cmd.Items, dr, pax, ag.Tier, markup)
	if err != nil {
		return nil, err
	}

	totals, err := domainpricing.AssembleItemized(priced, ag.Tier, markup)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	q, err := domainquote.New(domainquote.CreateParams{
		ID:          domainquote.QuoteID(uuid.NewString()),
		Number:      domainquote.NewNumber(now),
		AgentID:     ag.ID,
		ClientName:  cmd.ClientName,
		ClientEmail: cmd.ClientEmail,
		ClientPhone: cmd.ClientPhone,
		Range:       dr,
		Pax:         pax,
		Markup:      markup,
		Totals:      totals,
		Items:       lines,
		Notes:       cmd.Notes,
		CreatedAt:   now,
	})
	if err != nil {
		return nil, err
	}

	if err := unit.Quotes().Save(ctx, q); err != nil {
		return nil, err
	}
	pending := q.PendingEvents()
	q.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, pending); err != nil {
		return nil, err
	}
	if err := unit.Commit(ctx); err != nil {
		return nil, err
	}
	return &BuildQuoteResult{Quote: q, Pricing: totals}, nil
}

// priceLines resolves and prices every requested item. Shared by the build
// and reprice paths.
func priceLines(ctx context.Context, unit uow.UnitOfWork, items []ItemInput, dr domainrange.DateRange, pax domainquote.PaxBreakdown, tier domainagent.Tier, markup domainpricing.Markup) ([]domainpricing.PricedItem, []domainquote.Item, error) {
	priced := make([]domainpricing.PricedItem, 0, len(items))
	lines := make([]domainquote.Item, 0, len(items))
	for _, in := range items {
		item, err := unit.Catalog().ItemByID(ctx, domaincatalog.ItemID(in.ItemID))
		if err != nil {
			return nil, nil, err
		}
		linePax := in.Pax
		if linePax == 0 {
			linePax = pax.Total()
		}
		lineNights := in.Nights
		if lineNights == 0 {
			lineNights = dr.Nights()
		}
		qty := in.Quantity
		if qty < 1 {
			qty = 1
		}
		pctx := domainpricing.Context{
			Date:   dr.Start,
			Pax:    linePax,
			Nights: lineNights,
			Tier:   tier,
			Markup: markup,
		}
		result, err := domainpricing.PriceItem(item, pctx)
		if err != nil {
			return nil, nil, err
		}
		priced = append(priced, domainpricing.PricedItem{
			ItemID:   item.ID,
			Name:     item.Name,
			Kind:     item.Kind,
			Quantity: qty,
			Pricing:  result,
		})
		lineRange := dr
		lines = append(lines, domainquote.Item{
			ItemID:     item.ID,
			Kind:       item.Kind,
			Name:       item.Name,
			Quantity:   qty,
			Nights:     lineNights,
			Pax:        linePax,
			UnitPrice:  result.SeasonalPrice,
			TotalPrice: result.FinalPrice.Mul(decimal.NewFromInt(int64(qty))),
			Range:      &lineRange,
		})
	}
	return priced, lines, nil
}
