package quotes

import (
	"context"
	"time"

	"tripquote/internal/app/handlers/support"
	"tripquote/internal/app/outbox"
	"tripquote/internal/app/uow"
	domainpricing "tripquote/internal/domain/pricing"
	domainquote "tripquote/internal/domain/quote"
)

type RepriceQuoteCommand struct {
	QuoteID string
	Items   []ItemInput
	Pax     PaxInput
	Markup  *MarkupInput
}

// RepriceQuoteHandler replaces a quote's line items wholesale and
// recomputes totals. Old items are deleted and the new set recreated
// inside the same unit of work, so a mid-way failure rolls the quote back
// to its previous item set rather than leaving it partially edited.
type RepriceQuoteHandler struct {
	UoWFactory uow.Factory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *RepriceQuoteHandler) Handle(ctx context.Context, cmd RepriceQuoteCommand) (*BuildQuoteResult, error) {
	unit, ctx, cleanup, err := support.BeginUnit(ctx, h.UoWFactory, uow.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer cleanup()

	q, err := unit.Quotes().ByID(ctx, domainquote.QuoteID(cmd.QuoteID))
	if err != nil {
		return nil, err
	}
	ag, err := unit.Agents().ByID(ctx, q.AgentID)
	if err != nil {
		return nil, err
	}

	pax := q.Pax
	if cmd.Pax != (PaxInput{}) {
		pax = domainquote.PaxBreakdown{
			Adults:          cmd.Pax.Adults,
			ChildWithBed:    cmd.Pax.ChildWithBed,
			ChildWithoutBed: cmd.Pax.ChildWithoutBed,
		}
	}
	markup := q.Markup
	if cmd.Markup != nil {
		markup = domainpricing.Markup{Type: domainpricing.MarkupType(cmd.Markup.Type), Value: cmd.Markup.Value}
		if err := markup.Validate(); err != nil {
			return nil, err
		}
	}

	priced, lines, err := priceLines(ctx, unit, cmd.Items, q.Range, pax, ag.Tier, markup)
	if err != nil {
		return nil, err
	}
	totals, err := domainpricing.AssembleItemized(priced, ag.Tier, markup)
	if err != nil {
		return nil, err
	}

	q.Markup = markup
	if err := q.ReplaceItems(lines, totals, pax, time.Now()); err != nil {
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
