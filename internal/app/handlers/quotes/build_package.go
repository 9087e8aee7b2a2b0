package quotes

import (
	"context"
	"time"

	"github.com/google/uuid"

	"tripquote/internal/app/handlers/support"
	"tripquote/internal/app/outbox"
	"tripquote/internal/app/uow"
	domainagent "tripquote/internal/domain/agent"
	domaincatalog "tripquote/internal/domain/catalog"
	domainpricing "tripquote/internal/domain/pricing"
	domainquote "tripquote/internal/domain/quote"
	domainrange "tripquote/internal/domain/shared/daterange"
)

type BuildPackageQuoteCommand struct {
	AgentID     string
	PackageID   string
	ClientName  string
	ClientEmail string
	ClientPhone string
	StartDate   time.Time
	EndDate     time.Time
	Pax         PaxInput
	Markup      MarkupInput
	Notes       string
}

// BuildPackageQuoteHandler prices a pre-built package for the agent's tier
// and persists the resulting quote. Package quotes carry no line items;
// the package reference and totals are the whole story.
type BuildPackageQuoteHandler struct {
	UoWFactory uow.Factory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *BuildPackageQuoteHandler) Handle(ctx context.Context, cmd BuildPackageQuoteCommand) (*BuildQuoteResult, error) {
	unit, ctx, cleanup, err := support.BeginUnit(ctx, h.UoWFactory, uow.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer cleanup()

	ag, err := unit.Agents().ByID(ctx, domainagent.AgentID(cmd.AgentID))
	if err != nil {
		return nil, err
	}
	pkg, err := unit.Catalog().PackageByID(ctx, domaincatalog.PackageID(cmd.PackageID))
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

	totals, err := domainpricing.AssemblePackage(pkg, pax.Total(), dr.Start, ag.Tier, markup)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	q, err := domainquote.New(domainquote.CreateParams{
		ID:          domainquote.QuoteID(uuid.NewString()),
		Number:      domainquote.NewNumber(now),
		AgentID:     ag.ID,
		PackageID:   pkg.ID,
		ClientName:  cmd.ClientName,
		ClientEmail: cmd.ClientEmail,
		ClientPhone: cmd.ClientPhone,
		Range:       dr,
		Pax:         pax,
		Markup:      markup,
		Totals:      totals,
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
