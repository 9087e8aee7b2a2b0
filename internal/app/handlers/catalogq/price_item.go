package catalogq

import (
	"context"
	"time"

	"tripquote/internal/app/handlers/support"
	"tripquote/internal/app/uow"
	domainagent "tripquote/internal/domain/agent"
	domaincatalog "tripquote/internal/domain/catalog"
	domainpricing "tripquote/internal/domain/pricing"
)

type PriceItemQuery struct {
	ItemID string
	Date   time.Time
	Pax    int
	Nights int
	Tier   string
}

// PriceItemHandler exposes point pricing for a single catalog item: the
// seasonal resolution and quantity math without quote assembly.
type PriceItemHandler struct {
	UoWFactory uow.Factory
}

func (h *PriceItemHandler) Handle(ctx context.Context, qry PriceItemQuery) (*domainpricing.ItemPricingResult, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	item, err := unit.Catalog().ItemByID(ctx, domaincatalog.ItemID(qry.ItemID))
	if err != nil {
		return nil, err
	}
	result, err := domainpricing.PriceItem(item, domainpricing.Context{
		Date:   qry.Date,
		Pax:    qry.Pax,
		Nights: qry.Nights,
		Tier:   domainagent.Tier(qry.Tier),
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

type ListItemsQuery struct {
	Kind string
}

type ListItemsHandler struct {
	UoWFactory uow.Factory
}

func (h *ListItemsHandler) Handle(ctx context.Context, qry ListItemsQuery) ([]*domaincatalog.SellableItem, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	defer cleanup()
	return unit.Catalog().ListItems(ctx, domaincatalog.ItemKind(qry.Kind))
}
