package quotes

import (
	"context"

	"tripquote/internal/app/handlers/support"
	"tripquote/internal/app/uow"
	domainagent "tripquote/internal/domain/agent"
	domainquote "tripquote/internal/domain/quote"
)

type ListQuotesQuery struct {
	AgentID string
	Status  string
	Search  string
	Page    int
	Size    int
}

type ListQuotesResult struct {
	Quotes []*domainquote.Quote
	Total  int
	Page   int
	Size   int
}

type ListQuotesHandler struct {
	UoWFactory uow.Factory
}

func (h *ListQuotesHandler) Handle(ctx context.Context, qry ListQuotesQuery) (*ListQuotesResult, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	page := qry.Page
	if page < 1 {
		page = 1
	}
	size := qry.Size
	if size < 1 || size > 100 {
		size = 10
	}
	filter := domainquote.ListFilter{
		AgentID: domainagent.AgentID(qry.AgentID),
		Status:  domainquote.Status(qry.Status),
		Search:  qry.Search,
		Offset:  (page - 1) * size,
		Limit:   size,
	}
	items, total, err := unit.Quotes().List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ListQuotesResult{Quotes: items, Total: total, Page: page, Size: size}, nil
}

type GetQuoteHandler struct {
	UoWFactory uow.Factory
}

func (h *GetQuoteHandler) Handle(ctx context.Context, id string) (*domainquote.Quote, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	defer cleanup()
	return unit.Quotes().ByID(ctx, domainquote.QuoteID(id))
}
