package memory

import (
	"context"
	"errors"

	"tripquote/internal/app/uow"
	domainagent "tripquote/internal/domain/agent"
	domaincatalog "tripquote/internal/domain/catalog"
	domainquote "tripquote/internal/domain/quote"
)

// Factory wires in-memory repositories into a unit-of-work boundary.
type Factory struct {
	CatalogRepo domaincatalog.Repository
	AgentRepo   domainagent.Repository
	QuoteRepo   domainquote.Repository
}

// ErrFactoryMisconfigured indicates missing repositories.
var ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")

// Begin starts a lightweight transaction boundary. No isolation is
// provided but the abstraction matches the application ports; repository
// saves are individually atomic under their own locks.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.CatalogRepo == nil || f.AgentRepo == nil || f.QuoteRepo == nil {
		return nil, ErrFactoryMisconfigured
	}
	return &Unit{catalog: f.CatalogRepo, agents: f.AgentRepo, quotes: f.QuoteRepo}, nil
}

// Unit is a lightweight uow.UnitOfWork backed by in-memory stores.
type Unit struct {
	catalog domaincatalog.Repository
	agents  domainagent.Repository
	quotes  domainquote.Repository
}

func (u *Unit) Catalog() domaincatalog.Repository { return u.catalog }

func (u *Unit) Agents() domainagent.Repository { return u.agents }

func (u *Unit) Quotes() domainquote.Repository { return u.quotes }

func (u *Unit) Commit(ctx context.Context) error { return nil }

func (u *Unit) Rollback(ctx context.Context) error { return nil }

var _ uow.Factory = Factory{}
