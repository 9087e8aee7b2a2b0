package uow

import (
	"context"

	domainagent "tripquote/internal/domain/agent"
	domaincatalog "tripquote/internal/domain/catalog"
	domainquote "tripquote/internal/domain/quote"
)

// UnitOfWork coordinates repositories inside a transaction boundary. The
// quote edit path (delete-then-recreate of line items) relies on it: a
// failed recreation rolls back and never leaves a quote with partial items.
type UnitOfWork interface {
	Catalog() domaincatalog.Repository
	Agents() domainagent.Repository
	Quotes() domainquote.Repository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Factory starts unit of work instances.
type Factory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

// TxOptions configure transaction boundaries.
type TxOptions struct {
	ReadOnly bool
}
