package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tripquote/internal/app/uow"
	domainagent "tripquote/internal/domain/agent"
	domaincatalog "tripquote/internal/domain/catalog"
	domainquote "tripquote/internal/domain/quote"
)

// Factory wires Mongo transactions into the generic UnitOfWork interface.
// The quote edit path depends on this: replacing a quote's embedded line
// items and bumping its version happen inside one transaction.
type Factory struct {
	DB *mongo.Database

	CatalogRepo domaincatalog.Repository
	AgentRepo   domainagent.Repository
	QuoteRepo   domainquote.Repository
}

var ErrUnitOfWorkNotConfigured = errors.New("mongo: unit of work factory missing database")

// Begin starts a MongoDB session/transaction.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.DB == nil {
		return nil, ErrUnitOfWorkNotConfigured
	}
	session, err := f.DB.Client().StartSession()
	if err != nil {
		return nil, err
	}
	txnOpts := options.Transaction().SetReadConcern(f.DB.ReadConcern()).SetWriteConcern(f.DB.WriteConcern())
	if err := session.StartTransaction(txnOpts); err != nil {
		session.EndSession(ctx)
		return nil, err
	}
	return &Unit{
		db:      f.DB,
		session: session,
		catalog: f.CatalogRepo,
		agents:  f.AgentRepo,
		quotes:  f.QuoteRepo,
	}, nil
}

type Unit struct {
	db      *mongo.Database
	session mongo.Session

	catalog domaincatalog.Repository
	agents  domainagent.Repository
	quotes  domainquote.Repository
}

func (u *Unit) Catalog() domaincatalog.Repository { return u.catalog }

func (u *Unit) Agents() domainagent.Repository { return u.agents }

func (u *Unit) Quotes() domainquote.Repository { return u.quotes }

func (u *Unit) Commit(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.CommitTransaction(ctx)
}

func (u *Unit) Rollback(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.AbortTransaction(ctx)
}

// InjectContext ensures the Mongo session is available in context for downstream repos.
func (u *Unit) InjectContext(ctx context.Context) context.Context {
	return mongo.NewSessionContext(ctx, u.session)
}
