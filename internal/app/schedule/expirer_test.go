package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainquote "tripquote/internal/domain/quote"
	domainrange "tripquote/internal/domain/shared/daterange"
	"tripquote/internal/infra/storage/memory"
)

func seedQuote(t *testing.T, repo *memory.QuoteRepository, id string, createdAt time.Time, advance func(q *domainquote.Quote)) *domainquote.Quote {
	t.Helper()
	dr, err := domainrange.New(createdAt.AddDate(0, 2, 0), createdAt.AddDate(0, 2, 4))
	require.NoError(t, err)
	q, err := domainquote.New(domainquote.CreateParams{
		ID:          domainquote.QuoteID(id),
		Number:      domainquote.NewNumber(createdAt),
		AgentID:     "sunrise-travel",
		ClientName:  "Alice Brown",
		ClientEmail: "alice@example.com",
		Range:       dr,
		Pax:         domainquote.PaxBreakdown{Adults: 2},
		Items: []domainquote.Item{{
			ItemID: "deluxe-double", Name: "Deluxe Double", Quantity: 1,
		}},
		CreatedAt: createdAt,
	})
	require.NoError(t, err)
	q.ClearEvents()
	if advance != nil {
		advance(q)
		q.ClearEvents()
	}
	require.NoError(t, repo.Save(context.Background(), q))
	return q
}

func TestSweepOnce(t *testing.T) {
	created := time.Date(2026, time.January, 1, 10, 0, 0, 0, time.UTC)
	overdue := created.Add(domainquote.ValidityPeriod + time.Hour)

	newEnv := func(t *testing.T) (memory.Factory, *memory.QuoteRepository, *memory.Outbox) {
		repo := memory.NewQuoteRepository()
		factory := memory.Factory{
			CatalogRepo: memory.NewCatalogRepository(),
			AgentRepo:   memory.NewAgentRepository(),
			QuoteRepo:   repo,
		}
		return factory, repo, memory.NewOutbox()
	}

	t.Run("expires overdue drafts, sent and viewed quotes", func(t *testing.T) {
		factory, repo, box := newEnv(t)
		seedQuote(t, repo, "q-draft", created, nil)
		seedQuote(t, repo, "q-sent", created, func(q *domainquote.Quote) {
			require.NoError(t, q.Send(created))
		})
		seedQuote(t, repo, "q-viewed", created, func(q *domainquote.Quote) {
			require.NoError(t, q.Send(created))
			require.NoError(t, q.MarkViewed(created))
		})

		e := &Expirer{UoWFactory: factory, Outbox: box}
		n, err := e.SweepOnce(context.Background(), overdue)
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		for _, id := range []domainquote.QuoteID{"q-draft", "q-sent", "q-viewed"} {
			q, err := repo.ByID(context.Background(), id)
			require.NoError(t, err)
			assert.Equal(t, domainquote.StatusExpired, q.Status, "quote %s", id)
		}

		records := box.Drain()
		require.Len(t, records, 3)
		for _, r := range records {
			assert.Equal(t, "quote.expired", r.Name)
		}
	})

	t.Run("leaves quotes inside their validity window alone", func(t *testing.T) {
		factory, repo, box := newEnv(t)
		seedQuote(t, repo, "q-fresh", created, nil)

		e := &Expirer{UoWFactory: factory, Outbox: box}
		n, err := e.SweepOnce(context.Background(), created.Add(24*time.Hour))
		require.NoError(t, err)
		assert.Zero(t, n)

		q, err := repo.ByID(context.Background(), "q-fresh")
		require.NoError(t, err)
		assert.Equal(t, domainquote.StatusDraft, q.Status)
		assert.Empty(t, box.Drain())
	})

	t.Run("client-answered quotes survive the sweep", func(t *testing.T) {
		factory, repo, box := newEnv(t)
		seedQuote(t, repo, "q-accepted", created, func(q *domainquote.Quote) {
			require.NoError(t, q.Send(created))
			require.NoError(t, q.Accept(created))
		})

		e := &Expirer{UoWFactory: factory, Outbox: box}
		n, err := e.SweepOnce(context.Background(), overdue)
		require.NoError(t, err)
		assert.Zero(t, n)

		q, err := repo.ByID(context.Background(), "q-accepted")
		require.NoError(t, err)
		assert.Equal(t, domainquote.StatusAccepted, q.Status)
	})

	t.Run("repeat sweep is idempotent", func(t *testing.T) {
		factory, repo, box := newEnv(t)
		seedQuote(t, repo, "q-draft", created, nil)

		e := &Expirer{UoWFactory: factory, Outbox: box}
		n, err := e.SweepOnce(context.Background(), overdue)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		n, err = e.SweepOnce(context.Background(), overdue)
		require.NoError(t, err)
		assert.Zero(t, n, "already expired quotes are not revisited")
	})
}

func TestRunRequiresFactory(t *testing.T) {
	e := &Expirer{}
	assert.ErrorIs(t, e.Run(context.Background()), ErrExpirerNotConfigured)
}
