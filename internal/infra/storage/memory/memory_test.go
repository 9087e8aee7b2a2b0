package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appoutbox "tripquote/internal/app/outbox"
	"tripquote/internal/app/uow"
	domainagent "tripquote/internal/domain/agent"
	domaincatalog "tripquote/internal/domain/catalog"
	domainquote "tripquote/internal/domain/quote"
	domainseason "tripquote/internal/domain/season"
	domainrange "tripquote/internal/domain/shared/daterange"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seedItem() *domaincatalog.SellableItem {
	return &domaincatalog.SellableItem{
		ID: "deluxe-double", Name: "Deluxe Double", Kind: domaincatalog.KindRoom,
		BasePrice: dec("100"), Active: true,
		Rates: []domaincatalog.SeasonalRate{
			{
				ID: "xmas", Season: domainseason.Peak,
				StartDate: day(2025, time.December, 20), EndDate: day(2025, time.December, 31),
				Multiplier: dec("1.5"), Active: true, CreatedAt: day(2025, time.June, 1),
			},
		},
	}
}

func TestCatalogRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("reads return independent snapshots", func(t *testing.T) {
		repo := NewCatalogRepository()
		require.NoError(t, repo.SaveItem(ctx, seedItem()))

		got, err := repo.ItemByID(ctx, "deluxe-double")
		require.NoError(t, err)
		got.Rates[0].Multiplier = dec("9")
		got.Name = "Mutated"

		fresh, err := repo.ItemByID(ctx, "deluxe-double")
		require.NoError(t, err)
		assert.Equal(t, "Deluxe Double", fresh.Name)
		assert.True(t, fresh.Rates[0].Multiplier.Equal(dec("1.5")))
	})

	t.Run("inactive items and packages are hidden", func(t *testing.T) {
		repo := NewCatalogRepository()
		item := seedItem()
		item.Active = false
		require.NoError(t, repo.SaveItem(ctx, item))

		_, err := repo.ItemByID(ctx, "deluxe-double")
		assert.ErrorIs(t, err, domaincatalog.ErrItemNotFound)

		items, err := repo.ListItems(ctx, "")
		require.NoError(t, err)
		assert.Empty(t, items)

		require.NoError(t, repo.SavePackage(ctx, &domaincatalog.TourPackage{ID: "p", Active: false}))
		_, err = repo.PackageByID(ctx, "p")
		assert.ErrorIs(t, err, domaincatalog.ErrPackageNotFound)
	})

	t.Run("kind filter", func(t *testing.T) {
		repo := NewCatalogRepository()
		require.NoError(t, repo.SaveItem(ctx, seedItem()))
		require.NoError(t, repo.SaveItem(ctx, &domaincatalog.SellableItem{
			ID: "transfer", Kind: domaincatalog.KindAddon, BasePrice: dec("20"), Active: true,
		}))

		rooms, err := repo.ListItems(ctx, domaincatalog.KindRoom)
		require.NoError(t, err)
		require.Len(t, rooms, 1)
		assert.Equal(t, domaincatalog.ItemID("deluxe-double"), rooms[0].ID)
	})
}

func TestAgentRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewAgentRepository()

	_, err := repo.ByID(ctx, "ghost")
	assert.ErrorIs(t, err, domainagent.ErrAgentNotFound)

	require.NoError(t, repo.Save(ctx, &domainagent.Agent{ID: "a1", Tier: domainagent.TierGold, TotalPax: 240}))
	got, err := repo.ByID(ctx, "a1")
	require.NoError(t, err)

	got.TotalPax = 9999
	fresh, err := repo.ByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, 240, fresh.TotalPax, "stored agent is isolated from returned copies")
}

func seedQuote(t *testing.T, id, client string, createdAt time.Time) *domainquote.Quote {
	t.Helper()
	dr, err := domainrange.New(day(2026, time.March, 1), day(2026, time.March, 4))
	require.NoError(t, err)
	q, err := domainquote.New(domainquote.CreateParams{
		ID:          domainquote.QuoteID(id),
		Number:      domainquote.NewNumber(createdAt),
		AgentID:     "sunrise-travel",
		ClientName:  client,
		ClientEmail: client + "@example.com",
		Range:       dr,
		Pax:         domainquote.PaxBreakdown{Adults: 2},
		Items:       []domainquote.Item{{ItemID: "deluxe-double", Name: "Deluxe Double", Quantity: 1}},
		CreatedAt:   createdAt,
	})
	require.NoError(t, err)
	q.ClearEvents()
	return q
}

func TestQuoteRepository(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, time.January, 1, 10, 0, 0, 0, time.UTC)

	t.Run("save bumps the version", func(t *testing.T) {
		repo := NewQuoteRepository()
		q := seedQuote(t, "q-1", "alice", base)

		require.NoError(t, repo.Save(ctx, q))
		assert.Equal(t, int64(1), q.Version)
		require.NoError(t, repo.Save(ctx, q))
		assert.Equal(t, int64(2), q.Version)

		stored, err := repo.ByID(ctx, "q-1")
		require.NoError(t, err)
		assert.Equal(t, int64(2), stored.Version)
	})

	t.Run("list filters, sorts newest-first and pages", func(t *testing.T) {
		repo := NewQuoteRepository()
		require.NoError(t, repo.Save(ctx, seedQuote(t, "q-1", "alice", base)))
		require.NoError(t, repo.Save(ctx, seedQuote(t, "q-2", "bob", base.Add(time.Hour))))
		q3 := seedQuote(t, "q-3", "carol", base.Add(2*time.Hour))
		require.NoError(t, q3.Send(base.Add(3*time.Hour)))
		q3.ClearEvents()
		require.NoError(t, repo.Save(ctx, q3))

		all, total, err := repo.List(ctx, domainquote.ListFilter{})
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		require.Len(t, all, 3)
		assert.Equal(t, domainquote.QuoteID("q-3"), all[0].ID)

		sent, total, err := repo.List(ctx, domainquote.ListFilter{Status: domainquote.StatusSent})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, sent, 1)
		assert.Equal(t, domainquote.QuoteID("q-3"), sent[0].ID)

		byClient, total, err := repo.List(ctx, domainquote.ListFilter{Search: "BOB"})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, byClient, 1)
		assert.Equal(t, domainquote.QuoteID("q-2"), byClient[0].ID)

		paged, total, err := repo.List(ctx, domainquote.ListFilter{Offset: 1, Limit: 1})
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		require.Len(t, paged, 1)
		assert.Equal(t, domainquote.QuoteID("q-2"), paged[0].ID)

		none, total, err := repo.List(ctx, domainquote.ListFilter{Offset: 10, Limit: 5})
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		assert.Empty(t, none)
	})

	t.Run("delete", func(t *testing.T) {
		repo := NewQuoteRepository()
		require.NoError(t, repo.Save(ctx, seedQuote(t, "q-1", "alice", base)))
		require.NoError(t, repo.Delete(ctx, "q-1"))
		assert.ErrorIs(t, repo.Delete(ctx, "q-1"), domainquote.ErrQuoteNotFound)
		_, err := repo.ByID(ctx, "q-1")
		assert.ErrorIs(t, err, domainquote.ErrQuoteNotFound)
	})
}

func TestOutbox(t *testing.T) {
	box := NewOutbox()
	require.NoError(t, box.Add(context.Background(), appoutbox.EventRecord{ID: "e1", Name: "quote.created"}))
	require.NoError(t, box.Add(context.Background(), appoutbox.EventRecord{ID: "e2", Name: "quote.sent"}))

	records := box.Drain()
	require.Len(t, records, 2)
	assert.Equal(t, "quote.created", records[0].Name)
	assert.Empty(t, box.Drain(), "drain empties the buffer")
}

func TestFactory(t *testing.T) {
	t.Run("begins a unit over the configured repositories", func(t *testing.T) {
		factory := Factory{
			CatalogRepo: NewCatalogRepository(),
			AgentRepo:   NewAgentRepository(),
			QuoteRepo:   NewQuoteRepository(),
		}
		unit, err := factory.Begin(context.Background(), uow.TxOptions{})
		require.NoError(t, err)
		assert.NotNil(t, unit.Catalog())
		assert.NotNil(t, unit.Agents())
		assert.NotNil(t, unit.Quotes())
		assert.NoError(t, unit.Commit(context.Background()))
		assert.NoError(t, unit.Rollback(context.Background()))
	})

	t.Run("rejects missing repositories", func(t *testing.T) {
		_, err := Factory{}.Begin(context.Background(), uow.TxOptions{})
		assert.ErrorIs(t, err, ErrFactoryMisconfigured)
	})
}
