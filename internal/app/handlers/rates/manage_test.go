package rates

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domaincatalog "tripquote/internal/domain/catalog"
	domainseason "tripquote/internal/domain/season"
	"tripquote/internal/infra/storage/memory"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newFactory(t *testing.T) (memory.Factory, *memory.CatalogRepository) {
	t.Helper()
	catalog := memory.NewCatalogRepository()
	factory := memory.Factory{
		CatalogRepo: catalog,
		AgentRepo:   memory.NewAgentRepository(),
		QuoteRepo:   memory.NewQuoteRepository(),
	}
	ctx := context.Background()
	require.NoError(t, catalog.SaveItem(ctx, &domaincatalog.SellableItem{
		ID: "deluxe-double", Name: "Deluxe Double", Kind: domaincatalog.KindRoom,
		BasePrice: dec("100"), Active: true,
	}))
	require.NoError(t, catalog.SavePackage(ctx, &domaincatalog.TourPackage{
		ID: "pkg-bali-5d4n", Name: "Bali 5D4N", Duration: 5, BasePrice: dec("480"), Active: true,
	}))
	return factory, catalog
}

func peakCommand(target string, start, end time.Time) CreateRateCommand {
	cmd := CreateRateCommand{
		SeasonName: "Christmas",
		Season:     string(domainseason.Peak),
		StartDate:  start,
		EndDate:    end,
		Multiplier: dec("1.5"),
	}
	if target == "item" {
		cmd.ItemID = "deluxe-double"
	} else {
		cmd.PackageID = "pkg-bali-5d4n"
	}
	return cmd
}

func TestCreateRate(t *testing.T) {
	t.Run("attaches an active rate to an item", func(t *testing.T) {
		factory, catalog := newFactory(t)
		h := &CreateRateHandler{UoWFactory: factory}

		rate, err := h.Handle(context.Background(), peakCommand("item", day(2025, time.December, 20), day(2025, time.December, 31)))
		require.NoError(t, err)
		assert.NotEmpty(t, rate.ID)
		assert.True(t, rate.Active)

		item, err := catalog.ItemByID(context.Background(), "deluxe-double")
		require.NoError(t, err)
		require.Len(t, item.Rates, 1)
		assert.True(t, item.Rates[0].Multiplier.Equal(dec("1.5")))
	})

	t.Run("attaches to a package", func(t *testing.T) {
		factory, catalog := newFactory(t)
		h := &CreateRateHandler{UoWFactory: factory}

		_, err := h.Handle(context.Background(), peakCommand("package", day(2025, time.July, 1), day(2025, time.August, 31)))
		require.NoError(t, err)

		pkg, err := catalog.PackageByID(context.Background(), "pkg-bali-5d4n")
		require.NoError(t, err)
		assert.Len(t, pkg.Rates, 1)
	})

	t.Run("rejects overlapping windows on the same target", func(t *testing.T) {
		factory, _ := newFactory(t)
		h := &CreateRateHandler{UoWFactory: factory}

		_, err := h.Handle(context.Background(), peakCommand("item", day(2025, time.December, 20), day(2025, time.December, 31)))
		require.NoError(t, err)

		// Shares Dec 31 with the existing window.
		_, err = h.Handle(context.Background(), peakCommand("item", day(2025, time.December, 31), day(2026, time.January, 10)))
		assert.ErrorIs(t, err, domaincatalog.ErrRateOverlap)

		// Adjacent but disjoint window is fine.
		_, err = h.Handle(context.Background(), peakCommand("item", day(2026, time.January, 1), day(2026, time.January, 10)))
		assert.NoError(t, err)
	})

	t.Run("defaults the multiplier to one", func(t *testing.T) {
		factory, _ := newFactory(t)
		h := &CreateRateHandler{UoWFactory: factory}

		cmd := peakCommand("item", day(2025, time.December, 20), day(2025, time.December, 31))
		cmd.Multiplier = decimal.Zero
		rate, err := h.Handle(context.Background(), cmd)
		require.NoError(t, err)
		assert.True(t, rate.Multiplier.Equal(dec("1")))
	})

	t.Run("keeps a zero multiplier when a fixed price is set", func(t *testing.T) {
		factory, _ := newFactory(t)
		h := &CreateRateHandler{UoWFactory: factory}

		fixed := dec("350")
		cmd := peakCommand("item", day(2025, time.December, 20), day(2025, time.December, 31))
		cmd.Multiplier = decimal.Zero
		cmd.FixedPrice = &fixed
		rate, err := h.Handle(context.Background(), cmd)
		require.NoError(t, err)
		require.NotNil(t, rate.FixedPrice)
		assert.True(t, rate.FixedPrice.Equal(dec("350")))
		assert.True(t, rate.Multiplier.IsZero())
	})

	t.Run("input validation", func(t *testing.T) {
		factory, _ := newFactory(t)
		h := &CreateRateHandler{UoWFactory: factory}

		cmd := peakCommand("item", day(2025, time.December, 31), day(2025, time.December, 20))
		_, err := h.Handle(context.Background(), cmd)
		assert.ErrorIs(t, err, domaincatalog.ErrInvalidWindow)

		cmd = peakCommand("item", day(2025, time.December, 20), day(2025, time.December, 31))
		cmd.ItemID = ""
		_, err = h.Handle(context.Background(), cmd)
		assert.ErrorIs(t, err, ErrTargetRequired)

		cmd = peakCommand("item", day(2025, time.December, 20), day(2025, time.December, 31))
		cmd.ItemID = "no-such-item"
		_, err = h.Handle(context.Background(), cmd)
		assert.ErrorIs(t, err, domaincatalog.ErrItemNotFound)
	})
}

func TestListRates(t *testing.T) {
	factory, _ := newFactory(t)
	create := &CreateRateHandler{UoWFactory: factory}
	list := &ListRatesHandler{UoWFactory: factory}
	deactivateH := &DeactivateRateHandler{UoWFactory: factory}

	first, err := create.Handle(context.Background(), peakCommand("item", day(2025, time.December, 20), day(2025, time.December, 31)))
	require.NoError(t, err)
	_, err = create.Handle(context.Background(), peakCommand("item", day(2026, time.July, 1), day(2026, time.August, 31)))
	require.NoError(t, err)

	t.Run("lists everything on the item", func(t *testing.T) {
		rates, err := list.Handle(context.Background(), ListRatesQuery{ItemID: "deluxe-double"})
		require.NoError(t, err)
		assert.Len(t, rates, 2)
	})

	t.Run("filters by date", func(t *testing.T) {
		on := day(2025, time.December, 25)
		rates, err := list.Handle(context.Background(), ListRatesQuery{ItemID: "deluxe-double", OnDate: &on})
		require.NoError(t, err)
		require.Len(t, rates, 1)
		assert.Equal(t, first.ID, rates[0].ID)
	})

	t.Run("active-only hides deactivated rates", func(t *testing.T) {
		require.NoError(t, deactivateH.Handle(context.Background(), DeactivateRateCommand{
			ItemID: "deluxe-double", RateID: first.ID,
		}))

		rates, err := list.Handle(context.Background(), ListRatesQuery{ItemID: "deluxe-double", ActiveOnly: true})
		require.NoError(t, err)
		assert.Len(t, rates, 1)

		rates, err = list.Handle(context.Background(), ListRatesQuery{ItemID: "deluxe-double"})
		require.NoError(t, err)
		assert.Len(t, rates, 2, "deactivated rate stays on the record")
	})

	t.Run("requires a target", func(t *testing.T) {
		_, err := list.Handle(context.Background(), ListRatesQuery{})
		assert.ErrorIs(t, err, ErrTargetRequired)
	})
}

func TestDeactivateRate(t *testing.T) {
	factory, catalog := newFactory(t)
	create := &CreateRateHandler{UoWFactory: factory}
	h := &DeactivateRateHandler{UoWFactory: factory}

	rate, err := create.Handle(context.Background(), peakCommand("item", day(2025, time.December, 20), day(2025, time.December, 31)))
	require.NoError(t, err)

	t.Run("soft-deletes", func(t *testing.T) {
		require.NoError(t, h.Handle(context.Background(), DeactivateRateCommand{ItemID: "deluxe-double", RateID: rate.ID}))

		item, err := catalog.ItemByID(context.Background(), "deluxe-double")
		require.NoError(t, err)
		require.Len(t, item.Rates, 1)
		assert.False(t, item.Rates[0].Active)
		assert.Nil(t, item.ResolveRate(day(2025, time.December, 25)), "deactivated rate never resolves")
	})

	t.Run("deactivated window frees the slot for a replacement", func(t *testing.T) {
		_, err := create.Handle(context.Background(), peakCommand("item", day(2025, time.December, 20), day(2025, time.December, 31)))
		assert.NoError(t, err)
	})

	t.Run("unknown rate", func(t *testing.T) {
		err := h.Handle(context.Background(), DeactivateRateCommand{ItemID: "deluxe-double", RateID: "nope"})
		assert.ErrorIs(t, err, domaincatalog.ErrRateNotFound)
	})

	t.Run("requires a target", func(t *testing.T) {
		err := h.Handle(context.Background(), DeactivateRateCommand{RateID: rate.ID})
		assert.ErrorIs(t, err, ErrTargetRequired)
	})
}
