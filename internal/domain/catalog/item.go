package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"tripquote/internal/domain/season"
)

var (
	ErrItemNotFound    = errors.New("catalog: item not found")
	ErrPackageNotFound = errors.New("catalog: package not found")
	ErrRateNotFound    = errors.New("catalog: seasonal rate not found")
	ErrInvalidKind     = errors.New("catalog: unknown item kind")
	ErrInvalidWindow   = errors.New("catalog: rate end date before start date")
	ErrRateOverlap     = errors.New("catalog: seasonal rate overlaps an existing active rate")
)

type ItemID string

// ItemKind distinguishes how an item's quantity multiplier is applied
// during pricing: rooms scale by nights, activities and add-ons by pax.
type ItemKind string

const (
	KindRoom     ItemKind = "room"
	KindActivity ItemKind = "activity"
	KindAddon    ItemKind = "addon"
)

func (k ItemKind) Valid() bool {
	switch k {
	case KindRoom, KindActivity, KindAddon:
		return true
	}
	return false
}

// SeasonalRate is a date-windowed price override attached to a catalog item
// or package. Either FixedPrice or Multiplier applies; a fixed price takes
// precedence when both are set.
type SeasonalRate struct {
	ID         string
	SeasonName string
	Season     season.Type
	StartDate  time.Time
	EndDate    time.Time
	Multiplier decimal.Decimal
	FixedPrice *decimal.Decimal
	MinStay    int
	Active     bool
	CreatedAt  time.Time
}

// AppliesOn reports whether the rate's inclusive validity window contains
// the calendar day of date and the rate is active.
func (r SeasonalRate) AppliesOn(date time.Time) bool {
	if !r.Active {
		return false
	}
	d := dayOf(date)
	return !d.Before(dayOf(r.StartDate)) && !d.After(dayOf(r.EndDate))
}

// Overlaps reports whether two rate windows share at least one day.
// Inactive rates never overlap anything.
func (r SeasonalRate) Overlaps(other SeasonalRate) bool {
	if !r.Active || !other.Active {
		return false
	}
	return !dayOf(r.StartDate).After(dayOf(other.EndDate)) &&
		!dayOf(other.StartDate).After(dayOf(r.EndDate))
}

func (r SeasonalRate) Validate() error {
	if !r.Season.Valid() {
		return errors.New("catalog: unknown season type")
	}
	if dayOf(r.EndDate).Before(dayOf(r.StartDate)) {
		return ErrInvalidWindow
	}
	if r.Multiplier.IsNegative() {
		return errors.New("catalog: rate multiplier cannot be negative")
	}
	if r.FixedPrice != nil && r.FixedPrice.IsNegative() {
		return errors.New("catalog: fixed price cannot be negative")
	}
	return nil
}

// SellableItem is a priced catalog entry: a hotel room, a bookable activity
// or an add-on. Immutable during pricing; the engine works on a snapshot.
type SellableItem struct {
	ID        ItemID
	Name      string
	Kind      ItemKind
	BasePrice decimal.Decimal
	Rates     []SeasonalRate
	Active    bool
}

// ResolveRate returns the seasonal rate applying to the item on the given
// date, or nil when the base price stands unadjusted. Candidates must be
// active, contain the date in their inclusive window and carry the season
// band season.Resolve assigns to that date. When overlapping windows leave
// more than one candidate the most recently created rate wins; the catalog
// rejects new overlaps at write time, so this tie-break only matters for
// data predating that check.
func (i SellableItem) ResolveRate(date time.Time) *SeasonalRate {
	band := season.Resolve(date)
	var match *SeasonalRate
	for idx := range i.Rates {
		r := &i.Rates[idx]
		if !r.AppliesOn(date) || r.Season != band {
			continue
		}
		if match == nil || r.CreatedAt.After(match.CreatedAt) {
			match = r
		}
	}
	if match == nil {
		return nil
	}
	out := *match
	return &out
}

func dayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Repository reads catalog snapshots for pricing and manages seasonal rates.
type Repository interface {
	ItemByID(ctx context.Context, id ItemID) (*SellableItem, error)
	ListItems(ctx context.Context, kind ItemKind) ([]*SellableItem, error)
	SaveItem(ctx context.Context, item *SellableItem) error

	PackageByID(ctx context.Context, id PackageID) (*TourPackage, error)
	SavePackage(ctx context.Context, pkg *TourPackage) error
}
