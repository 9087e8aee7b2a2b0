package rates

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tripquote/internal/app/handlers/support"
	"tripquote/internal/app/uow"
	domaincatalog "tripquote/internal/domain/catalog"
	domainseason "tripquote/internal/domain/season"
)

var ErrTargetRequired = errors.New("rates: either item id or package id is required")

type CreateRateCommand struct {
	ItemID     string
	PackageID  string
	SeasonName string
	Season     string
	StartDate  time.Time
	EndDate    time.Time
	Multiplier decimal.Decimal
	FixedPrice *decimal.Decimal
	MinStay    int
}

// CreateRateHandler attaches a seasonal rate to an item or a package.
// Overlapping active windows on the same target are rejected at write
// time; the resolver's newest-wins tie-break only covers data created
// before this check existed.
type CreateRateHandler struct {
	UoWFactory uow.Factory
}

func (h *CreateRateHandler) Handle(ctx context.Context, cmd CreateRateCommand) (*domaincatalog.SeasonalRate, error) {
	unit, ctx, cleanup, err := support.BeginUnit(ctx, h.UoWFactory, uow.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer cleanup()

	rate := domaincatalog.SeasonalRate{
		ID:         uuid.NewString(),
		SeasonName: cmd.SeasonName,
		Season:     domainseason.Type(cmd.Season),
		StartDate:  cmd.StartDate,
		EndDate:    cmd.EndDate,
		Multiplier: cmd.Multiplier,
		FixedPrice: cmd.FixedPrice,
		MinStay:    cmd.MinStay,
		Active:     true,
		CreatedAt:  time.Now().UTC(),
	}
	if rate.Multiplier.IsZero() && rate.FixedPrice == nil {
		rate.Multiplier = decimal.NewFromInt(1)
	}
	if err := rate.Validate(); err != nil {
		return nil, err
	}

	switch {
	case cmd.ItemID != "":
		item, err := unit.Catalog().ItemByID(ctx, domaincatalog.ItemID(cmd.ItemID))
		if err != nil {
			return nil, err
		}
		for _, existing := range item.Rates {
			if existing.Overlaps(rate) {
				return nil, domaincatalog.ErrRateOverlap
			}
		}
		item.Rates = append(item.Rates, rate)
		if err := unit.Catalog().SaveItem(ctx, item); err != nil {
			return nil, err
		}
	case cmd.PackageID != "":
		pkg, err := unit.Catalog().PackageByID(ctx, domaincatalog.PackageID(cmd.PackageID))
		if err != nil {
			return nil, err
		}
		for _, existing := range pkg.Rates {
			if existing.Overlaps(rate) {
				return nil, domaincatalog.ErrRateOverlap
			}
		}
		pkg.Rates = append(pkg.Rates, rate)
		if err := unit.Catalog().SavePackage(ctx, pkg); err != nil {
			return nil, err
		}
	default:
		return nil, ErrTargetRequired
	}

	if err := unit.Commit(ctx); err != nil {
		return nil, err
	}
	return &rate, nil
}

type ListRatesQuery struct {
	ItemID     string
	PackageID  string
	ActiveOnly bool
	OnDate     *time.Time
}

type ListRatesHandler struct {
	UoWFactory uow.Factory
}

func (h *ListRatesHandler) Handle(ctx context.Context, qry ListRatesQuery) ([]domaincatalog.SeasonalRate, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	var rates []domaincatalog.SeasonalRate
	switch {
	case qry.ItemID != "":
		item, err := unit.Catalog().ItemByID(ctx, domaincatalog.ItemID(qry.ItemID))
		if err != nil {
			return nil, err
		}
		rates = item.Rates
	case qry.PackageID != "":
		pkg, err := unit.Catalog().PackageByID(ctx, domaincatalog.PackageID(qry.PackageID))
		if err != nil {
			return nil, err
		}
		rates = pkg.Rates
	default:
		return nil, ErrTargetRequired
	}

	out := make([]domaincatalog.SeasonalRate, 0, len(rates))
	for _, r := range rates {
		if qry.ActiveOnly && !r.Active {
			continue
		}
		if qry.OnDate != nil && !r.AppliesOn(*qry.OnDate) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

type DeactivateRateCommand struct {
	ItemID    string
	PackageID string
	RateID    string
}

// DeactivateRateHandler soft-deletes a rate. Deactivated rates stay on the
// record for auditability but never match during resolution.
type DeactivateRateHandler struct {
	UoWFactory uow.Factory
}

func (h *DeactivateRateHandler) Handle(ctx context.Context, cmd DeactivateRateCommand) error {
	unit, ctx, cleanup, err := support.BeginUnit(ctx, h.UoWFactory, uow.TxOptions{})
	if err != nil {
		return err
	}
	defer cleanup()

	switch {
	case cmd.ItemID != "":
		item, err := unit.Catalog().ItemByID(ctx, domaincatalog.ItemID(cmd.ItemID))
		if err != nil {
			return err
		}
		if !deactivate(item.Rates, cmd.RateID) {
			return domaincatalog.ErrRateNotFound
		}
		if err := unit.Catalog().SaveItem(ctx, item); err != nil {
			return err
		}
	case cmd.PackageID != "":
		pkg, err := unit.Catalog().PackageByID(ctx, domaincatalog.PackageID(cmd.PackageID))
		if err != nil {
			return err
		}
		if !deactivate(pkg.Rates, cmd.RateID) {
			return domaincatalog.ErrRateNotFound
		}
		if err := unit.Catalog().SavePackage(ctx, pkg); err != nil {
			return err
		}
	default:
		return ErrTargetRequired
	}
	return unit.Commit(ctx)
}

func deactivate(rates []domaincatalog.SeasonalRate, rateID string) bool {
	for i := range rates {
		if rates[i].ID == rateID {
			rates[i].Active = false
			return true
		}
	}
	return false
}
