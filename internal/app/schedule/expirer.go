package schedule

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"tripquote/internal/app/handlers/support"
	"tripquote/internal/app/outbox"
	"tripquote/internal/app/uow"
	domainquote "tripquote/internal/domain/quote"
)

var ErrExpirerNotConfigured = errors.New("schedule: expirer missing unit of work factory")

// Expirer periodically moves quotes past their validity deadline to
// EXPIRED. Only pre-response statuses are swept; accepted and booked
// quotes keep their state regardless of the deadline.
type Expirer struct {
	UoWFactory uow.Factory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Interval   time.Duration
	BatchSize  int
	Logger     *slog.Logger
}

func (e *Expirer) Run(ctx context.Context) error {
	if e.UoWFactory == nil {
		return ErrExpirerNotConfigured
	}
	ticker := time.NewTicker(e.interval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if n, err := e.SweepOnce(ctx, time.Now()); err != nil {
				e.log().Error("quote expiry sweep failed", "err", err)
			} else if n > 0 {
				e.log().Info("quotes expired", "count", n)
			}
		}
	}
}

// SweepOnce expires every overdue quote found in one pass and reports how
// many changed state.
func (e *Expirer) SweepOnce(ctx context.Context, now time.Time) (int, error) {
	expired := 0
	for _, status := range []domainquote.Status{domainquote.StatusDraft, domainquote.StatusSent, domainquote.StatusViewed} {
		n, err := e.sweepStatus(ctx, status, now)
		if err != nil {
			return expired, err
		}
		expired += n
	}
	return expired, nil
}

func (e *Expirer) sweepStatus(ctx context.Context, status domainquote.Status, now time.Time) (int, error) {
	unit, ctx, cleanup, err := support.BeginUnit(ctx, e.UoWFactory, uow.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer cleanup()

	candidates, _, err := unit.Quotes().List(ctx, domainquote.ListFilter{Status: status, Limit: e.batchSize()})
	if err != nil {
		return 0, err
	}
	expired := 0
	for _, q := range candidates {
		if now.UTC().Before(q.ValidUntil) {
			continue
		}
		if err := q.Expire(now); err != nil {
			continue
		}
		if err := unit.Quotes().Save(ctx, q); err != nil {
			return expired, err
		}
		pending := q.PendingEvents()
		q.ClearEvents()
		if err := outbox.RecordDomainEvents(ctx, e.Outbox, e.Encoder, pending); err != nil {
			return expired, err
		}
		expired++
	}
	if expired == 0 {
		return 0, nil
	}
	return expired, unit.Commit(ctx)
}

func (e *Expirer) interval() time.Duration {
	if e.Interval <= 0 {
		return time.Hour
	}
	return e.Interval
}

func (e *Expirer) batchSize() int {
	if e.BatchSize <= 0 {
		return 200
	}
	return e.BatchSize
}

func (e *Expirer) log() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}
