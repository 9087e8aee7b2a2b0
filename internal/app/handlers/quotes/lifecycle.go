package quotes

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"tripquote/internal/app/handlers/support"
	"tripquote/internal/app/outbox"
	"tripquote/internal/app/uow"
	domainquote "tripquote/internal/domain/quote"
)

// Action names a quote lifecycle transition requested by the caller.
type Action string

const (
	ActionSend    Action = "send"
	ActionView    Action = "view"
	ActionAccept  Action = "accept"
	ActionReject  Action = "reject"
	ActionConfirm Action = "confirm"
	ActionBook    Action = "book"
	ActionExpire  Action = "expire"
)

var ErrUnknownAction = errors.New("quotes: unknown lifecycle action")

type TransitionQuoteCommand struct {
	QuoteID string
	Action  Action
	Reason  string
}

// TransitionQuoteHandler applies one state-machine step to a quote and
// publishes the resulting lifecycle event through the outbox.
type TransitionQuoteHandler struct {
	UoWFactory uow.Factory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *TransitionQuoteHandler) Handle(ctx context.Context, cmd TransitionQuoteCommand) (*domainquote.Quote, error) {
	unit, ctx, cleanup, err := support.BeginUnit(ctx, h.UoWFactory, uow.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer cleanup()

	q, err := unit.Quotes().ByID(ctx, domainquote.QuoteID(cmd.QuoteID))
	if err != nil {
		return nil, err
	}

	now := time.Now()
	switch cmd.Action {
	case ActionSend:
		err = q.Send(now)
	case ActionView:
		err = q.MarkViewed(now)
	case ActionAccept:
		err = q.Accept(now)
	case ActionReject:
		err = q.Reject(cmd.Reason, now)
	case ActionConfirm:
		err = q.Confirm(now)
	case ActionBook:
		err = q.Book(now)
	case ActionExpire:
		err = q.Expire(now)
	default:
		err = ErrUnknownAction
	}
	if err != nil {
		return nil, err
	}

	if err := unit.Quotes().Save(ctx, q); err != nil {
		return nil, err
	}
	pending := q.PendingEvents()
	q.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, pending); err != nil {
		return nil, err
	}
	if err := unit.Commit(ctx); err != nil {
		return nil, err
	}
	return q, nil
}

type DuplicateQuoteCommand struct {
	QuoteID string
}

// DuplicateQuoteHandler copies an existing quote into a fresh draft with a
// new number and validity window.
type DuplicateQuoteHandler struct {
	UoWFactory uow.Factory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *DuplicateQuoteHandler) Handle(ctx context.Context, cmd DuplicateQuoteCommand) (*domainquote.Quote, error) {
	unit, ctx, cleanup, err := support.BeginUnit(ctx, h.UoWFactory, uow.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer cleanup()

	q, err := unit.Quotes().ByID(ctx, domainquote.QuoteID(cmd.QuoteID))
	if err != nil {
		return nil, err
	}
	now := time.Now()
	dup := q.Duplicate(domainquote.QuoteID(uuid.NewString()), domainquote.NewNumber(now), now)
	if err := unit.Quotes().Save(ctx, dup); err != nil {
		return nil, err
	}
	pending := dup.PendingEvents()
	dup.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, pending); err != nil {
		return nil, err
	}
	if err := unit.Commit(ctx); err != nil {
		return nil, err
	}
	return dup, nil
}

type DeleteQuoteCommand struct {
	QuoteID string
}

// DeleteQuoteHandler removes a draft. Sent quotes are never hard-deleted;
// their lifecycle ends through rejection or expiry instead.
type DeleteQuoteHandler struct {
	UoWFactory uow.Factory
}

func (h *DeleteQuoteHandler) Handle(ctx context.Context, cmd DeleteQuoteCommand) error {
	unit, ctx, cleanup, err := support.BeginUnit(ctx, h.UoWFactory, uow.TxOptions{})
	if err != nil {
		return err
	}
	defer cleanup()

	q, err := unit.Quotes().ByID(ctx, domainquote.QuoteID(cmd.QuoteID))
	if err != nil {
		return err
	}
	if q.Status != domainquote.StatusDraft {
		return domainquote.ErrNotDraft
	}
	if err := unit.Quotes().Delete(ctx, q.ID); err != nil {
		return err
	}
	return unit.Commit(ctx)
}
