package quote

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"tripquote/internal/domain/agent"
	"tripquote/internal/domain/catalog"
	"tripquote/internal/domain/pricing"
	"tripquote/internal/domain/shared/daterange"
	"tripquote/internal/domain/shared/events"
	"tripquote/internal/domain/shared/money"
)

var (
	ErrQuoteNotFound    = errors.New("quote: not found")
	ErrInvalidState     = errors.New("quote: invalid status transition")
	ErrNotDraft         = errors.New("quote: only draft quotes can be deleted")
	ErrNotExpired       = errors.New("quote: validity deadline has not passed")
	ErrClientRequired   = errors.New("quote: client name and email required")
	ErrAgentRequired    = errors.New("quote: agent id required")
	ErrItemsRequired    = errors.New("quote: at least one line item required")
	ErrEditAfterClient  = errors.New("quote: items cannot change after client response")
)

type QuoteID string

type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusSent      Status = "SENT"
	StatusViewed    Status = "VIEWED"
	StatusAccepted  Status = "ACCEPTED"
	StatusConfirmed Status = "CONFIRMED"
	StatusBooked    Status = "BOOKED"
	StatusRejected  Status = "REJECTED"
	StatusExpired   Status = "EXPIRED"
)

// ValidityPeriod is how long a fresh quote stays actionable.
const ValidityPeriod = 30 * 24 * time.Hour

// Item is one line of a quote. Lines are replaced wholesale on edit, never
// patched in place.
type Item struct {
	ItemID     catalog.ItemID
	Kind       catalog.ItemKind
	Name       string
	Quantity   int
	Nights     int
	Pax        int
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal
	Range      *daterange.DateRange
}

// PaxBreakdown splits travellers the way hotels count them.
type PaxBreakdown struct {
	Adults          int
	ChildWithBed    int
	ChildWithoutBed int
}

func (p PaxBreakdown) Total() int {
	return p.Adults + p.ChildWithBed + p.ChildWithoutBed
}

// Quote is the aggregate root for a priced client proposal. Once sent it
// moves through the client-response lifecycle and is never hard-deleted.
type Quote struct {
	ID          QuoteID
	Number      string
	AgentID     agent.AgentID
	PackageID   catalog.PackageID
	ClientName  string
	ClientEmail string
	ClientPhone string
	Range       daterange.DateRange
	Pax         PaxBreakdown
	Markup      pricing.Markup
	Totals      pricing.QuoteTotals
	Currency    string
	Items       []Item
	Status      Status
	ValidUntil  time.Time
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Version     int64
	events.EventRecorder
}

type CreateParams struct {
	ID          QuoteID
	Number      string
	AgentID     agent.AgentID
	PackageID   catalog.PackageID
	ClientName  string
	ClientEmail string
	ClientPhone string
	Range       daterange.DateRange
	Pax         PaxBreakdown
	Markup      pricing.Markup
	Totals      pricing.QuoteTotals
	Currency    string
	Items       []Item
	Notes       string
	CreatedAt   time.Time
}

func New(params CreateParams) (*Quote, error) {
	if params.AgentID == "" {
		return nil, ErrAgentRequired
	}
	if params.ClientName == "" || params.ClientEmail == "" {
		return nil, ErrClientRequired
	}
	if params.PackageID == "" && len(params.Items) == 0 {
		return nil, ErrItemsRequired
	}
	if err := params.Range.Validate(); err != nil {
		return nil, err
	}
	currency := money.Zero(params.Currency).Currency
	now := params.CreatedAt.UTC()
	q := &Quote{
		ID:          params.ID,
		Number:      params.Number,
		AgentID:     params.AgentID,
		PackageID:   params.PackageID,
		ClientName:  params.ClientName,
		ClientEmail: params.ClientEmail,
		ClientPhone: params.ClientPhone,
		Range:       params.Range,
		Pax:         params.Pax,
		Markup:      params.Markup,
		Totals:      params.Totals,
		Currency:    currency,
		Items:       append([]Item(nil), params.Items...),
		Status:      StatusDraft,
		ValidUntil:  now.Add(ValidityPeriod),
		Notes:       params.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	q.Record(QuoteCreated{QuoteID: q.ID, Number: q.Number, AgentID: q.AgentID, Total: q.Totals.Total, Commission: q.Totals.Commission, At: now})
	return q, nil
}

// ReplaceItems swaps the full line-item set and totals in one step. The
// delete-then-recreate must be wrapped in a unit of work by the caller so a
// failed recreation never leaves a quote with partial items. Allowed only
// before the client has responded.
func (q *Quote) ReplaceItems(items []Item, totals pricing.QuoteTotals, pax PaxBreakdown, now time.Time) error {
	switch q.Status {
	case StatusDraft, StatusSent, StatusViewed:
	default:
		return ErrEditAfterClient
	}
	if len(items) == 0 {
		return ErrItemsRequired
	}
	q.Items = append([]Item(nil), items...)
	q.Totals = totals
	q.Pax = pax
	q.UpdatedAt = now.UTC()
	q.Record(QuoteRepriced{QuoteID: q.ID, Total: totals.Total, Commission: totals.Commission, At: q.UpdatedAt})
	return nil
}

func (q *Quote) Send(now time.Time) error {
	if q.Status != StatusDraft {
		return ErrInvalidState
	}
	q.Status = StatusSent
	q.UpdatedAt = now.UTC()
	q.Record(QuoteSent{QuoteID: q.ID, ClientEmail: q.ClientEmail, At: q.UpdatedAt})
	return nil
}

func (q *Quote) MarkViewed(now time.Time) error {
	if q.Status != StatusSent {
		return ErrInvalidState
	}
	q.Status = StatusViewed
	q.UpdatedAt = now.UTC()
	q.Record(QuoteViewed{QuoteID: q.ID, At: q.UpdatedAt})
	return nil
}

func (q *Quote) Accept(now time.Time) error {
	if q.Status != StatusSent && q.Status != StatusViewed {
		return ErrInvalidState
	}
	q.Status = StatusAccepted
	q.UpdatedAt = now.UTC()
	q.Record(QuoteAccepted{QuoteID: q.ID, At: q.UpdatedAt})
	return nil
}

func (q *Quote) Reject(reason string, now time.Time) error {
	switch q.Status {
	case StatusSent, StatusViewed, StatusAccepted:
	default:
		return ErrInvalidState
	}
	q.Status = StatusRejected
	q.UpdatedAt = now.UTC()
	q.Record(QuoteRejected{QuoteID: q.ID, Reason: reason, At: q.UpdatedAt})
	return nil
}

func (q *Quote) Confirm(now time.Time) error {
	if q.Status != StatusAccepted {
		return ErrInvalidState
	}
	q.Status = StatusConfirmed
	q.UpdatedAt = now.UTC()
	q.Record(QuoteConfirmed{QuoteID: q.ID, Total: q.Totals.Total, At: q.UpdatedAt})
	return nil
}

func (q *Quote) Book(now time.Time) error {
	if q.Status != StatusConfirmed {
		return ErrInvalidState
	}
	q.Status = StatusBooked
	q.UpdatedAt = now.UTC()
	q.Record(QuoteBooked{QuoteID: q.ID, AgentID: q.AgentID, Pax: q.Pax.Total(), Total: q.Totals.Total, Commission: q.Totals.Commission, At: q.UpdatedAt})
	return nil
}

// Expire moves a quote whose validity deadline has passed to EXPIRED.
func (q *Quote) Expire(now time.Time) error {
	switch q.Status {
	case StatusDraft, StatusSent, StatusViewed:
	default:
		return ErrInvalidState
	}
	if now.UTC().Before(q.ValidUntil) {
		return ErrNotExpired
	}
	q.Status = StatusExpired
	q.UpdatedAt = now.UTC()
	q.Record(QuoteExpired{QuoteID: q.ID, At: q.UpdatedAt})
	return nil
}

// Duplicate copies the quote into a fresh DRAFT with a new identity and a
// renewed validity window.
func (q *Quote) Duplicate(id QuoteID, number string, now time.Time) *Quote {
	now = now.UTC()
	copyQ := &Quote{
		ID:          id,
		Number:      number,
		AgentID:     q.AgentID,
		PackageID:   q.PackageID,
		ClientName:  "Copy of " + q.ClientName,
		ClientEmail: q.ClientEmail,
		ClientPhone: q.ClientPhone,
		Range:       q.Range,
		Pax:         q.Pax,
		Markup:      q.Markup,
		Totals:      q.Totals,
		Currency:    q.Currency,
		Items:       append([]Item(nil), q.Items...),
		Status:      StatusDraft,
		ValidUntil:  now.Add(ValidityPeriod),
		Notes:       q.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	copyQ.Record(QuoteCreated{QuoteID: copyQ.ID, Number: copyQ.Number, AgentID: copyQ.AgentID, Total: copyQ.Totals.Total, Commission: copyQ.Totals.Commission, At: now})
	return copyQ
}

// ListFilter narrows quote listings.
type ListFilter struct {
	AgentID agent.AgentID
	Status  Status
	Search  string
	Offset  int
	Limit   int
}

type Repository interface {
	ByID(ctx context.Context, id QuoteID) (*Quote, error)
	Save(ctx context.Context, q *Quote) error
	Delete(ctx context.Context, id QuoteID) error
	List(ctx context.Context, filter ListFilter) ([]*Quote, int, error)
}
