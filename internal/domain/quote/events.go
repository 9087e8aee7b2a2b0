package quote

import (
	"time"

	"github.com/shopspring/decimal"

	"tripquote/internal/domain/agent"
)

type QuoteCreated struct {
	QuoteID    QuoteID
	Number     string
	AgentID    agent.AgentID
	Total      decimal.Decimal
	Commission decimal.Decimal
	At         time.Time
}

func (e QuoteCreated) EventName() string     { return "quote.created" }
func (e QuoteCreated) AggregateID() string   { return string(e.QuoteID) }
func (e QuoteCreated) OccurredAt() time.Time { return e.At }

type QuoteRepriced struct {
	QuoteID    QuoteID
	Total      decimal.Decimal
	Commission decimal.Decimal
	At         time.Time
}

func (e QuoteRepriced) EventName() string     { return "quote.repriced" }
func (e QuoteRepriced) AggregateID() string   { return string(e.QuoteID) }
func (e QuoteRepriced) OccurredAt() time.Time { return e.At }

type QuoteSent struct {
	QuoteID     QuoteID
	ClientEmail string
	At          time.Time
}

func (e QuoteSent) EventName() string     { return "quote.sent" }
func (e QuoteSent) AggregateID() string   { return string(e.QuoteID) }
func (e QuoteSent) OccurredAt() time.Time { return e.At }

type QuoteViewed struct {
	QuoteID QuoteID
	At      time.Time
}

func (e QuoteViewed) EventName() string     { return "quote.viewed" }
func (e QuoteViewed) AggregateID() string   { return string(e.QuoteID) }
func (e QuoteViewed) OccurredAt() time.Time { return e.At }

type QuoteAccepted struct {
	QuoteID QuoteID
	At      time.Time
}

func (e QuoteAccepted) EventName() string     { return "quote.accepted" }
func (e QuoteAccepted) AggregateID() string   { return string(e.QuoteID) }
func (e QuoteAccepted) OccurredAt() time.Time { return e.At }

type QuoteRejected struct {
	QuoteID QuoteID
	Reason  string
	At      time.Time
}

func (e QuoteRejected) EventName() string     { return "quote.rejected" }
func (e QuoteRejected) AggregateID() string   { return string(e.QuoteID) }
func (e QuoteRejected) OccurredAt() time.Time { return e.At }

type QuoteConfirmed struct {
	QuoteID QuoteID
	Total   decimal.Decimal
	At      time.Time
}

func (e QuoteConfirmed) EventName() string     { return "quote.confirmed" }
func (e QuoteConfirmed) AggregateID() string   { return string(e.QuoteID) }
func (e QuoteConfirmed) OccurredAt() time.Time { return e.At }

type QuoteBooked struct {
	QuoteID    QuoteID
	AgentID    agent.AgentID
	Pax        int
	Total      decimal.Decimal
	Commission decimal.Decimal
	At         time.Time
}

func (e QuoteBooked) EventName() string     { return "quote.booked" }
func (e QuoteBooked) AggregateID() string   { return string(e.QuoteID) }
func (e QuoteBooked) OccurredAt() time.Time { return e.At }

type QuoteExpired struct {
	QuoteID QuoteID
	At      time.Time
}

func (e QuoteExpired) EventName() string     { return "quote.expired" }
func (e QuoteExpired) AggregateID() string   { return string(e.QuoteID) }
func (e QuoteExpired) OccurredAt() time.Time { return e.At }
