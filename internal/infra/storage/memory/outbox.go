package memory

import (
	"context"
	"sync"

	appoutbox "tripquote/internal/app/outbox"
)

// Outbox buffers event records in memory. Dev mode has no broker; Drain
// lets tests and the demo relay inspect what would have been published.
type Outbox struct {
	mu      sync.Mutex
	records []appoutbox.EventRecord
}

func NewOutbox() *Outbox {
	return &Outbox{}
}

func (o *Outbox) Add(ctx context.Context, record appoutbox.EventRecord) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.records = append(o.records, record)
	return nil
}

// Drain returns all buffered records and empties the buffer.
func (o *Outbox) Drain() []appoutbox.EventRecord {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := o.records
	o.records = nil
	return out
}

var _ appoutbox.Outbox = (*Outbox)(nil)
