package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	domainquote "tripquote/internal/domain/quote"
)

// QuoteRepository stores quote aggregates in memory. Save replaces the
// whole aggregate including its line items, matching the wholesale
// delete-then-recreate contract of the edit path.
type QuoteRepository struct {
	mu     sync.RWMutex
	quotes map[domainquote.QuoteID]*domainquote.Quote
}

func NewQuoteRepository() *QuoteRepository {
	return &QuoteRepository{quotes: make(map[domainquote.QuoteID]*domainquote.Quote)}
}

func (r *QuoteRepository) ByID(ctx context.Context, id domainquote.QuoteID) (*domainquote.Quote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	q, ok := r.quotes[id]
	if !ok {
		return nil, domainquote.ErrQuoteNotFound
	}
	return copyQuote(q), nil
}

func (r *QuoteRepository) Save(ctx context.Context, q *domainquote.Quote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := copyQuote(q)
	stored.Version = q.Version + 1
	r.quotes[q.ID] = stored
	q.Version = stored.Version
	return nil
}

func (r *QuoteRepository) Delete(ctx context.Context, id domainquote.QuoteID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.quotes[id]; !ok {
		return domainquote.ErrQuoteNotFound
	}
	delete(r.quotes, id)
	return nil
}

func (r *QuoteRepository) List(ctx context.Context, filter domainquote.ListFilter) ([]*domainquote.Quote, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := make([]*domainquote.Quote, 0, len(r.quotes))
	for _, q := range r.quotes {
		if filter.AgentID != "" && q.AgentID != filter.AgentID {
			continue
		}
		if filter.Status != "" && q.Status != filter.Status {
			continue
		}
		if filter.Search != "" && !matchSearch(q, filter.Search) {
			continue
		}
		matches = append(matches, q)
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	total := len(matches)

	if filter.Offset > len(matches) {
		matches = nil
	} else {
		matches = matches[filter.Offset:]
	}
	if filter.Limit > 0 && len(matches) > filter.Limit {
		matches = matches[:filter.Limit]
	}
	out := make([]*domainquote.Quote, len(matches))
	for i, q := range matches {
		out[i] = copyQuote(q)
	}
	return out, total, nil
}

func matchSearch(q *domainquote.Quote, needle string) bool {
	needle = strings.ToLower(needle)
	return strings.Contains(strings.ToLower(q.ClientName), needle) ||
		strings.Contains(strings.ToLower(q.ClientEmail), needle) ||
		strings.Contains(strings.ToLower(q.Number), needle)
}

func copyQuote(q *domainquote.Quote) *domainquote.Quote {
	clone := *q
	clone.Items = append([]domainquote.Item(nil), q.Items...)
	clone.ClearEvents()
	return &clone
}
