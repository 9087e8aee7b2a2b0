package dto

import (
	"time"

	domainquote "tripquote/internal/domain/quote"
)

type QuoteItemDTO struct {
	ItemID     string `json:"item_id"`
	Kind       string `json:"kind"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	Nights     int    `json:"nights,omitempty"`
	Pax        int    `json:"pax,omitempty"`
	UnitPrice  string `json:"unit_price"`
	TotalPrice string `json:"total_price"`
}

type PaxDTO struct {
	Adults          int `json:"adults"`
	ChildWithBed    int `json:"child_with_bed"`
	ChildWithoutBed int `json:"child_without_bed"`
	Total           int `json:"total"`
}

type MarkupDTO struct {
	Type  string `json:"type,omitempty"`
	Value string `json:"value"`
}

type QuoteDTO struct {
	ID          string         `json:"id"`
	Number      string         `json:"number"`
	AgentID     string         `json:"agent_id"`
	PackageID   string         `json:"package_id,omitempty"`
	ClientName  string         `json:"client_name"`
	ClientEmail string         `json:"client_email"`
	ClientPhone string         `json:"client_phone,omitempty"`
	StartDate   string         `json:"start_date"`
	EndDate     string         `json:"end_date"`
	Pax         PaxDTO         `json:"pax"`
	Markup      MarkupDTO      `json:"markup"`
	Totals      TotalsDTO      `json:"totals"`
	Currency    string         `json:"currency"`
	Items       []QuoteItemDTO `json:"items"`
	Status      string         `json:"status"`
	ValidUntil  time.Time      `json:"valid_until"`
	Notes       string         `json:"notes,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func NewQuoteDTO(q *domainquote.Quote) QuoteDTO {
	items := make([]QuoteItemDTO, 0, len(q.Items))
	for _, it := range q.Items {
		items = append(items, QuoteItemDTO{
			ItemID:     string(it.ItemID),
			Kind:       string(it.Kind),
			Name:       it.Name,
			Quantity:   it.Quantity,
			Nights:     it.Nights,
			Pax:        it.Pax,
			UnitPrice:  amountString(it.UnitPrice, q.Currency),
			TotalPrice: amountString(it.TotalPrice, q.Currency),
		})
	}
	return QuoteDTO{
		ID:          string(q.ID),
		Number:      q.Number,
		AgentID:     string(q.AgentID),
		PackageID:   string(q.PackageID),
		ClientName:  q.ClientName,
		ClientEmail: q.ClientEmail,
		ClientPhone: q.ClientPhone,
		StartDate:   q.Range.Start.Format(dateLayout),
		EndDate:     q.Range.End.Format(dateLayout),
		Pax: PaxDTO{
			Adults:          q.Pax.Adults,
			ChildWithBed:    q.Pax.ChildWithBed,
			ChildWithoutBed: q.Pax.ChildWithoutBed,
			Total:           q.Pax.Total(),
		},
		Markup:     MarkupDTO{Type: string(q.Markup.Type), Value: q.Markup.Value.String()},
		Totals:     NewTotalsDTO(q.Totals, q.Currency),
		Currency:   q.Currency,
		Items:      items,
		Status:     string(q.Status),
		ValidUntil: q.ValidUntil,
		Notes:      q.Notes,
		CreatedAt:  q.CreatedAt,
		UpdatedAt:  q.UpdatedAt,
	}
}

type QuoteCollection struct {
	Items []QuoteDTO `json:"items"`
	Total int        `json:"total"`
	Page  int        `json:"page"`
	Size  int        `json:"size"`
}

func NewQuoteCollection(quotes []*domainquote.Quote, total, page, size int) QuoteCollection {
	out := QuoteCollection{Items: make([]QuoteDTO, 0, len(quotes)), Total: total, Page: page, Size: size}
	for _, q := range quotes {
		out.Items = append(out.Items, NewQuoteDTO(q))
	}
	return out
}
