package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainagent "tripquote/internal/domain/agent"
	domaincatalog "tripquote/internal/domain/catalog"
	domainpricing "tripquote/internal/domain/pricing"
	domainquote "tripquote/internal/domain/quote"
	domainrange "tripquote/internal/domain/shared/daterange"
)

var ErrConcurrentUpdate = errors.New("mongo: concurrent update detected")

type QuoteRepository struct {
	col *mongo.Collection
}

func NewQuoteRepository(db *mongo.Database) *QuoteRepository {
	return &QuoteRepository{col: db.Collection("agg_quote")}
}

func (r *QuoteRepository) ByID(ctx context.Context, id domainquote.QuoteID) (*domainquote.Quote, error) {
	var doc quoteDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainquote.ErrQuoteNotFound
		}
		return nil, err
	}
	return doc.toAggregate()
}

// Save persists the whole aggregate, embedded line items included, with an
// optimistic version check. Replacing the items array and bumping the
// version is a single UpdateOne, so a quote can never be observed with a
// partial item set.
func (r *QuoteRepository) Save(ctx context.Context, q *domainquote.Quote) error {
	doc := newQuoteDocument(q)
	filter := bson.M{"_id": doc.ID, "version": q.Version}
	doc.Version = q.Version + 1
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)
	res, err := r.col.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	q.Version = doc.Version
	return nil
}

func (r *QuoteRepository) Delete(ctx context.Context, id domainquote.QuoteID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainquote.ErrQuoteNotFound
	}
	return nil
}

func (r *QuoteRepository) List(ctx context.Context, filter domainquote.ListFilter) ([]*domainquote.Quote, int, error) {
	query := bson.M{}
	if filter.AgentID != "" {
		query["agent_id"] = string(filter.AgentID)
	}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}
	if filter.Search != "" {
		pattern := bson.M{"$regex": filter.Search, "$options": "i"}
		query["$or"] = bson.A{
			bson.M{"number": pattern},
			bson.M{"client_name": pattern},
			bson.M{"client_email": pattern},
		}
	}
	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(filter.Offset))
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}
	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var out []*domainquote.Quote
	for cur.Next(ctx) {
		var doc quoteDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, err
		}
		q, err := doc.toAggregate()
		if err != nil {
			return nil, 0, err
		}
		out = append(out, q)
	}
	if err := cur.Err(); err != nil {
		return nil, 0, err
	}
	return out, int(total), nil
}

type quoteDocument struct {
	ID          string              `bson:"_id"`
	Number      string              `bson:"number"`
	AgentID     string              `bson:"agent_id"`
	PackageID   string              `bson:"package_id,omitempty"`
	ClientName  string              `bson:"client_name"`
	ClientEmail string              `bson:"client_email"`
	ClientPhone string              `bson:"client_phone,omitempty"`
	Range       rangeDocument       `bson:"range"`
	Pax         paxDocument         `bson:"pax"`
	Markup      markupDocument      `bson:"markup"`
	Totals      totalsDocument      `bson:"totals"`
	Currency    string              `bson:"currency"`
	Items       []quoteItemDocument `bson:"items"`
	Status      string              `bson:"status"`
	ValidUntil  int64               `bson:"valid_until"`
	Notes       string              `bson:"notes,omitempty"`
	CreatedAt   int64               `bson:"created_at"`
	UpdatedAt   int64               `bson:"updated_at"`
	Version     int64               `bson:"version"`
}

type rangeDocument struct {
	Start int64 `bson:"start"`
	End   int64 `bson:"end"`
}

type paxDocument struct {
	Adults          int `bson:"adults"`
	ChildWithBed    int `bson:"child_with_bed"`
	ChildWithoutBed int `bson:"child_without_bed"`
}

type markupDocument struct {
	Type  string `bson:"type,omitempty"`
	Value string `bson:"value"`
}

type totalsDocument struct {
	Subtotal      string `bson:"subtotal"`
	AgentDiscount string `bson:"agent_discount"`
	Markup        string `bson:"markup"`
	Total         string `bson:"total"`
	Commission    string `bson:"commission"`
}

type quoteItemDocument struct {
	ItemID     string         `bson:"item_id"`
	Kind       string         `bson:"kind"`
	Name       string         `bson:"name"`
	Quantity   int            `bson:"quantity"`
	Nights     int            `bson:"nights"`
	Pax        int            `bson:"pax"`
	UnitPrice  string         `bson:"unit_price"`
	TotalPrice string         `bson:"total_price"`
	Range      *rangeDocument `bson:"range,omitempty"`
}

func newQuoteDocument(q *domainquote.Quote) quoteDocument {
	items := make([]quoteItemDocument, 0, len(q.Items))
	for _, it := range q.Items {
		doc := quoteItemDocument{
			ItemID:     string(it.ItemID),
			Kind:       string(it.Kind),
			Name:       it.Name,
			Quantity:   it.Quantity,
			Nights:     it.Nights,
			Pax:        it.Pax,
			UnitPrice:  it.UnitPrice.String(),
			TotalPrice: it.TotalPrice.String(),
		}
		if it.Range != nil {
			doc.Range = &rangeDocument{Start: it.Range.Start.UnixMilli(), End: it.Range.End.UnixMilli()}
		}
		items = append(items, doc)
	}
	return quoteDocument{
		ID:          string(q.ID),
		Number:      q.Number,
		AgentID:     string(q.AgentID),
		PackageID:   string(q.PackageID),
		ClientName:  q.ClientName,
		ClientEmail: q.ClientEmail,
		ClientPhone: q.ClientPhone,
		Range:       rangeDocument{Start: q.Range.Start.UnixMilli(), End: q.Range.End.UnixMilli()},
		Pax:         paxDocument{Adults: q.Pax.Adults, ChildWithBed: q.Pax.ChildWithBed, ChildWithoutBed: q.Pax.ChildWithoutBed},
		Markup:      markupDocument{Type: string(q.Markup.Type), Value: q.Markup.Value.String()},
		Totals: totalsDocument{
			Subtotal:      q.Totals.Subtotal.String(),
			AgentDiscount: q.Totals.AgentDiscount.String(),
			Markup:        q.Totals.Markup.String(),
			Total:         q.Totals.Total.String(),
			Commission:    q.Totals.Commission.String(),
		},
		Currency:   q.Currency,
		Items:      items,
		Status:     string(q.Status),
		ValidUntil: q.ValidUntil.UnixMilli(),
		Notes:      q.Notes,
		CreatedAt:  q.CreatedAt.UnixMilli(),
		UpdatedAt:  q.UpdatedAt.UnixMilli(),
		Version:    q.Version,
	}
}

func (d quoteDocument) toAggregate() (*domainquote.Quote, error) {
	items := make([]domainquote.Item, 0, len(d.Items))
	for _, it := range d.Items {
		unit, err := decimal.NewFromString(it.UnitPrice)
		if err != nil {
			return nil, err
		}
		total, err := decimal.NewFromString(it.TotalPrice)
		if err != nil {
			return nil, err
		}
		item := domainquote.Item{
			ItemID:     domaincatalog.ItemID(it.ItemID),
			Kind:       domaincatalog.ItemKind(it.Kind),
			Name:       it.Name,
			Quantity:   it.Quantity,
			Nights:     it.Nights,
			Pax:        it.Pax,
			UnitPrice:  unit,
			TotalPrice: total,
		}
		if it.Range != nil {
			item.Range = &domainrange.DateRange{Start: timestampToTime(it.Range.Start), End: timestampToTime(it.Range.End)}
		}
		items = append(items, item)
	}
	markupValue, err := decimal.NewFromString(d.Markup.Value)
	if err != nil {
		return nil, err
	}
	totals, err := d.Totals.toTotals()
	if err != nil {
		return nil, err
	}
	return &domainquote.Quote{
		ID:          domainquote.QuoteID(d.ID),
		Number:      d.Number,
		AgentID:     domainagent.AgentID(d.AgentID),
		PackageID:   domaincatalog.PackageID(d.PackageID),
		ClientName:  d.ClientName,
		ClientEmail: d.ClientEmail,
		ClientPhone: d.ClientPhone,
		Range:       domainrange.DateRange{Start: timestampToTime(d.Range.Start), End: timestampToTime(d.Range.End)},
		Pax:         domainquote.PaxBreakdown{Adults: d.Pax.Adults, ChildWithBed: d.Pax.ChildWithBed, ChildWithoutBed: d.Pax.ChildWithoutBed},
		Markup:      domainpricing.Markup{Type: domainpricing.MarkupType(d.Markup.Type), Value: markupValue},
		Totals:      totals,
		Currency:    d.Currency,
		Items:       items,
		Status:      domainquote.Status(d.Status),
		ValidUntil:  timestampToTime(d.ValidUntil),
		Notes:       d.Notes,
		CreatedAt:   timestampToTime(d.CreatedAt),
		UpdatedAt:   timestampToTime(d.UpdatedAt),
		Version:     d.Version,
	}, nil
}

func (d totalsDocument) toTotals() (domainpricing.QuoteTotals, error) {
	var out domainpricing.QuoteTotals
	var err error
	if out.Subtotal, err = decimal.NewFromString(d.Subtotal); err != nil {
		return out, err
	}
	if out.AgentDiscount, err = decimal.NewFromString(d.AgentDiscount); err != nil {
		return out, err
	}
	if out.Markup, err = decimal.NewFromString(d.Markup); err != nil {
		return out, err
	}
	if out.Total, err = decimal.NewFromString(d.Total); err != nil {
		return out, err
	}
	if out.Commission, err = decimal.NewFromString(d.Commission); err != nil {
		return out, err
	}
	return out, nil
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
