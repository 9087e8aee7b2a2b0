package mongo

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domaincatalog "tripquote/internal/domain/catalog"
	"tripquote/internal/domain/season"
)

type CatalogRepository struct {
	items    *mongo.Collection
	packages *mongo.Collection
}

func NewCatalogRepository(db *mongo.Database) *CatalogRepository {
	return &CatalogRepository{
		items:    db.Collection("catalog_items"),
		packages: db.Collection("catalog_packages"),
	}
}

func (r *CatalogRepository) ItemByID(ctx context.Context, id domaincatalog.ItemID) (*domaincatalog.SellableItem, error) {
	var doc itemDocument
	if err := r.items.FindOne(ctx, bson.M{"_id": string(id), "active": true}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domaincatalog.ErrItemNotFound
		}
		return nil, err
	}
	return doc.toItem()
}

func (r *CatalogRepository) ListItems(ctx context.Context, kind domaincatalog.ItemKind) ([]*domaincatalog.SellableItem, error) {
	query := bson.M{"active": true}
	if kind != "" {
		query["kind"] = string(kind)
	}
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cur, err := r.items.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*domaincatalog.SellableItem
	for cur.Next(ctx) {
		var doc itemDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		item, err := doc.toItem()
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, cur.Err()
}

func (r *CatalogRepository) SaveItem(ctx context.Context, item *domaincatalog.SellableItem) error {
	doc := newItemDocument(item)
	opts := options.Replace().SetUpsert(true)
	_, err := r.items.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts)
	return err
}

func (r *CatalogRepository) PackageByID(ctx context.Context, id domaincatalog.PackageID) (*domaincatalog.TourPackage, error) {
	var doc packageDocument
	if err := r.packages.FindOne(ctx, bson.M{"_id": string(id), "active": true}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domaincatalog.ErrPackageNotFound
		}
		return nil, err
	}
	return doc.toPackage()
}

func (r *CatalogRepository) SavePackage(ctx context.Context, pkg *domaincatalog.TourPackage) error {
	doc := newPackageDocument(pkg)
	opts := options.Replace().SetUpsert(true)
	_, err := r.packages.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts)
	return err
}

type itemDocument struct {
	ID        string         `bson:"_id"`
	Name      string         `bson:"name"`
	Kind      string         `bson:"kind"`
	BasePrice string         `bson:"base_price"`
	Rates     []rateDocument `bson:"rates"`
	Active    bool           `bson:"active"`
}

type packageDocument struct {
	ID        string         `bson:"_id"`
	Name      string         `bson:"name"`
	Duration  int            `bson:"duration"`
	Nights    []int          `bson:"nights"`
	BasePrice string         `bson:"base_price"`
	Rates     []rateDocument `bson:"rates"`
	Active    bool           `bson:"active"`
}

type rateDocument struct {
	ID         string  `bson:"id"`
	SeasonName string  `bson:"season_name"`
	Season     string  `bson:"season"`
	StartDate  int64   `bson:"start_date"`
	EndDate    int64   `bson:"end_date"`
	Multiplier string  `bson:"multiplier"`
	FixedPrice *string `bson:"fixed_price,omitempty"`
	MinStay    int     `bson:"min_stay,omitempty"`
	Active     bool    `bson:"active"`
	CreatedAt  int64   `bson:"created_at"`
}

func newItemDocument(item *domaincatalog.SellableItem) itemDocument {
	return itemDocument{
		ID:        string(item.ID),
		Name:      item.Name,
		Kind:      string(item.Kind),
		BasePrice: item.BasePrice.String(),
		Rates:     newRateDocuments(item.Rates),
		Active:    item.Active,
	}
}

func newPackageDocument(pkg *domaincatalog.TourPackage) packageDocument {
	return packageDocument{
		ID:        string(pkg.ID),
		Name:      pkg.Name,
		Duration:  pkg.Duration,
		Nights:    pkg.Nights,
		BasePrice: pkg.BasePrice.String(),
		Rates:     newRateDocuments(pkg.Rates),
		Active:    pkg.Active,
	}
}

func newRateDocuments(rates []domaincatalog.SeasonalRate) []rateDocument {
	out := make([]rateDocument, 0, len(rates))
	for _, r := range rates {
		doc := rateDocument{
			ID:         r.ID,
			SeasonName: r.SeasonName,
			Season:     string(r.Season),
			StartDate:  r.StartDate.UnixMilli(),
			EndDate:    r.EndDate.UnixMilli(),
			Multiplier: r.Multiplier.String(),
			MinStay:    r.MinStay,
			Active:     r.Active,
			CreatedAt:  r.CreatedAt.UnixMilli(),
		}
		if r.FixedPrice != nil {
			s := r.FixedPrice.String()
			doc.FixedPrice = &s
		}
		out = append(out, doc)
	}
	return out
}

func (d itemDocument) toItem() (*domaincatalog.SellableItem, error) {
	base, err := decimal.NewFromString(d.BasePrice)
	if err != nil {
		return nil, err
	}
	rates, err := toRates(d.Rates)
	if err != nil {
		return nil, err
	}
	return &domaincatalog.SellableItem{
		ID:        domaincatalog.ItemID(d.ID),
		Name:      d.Name,
		Kind:      domaincatalog.ItemKind(d.Kind),
		BasePrice: base,
		Rates:     rates,
		Active:    d.Active,
	}, nil
}

func (d packageDocument) toPackage() (*domaincatalog.TourPackage, error) {
	base, err := decimal.NewFromString(d.BasePrice)
	if err != nil {
		return nil, err
	}
	rates, err := toRates(d.Rates)
	if err != nil {
		return nil, err
	}
	return &domaincatalog.TourPackage{
		ID:        domaincatalog.PackageID(d.ID),
		Name:      d.Name,
		Duration:  d.Duration,
		Nights:    d.Nights,
		BasePrice: base,
		Rates:     rates,
		Active:    d.Active,
	}, nil
}

func toRates(docs []rateDocument) ([]domaincatalog.SeasonalRate, error) {
	out := make([]domaincatalog.SeasonalRate, 0, len(docs))
	for _, d := range docs {
		mult, err := decimal.NewFromString(d.Multiplier)
		if err != nil {
			return nil, err
		}
		rate := domaincatalog.SeasonalRate{
			ID:         d.ID,
			SeasonName: d.SeasonName,
			Season:     season.Type(d.Season),
			StartDate:  timestampToTime(d.StartDate),
			EndDate:    timestampToTime(d.EndDate),
			Multiplier: mult,
			MinStay:    d.MinStay,
			Active:     d.Active,
			CreatedAt:  timestampToTime(d.CreatedAt),
		}
		if d.FixedPrice != nil {
			fixed, err := decimal.NewFromString(*d.FixedPrice)
			if err != nil {
				return nil, err
			}
			rate.FixedPrice = &fixed
		}
		out = append(out, rate)
	}
	return out, nil
}
