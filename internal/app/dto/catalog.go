package dto

import (
	domaincatalog "tripquote/internal/domain/catalog"
	"tripquote/internal/domain/shared/money"
)

type CatalogItemDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	BasePrice string    `json:"base_price"`
	Rates     []RateDTO `json:"rates,omitempty"`
}

func NewCatalogItemDTO(item *domaincatalog.SellableItem) CatalogItemDTO {
	dto := CatalogItemDTO{
		ID:        string(item.ID),
		Name:      item.Name,
		Kind:      string(item.Kind),
		BasePrice: amountString(item.BasePrice, money.DefaultCurrency),
	}
	for _, r := range item.Rates {
		if !r.Active {
			continue
		}
		dto.Rates = append(dto.Rates, NewRateDTO(r))
	}
	return dto
}

type CatalogItemCollection struct {
	Items []CatalogItemDTO `json:"items"`
}

func NewCatalogItemCollection(items []*domaincatalog.SellableItem) CatalogItemCollection {
	out := CatalogItemCollection{Items: make([]CatalogItemDTO, 0, len(items))}
	for _, item := range items {
		out.Items = append(out.Items, NewCatalogItemDTO(item))
	}
	return out
}
