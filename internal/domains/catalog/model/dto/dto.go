package dto

import (
	"slotwise/internal/domains/catalog/model"
	gDto "slotwise/shared/dto"
)

type OfferingResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	BaseDurationMin int    `json:"base_duration_min"`
	BasePrice       string `json:"base_price"`
}

func (r *OfferingResponse) FromModel(offering model.Offering) {
	r.ID = offering.ID
	r.Name = offering.Name
	r.BaseDurationMin = offering.BaseDurationMin
	r.BasePrice = gDto.Money(offering.BasePriceCents)
}

func FromOfferings(offerings []model.Offering) []OfferingResponse {
	res := make([]OfferingResponse, len(offerings))
	for i, offering := range offerings {
		res[i].FromModel(offering)
	}

	return res
}

type OptionPriceResponse struct {
	PriceType string `json:"price_type"`
	Price     string `json:"price"`
}

type ServiceItemResponse struct {
	ID              string                         `json:"id"`
	OfferingID      string                         `json:"offering_id,omitempty"`
	Name            string                         `json:"name"`
	Identifier      string                         `json:"identifier"`
	FieldType       string                         `json:"field_type"`
	FieldOptions    []string                       `json:"field_options,omitempty"`
	PriceType       string                         `json:"price_type"`
	Price           string                         `json:"price"`
	OptionPricing   map[string]OptionPriceResponse `json:"option_pricing,omitempty"`
	DurationMinutes int                            `json:"duration_minutes"`
	MaxQuantity     int                            `json:"max_quantity"`
	IsOptional      bool                           `json:"is_optional"`
}

func (r *ServiceItemResponse) FromModel(item model.ServiceItem) {
	r.ID = item.ID
	r.Name = item.Name
	r.Identifier = item.Identifier
	r.FieldType = string(item.FieldType)
	r.FieldOptions = item.FieldOptions
	r.PriceType = string(item.PriceType)
	r.Price = gDto.Money(item.PriceCents)
	r.DurationMinutes = item.DurationMinutes
	r.MaxQuantity = item.MaxQuantity
	r.IsOptional = item.IsOptional

	if item.OfferingID != nil {
		r.OfferingID = *item.OfferingID
	}

	if len(item.OptionPricing) > 0 {
		r.OptionPricing = make(map[string]OptionPriceResponse, len(item.OptionPricing))
		for option, price := range item.OptionPricing {
			r.OptionPricing[option] = OptionPriceResponse{PriceType: string(price.PriceType), Price: gDto.Money(price.PriceCents)}
		}
	}
}

func FromServiceItems(items []model.ServiceItem) []ServiceItemResponse {
	res := make([]ServiceItemResponse, len(items))
	for i, item := range items {
		res[i].FromModel(item)
	}

	return res
}
