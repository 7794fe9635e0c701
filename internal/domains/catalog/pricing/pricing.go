// Package pricing computes the duration and price of a booking from its offering
// and the service items chosen for it. Evaluate is pure: it never touches a store.
package pricing

import (
	"fmt"
	"slotwise/internal/domains/catalog/model"
	"slotwise/shared/failure"
)

// Selection is one item chosen by the customer. ItemRef is the item ID or its
// identifier; Value is the raw answer for the item's field.
type Selection struct {
	ItemRef  string
	Value    string
	Quantity int
}

// Line is the evaluated contribution of one selection.
type Line struct {
	Item        model.ServiceItem
	Value       model.ItemValue
	Quantity    int
	DurationMin int
	PriceCents  int64
}

type Quote struct {
	DurationMin int
	PriceCents  int64
	Lines       []Line
}

// ExtraDurationMin is the duration added by items on top of the offering.
func (q Quote) ExtraDurationMin(offering model.Offering) int {
	return q.DurationMin - offering.BaseDurationMin
}

// Evaluate prices selections against the tenant's active items. items must be
// the active catalog of the offering's tenant.
func Evaluate(offering model.Offering, items []model.ServiceItem, selections []Selection) (Quote, error) {
	quote := Quote{
		DurationMin: offering.BaseDurationMin,
		PriceCents:  offering.BasePriceCents,
		Lines:       make([]Line, 0, len(selections)),
	}

	chosen := make(map[string]bool, len(selections))

	for _, selection := range selections {
		item, ok := resolve(items, selection.ItemRef)
		if !ok {
			return Quote{}, failure.New(failure.KindUnknownItem, fmt.Sprintf("unknown service item %q", selection.ItemRef)) //nolint:wrapcheck
		}

		if !item.AppliesTo(offering.ID) {
			return Quote{}, failure.New(failure.KindUnknownItem, fmt.Sprintf("service item %q is not offered with %s", item.Identifier, offering.Name)) //nolint:wrapcheck
		}

		if chosen[item.ID] {
			return Quote{}, failure.New(failure.KindInvalidSelection, fmt.Sprintf("service item %q selected more than once", item.Identifier)) //nolint:wrapcheck
		}

		chosen[item.ID] = true

		line, err := evaluateLine(item, selection)
		if err != nil {
			return Quote{}, err
		}

		quote.DurationMin += line.DurationMin
		quote.PriceCents += line.PriceCents
		quote.Lines = append(quote.Lines, line)
	}

	for _, item := range items {
		if item.IsOptional || !item.AppliesTo(offering.ID) || chosen[item.ID] {
			continue
		}

		return Quote{}, failure.New(failure.KindInvalidSelection, fmt.Sprintf("service item %q is required", item.Identifier)) //nolint:wrapcheck
	}

	return quote, nil
}

func resolve(items []model.ServiceItem, ref string) (model.ServiceItem, bool) {
	for _, item := range items {
		if item.ID == ref {
			return item, true
		}
	}

	for _, item := range items {
		if item.Matches(ref) {
			return item, true
		}
	}

	return model.ServiceItem{}, false
}

func evaluateLine(item model.ServiceItem, selection Selection) (Line, error) {
	value, err := model.ParseValue(item.FieldType, selection.Value)
	if err != nil {
		return Line{}, failure.New(failure.KindInvalidSelection, fmt.Sprintf("service item %q: %v", item.Identifier, err)) //nolint:wrapcheck
	}

	quantity := selection.Quantity

	switch v := value.(type) {
	case model.NumberValue:
		quantity = int(v)
	default:
		if quantity <= 0 {
			quantity = 1
		}

		if item.MaxQuantity > 0 && quantity > item.MaxQuantity {
			return Line{}, failure.New(failure.KindInvalidSelection, fmt.Sprintf("service item %q allows at most %d", item.Identifier, item.MaxQuantity)) //nolint:wrapcheck
		}
	}

	return Line{
		Item:        item,
		Value:       value,
		Quantity:    quantity,
		DurationMin: item.DurationMinutes * quantity,
		PriceCents:  unitPrice(item, value) * int64(quantity),
	}, nil
}

// unitPrice resolves the per-unit price of an answer. Boolean and select answers
// use option pricing when the item has it; a select option missing from the
// table falls back to the item's own price.
func unitPrice(item model.ServiceItem, value model.ItemValue) int64 {
	switch v := value.(type) {
	case model.BooleanValue:
		if len(item.OptionPricing) > 0 {
			option, ok := item.OptionPricing.Lookup(v.String())
			if !ok {
				return 0
			}

			return option.Cents()
		}
	case model.SelectValue:
		if option, ok := item.OptionPricing.Lookup(string(v)); ok {
			return option.Cents()
		}
	}

	return model.OptionPrice{PriceType: item.PriceType, PriceCents: item.PriceCents}.Cents()
}
