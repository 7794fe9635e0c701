package pricing_test

import (
	"slotwise/internal/domains/catalog/model"
	"slotwise/internal/domains/catalog/pricing"
	"slotwise/shared/failure"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func offering() model.Offering {
	return model.Offering{ID: "off-1", TenantID: "t1", Name: "Std Cleaning", BaseDurationMin: 60, BasePriceCents: 10000, Active: true}
}

func extraBedroom() model.ServiceItem {
	return model.ServiceItem{
		ID:              "item-bedroom",
		TenantID:        "t1",
		Name:            "Extra Bedroom",
		Identifier:      "extra_bedroom",
		FieldType:       model.FieldTypeNumber,
		PriceType:       model.PriceTypePaid,
		PriceCents:      1000,
		DurationMinutes: 15,
		MaxQuantity:     1,
		IsOptional:      true,
		Active:          true,
	}
}

func cleanerGrade() model.ServiceItem {
	return model.ServiceItem{
		ID:           "item-grade",
		TenantID:     "t1",
		Name:         "Cleaner Grade",
		Identifier:   "cleaner_grade",
		FieldType:    model.FieldTypeSelect,
		FieldOptions: []string{"best", "better"},
		PriceType:    model.PriceTypeFree,
		OptionPricing: model.OptionPricing{
			"best":   {PriceType: model.PriceTypePaid, PriceCents: 1000},
			"better": {PriceType: model.PriceTypePaid, PriceCents: 500},
		},
		MaxQuantity: 1,
		IsOptional:  true,
		Active:      true,
	}
}

func TestEvaluate_NumberItemDrivesDurationAndPrice(t *testing.T) {
	quote, err := pricing.Evaluate(offering(), []model.ServiceItem{extraBedroom()}, []pricing.Selection{
		{ItemRef: "extra_bedroom", Value: "3", Quantity: 1},
	})
	require.NoError(t, err)

	assert.Equal(t, 105, quote.DurationMin)
	assert.Equal(t, int64(13000), quote.PriceCents)
	require.Len(t, quote.Lines, 1)
	assert.Equal(t, 3, quote.Lines[0].Quantity)
	assert.Equal(t, int64(3000), quote.Lines[0].PriceCents)
	assert.Equal(t, model.NumberValue(3), quote.Lines[0].Value)
	assert.Equal(t, 45, quote.ExtraDurationMin(offering()))
}

func TestEvaluate_SelectOptionPricing(t *testing.T) {
	tests := []struct {
		value string
		want  int64
	}{
		{value: "best", want: 1000},
		{value: "Better", want: 500},
		{value: "unknown", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			quote, err := pricing.Evaluate(offering(), []model.ServiceItem{cleanerGrade()}, []pricing.Selection{
				{ItemRef: "cleaner_grade", Value: tt.value},
			})
			require.NoError(t, err)

			require.Len(t, quote.Lines, 1)
			assert.Equal(t, tt.want, quote.Lines[0].PriceCents)
			assert.Equal(t, 10000+tt.want, quote.PriceCents)
		})
	}
}

func TestEvaluate_BooleanOptionPricing(t *testing.T) {
	fridge := model.ServiceItem{
		ID:         "item-fridge",
		TenantID:   "t1",
		Identifier: "inside_fridge",
		FieldType:  model.FieldTypeBoolean,
		OptionPricing: model.OptionPricing{
			"yes": {PriceType: model.PriceTypePaid, PriceCents: 2500},
			"no":  {PriceType: model.PriceTypeFree},
		},
		DurationMinutes: 20,
		MaxQuantity:     1,
		IsOptional:      true,
		Active:          true,
	}

	yes, err := pricing.Evaluate(offering(), []model.ServiceItem{fridge}, []pricing.Selection{{ItemRef: "item-fridge", Value: "Yes"}})
	require.NoError(t, err)
	assert.Equal(t, int64(12500), yes.PriceCents)

	no, err := pricing.Evaluate(offering(), []model.ServiceItem{fridge}, []pricing.Selection{{ItemRef: "item-fridge", Value: "no"}})
	require.NoError(t, err)
	assert.Equal(t, int64(10000), no.PriceCents)
}

func TestEvaluate_ZeroNumberContributesNothing(t *testing.T) {
	quote, err := pricing.Evaluate(offering(), []model.ServiceItem{extraBedroom()}, []pricing.Selection{
		{ItemRef: "extra_bedroom", Value: "0"},
	})
	require.NoError(t, err)

	assert.Equal(t, 60, quote.DurationMin)
	assert.Equal(t, int64(10000), quote.PriceCents)
}

func TestEvaluate_Failures(t *testing.T) {
	required := extraBedroom()
	required.IsOptional = false

	otherOffering := cleanerGrade()
	other := "off-2"
	otherOffering.OfferingID = &other

	tests := []struct {
		name       string
		items      []model.ServiceItem
		selections []pricing.Selection
		kind       failure.Kind
	}{
		{
			name:       "unknown item",
			items:      []model.ServiceItem{extraBedroom()},
			selections: []pricing.Selection{{ItemRef: "nope"}},
			kind:       failure.KindUnknownItem,
		},
		{
			name:       "item bound to another offering",
			items:      []model.ServiceItem{otherOffering},
			selections: []pricing.Selection{{ItemRef: "cleaner_grade", Value: "best"}},
			kind:       failure.KindUnknownItem,
		},
		{
			name:       "quantity above max",
			items:      []model.ServiceItem{cleanerGrade()},
			selections: []pricing.Selection{{ItemRef: "cleaner_grade", Value: "best", Quantity: 2}},
			kind:       failure.KindInvalidSelection,
		},
		{
			name:  "required item missing",
			items: []model.ServiceItem{required},
			kind:  failure.KindInvalidSelection,
		},
		{
			name:       "bad number",
			items:      []model.ServiceItem{extraBedroom()},
			selections: []pricing.Selection{{ItemRef: "extra_bedroom", Value: "three"}},
			kind:       failure.KindInvalidSelection,
		},
		{
			name:       "number is NaN",
			items:      []model.ServiceItem{extraBedroom()},
			selections: []pricing.Selection{{ItemRef: "extra_bedroom", Value: "NaN"}},
			kind:       failure.KindInvalidSelection,
		},
		{
			name:       "number is infinite",
			items:      []model.ServiceItem{extraBedroom()},
			selections: []pricing.Selection{{ItemRef: "extra_bedroom", Value: "Inf"}},
			kind:       failure.KindInvalidSelection,
		},
		{
			name:       "number beyond int range",
			items:      []model.ServiceItem{extraBedroom()},
			selections: []pricing.Selection{{ItemRef: "extra_bedroom", Value: "1e19"}},
			kind:       failure.KindInvalidSelection,
		},
		{
			name:       "number above the ceiling",
			items:      []model.ServiceItem{extraBedroom()},
			selections: []pricing.Selection{{ItemRef: "extra_bedroom", Value: "20496387"}},
			kind:       failure.KindInvalidSelection,
		},
		{
			name:  "selected twice",
			items: []model.ServiceItem{cleanerGrade()},
			selections: []pricing.Selection{
				{ItemRef: "cleaner_grade", Value: "best"},
				{ItemRef: "item-grade", Value: "better"},
			},
			kind: failure.KindInvalidSelection,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := pricing.Evaluate(offering(), tt.items, tt.selections)
			require.Error(t, err)
			assert.Equal(t, tt.kind, failure.GetKind(err))
		})
	}
}

func TestEvaluate_NumberCeiling(t *testing.T) {
	quote, err := pricing.Evaluate(offering(), []model.ServiceItem{extraBedroom()}, []pricing.Selection{
		{ItemRef: "extra_bedroom", Value: strconv.Itoa(model.MaxNumberValue)},
	})
	require.NoError(t, err)

	assert.Equal(t, 60+15*model.MaxNumberValue, quote.DurationMin)
	assert.Equal(t, model.MaxNumberValue, quote.Lines[0].Quantity)
}

func TestEvaluate_DurationRoundTrip(t *testing.T) {
	items := []model.ServiceItem{extraBedroom(), cleanerGrade()}
	selections := []pricing.Selection{
		{ItemRef: "extra_bedroom", Value: "4"},
		{ItemRef: "cleaner_grade", Value: "best"},
	}

	quote, err := pricing.Evaluate(offering(), items, selections)
	require.NoError(t, err)

	want := offering().BaseDurationMin
	for _, line := range quote.Lines {
		want += line.Item.DurationMinutes * line.Quantity
	}

	assert.Equal(t, want, quote.DurationMin)
}
