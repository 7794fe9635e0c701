package helper_test

import (
	"context"
	"slotwise/helper"
	availabilityModel "slotwise/internal/domains/availability/model"
	catalogModel "slotwise/internal/domains/catalog/model"
	"slotwise/internal/store/memstore"
	"slotwise/shared/timezone"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var seededAt = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func TestParseFixture(t *testing.T) {
	fixture, err := helper.ParseFixture([]byte(`
businesses:
  - {id: t1, name: Shop, timezone: Europe/Lisbon}
offerings:
  - {id: o1, tenant: t1, name: Cut, duration_min: 45, price_cents: 3000}
  - {id: o2, tenant: t1, name: Old, duration_min: 30, active: false}
service_items:
  - id: i1
    tenant: t1
    offering: o1
    identifier: Wash
    field_type: select
    field_options: [short, long]
    price_type: free
    option_pricing:
      " Long ": {price_type: paid, price_cents: 500}
staff:
  - id: s1
    tenant: t1
    name: Rui
    offerings: [o1]
    rules:
      - {weekday: 1, start: "09:00", end: "12:30"}
      - {date: "2025-03-04", start: "00:00", end: "23:59", off_day: true}
`), seededAt)
	require.NoError(t, err)

	require.Len(t, fixture.Businesses, 1)
	assert.Equal(t, seededAt, fixture.Businesses[0].CreatedAt)

	require.Len(t, fixture.Offerings, 2)
	assert.True(t, fixture.Offerings[0].Active)
	assert.False(t, fixture.Offerings[1].Active)
	assert.Equal(t, int64(3000), fixture.Offerings[0].BasePriceCents)

	require.Len(t, fixture.ServiceItems, 1)
	item := fixture.ServiceItems[0]
	require.NotNil(t, item.OfferingID)
	assert.Equal(t, "o1", *item.OfferingID)
	assert.Equal(t, 1, item.MaxQuantity)
	price, ok := item.OptionPricing.Lookup("LONG")
	require.True(t, ok)
	assert.Equal(t, int64(500), price.Cents())

	require.Len(t, fixture.Assignments, 1)
	assert.Equal(t, "s1", fixture.Assignments[0].StaffID)
	assert.Equal(t, "o1", fixture.Assignments[0].OfferingID)

	require.Len(t, fixture.Rules, 2)

	weekly := fixture.Rules[0]
	assert.Equal(t, availabilityModel.KindWeekly, weekly.Kind)
	require.NotNil(t, weekly.Weekday)
	assert.Equal(t, 1, *weekly.Weekday)
	assert.Equal(t, 9*60, timezone.MinuteOfClock(weekly.StartTime))
	assert.Equal(t, 12*60+30, timezone.MinuteOfClock(weekly.EndTime))

	specific := fixture.Rules[1]
	assert.Equal(t, availabilityModel.KindSpecific, specific.Kind)
	assert.True(t, specific.OffDay)
	assert.Equal(t, "2025-03-04", specific.SpecificDate.Format(timezone.DateLayout))
}

func TestParseFixture_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "not yaml",
			yaml: "businesses: [",
			want: "error decoding fixture",
		},
		{
			name: "zero duration",
			yaml: "offerings: [{id: o1, tenant: t1, name: Cut}]",
			want: "duration_min must be positive",
		},
		{
			name: "rule without day",
			yaml: `staff: [{id: s1, tenant: t1, rules: [{start: "09:00", end: "10:00"}]}]`,
			want: "needs a weekday",
		},
		{
			name: "weekday out of range",
			yaml: `staff: [{id: s1, tenant: t1, rules: [{weekday: 7, start: "09:00", end: "10:00"}]}]`,
			want: "needs a weekday",
		},
		{
			name: "bad clock",
			yaml: `staff: [{id: s1, tenant: t1, rules: [{weekday: 1, start: "9am", end: "10:00"}]}]`,
			want: "invalid start",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := helper.ParseFixture([]byte(tt.yaml), seededAt)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSeed_SampleIntoMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()

	require.NoError(t, helper.Seed(ctx, s, "../seeds/sample.yaml", timezone.NewFixedClock(seededAt)))

	business, err := s.GetBusiness(ctx, "cleanco")
	require.NoError(t, err)
	assert.True(t, business.AllowFallbackStaff)

	offering, err := s.GetOffering(ctx, "cleanco", "standard")
	require.NoError(t, err)
	assert.Equal(t, "off-standard", offering.ID)

	rules, err := s.ListStaffRules(ctx, "cleanco", "staff-ana")
	require.NoError(t, err)
	assert.Len(t, rules, 6)

	items, err := s.ListServiceItems(ctx, "cleanco")
	require.NoError(t, err)

	var pets catalogModel.ServiceItem
	for _, item := range items {
		if item.Identifier == "pets" {
			pets = item
		}
	}

	price, ok := pets.OptionPricing.Lookup("Dog")
	require.True(t, ok)
	assert.Equal(t, int64(1500), price.Cents())
}

func TestSeed_MissingFile(t *testing.T) {
	err := helper.Seed(context.Background(), memstore.New(), "does-not-exist.yaml", timezone.SystemClock())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading fixture")
}
