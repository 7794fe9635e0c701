package model_test

import (
	"slotwise/internal/domains/availability/model"
	"slotwise/shared/timezone"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInterval(t *testing.T) {
	morning := model.Interval{Start: 9 * 60, End: 12 * 60}

	assert.True(t, morning.Overlaps(model.Interval{Start: 11 * 60, End: 13 * 60}))
	assert.False(t, morning.Overlaps(model.Interval{Start: 12 * 60, End: 13 * 60}), "half-open windows touching at the edge do not overlap")
	assert.True(t, morning.Contains(model.Interval{Start: 9 * 60, End: 12 * 60}))
	assert.False(t, morning.Contains(model.Interval{Start: 11 * 60, End: 12*60 + 1}))
	assert.Equal(t, 180, morning.Len())
}

func TestRule_AppliesOn(t *testing.T) {
	monday := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	weekday := int(time.Monday)

	weekly := model.Rule{Kind: model.KindWeekly, Weekday: &weekday, StartTime: timezone.ClockTime(540), EndTime: timezone.ClockTime(1020)}
	specific := model.Rule{Kind: model.KindSpecific, SpecificDate: &monday}

	assert.True(t, weekly.AppliesOn(monday))
	assert.False(t, weekly.AppliesOn(monday.AddDate(0, 0, 1)))
	assert.True(t, specific.AppliesOn(monday))
	assert.False(t, specific.AppliesOn(monday.AddDate(0, 0, 7)))

	assert.Equal(t, "Monday", weekly.Key())
	assert.Equal(t, "2025-03-03", specific.Key())
	assert.Equal(t, model.Interval{Start: 540, End: 1020}, weekly.Interval())
}
