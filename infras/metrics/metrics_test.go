package metrics_test

import (
	"slotwise/infras/metrics"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_CustomRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.ObserveAvailability("tenant_conflict")
	m.ObserveAvailability("tenant_conflict")
	m.ObserveSlots(3)
	m.ObserveBooking("create", "success")
	m.ObserveTransaction("create", 0.02)
	m.ObserveEvent("booking.created", "kafka", true)
	m.ObserveHTTP("GET", "/v1/tenants/{tenant}/availability", "200", 0.01)

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 7)

	for _, family := range families {
		if family.GetName() != "slotwise_availability_checks_total" {
			continue
		}

		require.Len(t, family.GetMetric(), 1)
		assert.InDelta(t, 2, family.GetMetric()[0].GetCounter().GetValue(), 0)
	}
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *metrics.Metrics

	m.ObserveAvailability("available")
	m.ObserveSlots(1)
	m.ObserveBooking("cancel", "error")
	m.ObserveTransaction("cancel", 0.1)
	m.ObserveEvent("booking.cancelled", "s3", false)
	m.ObserveHTTP("POST", "/", "500", 0.2)
}
