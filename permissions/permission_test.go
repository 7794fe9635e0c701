package permissions_test

import (
	"net/http"
	"slotwise/permissions"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	data := permissions.Get()
	require.NotNil(t, data)

	public := data.FindPermissions("/v1/tenants/{tenant}/bookings", http.MethodPost)
	assert.True(t, public.Public)
	assert.Equal(t, public, data.FindPermissions("/v1/tenants/{tenant}/bookings/", http.MethodPost))

	rules := data.FindPermissions("/v1/tenants/{tenant}/staff/{staff}/availability", http.MethodPost)
	assert.False(t, rules.Public)
	assert.True(t, rules.Allows("manager"))
	assert.False(t, rules.Allows("staff"))

	missing := data.FindPermissions("/v1/unknown", http.MethodGet)
	assert.Equal(t, permissions.Permission{}, missing)
	assert.True(t, missing.Allows("anyone"))
}

func TestParse(t *testing.T) {
	_, err := permissions.Parse([]byte("{"))
	assert.Error(t, err)

	data, err := permissions.Parse([]byte(`{"skip": true}`))
	require.NoError(t, err)
	assert.True(t, data.Skip)
}
