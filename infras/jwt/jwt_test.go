package jwt_test

import (
	"slotwise/config"
	"slotwise/infras/jwt"
	"slotwise/shared/timezone"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(secret string, clock timezone.Clock) jwt.JWT {
	cfg := &config.Config{}
	cfg.App.Name = "slotwise"
	cfg.JWT.AccessSecret = secret
	cfg.JWT.AccessExpireMin = 30

	return jwt.New(cfg, clock)
}

func TestGenerateAndValidate(t *testing.T) {
	clock := timezone.NewFixedClock(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
	svc := newService("secret", clock)

	token, err := svc.GenerateAccessToken("u1", "T1", "staff")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.Equal(t, int64(1800), token.ExpiresIn)

	claims, err := svc.ValidateToken(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "T1", claims.TenantID)
	assert.Equal(t, "staff", claims.Role)

	clock.Advance(31 * time.Minute)

	_, err = svc.ValidateToken(token.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrExpiredToken)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	clock := timezone.NewFixedClock(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))

	token, err := newService("secret", clock).GenerateAccessToken("u1", "T1", "")
	require.NoError(t, err)

	_, err = newService("other", clock).ValidateToken(token.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestValidateToken_MissingTenant(t *testing.T) {
	clock := timezone.NewFixedClock(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
	svc := newService("secret", clock)

	token, err := svc.GenerateAccessToken("u1", "", "")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrInvalidClaim)
}

func TestExtractTokenFromHeader(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{header: "Bearer abc", want: "abc"},
		{header: "", wantErr: true},
		{header: "Basic abc", wantErr: true},
		{header: "Bearer ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, err := jwt.ExtractTokenFromHeader(tt.header)
			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
