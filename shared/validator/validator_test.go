package validator_test

import (
	"errors"
	"slotwise/shared/failure"
	"slotwise/shared/validator"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type customer struct {
	Name  string `json:"name"  validate:"required,notblank,max=20"`
	Email string `json:"email" validate:"omitempty,email"`
}

type bookingRequest struct {
	Date     string   `json:"date"     validate:"required,datetime=2006-01-02"`
	Quantity int      `json:"quantity" validate:"gte=0,lte=10"`
	Status   string   `json:"status"   validate:"omitempty,oneof=pending confirmed"`
	Customer customer `json:"customer"`
}

type noteRequest struct {
	Kind   string `json:"kind"   validate:"required,oneof=note_added confirmed"`
	Note   string `json:"note"   validate:"required_if=Kind note_added"`
	Reason string `json:"reason" validate:"omitempty,notblank"`
}

func validBooking() bookingRequest {
	return bookingRequest{
		Date:     "2025-03-03",
		Quantity: 2,
		Customer: customer{Name: "Ana Silva", Email: "ana@example.com"},
	}
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *bookingRequest)
		message string
	}{
		{name: "valid", mutate: func(*bookingRequest) {}},
		{name: "missing date", mutate: func(r *bookingRequest) { r.Date = "" }, message: "date is required"},
		{name: "bad date layout", mutate: func(r *bookingRequest) { r.Date = "03/03/2025" }, message: "date must match the layout 2006-01-02"},
		{name: "quantity too large", mutate: func(r *bookingRequest) { r.Quantity = 11 }, message: "quantity must be less than or equal to 10"},
		{name: "negative quantity", mutate: func(r *bookingRequest) { r.Quantity = -1 }, message: "quantity must be greater than or equal to 0"},
		{name: "unknown status", mutate: func(r *bookingRequest) { r.Status = "archived" }, message: "status must be one of pending confirmed"},
		{name: "nested blank name", mutate: func(r *bookingRequest) { r.Customer.Name = "  " }, message: "name must not be blank"},
		{name: "nested bad email", mutate: func(r *bookingRequest) { r.Customer.Email = "ana" }, message: "email must be a valid email address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validBooking()
			tt.mutate(&req)

			err := validator.ValidateStruct(&req)
			if tt.message == "" {
				assert.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Equal(t, tt.message, err.Error())
		})
	}
}

func TestValidateStruct_ConditionalRules(t *testing.T) {
	tests := []struct {
		name    string
		data    noteRequest
		message string
	}{
		{name: "missing kind", data: noteRequest{}, message: "kind is required"},
		{name: "note required for notes", data: noteRequest{Kind: "note_added"}, message: "note is required when Kind note_added"},
		{name: "blank reason", data: noteRequest{Kind: "confirmed", Reason: "   "}, message: "reason must not be blank"},
		{name: "valid", data: noteRequest{Kind: "note_added", Note: "bring ladder"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(&tt.data)
			if tt.message == "" {
				assert.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Equal(t, tt.message, err.Error())
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "valid body", body: `{"date":"2025-03-03","quantity":1,"customer":{"name":"Ana"}}`},
		{name: "rule violation", body: `{"date":"2025-03-03","customer":{"name":""}}`, wantErr: true},
		{name: "malformed json", body: `{"date":`, wantErr: true},
		{name: "wrong type", body: `{"date":"2025-03-03","quantity":"two","customer":{"name":"Ana"}}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req bookingRequest

			err := validator.Validate(strings.NewReader(tt.body), &req)
			if !tt.wantErr {
				assert.NoError(t, err)

				return
			}

			require.Error(t, err)

			var fail *failure.Failure
			require.True(t, errors.As(err, &fail))
			assert.Equal(t, failure.KindValidation, fail.Kind)
		})
	}
}

func TestValidateOptional(t *testing.T) {
	var empty noteRequest

	err := validator.ValidateOptional(strings.NewReader(""), &empty)
	require.Error(t, err)
	assert.Equal(t, failure.KindValidation, failure.GetKind(err))

	type reasonRequest struct {
		Reason string `json:"reason" validate:"max=5"`
	}

	var none reasonRequest
	require.NoError(t, validator.ValidateOptional(strings.NewReader(""), &none))
	assert.Empty(t, none.Reason)

	var given reasonRequest
	require.NoError(t, validator.ValidateOptional(strings.NewReader(`{"reason":"sick"}`), &given))
	assert.Equal(t, "sick", given.Reason)

	assert.Error(t, validator.ValidateOptional(strings.NewReader(`{"reason":"way too long"}`), &given))
	assert.Error(t, validator.ValidateOptional(strings.NewReader(`{"reason":`), &given))
}
