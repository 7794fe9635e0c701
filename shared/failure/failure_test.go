package failure_test

import (
	"errors"
	"fmt"
	"net/http"
	"slotwise/shared/failure"
	"testing"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		kind    failure.Kind
		message string
	}{
		{name: "forbidden error", err: failure.ForbiddenError, code: http.StatusForbidden, kind: failure.KindForbidden, message: "You don't have the required permissions"},
		{name: "bad request from string", err: failure.BadRequestFromString("date is required"), code: http.StatusBadRequest, kind: failure.KindValidation, message: "date is required"},
		{name: "unauthorized", err: failure.Unauthorized("missing token"), code: http.StatusUnauthorized, kind: failure.KindUnauthorized, message: "missing token"},
		{name: "forbidden", err: failure.Forbidden("wrong tenant"), code: http.StatusForbidden, kind: failure.KindForbidden, message: "wrong tenant"},
		{name: "not found", err: failure.NotFound("staff"), code: http.StatusNotFound, kind: failure.KindNotFound, message: "staff not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := failure.GetCode(tt.err); got != tt.code {
				t.Errorf("expected code %d, got %d", tt.code, got)
			}

			if got := failure.GetKind(tt.err); got != tt.kind {
				t.Errorf("expected kind %s, got %s", tt.kind, got)
			}

			if tt.err.Error() != tt.message {
				t.Errorf("expected message %q, got %q", tt.message, tt.err.Error())
			}
		})
	}
}

func TestBadRequest(t *testing.T) {
	if failure.BadRequest(nil) != nil {
		t.Error("expected nil for nil input")
	}

	err := failure.BadRequest(errors.New("validation failed"))
	if failure.GetCode(err) != http.StatusBadRequest {
		t.Errorf("expected code %d, got %d", http.StatusBadRequest, failure.GetCode(err))
	}

	if err.Error() != "validation failed" {
		t.Errorf("expected message 'validation failed', got %s", err.Error())
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		kind failure.Kind
		code int
	}{
		{failure.KindInvalidDateFormat, http.StatusBadRequest},
		{failure.KindInPast, http.StatusBadRequest},
		{failure.KindInvalidSelection, http.StatusBadRequest},
		{failure.KindUnknownOffering, http.StatusNotFound},
		{failure.KindTenantConflict, http.StatusConflict},
		{failure.KindNoStaffAvailable, http.StatusConflict},
		{failure.KindTooLate, http.StatusUnprocessableEntity},
		{failure.KindRaced, http.StatusConflict},
		{failure.KindTimeout, http.StatusGatewayTimeout},
		{failure.KindStoreUnavailable, http.StatusServiceUnavailable},
		{failure.Kind("something_else"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			err := failure.New(tt.kind, "message")

			if failure.GetCode(err) != tt.code {
				t.Errorf("expected code %d, got %d", tt.code, failure.GetCode(err))
			}

			if failure.GetKind(err) != tt.kind {
				t.Errorf("expected kind %s, got %s", tt.kind, failure.GetKind(err))
			}
		})
	}
}

func TestGetKind(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", failure.New(failure.KindTooLate, "too late"))

	if failure.GetKind(wrapped) != failure.KindTooLate {
		t.Errorf("expected kind to survive wrapping, got %s", failure.GetKind(wrapped))
	}

	if failure.GetKind(errors.New("plain")) != failure.KindInternal {
		t.Error("expected plain errors to map to internal")
	}

	if !failure.Is(wrapped, failure.KindTooLate) {
		t.Error("expected Is to match wrapped kind")
	}
}

func TestWithData(t *testing.T) {
	base := failure.New(failure.KindTenantConflict, "slot taken")
	withData := failure.WithData(base, []string{"11:30"})

	data, ok := failure.GetData(withData).([]string)
	if !ok || len(data) != 1 || data[0] != "11:30" {
		t.Errorf("expected data to be attached, got %v", failure.GetData(withData))
	}

	if failure.GetData(base) != nil {
		t.Error("expected original failure to be left untouched")
	}

	plain := errors.New("plain")
	if !errors.Is(failure.WithData(plain, 1), plain) {
		t.Error("expected foreign errors to pass through")
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{failure.New(failure.KindRaced, "raced"), true},
		{failure.New(failure.KindTimeout, "timeout"), true},
		{failure.New(failure.KindStoreUnavailable, "down"), true},
		{failure.New(failure.KindTooLate, "late"), false},
		{errors.New("plain"), false},
	}

	for _, tt := range tests {
		if got := failure.IsRetryable(tt.err); got != tt.want {
			t.Errorf("IsRetryable(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestKind_Unavailable(t *testing.T) {
	if !failure.KindNoQualifiedStaff.Unavailable() {
		t.Error("expected no_qualified_staff to be an availability kind")
	}

	if failure.KindTooLate.Unavailable() {
		t.Error("expected too_late not to be an availability kind")
	}
}
