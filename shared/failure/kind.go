package failure

import "net/http"

// Kind is a stable, machine-readable error category.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindInternal     Kind = "internal"

	KindInvalidDateFormat Kind = "invalid_date_format"
	KindInvalidTimeFormat Kind = "invalid_time_format"
	KindInPast            Kind = "in_past"
	KindInvertedWindow    Kind = "inverted_window"
	KindInvalidSelection  Kind = "invalid_selection"
	KindUnknownOffering   Kind = "unknown_offering"
	KindUnknownItem       Kind = "unknown_item"
	KindUnknownBooking    Kind = "unknown_booking"
	KindOverlappingRule   Kind = "overlapping_rule"

	KindTenantConflict   Kind = "tenant_conflict"
	KindNoQualifiedStaff Kind = "no_qualified_staff"
	KindNoStaffAvailable Kind = "no_staff_available"

	KindNotReschedulable     Kind = "not_reschedulable"
	KindNotCancellable       Kind = "not_cancellable"
	KindTooLate              Kind = "too_late"
	KindAlreadyCancelled     Kind = "already_cancelled"
	KindTransitionNotAllowed Kind = "transition_not_allowed"

	KindRaced            Kind = "raced"
	KindTimeout          Kind = "timeout"
	KindStoreUnavailable Kind = "store_unavailable"
)

// HTTPCode maps a kind to the status code used by host surfaces.
func (k Kind) HTTPCode() int {
	switch k {
	case KindValidation, KindInvalidDateFormat, KindInvalidTimeFormat, KindInPast,
		KindInvertedWindow, KindInvalidSelection, KindUnknownItem:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound, KindUnknownOffering, KindUnknownBooking:
		return http.StatusNotFound
	case KindConflict, KindOverlappingRule, KindTenantConflict, KindNoQualifiedStaff,
		KindNoStaffAvailable, KindRaced:
		return http.StatusConflict
	case KindNotReschedulable, KindNotCancellable, KindTooLate, KindAlreadyCancelled,
		KindTransitionNotAllowed:
		return http.StatusUnprocessableEntity
	case KindTimeout:
		return http.StatusGatewayTimeout
	case KindStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Unavailable reports whether the kind is one of the availability outcomes.
func (k Kind) Unavailable() bool {
	return k == KindTenantConflict || k == KindNoQualifiedStaff || k == KindNoStaffAvailable
}
