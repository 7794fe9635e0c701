package failure

import (
	"errors"
	"net/http"
)

// Failure is an error with a machine-readable Kind and the HTTP code derived
// from it. Data carries details that are safe to render verbatim, such as
// alternate slots.
type Failure struct {
	Code    int    `json:"code"`
	Kind    Kind   `json:"kind,omitempty"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

var ForbiddenError = New(KindForbidden, "You don't have the required permissions")

func (e *Failure) Error() string {
	return e.Message
}

// New returns a Failure of kind with its HTTP code.
func New(kind Kind, msg string) error {
	return &Failure{
		Code:    kind.HTTPCode(),
		Kind:    kind,
		Message: msg,
	}
}

// WithData returns a copy of err carrying data. Errors that are not a Failure are returned unchanged.
func WithData(err error, data any) error {
	var fail *Failure
	if !errors.As(err, &fail) {
		return err
	}

	cp := *fail
	cp.Data = data

	return &cp
}

// BadRequest turns err into a validation failure. A nil err stays nil.
func BadRequest(err error) error {
	if err == nil {
		return nil
	}

	return New(KindValidation, err.Error())
}

func BadRequestFromString(msg string) error {
	return New(KindValidation, msg)
}

func Unauthorized(msg string) error {
	return New(KindUnauthorized, msg)
}

func Forbidden(msg string) error {
	return New(KindForbidden, msg)
}

// NotFound reports a missing entity by name.
func NotFound(entityName string) error {
	return New(KindNotFound, entityName+" not found")
}

// GetCode returns the error code of an error interface.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}

// GetKind returns the kind of an error interface, KindInternal for foreign errors.
func GetKind(err error) Kind {
	var fail *Failure
	if errors.As(err, &fail) && fail.Kind != "" {
		return fail.Kind
	}

	return KindInternal
}

// GetData returns the details attached to a Failure, if any.
func GetData(err error) any {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Data
	}

	return nil
}

// Is reports whether err is a Failure of the given kind.
func Is(err error, kind Kind) bool {
	var fail *Failure

	return errors.As(err, &fail) && fail.Kind == kind
}

// IsRetryable reports whether the caller may retry the operation that produced err.
func IsRetryable(err error) bool {
	switch GetKind(err) {
	case KindRaced, KindTimeout, KindStoreUnavailable:
		return true
	default:
		return false
	}
}
