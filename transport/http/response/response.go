package response

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"slotwise/shared/constant"
	"slotwise/shared/failure"
	"slotwise/shared/logger"
)

// StatusClientClosedRequest is written when the caller went away before the
// operation finished.
const StatusClientClosedRequest = 499

// Envelope is the body of every API response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Kind    string `json:"kind,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// Error is the documented shape of a failed response.
type Error struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message" example:"the requested time overlaps an existing booking"`
	Kind    string `json:"kind"    example:"tenant_conflict"`
	Data    any    `json:"data,omitempty"`
}

// Message is the documented shape of a response without data.
type Message struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"ok"`
}

// Data is the documented shape of a response carrying T.
type Data[T any] struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data"`
}

// WithMessage sends a response with a simple text message
func WithMessage(writer http.ResponseWriter, code int, message string) {
	response(writer, code, Envelope{Success: code < http.StatusBadRequest, Message: message})
}

// WithJSON sends a successful response containing a JSON object
func WithJSON(writer http.ResponseWriter, code int, payload any) {
	response(writer, code, Envelope{Success: true, Data: payload})
}

// WithJSONMessage sends a successful response with both a message and data
func WithJSONMessage(writer http.ResponseWriter, code int, message string, payload any) {
	response(writer, code, Envelope{Success: true, Message: message, Data: payload})
}

// WithError sends a response with the kind, message and details of err
func WithError(writer http.ResponseWriter, err error) {
	if errors.Is(err, context.Canceled) {
		response(writer, StatusClientClosedRequest, Envelope{Message: "request cancelled", Kind: string(failure.KindInternal)})

		return
	}

	body := Envelope{
		Message: err.Error(),
		Kind:    string(failure.GetKind(err)),
		Data:    failure.GetData(err),
	}

	code := failure.GetCode(err)
	if code == http.StatusInternalServerError {
		body.Message = http.StatusText(code)
	}

	response(writer, code, body)
}

// WithRequestLimitExceeded sends a default response for when the request limit is exceeded
func WithRequestLimitExceeded(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusTooManyRequests, constant.ResponseErrorRequestLimitExceeded)
}

// WithPreparingShutdown sends a default response for when the server is preparing to shut down
func WithPreparingShutdown(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorPrepareShutdown)
}

// WithUnhealthy sends a default response for when the server is unhealthy
func WithUnhealthy(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorUnhealthy)
}

func response(writer http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		logger.ErrorWithStack(err)

		return
	}

	writer.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	writer.WriteHeader(code)
	_, err = writer.Write(response)

	if err != nil {
		logger.ErrorWithStack(err)
	}
}
