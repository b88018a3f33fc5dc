// Package errors defines the service error taxonomy and its HTTP mapping.
package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/R3E-Network/bankproducts/internal/app/storage"
)

// Error codes returned to clients.
const (
	CodeBadRequest         = "bad_request"
	CodeStorageUnavailable = "storage_unavailable"
	CodeInternal           = "internal_error"
	CodeRateLimited        = "rate_limit_exceeded"
	CodeMethodNotAllowed   = "method_not_allowed"
)

// ServiceError is an error with a stable code and HTTP status.
type ServiceError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// BadRequest reports a request that could not be bound.
func BadRequest(message string, err error) *ServiceError {
	return &ServiceError{Code: CodeBadRequest, Message: message, HTTPStatus: http.StatusBadRequest, Err: err}
}

// StorageUnavailable reports a failure of the storage engine.
func StorageUnavailable(err error) *ServiceError {
	return &ServiceError{
		Code:       CodeStorageUnavailable,
		Message:    "storage unavailable",
		HTTPStatus: http.StatusServiceUnavailable,
		Err:        err,
	}
}

// Internal reports an unexpected failure.
func Internal(err error) *ServiceError {
	return &ServiceError{Code: CodeInternal, Message: "internal error", HTTPStatus: http.StatusInternalServerError, Err: err}
}

// MethodNotAllowed reports a known path requested with an unsupported verb.
func MethodNotAllowed(method string) *ServiceError {
	return &ServiceError{
		Code:       CodeMethodNotAllowed,
		Message:    fmt.Sprintf("method %s not allowed", method),
		HTTPStatus: http.StatusMethodNotAllowed,
	}
}

// RateLimitExceeded reports a throttled client.
func RateLimitExceeded(limit int, window string) *ServiceError {
	return &ServiceError{
		Code:       CodeRateLimited,
		Message:    fmt.Sprintf("rate limit of %d requests per %s exceeded", limit, window),
		HTTPStatus: http.StatusTooManyRequests,
	}
}

// FromError classifies err. ServiceErrors pass through unchanged.
func FromError(err error) *ServiceError {
	if err == nil {
		return nil
	}
	var svcErr *ServiceError
	if stderrors.As(err, &svcErr) {
		return svcErr
	}
	if stderrors.Is(err, storage.ErrUnavailable) {
		return StorageUnavailable(err)
	}
	return Internal(err)
}

// Body is the JSON document written for error responses.
type Body struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Write renders e as a JSON error response.
func Write(w http.ResponseWriter, e *ServiceError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.HTTPStatus)
	_ = json.NewEncoder(w).Encode(Body{Error: e.Message, Code: e.Code})
}
