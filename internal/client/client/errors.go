package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnavailable           = errors.New("server unavailable")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrNotFound              = errors.New("not found")
	ErrNoSlots               = errors.New("no slots remaining")
	ErrValidation            = errors.New("validation failed")
	ErrLocalDataNotAvailable = errors.New("local data unavailable")
)

// APIError is a non-2xx backend response.
type APIError struct {
	Status  int
	Message string
	kind    error
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error %d: %v", e.Status, e.kind)
	}
	return fmt.Sprintf("api error %d: %v: %s", e.Status, e.kind, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.kind
}

func newAPIError(status int, message string) *APIError {
	return &APIError{Status: status, Message: message, kind: mapStatus(status)}
}

func mapStatus(status int) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrUnauthorized
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusConflict || status == http.StatusPaymentRequired:
		return ErrNoSlots
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return ErrValidation
	default:
		return ErrUnavailable
	}
}

const (
	MessageNoSlots      = "No slots are left for this capsule."
	MessageValidation   = "Some of the entered information is invalid."
	MessageUnauthorized = "Please sign in again."
	MessageNotFound     = "The selected product could not be found."
	MessageServer       = "A server error occurred. Please try again later."
)

// UserMessage maps a backend error to the text shown to the user. For
// validation errors the backend's own message is passed through when present.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrNoSlots):
		return MessageNoSlots
	case errors.Is(err, ErrValidation):
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			return apiErr.Message
		}
		return MessageValidation
	case errors.Is(err, ErrUnauthorized):
		return MessageUnauthorized
	case errors.Is(err, ErrNotFound):
		return MessageNotFound
	default:
		return MessageServer
	}
}
