package bookingapi

// every error returned by the client wraps one of these so handlers can pick
// the message to show with errors.Is

import (
	"errors"
	"fmt"
)

var (
	// the api could not be reached or answered with a non 2xx status
	ErrTemporaryNetworkFailure = errors.New("network failure")

	// the api answered with success false
	ErrRequestFailed = errors.New("request failed")

	// a professor filter was given but the professor is not in the day
	ErrProfessorNotFound = errors.New("professor not found")

	// the api wants the user to log in first
	ErrLoginRequired = errors.New("login required")

	// the api answered with something that is not the expected json
	ErrMalformedResponse = errors.New("malformed response")
)

// APIError carries the message the api gave with a failed request
type APIError struct {
	Message string
	Type    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return ErrRequestFailed.Error()
	}
	return fmt.Sprintf("%s: %s", ErrRequestFailed, e.Message)
}

func (e *APIError) Unwrap() []error {
	if e.Type == loginRequiredType {
		return []error{ErrRequestFailed, ErrLoginRequired}
	}
	return []error{ErrRequestFailed}
}

// IsTransportError reports whether the api never gave a usable answer, either
// because it could not be reached or because the body was not its json
func IsTransportError(err error) bool {
	return errors.Is(err, ErrTemporaryNetworkFailure) || errors.Is(err, ErrMalformedResponse)
}

// MessageOr is the api's message or fallback when it gave none
func MessageOr(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
