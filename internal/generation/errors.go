package generation

import (
	"errors"
	"fmt"
)

// Error kinds returned by the generation client. Match them with errors.Is.
var (
	// ErrInvalidInput is returned when a request parameter is out of contract.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConfiguration is returned when the credential is missing or unusable.
	ErrConfiguration = errors.New("configuration error")

	// ErrRateLimited is returned when the inference API kept answering 429.
	ErrRateLimited = errors.New("rate limited")

	// ErrServiceUnavailable is returned when the model kept answering 503 while warming up.
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrUpstream is returned for any other non-success status.
	ErrUpstream = errors.New("upstream error")

	// ErrMalformedResponse is returned when a success body does not have the expected shape.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrTransport is returned when the request could not be completed at the network level.
	ErrTransport = errors.New("transport failure")
)

// Error carries the kind of a generation failure together with the upstream
// details needed to decide how to surface it.
type Error struct {
	Kind    error
	Message string
	Status  int    // upstream HTTP status, zero when no response was received
	Body    string // upstream body for ErrUpstream
	Err     error  // underlying cause, if any
}

func (e *Error) Error() string {
	switch {
	case e.Kind == ErrUpstream:
		return fmt.Sprintf("%s (%d): %s", e.Message, e.Status, e.Body)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	default:
		return e.Message
	}
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Retryable reports whether the failure was transient when it was surfaced.
func (e *Error) Retryable() bool {
	return e.Kind == ErrRateLimited || e.Kind == ErrServiceUnavailable || e.Kind == ErrTransport
}

func invalidInput(msg string) *Error {
	return &Error{Kind: ErrInvalidInput, Message: "invalid input: " + msg}
}

func configurationError(msg string, err error) *Error {
	return &Error{Kind: ErrConfiguration, Message: "configuration error: " + msg, Err: err}
}

func rateLimited(status int) *Error {
	return &Error{
		Kind:    ErrRateLimited,
		Message: "rate limited by inference API, please try again later",
		Status:  status,
	}
}

func serviceUnavailable(status int) *Error {
	return &Error{
		Kind:    ErrServiceUnavailable,
		Message: "model is loading, please try again shortly",
		Status:  status,
	}
}

func upstreamError(status int, body string) *Error {
	return &Error{Kind: ErrUpstream, Message: "inference API error", Status: status, Body: body}
}

func malformedResponse(detail string) *Error {
	return &Error{Kind: ErrMalformedResponse, Message: "unexpected response format from inference API: " + detail}
}

func transportFailure(err error) *Error {
	return &Error{Kind: ErrTransport, Message: "failed to generate text after retries", Err: err}
}
