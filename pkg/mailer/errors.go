package mailer

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfiguration indicates a missing server token or transport.
	ErrInvalidConfiguration = errors.New("mailer: invalid configuration")

	// ErrInvalidArgument indicates a value that cannot be turned into an identity
	// or a message that cannot be dispatched.
	ErrInvalidArgument = errors.New("mailer: invalid argument")

	// ErrFormatFailed indicates the provider could not build a request payload.
	ErrFormatFailed = errors.New("mailer: failed to format message")

	// ErrTransportFailed indicates the transport could not complete the call.
	ErrTransportFailed = errors.New("mailer: transport call failed")

	// ErrNilResponse is returned when a transport reports no error and no response.
	ErrNilResponse = errors.New("mailer: nil response from transport")
)

// APIError is returned when a provider rejects a message with a structured
// error payload.
type APIError struct {
	Provider   string // Provider identifier (e.g., "postmark")
	Name       string // Symbolic error name, for providers that send one
	Message    string // Human-readable message from the provider
	StatusCode int    // HTTP status of the response
	Code       int    // Numeric provider error code, zero when not provided
}

func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s: api error %d (status %d): %s", e.Provider, e.Code, e.StatusCode, e.Message)
	}
	if e.Name != "" {
		return fmt.Sprintf("%s: api error %s (status %d): %s", e.Provider, e.Name, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: api error (status %d): %s", e.Provider, e.StatusCode, e.Message)
}

// HTTPError is returned when a response is not successful and carries no
// parseable error payload, or when a 2xx response fails provider verification.
type HTTPError struct {
	Body       []byte
	StatusCode int
}

// NewHTTPError builds an HTTPError from a transport response.
func NewHTTPError(resp *Response) *HTTPError {
	if resp == nil {
		return &HTTPError{}
	}
	return &HTTPError{StatusCode: resp.StatusCode, Body: resp.Body}
}

func (e *HTTPError) Error() string {
	const maxBody = 256
	body := e.Body
	if len(body) > maxBody {
		body = body[:maxBody]
	}
	if len(body) == 0 {
		return fmt.Sprintf("mailer: http error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("mailer: http error: status %d: %s", e.StatusCode, body)
}
