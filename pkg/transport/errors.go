package transport

import "errors"

var (
	// ErrBuildRequest is returned when the HTTP request cannot be constructed.
	ErrBuildRequest = errors.New("transport: failed to build request")

	// ErrRequestFailed is returned when the HTTP round trip fails.
	ErrRequestFailed = errors.New("transport: request failed")

	// ErrReadBody is returned when the response body cannot be read.
	ErrReadBody = errors.New("transport: failed to read response body")

	// ErrBodyTooLarge is returned when the response body exceeds the configured limit.
	ErrBodyTooLarge = errors.New("transport: response body too large")
)
