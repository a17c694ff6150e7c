package mailer

import (
	"context"
	"net/http"
)

// Request describes a single provider API call.
type Request struct {
	Headers map[string]string
	Method  string
	URL     string
	Body    []byte
}

// Response is the result of a transport call.
type Response struct {
	Header     http.Header
	Body       []byte
	StatusCode int
}

// IsSuccessful reports whether the status code is in the 2xx range.
func (r *Response) IsSuccessful() bool {
	return r.StatusCode >= 200 && r.StatusCode <= 299
}

// Transport performs the network exchange for a provider request.
// Implementations must be safe for concurrent use if a Mailer is shared
// between goroutines.
type Transport interface {
	Call(ctx context.Context, req *Request) (*Response, error)
}
