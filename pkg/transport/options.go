package transport

import "net/http"

// DefaultMaxBodySize limits how much of a response body is read.
const DefaultMaxBodySize int64 = 1 << 20

// Option configures the HTTP transport.
type Option func(*options)

type options struct {
	httpClient  *http.Client
	userAgent   string
	maxBodySize int64
}

// WithHTTPClient sets a custom HTTP client.
// This is useful for timeouts, proxies, or httptest servers.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(o *options) {
		o.userAgent = ua
	}
}

// WithMaxBodySize limits the number of response bytes read.
// Non-positive values keep the default.
func WithMaxBodySize(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.maxBodySize = n
		}
	}
}
