package postmark

// Option configures a Postmark Mailer.
type Option func(*options)

type options struct {
	endpoint string
}

// WithEndpoint overrides the API endpoint.
// This is useful for testing with httptest servers.
func WithEndpoint(url string) Option {
	return func(o *options) {
		o.endpoint = url
	}
}
