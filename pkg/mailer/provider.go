package mailer

import "context"

// Sender is implemented by every provider Mailer.
type Sender interface {
	// Send formats and submits the message. It returns true only when the
	// provider accepted it; every rejection is reported as an error.
	Send(ctx context.Context, msg *Message) (bool, error)
}

// Provider supplies the provider-specific parts of a send.
type Provider interface {
	// Endpoint returns the URL the formatted message is posted to.
	Endpoint() string

	// Format renders the message in the provider's wire format.
	Format(msg *Message) ([]byte, error)

	// HandleFailure translates an unsuccessful response into an error,
	// usually *APIError when the payload is recognized and *HTTPError otherwise.
	HandleFailure(resp *Response) error
}

// HeaderProvider is implemented by providers that send extra request headers,
// such as authentication tokens.
type HeaderProvider interface {
	Headers() map[string]string
}

// SuccessVerifier is implemented by providers that can report failure inside
// a 2xx response.
type SuccessVerifier interface {
	VerifySuccess(resp *Response) bool
}
