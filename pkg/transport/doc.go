// Package transport provides mailer.Transport implementations.
//
// HTTP performs provider calls with net/http and returns the complete
// response, including non-2xx ones, so the mailer can interpret it.
// Logging wraps any transport and records each call with slog; the mailer
// itself never logs.
//
//	t := transport.Logging(transport.NewHTTP(
//		transport.WithHTTPClient(&http.Client{Timeout: 10 * time.Second}),
//	), log)
//	m, err := postmark.New(t, token)
package transport
