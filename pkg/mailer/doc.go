// Package mailer defines a uniform contract for sending transactional email
// through third-party provider APIs.
//
// The package separates the send protocol, which is the same for every provider,
// from the provider-specific details: endpoint, request headers, payload format
// and error payloads. Provider packages (postmark, sendgrid, resend) implement
// the Provider hooks and delegate to Dispatch.
//
// # Architecture
//
//   - Transport: performs the HTTP exchange and returns a Response
//   - Provider: hook set (Endpoint, Format, HandleFailure, and optionally
//     Headers and VerifySuccess)
//   - Base: the transport and server token held by every provider Mailer
//   - Dispatch: the shared send algorithm
//
// # Usage
//
//	import (
//		"context"
//		"os"
//
//		"github.com/flint/Stampie/pkg/mailer"
//		"github.com/flint/Stampie/pkg/mailer/postmark"
//		"github.com/flint/Stampie/pkg/transport"
//	)
//
//	func main() {
//		m, err := postmark.New(transport.NewHTTP(), os.Getenv("POSTMARK_SERVER_TOKEN"))
//		if err != nil {
//			panic(err)
//		}
//
//		msg, err := mailer.NewMessage(
//			mailer.NewIdentity("Team", "team@example.com"),
//			[]string{"user@example.com"},
//			"Welcome",
//			mailer.WithText("Hello!"),
//		)
//		if err != nil {
//			panic(err)
//		}
//
//		if _, err := m.Send(context.Background(), msg); err != nil {
//			panic(err)
//		}
//	}
//
// # Send protocol
//
// Dispatch posts Format(msg) to Endpoint() with Headers(). A response counts as
// delivered only when its status is 2xx and VerifySuccess (default: true)
// accepts it. Anything else is passed to HandleFailure, whose error is returned
// to the caller. Dispatch never retries and never logs; retry policy belongs to
// the caller.
//
// # Identities
//
// NormalizeIdentity, NormalizeIdentities and BuildIdentityString accept bare
// address strings or Identity values:
//
//	s, _ := mailer.BuildIdentityString([]any{
//		mailer.NewIdentity("Jane", "jane@x.com"),
//		"bob@y.com",
//	})
//	// s == "Jane <jane@x.com>, bob@y.com"
//
// ParseIdentity parses human-entered mailboxes such as `Jane <jane@x.com>`.
// Providers put Identity.Mailbox on the wire instead of String: it quotes
// names like `Doe, Jane` and encodes non-ASCII names, and ParseIdentity reads
// it back unchanged.
//
// # Errors
//
//   - ErrInvalidConfiguration: empty server token, nil transport or nil provider
//   - ErrInvalidArgument: malformed identity or message input
//   - ErrFormatFailed: the provider could not build a payload
//   - ErrTransportFailed: the transport call failed
//   - *APIError: the provider returned a structured error payload
//   - *HTTPError: unsuccessful response without a recognizable payload
package mailer
