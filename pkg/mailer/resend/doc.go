// Package resend implements mailer.Sender for the Resend email API.
//
// Requests use the wire types from github.com/resend/resend-go, but are sent
// through the configured mailer.Transport rather than the SDK client. Parse
// reads a formatted request back into a mailer.Message.
package resend
