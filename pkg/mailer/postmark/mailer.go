package postmark

import (
	"context"
	"encoding/base64"
	"encoding/json"

	"github.com/samber/lo"

	"github.com/flint/Stampie/pkg/mailer"
)

const (
	// ProviderName is the identifier used in API errors.
	ProviderName = "postmark"

	// DefaultEndpoint is the Postmark single-message endpoint.
	DefaultEndpoint = "https://api.postmarkapp.com/email"

	// TestServerToken is accepted by Postmark without delivering mail.
	TestServerToken = "POSTMARK_API_TEST"
)

// Mailer sends messages through the Postmark API.
type Mailer struct {
	*mailer.Base
	endpoint string
}

var (
	_ mailer.Sender          = (*Mailer)(nil)
	_ mailer.Provider        = (*Mailer)(nil)
	_ mailer.HeaderProvider  = (*Mailer)(nil)
	_ mailer.SuccessVerifier = (*Mailer)(nil)
)

// New creates a Postmark mailer. Returns mailer.ErrInvalidConfiguration if
// serverToken is empty or transport is nil.
func New(transport mailer.Transport, serverToken string, opts ...Option) (*Mailer, error) {
	base, err := mailer.NewBase(transport, serverToken)
	if err != nil {
		return nil, err
	}

	o := options{endpoint: DefaultEndpoint}
	for _, opt := range opts {
		opt(&o)
	}

	return &Mailer{Base: base, endpoint: o.endpoint}, nil
}

// Send implements mailer.Sender.
func (m *Mailer) Send(ctx context.Context, msg *mailer.Message) (bool, error) {
	return mailer.Dispatch(ctx, m.Transport(), m, msg)
}

// Endpoint implements mailer.Provider.
func (m *Mailer) Endpoint() string {
	return m.endpoint
}

// Headers implements mailer.HeaderProvider.
func (m *Mailer) Headers() map[string]string {
	return map[string]string{
		"Accept":                  "application/json",
		"Content-Type":            "application/json",
		"X-Postmark-Server-Token": m.ServerToken(),
	}
}

// Format implements mailer.Provider.
func (m *Mailer) Format(msg *mailer.Message) ([]byte, error) {
	p := payload{
		From:     msg.From.Mailbox(),
		To:       mailer.JoinMailboxes(msg.To),
		Cc:       mailer.JoinMailboxes(msg.CC),
		Bcc:      mailer.JoinMailboxes(msg.BCC),
		ReplyTo:  mailer.JoinMailboxes(msg.ReplyTo),
		Subject:  msg.Subject,
		HTMLBody: msg.HTML,
		TextBody: msg.Text,
	}

	// Postmark accepts a single tag per message.
	if names := msg.Tags.Names(); len(names) > 0 {
		p.Tag = names[0]
	}

	for _, name := range sortedKeys(msg.Headers) {
		p.Headers = append(p.Headers, header{Name: name, Value: msg.Headers[name]})
	}

	p.Attachments = lo.Map(msg.Attachments, func(a mailer.Attachment, _ int) attachment {
		return attachment{
			Name:        a.Filename,
			Content:     base64.StdEncoding.EncodeToString(a.Content),
			ContentType: a.ContentType,
			ContentID:   a.ContentID,
		}
	})

	return json.Marshal(p)
}

// VerifySuccess implements mailer.SuccessVerifier. Postmark reports a
// non-zero ErrorCode for rejected messages.
func (m *Mailer) VerifySuccess(resp *mailer.Response) bool {
	var r result
	if err := json.Unmarshal(resp.Body, &r); err != nil {
		return true
	}
	return r.ErrorCode == 0
}

// HandleFailure implements mailer.Provider.
func (m *Mailer) HandleFailure(resp *mailer.Response) error {
	var r result
	if err := json.Unmarshal(resp.Body, &r); err != nil || (r.ErrorCode == 0 && r.Message == "") {
		return mailer.NewHTTPError(resp)
	}

	return &mailer.APIError{
		Provider:   ProviderName,
		StatusCode: resp.StatusCode,
		Code:       r.ErrorCode,
		Message:    r.Message,
	}
}
