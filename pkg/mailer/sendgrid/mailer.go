package sendgrid

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/samber/lo"

	"github.com/flint/Stampie/pkg/mailer"
)

const (
	// ProviderName is the identifier used in API errors.
	ProviderName = "sendgrid"

	// DefaultEndpoint is the SendGrid v2 mail endpoint.
	DefaultEndpoint = "https://api.sendgrid.com/api/mail.send.json"

	statusSuccess = "success"
)

// Mailer sends messages through the SendGrid Web API.
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

// New creates a SendGrid mailer. The server token must be "username:password".
func New(transport mailer.Transport, serverToken string, opts ...Option) (*Mailer, error) {
	if _, _, err := splitToken(serverToken); err != nil {
		return nil, err
	}

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

// SetServerToken validates the "username:password" form before storing it.
func (m *Mailer) SetServerToken(serverToken string) error {
	if _, _, err := splitToken(serverToken); err != nil {
		return err
	}
	return m.Base.SetServerToken(serverToken)
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
		"Accept":       "application/json",
		"Content-Type": "application/x-www-form-urlencoded",
	}
}

// Format implements mailer.Provider.
func (m *Mailer) Format(msg *mailer.Message) ([]byte, error) {
	user, key, err := splitToken(m.ServerToken())
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("api_user", user)
	form.Set("api_key", key)

	form["to[]"] = addresses(msg.To)
	if lo.SomeBy(msg.To, func(id mailer.Identity) bool { return id.Name != "" }) {
		form["toname[]"] = lo.Map(msg.To, func(id mailer.Identity, _ int) string { return id.Name })
	}
	if len(msg.CC) > 0 {
		form["cc[]"] = addresses(msg.CC)
	}
	if len(msg.BCC) > 0 {
		form["bcc[]"] = addresses(msg.BCC)
	}

	form.Set("from", msg.From.Address)
	if msg.From.Name != "" {
		form.Set("fromname", msg.From.Name)
	}
	// The v2 API accepts a single reply-to address.
	if len(msg.ReplyTo) > 0 {
		form.Set("replyto", msg.ReplyTo[0].Address)
	}

	form.Set("subject", msg.Subject)
	if msg.Text != "" {
		form.Set("text", msg.Text)
	}
	if msg.HTML != "" {
		form.Set("html", msg.HTML)
	}

	if len(msg.Headers) > 0 {
		headers, err := json.Marshal(msg.Headers)
		if err != nil {
			return nil, fmt.Errorf("encode headers: %w", err)
		}
		form.Set("headers", string(headers))
	}

	if len(msg.Tags) > 0 {
		smtpAPI, err := json.Marshal(smtpAPIHeader{Category: msg.Tags.Names()})
		if err != nil {
			return nil, fmt.Errorf("encode x-smtpapi: %w", err)
		}
		form.Set("x-smtpapi", string(smtpAPI))
	}

	for _, a := range msg.Attachments {
		key := fmt.Sprintf("files[%s]", a.Filename)
		if form.Has(key) {
			return nil, fmt.Errorf("%w: duplicate attachment name %q", mailer.ErrInvalidArgument, a.Filename)
		}
		form.Set(key, string(a.Content))
	}

	return []byte(form.Encode()), nil
}

// VerifySuccess implements mailer.SuccessVerifier.
func (m *Mailer) VerifySuccess(resp *mailer.Response) bool {
	var r result
	if err := json.Unmarshal(resp.Body, &r); err != nil {
		return false
	}
	return r.Message == statusSuccess
}

// HandleFailure implements mailer.Provider.
func (m *Mailer) HandleFailure(resp *mailer.Response) error {
	var r result
	if err := json.Unmarshal(resp.Body, &r); err != nil || len(r.Errors) == 0 {
		return mailer.NewHTTPError(resp)
	}

	return &mailer.APIError{
		Provider:   ProviderName,
		StatusCode: resp.StatusCode,
		Name:       r.Message,
		Message:    strings.Join(r.Errors, "; "),
	}
}

func splitToken(token string) (string, string, error) {
	user, key, ok := strings.Cut(token, ":")
	if !ok || user == "" || key == "" {
		return "", "", fmt.Errorf("%w: server token must be \"username:password\"", mailer.ErrInvalidConfiguration)
	}
	return user, key, nil
}

func addresses(ids []mailer.Identity) []string {
	return lo.Map(ids, func(id mailer.Identity, _ int) string { return id.Address })
}
