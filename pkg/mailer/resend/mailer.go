package resend

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/resend/resend-go/v3"
	"github.com/samber/lo"

	"github.com/flint/Stampie/pkg/mailer"
)

const (
	// ProviderName is the identifier used in API errors.
	ProviderName = "resend"

	// DefaultEndpoint is the Resend send-email endpoint.
	DefaultEndpoint = "https://api.resend.com/emails"
)

// Mailer sends messages through the Resend API.
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

// New creates a Resend mailer authenticated with an API key.
func New(transport mailer.Transport, apiKey string, opts ...Option) (*Mailer, error) {
	base, err := mailer.NewBase(transport, apiKey)
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
		"Accept":        "application/json",
		"Content-Type":  "application/json",
		"Authorization": "Bearer " + m.ServerToken(),
	}
}

// Format implements mailer.Provider.
func (m *Mailer) Format(msg *mailer.Message) ([]byte, error) {
	req := &resend.SendEmailRequest{
		From:    msg.From.Mailbox(),
		To:      identityStrings(msg.To),
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
		Cc:      identityStrings(msg.CC),
		Bcc:     identityStrings(msg.BCC),
		Headers: msg.Headers,
	}

	// Resend takes a single reply-to value; several addresses are joined.
	if len(msg.ReplyTo) > 0 {
		req.ReplyTo = mailer.JoinMailboxes(msg.ReplyTo)
	}

	if len(msg.Attachments) > 0 {
		req.Attachments = convertAttachments(msg.Attachments)
	}

	if len(msg.Tags) > 0 {
		req.Tags = convertTags(msg.Tags)
	}

	return json.Marshal(req)
}

// VerifySuccess implements mailer.SuccessVerifier. Accepted messages are
// answered with the new email ID.
func (m *Mailer) VerifySuccess(resp *mailer.Response) bool {
	var r resend.SendEmailResponse
	if err := json.Unmarshal(resp.Body, &r); err != nil {
		return false
	}
	return r.Id != ""
}

// HandleFailure implements mailer.Provider.
func (m *Mailer) HandleFailure(resp *mailer.Response) error {
	var r errorResponse
	if err := json.Unmarshal(resp.Body, &r); err != nil || (r.Name == "" && r.Message == "") {
		return mailer.NewHTTPError(resp)
	}

	return &mailer.APIError{
		Provider:   ProviderName,
		StatusCode: resp.StatusCode,
		Name:       r.Name,
		Message:    r.Message,
	}
}

// errorResponse is the body Resend sends for rejected requests.
type errorResponse struct {
	Name       string `json:"name"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
}

func identityStrings(ids []mailer.Identity) []string {
	if len(ids) == 0 {
		return nil
	}
	return lo.Map(ids, func(id mailer.Identity, _ int) string { return id.Mailbox() })
}

func convertAttachments(attachments []mailer.Attachment) []*resend.Attachment {
	return lo.Map(attachments, func(a mailer.Attachment, _ int) *resend.Attachment {
		return &resend.Attachment{
			Filename:    a.Filename,
			Content:     a.Content,
			ContentType: a.ContentType,
			ContentId:   a.ContentID,
		}
	})
}

func convertTags(tags mailer.Tags) []resend.Tag {
	return lo.Map(tags.Names(), func(name string, _ int) resend.Tag {
		return resend.Tag{Name: name, Value: tagValue(tags[name])}
	})
}

// tagValue converts any value to a string for Resend's tag API.
// Presence-only tags (struct{}{}) become "true".
func tagValue(v any) string {
	switch val := v.(type) {
	case nil, struct{}:
		return "true"
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
