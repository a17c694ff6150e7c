package compose

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"text/template"

	"github.com/flint/Stampie/pkg/mailer"
)

// Composer renders templates into messages and hands them to a mailer.Sender.
type Composer struct {
	sender   mailer.Sender
	renderer *Renderer
	config   Config
}

// New creates a Composer. Any provider Mailer can serve as sender.
func New(sender mailer.Sender, renderer *Renderer, cfg Config) *Composer {
	return &Composer{
		sender:   sender,
		renderer: renderer,
		config:   cfg,
	}
}

// SendParams contains parameters for sending a templated email.
// Address fields accept RFC 5322 mailboxes such as `Jane <jane@example.com>`.
type SendParams struct {
	To       string // Single recipient
	Template string // Template filename, e.g. "welcome.md"
	Data     any

	Subject     string // Overrides the template subject
	Layout      string // Overrides Config.DefaultLayout
	From        string // Overrides Config.From
	ReplyTo     string
	CC          []string
	BCC         []string
	Attachments []mailer.Attachment
	Tags        mailer.Tags
}

// Compose renders params into a message without sending it.
// Subject resolution: params.Subject > template frontmatter > Config.FallbackSubject.
func (c *Composer) Compose(params SendParams) (*mailer.Message, error) {
	if params.To == "" {
		return nil, ErrNoRecipient
	}

	fromAddr := params.From
	if fromAddr == "" {
		fromAddr = c.config.From
	}
	if fromAddr == "" {
		return nil, ErrNoSender
	}

	from, err := mailer.ParseIdentity(fromAddr)
	if err != nil {
		return nil, fmt.Errorf("from: %w", err)
	}
	to, err := mailer.ParseIdentities(params.To)
	if err != nil {
		return nil, fmt.Errorf("to: %w", err)
	}

	layout := params.Layout
	if layout == "" {
		layout = c.config.DefaultLayout
	}

	result, err := c.renderer.Render(layout, params.Template, params.Data)
	if err != nil {
		return nil, errors.Join(ErrRenderFailed, err)
	}

	subject := params.Subject
	if subject == "" {
		if s, ok := result.Metadata["Subject"].(string); ok {
			subject = s
		} else {
			subject = c.config.FallbackSubject
		}
	}

	subject, err = executeSubject(subject, params.Data)
	if err != nil {
		return nil, errors.Join(ErrRenderFailed, err)
	}

	opts := []mailer.MessageOption{
		mailer.WithHTML(result.HTML),
		mailer.WithText(result.Text),
	}
	if params.ReplyTo != "" {
		replyTo, err := mailer.ParseIdentities(params.ReplyTo)
		if err != nil {
			return nil, fmt.Errorf("reply-to: %w", err)
		}
		opts = append(opts, mailer.WithReplyTo(replyTo))
	}
	if len(params.CC) > 0 {
		cc, err := parseAll(params.CC)
		if err != nil {
			return nil, fmt.Errorf("cc: %w", err)
		}
		opts = append(opts, mailer.WithCC(cc))
	}
	if len(params.BCC) > 0 {
		bcc, err := parseAll(params.BCC)
		if err != nil {
			return nil, fmt.Errorf("bcc: %w", err)
		}
		opts = append(opts, mailer.WithBCC(bcc))
	}
	if len(params.Tags) > 0 {
		opts = append(opts, mailer.WithTags(params.Tags))
	}
	for _, a := range params.Attachments {
		opts = append(opts, mailer.WithAttachment(a))
	}

	return mailer.NewMessage(from, to, subject, opts...)
}

// Send composes params and sends the result. Sender errors are joined with
// ErrSendFailed; the typed provider errors stay reachable through errors.As.
func (c *Composer) Send(ctx context.Context, params SendParams) (bool, error) {
	msg, err := c.Compose(params)
	if err != nil {
		return false, err
	}
	return c.SendMessage(ctx, msg)
}

// SendMessage sends a pre-built message without template rendering.
func (c *Composer) SendMessage(ctx context.Context, msg *mailer.Message) (bool, error) {
	if msg == nil || len(msg.To) == 0 {
		return false, ErrNoRecipient
	}

	ok, err := c.sender.Send(ctx, msg)
	if err != nil {
		return false, errors.Join(ErrSendFailed, err)
	}
	return ok, nil
}

func executeSubject(subject string, data any) (string, error) {
	tmpl, err := template.New("subject").Parse(subject)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func parseAll(addrs []string) ([]mailer.Identity, error) {
	var out []mailer.Identity
	for _, a := range addrs {
		ids, err := mailer.ParseIdentities(a)
		if err != nil {
			return nil, err
		}
		out = append(out, ids...)
	}
	return out, nil
}
