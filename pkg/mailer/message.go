package mailer

import (
	"fmt"
	"sort"
)

// Tags represents email tags/categories that can be either presence-only
// (using struct{}{}) or key-value pairs (using string values).
// Each provider converts them to its own format:
//   - Postmark: a single tag name
//   - SendGrid: category names
//   - Resend: name-value pairs (presence-only tags become name="true")
type Tags map[string]any

// SimpleTags creates presence-only tags from a list of tag names.
func SimpleTags(names ...string) Tags {
	t := make(Tags, len(names))
	for _, n := range names {
		t[n] = struct{}{}
	}
	return t
}

// Names returns tag names in sorted order.
func (t Tags) Names() []string {
	names := make([]string, 0, len(t))
	for n := range t {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Attachment represents an email attachment.
type Attachment struct {
	Filename    string // Display name for the attachment
	ContentType string // MIME type (e.g., "application/pdf")
	ContentID   string // Optional Content-ID for inline attachments
	Content     []byte // Raw file content
}

// Message is a fully-prepared email ready to be formatted by a provider.
type Message struct {
	Headers     map[string]string // Custom headers
	Tags        Tags              // Provider-specific tags/categories
	Subject     string
	HTML        string // HTML body content
	Text        string // Plain text alternative
	From        Identity
	To          []Identity // At least one required
	CC          []Identity
	BCC         []Identity
	ReplyTo     []Identity
	Attachments []Attachment
}

// MessageOption configures optional message fields.
type MessageOption func(*Message) error

// NewMessage builds a message from a sender and one or more recipients.
// Both accept anything NormalizeIdentity/NormalizeIdentities accept.
func NewMessage(from, to any, subject string, opts ...MessageOption) (*Message, error) {
	sender, err := NormalizeIdentity(from)
	if err != nil {
		return nil, fmt.Errorf("from: %w", err)
	}

	recipients, err := NormalizeIdentities(to)
	if err != nil {
		return nil, fmt.Errorf("to: %w", err)
	}
	if len(recipients) == 0 {
		return nil, fmt.Errorf("%w: message must have at least one recipient", ErrInvalidArgument)
	}

	msg := &Message{
		From:    sender,
		To:      recipients,
		Subject: subject,
	}
	for _, opt := range opts {
		if err := opt(msg); err != nil {
			return nil, err
		}
	}
	return msg, nil
}

// WithHTML sets the HTML body.
func WithHTML(html string) MessageOption {
	return func(m *Message) error {
		m.HTML = html
		return nil
	}
}

// WithText sets the plain text body.
func WithText(text string) MessageOption {
	return func(m *Message) error {
		m.Text = text
		return nil
	}
}

// WithCC adds carbon copy recipients.
func WithCC(v any) MessageOption {
	return func(m *Message) error {
		ids, err := NormalizeIdentities(v)
		if err != nil {
			return fmt.Errorf("cc: %w", err)
		}
		m.CC = append(m.CC, ids...)
		return nil
	}
}

// WithBCC adds blind carbon copy recipients.
func WithBCC(v any) MessageOption {
	return func(m *Message) error {
		ids, err := NormalizeIdentities(v)
		if err != nil {
			return fmt.Errorf("bcc: %w", err)
		}
		m.BCC = append(m.BCC, ids...)
		return nil
	}
}

// WithReplyTo adds reply-to addresses.
func WithReplyTo(v any) MessageOption {
	return func(m *Message) error {
		ids, err := NormalizeIdentities(v)
		if err != nil {
			return fmt.Errorf("reply-to: %w", err)
		}
		m.ReplyTo = append(m.ReplyTo, ids...)
		return nil
	}
}

// WithHeader sets a custom header.
func WithHeader(name, value string) MessageOption {
	return func(m *Message) error {
		if m.Headers == nil {
			m.Headers = make(map[string]string)
		}
		m.Headers[name] = value
		return nil
	}
}

// WithTags merges tags into the message.
func WithTags(tags Tags) MessageOption {
	return func(m *Message) error {
		if m.Tags == nil {
			m.Tags = make(Tags, len(tags))
		}
		for k, v := range tags {
			m.Tags[k] = v
		}
		return nil
	}
}

// WithAttachment adds a file attachment.
func WithAttachment(a Attachment) MessageOption {
	return func(m *Message) error {
		if a.Filename == "" {
			return fmt.Errorf("%w: attachment without filename", ErrInvalidArgument)
		}
		m.Attachments = append(m.Attachments, a)
		return nil
	}
}
