package cli

import (
	"fmt"
	"io"
	"maps"
	"mime"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/zostay/go-addr/pkg/addr"
	"github.com/zostay/go-email/v2/message"
	"github.com/zostay/go-email/v2/message/header"

	"github.com/flint/Stampie/pkg/mailer"
)

// mailbox converts id into a go-addr mailbox. Non-ASCII display names are
// RFC 2047 encoded so the header stays 7-bit.
func mailbox(id mailer.Identity) (addr.Address, error) {
	mb, err := addr.NewMailboxStr(mime.BEncoding.Encode("utf-8", id.Name), id.Address, "")
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", mailer.ErrInvalidArgument, id.Address, err)
	}
	return mb, nil
}

func mailboxes(ids []mailer.Identity) ([]any, error) {
	list := make([]any, 0, len(ids))
	for _, id := range ids {
		mb, err := mailbox(id)
		if err != nil {
			return nil, err
		}
		list = append(list, mb)
	}
	return list, nil
}

// writePreview writes msg as a single-part RFC 5322 message. The text body
// is shown when present, the HTML body otherwise. Attachments are listed in
// an X-Stampie-Attachments header rather than encoded.
func writePreview(w io.Writer, msg *mailer.Message) error {
	var h header.Header

	fields := []struct {
		name string
		set  func(...any) error
		ids  []mailer.Identity
	}{
		{"from", h.SetFrom, []mailer.Identity{msg.From}},
		{"to", h.SetTo, msg.To},
		{"cc", h.SetCc, msg.CC},
		{"bcc", h.SetBcc, msg.BCC},
		{"reply-to", h.SetReplyTo, msg.ReplyTo},
	}
	for _, f := range fields {
		if len(f.ids) == 0 {
			continue
		}
		list, err := mailboxes(f.ids)
		if err == nil {
			err = f.set(list...)
		}
		if err != nil {
			return fmt.Errorf("preview %s: %w", f.name, err)
		}
	}

	h.SetSubject(msg.Subject)
	h.SetDate(time.Now())
	for _, name := range slices.Sorted(maps.Keys(msg.Headers)) {
		h.Set(name, msg.Headers[name])
	}
	if len(msg.Tags) > 0 {
		h.SetKeywords(msg.Tags.Names()...)
	}
	if len(msg.Attachments) > 0 {
		h.Set("X-Stampie-Attachments", strings.Join(lo.Map(msg.Attachments, func(a mailer.Attachment, _ int) string {
			return a.Filename
		}), ", "))
	}

	body, mediaType := msg.Text, "text/plain"
	if body == "" {
		body, mediaType = msg.HTML, "text/html"
	}
	h.SetMediaType(mediaType)
	if err := h.SetCharset("utf-8"); err != nil {
		return fmt.Errorf("preview charset: %w", err)
	}

	preview := &message.Opaque{Header: h, Reader: strings.NewReader(body)}
	if _, err := preview.WriteTo(w); err != nil {
		return fmt.Errorf("preview: %w", err)
	}
	return nil
}
