package sendgrid

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/flint/Stampie/pkg/mailer"
)

type smtpAPIHeader struct {
	Category []string `json:"category,omitempty"`
}

type result struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}

// Parse decodes a form produced by Format back into a message.
// Credentials are dropped. CC and BCC names are not part of the wire format.
func Parse(body []byte) (*mailer.Message, error) {
	form, err := url.ParseQuery(string(body))
	if err != nil {
		return nil, fmt.Errorf("%w: decode sendgrid form: %v", mailer.ErrInvalidArgument, err)
	}

	msg := &mailer.Message{
		From:    mailer.NewIdentity(form.Get("fromname"), form.Get("from")),
		Subject: form.Get("subject"),
		Text:    form.Get("text"),
		HTML:    form.Get("html"),
	}

	names := form["toname[]"]
	for i, addr := range form["to[]"] {
		id := mailer.Identity{Address: addr}
		if i < len(names) {
			id.Name = names[i]
		}
		msg.To = append(msg.To, id)
	}
	for _, addr := range form["cc[]"] {
		msg.CC = append(msg.CC, mailer.Identity{Address: addr})
	}
	for _, addr := range form["bcc[]"] {
		msg.BCC = append(msg.BCC, mailer.Identity{Address: addr})
	}
	if r := form.Get("replyto"); r != "" {
		msg.ReplyTo = []mailer.Identity{{Address: r}}
	}

	if h := form.Get("headers"); h != "" {
		if err := json.Unmarshal([]byte(h), &msg.Headers); err != nil {
			return nil, fmt.Errorf("%w: decode headers: %v", mailer.ErrInvalidArgument, err)
		}
	}

	if s := form.Get("x-smtpapi"); s != "" {
		var hdr smtpAPIHeader
		if err := json.Unmarshal([]byte(s), &hdr); err != nil {
			return nil, fmt.Errorf("%w: decode x-smtpapi: %v", mailer.ErrInvalidArgument, err)
		}
		msg.Tags = mailer.SimpleTags(hdr.Category...)
	}

	for key, values := range form {
		name, ok := strings.CutPrefix(key, "files[")
		if !ok || !strings.HasSuffix(name, "]") || len(values) == 0 {
			continue
		}
		msg.Attachments = append(msg.Attachments, mailer.Attachment{
			Filename: strings.TrimSuffix(name, "]"),
			Content:  []byte(values[0]),
		})
	}

	sort.Slice(msg.Attachments, func(i, j int) bool {
		return msg.Attachments[i].Filename < msg.Attachments[j].Filename
	})

	return msg, nil
}
