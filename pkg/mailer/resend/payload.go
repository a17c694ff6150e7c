package resend

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/resend/resend-go/v3"

	"github.com/flint/Stampie/pkg/mailer"
)

// request shadows the SDK attachments so their content decodes whether it was
// written as base64 or as a byte array.
type request struct {
	resend.SendEmailRequest
	Attachments []attachment `json:"attachments,omitempty"`
}

type attachment struct {
	Filename    string          `json:"filename"`
	Content     json.RawMessage `json:"content,omitempty"`
	ContentType string          `json:"content_type,omitempty"`
	ContentID   string          `json:"content_id,omitempty"`
}

// Parse decodes a payload produced by Format back into a message. Tag values
// come back as the strings Resend stores.
func Parse(body []byte) (*mailer.Message, error) {
	var req request
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, fmt.Errorf("%w: decode resend payload: %v", mailer.ErrInvalidArgument, err)
	}

	from, err := mailer.ParseIdentity(req.From)
	if err != nil {
		return nil, err
	}

	msg := &mailer.Message{
		From:    from,
		Subject: req.Subject,
		HTML:    req.Html,
		Text:    req.Text,
		Headers: req.Headers,
	}

	if msg.To, err = parseEach(req.To); err != nil {
		return nil, err
	}
	if msg.CC, err = parseEach(req.Cc); err != nil {
		return nil, err
	}
	if msg.BCC, err = parseEach(req.Bcc); err != nil {
		return nil, err
	}
	if msg.ReplyTo, err = mailer.ParseIdentities(req.ReplyTo); err != nil {
		return nil, err
	}

	if len(req.Tags) > 0 {
		msg.Tags = make(mailer.Tags, len(req.Tags))
		for _, tag := range req.Tags {
			msg.Tags[tag.Name] = tag.Value
		}
	}

	for _, a := range req.Attachments {
		content, err := decodeContent(a.Content)
		if err != nil {
			return nil, fmt.Errorf("%w: attachment %s: %v", mailer.ErrInvalidArgument, a.Filename, err)
		}
		msg.Attachments = append(msg.Attachments, mailer.Attachment{
			Filename:    a.Filename,
			ContentType: a.ContentType,
			ContentID:   a.ContentID,
			Content:     content,
		})
	}

	return msg, nil
}

func parseEach(values []string) ([]mailer.Identity, error) {
	if len(values) == 0 {
		return nil, nil
	}

	ids := make([]mailer.Identity, 0, len(values))
	for _, v := range values {
		id, err := mailer.ParseIdentity(v)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func decodeContent(raw json.RawMessage) ([]byte, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var encoded string
	if err := json.Unmarshal(raw, &encoded); err == nil {
		return base64.StdEncoding.DecodeString(encoded)
	}

	var values []byte
	var ints []int
	if err := json.Unmarshal(raw, &ints); err != nil {
		return nil, err
	}
	for _, v := range ints {
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("byte value %d out of range", v)
		}
		values = append(values, byte(v))
	}
	return values, nil
}
