package postmark

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/flint/Stampie/pkg/mailer"
)

type payload struct {
	From        string       `json:"From"`
	To          string       `json:"To"`
	Cc          string       `json:"Cc,omitempty"`
	Bcc         string       `json:"Bcc,omitempty"`
	ReplyTo     string       `json:"ReplyTo,omitempty"`
	Subject     string       `json:"Subject"`
	HTMLBody    string       `json:"HtmlBody,omitempty"`
	TextBody    string       `json:"TextBody,omitempty"`
	Tag         string       `json:"Tag,omitempty"`
	Headers     []header     `json:"Headers,omitempty"`
	Attachments []attachment `json:"Attachments,omitempty"`
}

type header struct {
	Name  string `json:"Name"`
	Value string `json:"Value"`
}

type attachment struct {
	Name        string `json:"Name"`
	Content     string `json:"Content"`
	ContentType string `json:"ContentType"`
	ContentID   string `json:"ContentID,omitempty"`
}

// result is the response body for both accepted and rejected messages.
type result struct {
	MessageID string `json:"MessageID"`
	Message   string `json:"Message"`
	ErrorCode int    `json:"ErrorCode"`
}

// Parse decodes a payload produced by Format back into a message.
func Parse(body []byte) (*mailer.Message, error) {
	var p payload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("%w: decode postmark payload: %v", mailer.ErrInvalidArgument, err)
	}

	from, err := mailer.ParseIdentity(p.From)
	if err != nil {
		return nil, err
	}

	msg := &mailer.Message{
		From:    from,
		Subject: p.Subject,
		HTML:    p.HTMLBody,
		Text:    p.TextBody,
	}

	if msg.To, err = mailer.ParseIdentities(p.To); err != nil {
		return nil, err
	}
	if msg.CC, err = mailer.ParseIdentities(p.Cc); err != nil {
		return nil, err
	}
	if msg.BCC, err = mailer.ParseIdentities(p.Bcc); err != nil {
		return nil, err
	}
	if msg.ReplyTo, err = mailer.ParseIdentities(p.ReplyTo); err != nil {
		return nil, err
	}

	if p.Tag != "" {
		msg.Tags = mailer.SimpleTags(p.Tag)
	}

	if len(p.Headers) > 0 {
		msg.Headers = make(map[string]string, len(p.Headers))
		for _, h := range p.Headers {
			msg.Headers[h.Name] = h.Value
		}
	}

	for _, a := range p.Attachments {
		content, err := base64.StdEncoding.DecodeString(a.Content)
		if err != nil {
			return nil, fmt.Errorf("%w: attachment %s: %v", mailer.ErrInvalidArgument, a.Name, err)
		}
		msg.Attachments = append(msg.Attachments, mailer.Attachment{
			Filename:    a.Name,
			ContentType: a.ContentType,
			ContentID:   a.ContentID,
			Content:     content,
		})
	}

	return msg, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
