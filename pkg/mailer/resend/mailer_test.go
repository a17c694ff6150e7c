package resend_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flint/Stampie/pkg/mailer"
	"github.com/flint/Stampie/pkg/mailer/resend"
	"github.com/flint/Stampie/pkg/transport"
)

func newMessage(t *testing.T) *mailer.Message {
	t.Helper()
	msg, err := mailer.NewMessage(
		mailer.NewIdentity("Team", "team@example.com"),
		"user@example.com",
		"Welcome",
		mailer.WithHTML("<p>Hello!</p>"),
		mailer.WithText("Hello!"),
		mailer.WithCC([]string{"cc@example.com"}),
		mailer.WithReplyTo("reply@example.com"),
		mailer.WithTags(mailer.Tags{"welcome": struct{}{}, "tier": "pro", "attempt": 2}),
	)
	require.NoError(t, err)
	return msg
}

func TestNew(t *testing.T) {
	t.Parallel()

	m, err := resend.New(transport.NewHTTP(), "re_123")
	require.NoError(t, err)
	require.Equal(t, resend.DefaultEndpoint, m.Endpoint())
	require.Equal(t, "Bearer re_123", m.Headers()["Authorization"])

	m, err = resend.New(transport.NewHTTP(), "")
	require.ErrorIs(t, err, mailer.ErrInvalidConfiguration)
	require.Nil(t, m)
}

func TestMailer_Format(t *testing.T) {
	t.Parallel()

	m, err := resend.New(transport.NewHTTP(), "re_123")
	require.NoError(t, err)

	body, err := m.Format(newMessage(t))
	require.NoError(t, err)

	var got struct {
		From    string   `json:"from"`
		Subject string   `json:"subject"`
		HTML    string   `json:"html"`
		Text    string   `json:"text"`
		ReplyTo string   `json:"reply_to"`
		To      []string `json:"to"`
		Cc      []string `json:"cc"`
		Tags    []struct {
			Name  string `json:"name"`
			Value string `json:"value"`
		} `json:"tags"`
	}
	require.NoError(t, json.Unmarshal(body, &got))

	require.Equal(t, "Team <team@example.com>", got.From)
	require.Equal(t, []string{"user@example.com"}, got.To)
	require.Equal(t, []string{"cc@example.com"}, got.Cc)
	require.Equal(t, "reply@example.com", got.ReplyTo)
	require.Equal(t, "Welcome", got.Subject)
	require.Equal(t, "<p>Hello!</p>", got.HTML)
	require.Equal(t, "Hello!", got.Text)

	require.Len(t, got.Tags, 3)
	tags := map[string]string{}
	for _, tag := range got.Tags {
		tags[tag.Name] = tag.Value
	}
	require.Equal(t, map[string]string{"welcome": "true", "tier": "pro", "attempt": "2"}, tags)
}

func TestMailer_Format_RoundTrip(t *testing.T) {
	t.Parallel()

	m, err := resend.New(transport.NewHTTP(), "re_123")
	require.NoError(t, err)

	msg, err := mailer.NewMessage(
		mailer.NewIdentity("Doe, Jane", "jane@example.com"),
		[]any{mailer.NewIdentity("José Ñ", "jose@example.com"), "bob@example.com"},
		"Quarterly report",
		mailer.WithHTML("<p>Numbers</p>"),
		mailer.WithText("Numbers"),
		mailer.WithCC(mailer.NewIdentity(`Ann "A" (ops)`, "ann@example.com")),
		mailer.WithBCC("audit@example.com"),
		mailer.WithReplyTo(mailer.NewIdentity("Support", "support@example.com")),
		mailer.WithHeader("X-Entity-Ref-ID", "42"),
		mailer.WithTags(mailer.Tags{"tier": "pro"}),
		mailer.WithAttachment(mailer.Attachment{Filename: "q3.csv", Content: []byte("a,b\n1,2\n")}),
	)
	require.NoError(t, err)

	body, err := m.Format(msg)
	require.NoError(t, err)

	parsed, err := resend.Parse(body)
	require.NoError(t, err)

	require.Equal(t, msg.From, parsed.From)
	require.Equal(t, msg.To, parsed.To)
	require.Equal(t, msg.CC, parsed.CC)
	require.Equal(t, msg.BCC, parsed.BCC)
	require.Equal(t, msg.ReplyTo, parsed.ReplyTo)
	require.Equal(t, msg.Subject, parsed.Subject)
	require.Equal(t, msg.HTML, parsed.HTML)
	require.Equal(t, msg.Text, parsed.Text)
	require.Equal(t, msg.Headers, parsed.Headers)
	require.Equal(t, mailer.Tags{"tier": "pro"}, parsed.Tags)
	require.Len(t, parsed.Attachments, 1)
	require.Equal(t, "q3.csv", parsed.Attachments[0].Filename)
	require.Equal(t, []byte("a,b\n1,2\n"), parsed.Attachments[0].Content)
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	_, err := resend.Parse([]byte("not json"))
	require.ErrorIs(t, err, mailer.ErrInvalidArgument)

	_, err = resend.Parse([]byte(`{"from":"<<bad","to":["a@example.com"]}`))
	require.ErrorIs(t, err, mailer.ErrInvalidArgument)
}

func TestMailer_Send(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer re_123", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), `"subject":"Welcome"`)
		_, _ = w.Write([]byte(`{"id":"49a3999c-0ce1-4ea6-ab68-afcd6dc2e794"}`))
	}))
	t.Cleanup(srv.Close)

	m, err := resend.New(transport.NewHTTP(), "re_123", resend.WithEndpoint(srv.URL))
	require.NoError(t, err)

	ok, err := m.Send(context.Background(), newMessage(t))
	require.NoError(t, err)
	require.True(t, ok)
}

func TestMailer_Send_ValidationError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"statusCode":422,"name":"validation_error","message":"Invalid from field."}`))
	}))
	t.Cleanup(srv.Close)

	m, err := resend.New(transport.NewHTTP(), "re_123", resend.WithEndpoint(srv.URL))
	require.NoError(t, err)

	ok, err := m.Send(context.Background(), newMessage(t))
	require.False(t, ok)

	var apiErr *mailer.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, resend.ProviderName, apiErr.Provider)
	require.Equal(t, "validation_error", apiErr.Name)
	require.Equal(t, "Invalid from field.", apiErr.Message)
	require.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
}

func TestMailer_Send_SuccessWithoutID(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)

	m, err := resend.New(transport.NewHTTP(), "re_123", resend.WithEndpoint(srv.URL))
	require.NoError(t, err)

	ok, err := m.Send(context.Background(), newMessage(t))
	require.False(t, ok)

	var httpErr *mailer.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusOK, httpErr.StatusCode)
}
