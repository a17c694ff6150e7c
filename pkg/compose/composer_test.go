package compose

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/flint/Stampie/pkg/mailer"
)

type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, msg *mailer.Message) (bool, error) {
	args := m.Called(ctx, msg)
	return args.Bool(0), args.Error(1)
}

func newTestComposer(sender mailer.Sender) *Composer {
	fsys := fstest.MapFS{
		"layouts/base.html": &fstest.MapFile{
			Data: []byte(`<html><body>{{.Content}}</body></html>`),
		},
		"welcome.md": &fstest.MapFile{
			Data: []byte("---\nSubject: Welcome {{.Name}}\n---\nHello **{{.Name}}**!\n"),
		},
		"plain.md": &fstest.MapFile{
			Data: []byte("No frontmatter for {{.Name}}"),
		},
	}

	return New(sender, NewRenderer(fsys), Config{
		From:            "Team <team@example.com>",
		FallbackSubject: "Note for {{.Name}}",
		DefaultLayout:   "base.html",
	})
}

var adaData = map[string]string{"Name": "Ada"}

func TestComposer_Compose(t *testing.T) {
	t.Parallel()

	c := newTestComposer(&MockSender{})

	msg, err := c.Compose(SendParams{
		To:       "Ada Lovelace <ada@example.com>",
		Template: "welcome.md",
		Data:     adaData,
		ReplyTo:  "support@example.com",
		CC:       []string{"a@example.com, b@example.com"},
		BCC:      []string{"Audit <audit@example.com>"},
		Tags:     mailer.SimpleTags("welcome"),
		Attachments: []mailer.Attachment{
			{Filename: "terms.txt", ContentType: "text/plain", Content: []byte("terms")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, mailer.Identity{Name: "Team", Address: "team@example.com"}, msg.From)
	assert.Equal(t, []mailer.Identity{{Name: "Ada Lovelace", Address: "ada@example.com"}}, msg.To)
	assert.Equal(t, "Welcome Ada", msg.Subject)
	assert.Contains(t, msg.HTML, "<strong>Ada</strong>")
	assert.Equal(t, "Hello **Ada**!\n", msg.Text)
	assert.Equal(t, []mailer.Identity{{Address: "support@example.com"}}, msg.ReplyTo)
	assert.Equal(t, []mailer.Identity{{Address: "a@example.com"}, {Address: "b@example.com"}}, msg.CC)
	assert.Equal(t, []mailer.Identity{{Name: "Audit", Address: "audit@example.com"}}, msg.BCC)
	assert.Equal(t, []string{"welcome"}, msg.Tags.Names())
	require.Len(t, msg.Attachments, 1)
	assert.Equal(t, "terms.txt", msg.Attachments[0].Filename)
}

func TestComposer_Compose_Subject(t *testing.T) {
	t.Parallel()

	c := newTestComposer(&MockSender{})

	tests := []struct {
		name     string
		params   SendParams
		expected string
	}{
		{
			name:     "override wins",
			params:   SendParams{To: "ada@example.com", Template: "welcome.md", Data: adaData, Subject: "Hi {{.Name}}!"},
			expected: "Hi Ada!",
		},
		{
			name:     "frontmatter",
			params:   SendParams{To: "ada@example.com", Template: "welcome.md", Data: adaData},
			expected: "Welcome Ada",
		},
		{
			name:     "fallback",
			params:   SendParams{To: "ada@example.com", Template: "plain.md", Data: adaData},
			expected: "Note for Ada",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			msg, err := c.Compose(tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, msg.Subject)
		})
	}
}

func TestComposer_Compose_Errors(t *testing.T) {
	t.Parallel()

	c := newTestComposer(&MockSender{})
	noFrom := New(&MockSender{}, c.renderer, Config{DefaultLayout: "base.html"})

	tests := []struct {
		name     string
		composer *Composer
		params   SendParams
		want     error
	}{
		{
			name:     "no recipient",
			composer: c,
			params:   SendParams{Template: "welcome.md"},
			want:     ErrNoRecipient,
		},
		{
			name:     "no sender",
			composer: noFrom,
			params:   SendParams{To: "ada@example.com", Template: "welcome.md"},
			want:     ErrNoSender,
		},
		{
			name:     "bad recipient",
			composer: c,
			params:   SendParams{To: "<<not an address", Template: "welcome.md"},
			want:     mailer.ErrInvalidArgument,
		},
		{
			name:     "missing template",
			composer: c,
			params:   SendParams{To: "ada@example.com", Template: "missing.md"},
			want:     ErrTemplateNotFound,
		},
		{
			name:     "bad subject template",
			composer: c,
			params:   SendParams{To: "ada@example.com", Template: "welcome.md", Data: adaData, Subject: "{{.Name"},
			want:     ErrRenderFailed,
		},
		{
			name:     "attachment without filename",
			composer: c,
			params: SendParams{
				To: "ada@example.com", Template: "welcome.md", Data: adaData,
				Attachments: []mailer.Attachment{{Content: []byte("x")}},
			},
			want: mailer.ErrInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := tt.composer.Compose(tt.params)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestComposer_Send(t *testing.T) {
	t.Parallel()

	sender := &MockSender{}
	c := newTestComposer(sender)

	sender.On("Send", mock.Anything, mock.MatchedBy(func(msg *mailer.Message) bool {
		return msg.To[0].Address == "ada@example.com" && msg.Subject == "Welcome Ada"
	})).Return(true, nil).Once()

	ok, err := c.Send(context.Background(), SendParams{
		To:       "ada@example.com",
		Template: "welcome.md",
		Data:     adaData,
	})
	require.NoError(t, err)
	assert.True(t, ok)
	sender.AssertExpectations(t)
}

func TestComposer_Send_ProviderError(t *testing.T) {
	t.Parallel()

	sender := &MockSender{}
	c := newTestComposer(sender)

	apiErr := &mailer.APIError{Provider: "postmark", StatusCode: 422, Code: 300, Message: "Invalid email request"}
	sender.On("Send", mock.Anything, mock.Anything).Return(false, apiErr).Once()

	ok, err := c.Send(context.Background(), SendParams{
		To:       "ada@example.com",
		Template: "welcome.md",
		Data:     adaData,
	})
	require.ErrorIs(t, err, ErrSendFailed)
	assert.False(t, ok)

	var target *mailer.APIError
	require.True(t, errors.As(err, &target))
	assert.Equal(t, 300, target.Code)
	sender.AssertExpectations(t)
}

func TestComposer_Send_RenderErrorSkipsSender(t *testing.T) {
	t.Parallel()

	sender := &MockSender{}
	c := newTestComposer(sender)

	_, err := c.Send(context.Background(), SendParams{To: "ada@example.com", Template: "missing.md"})
	require.ErrorIs(t, err, ErrRenderFailed)
	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestComposer_SendMessage(t *testing.T) {
	t.Parallel()

	sender := &MockSender{}
	c := newTestComposer(sender)

	_, err := c.SendMessage(context.Background(), nil)
	require.ErrorIs(t, err, ErrNoRecipient)

	msg, err := mailer.NewMessage("team@example.com", "ada@example.com", "Raw", mailer.WithText("hi"))
	require.NoError(t, err)

	sender.On("Send", mock.Anything, msg).Return(true, nil).Once()

	ok, err := c.SendMessage(context.Background(), msg)
	require.NoError(t, err)
	assert.True(t, ok)
	sender.AssertExpectations(t)
}
