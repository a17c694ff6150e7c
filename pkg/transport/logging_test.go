package transport_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flint/Stampie/pkg/logger"
	"github.com/flint/Stampie/pkg/mailer"
	"github.com/flint/Stampie/pkg/transport"
)

func TestLogging_PassesThroughAndLogs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.Config{Output: &buf, Level: "debug"}, logger.CallIDExtractor())

	var seenCallID string
	next := transport.Func(func(ctx context.Context, _ *mailer.Request) (*mailer.Response, error) {
		seenCallID, _ = logger.CallID(ctx)
		return &mailer.Response{StatusCode: http.StatusOK, Body: []byte("{}")}, nil
	})

	resp, err := transport.Logging(next, log).Call(context.Background(), &mailer.Request{
		Method: http.MethodPost,
		URL:    "https://api.example.com/email",
		Body:   []byte("secret body"),
	})

	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, seenCallID)

	out := buf.String()
	require.Contains(t, out, "provider call completed")
	require.Contains(t, out, seenCallID)
	require.NotContains(t, out, "secret body")
}

func TestLogging_Rejected(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.Config{Output: &buf, Level: "warn"})

	next := transport.Func(func(context.Context, *mailer.Request) (*mailer.Response, error) {
		return &mailer.Response{StatusCode: http.StatusUnprocessableEntity}, nil
	})

	_, err := transport.Logging(next, log).Call(context.Background(), &mailer.Request{URL: "https://x"})

	require.NoError(t, err)
	require.Contains(t, buf.String(), "provider call rejected")
	require.Contains(t, buf.String(), `"status":422`)
}

func TestLogging_Error(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.Config{Output: &buf})
	callErr := errors.New("dial tcp: refused")

	next := transport.Func(func(context.Context, *mailer.Request) (*mailer.Response, error) {
		return nil, callErr
	})

	resp, err := transport.Logging(next, log).Call(context.Background(), &mailer.Request{URL: "https://x"})

	require.Nil(t, resp)
	require.ErrorIs(t, err, callErr)
	require.Contains(t, buf.String(), "dial tcp: refused")
}

func TestLogging_NilLogger(t *testing.T) {
	t.Parallel()

	next := transport.Func(func(context.Context, *mailer.Request) (*mailer.Response, error) {
		return &mailer.Response{StatusCode: http.StatusOK}, nil
	})

	resp, err := transport.Logging(next, nil).Call(context.Background(), &mailer.Request{URL: "https://x"})

	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
