package config

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/flint/Stampie/pkg/mailer"
	"github.com/flint/Stampie/pkg/mailer/postmark"
	"github.com/flint/Stampie/pkg/mailer/resend"
	"github.com/flint/Stampie/pkg/mailer/sendgrid"
	"github.com/flint/Stampie/pkg/transport"
)

// NewTransport builds the HTTP transport described by the config, wrapped
// with call logging when log is not nil.
func (c *Config) NewTransport(log *slog.Logger) mailer.Transport {
	opts := []transport.Option{
		transport.WithHTTPClient(&http.Client{Timeout: c.Timeout}),
	}
	if c.UserAgent != "" {
		opts = append(opts, transport.WithUserAgent(c.UserAgent))
	}

	var t mailer.Transport = transport.NewHTTP(opts...)
	if log != nil {
		t = transport.Logging(t, log)
	}
	return t
}

// NewSender builds the configured provider Mailer on top of t.
func (c *Config) NewSender(t mailer.Transport) (mailer.Sender, error) {
	switch c.Provider {
	case ProviderPostmark:
		var opts []postmark.Option
		if c.Endpoint != "" {
			opts = append(opts, postmark.WithEndpoint(c.Endpoint))
		}
		m, err := postmark.New(t, c.ServerToken, opts...)
		if err != nil {
			return nil, err
		}
		return m, nil
	case ProviderSendGrid:
		var opts []sendgrid.Option
		if c.Endpoint != "" {
			opts = append(opts, sendgrid.WithEndpoint(c.Endpoint))
		}
		m, err := sendgrid.New(t, c.ServerToken, opts...)
		if err != nil {
			return nil, err
		}
		return m, nil
	case ProviderResend:
		var opts []resend.Option
		if c.Endpoint != "" {
			opts = append(opts, resend.WithEndpoint(c.Endpoint))
		}
		m, err := resend.New(t, c.ServerToken, opts...)
		if err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, c.Provider)
	}
}
