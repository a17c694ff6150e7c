package cli_test

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flint/Stampie/internal/cli"
	"github.com/flint/Stampie/pkg/config"
	"github.com/flint/Stampie/pkg/dnsverify"
)

type staticResolver map[string][]string

func (s staticResolver) LookupTXT(_ context.Context, name string) ([]string, error) {
	if rec, ok := s[name]; ok {
		return rec, nil
	}
	return nil, &net.DNSError{Err: "no such host", Name: name, IsNotFound: true}
}

func newDomainApp(provider string, r staticResolver) *cli.App {
	env := map[string]string{
		"STAMPIE_PROVIDER":     provider,
		"STAMPIE_SERVER_TOKEN": "user:secret",
		"STAMPIE_FROM":         "Team <team@example.com>",
	}
	return cli.New(
		cli.WithConfigLoader(func() (*config.Config, error) { return config.LoadFrom(env) }),
		cli.WithResolver(r),
	)
}

func TestCheckDomain_FromConfig(t *testing.T) {
	t.Parallel()

	app := newDomainApp(config.ProviderSendGrid, staticResolver{
		"example.com":               {"v=spf1 include:sendgrid.net ~all"},
		"s1._domainkey.example.com": {"k=rsa; p=MIGf"},
	})

	stdout, _, err := run(t, app, "check-domain")
	require.NoError(t, err)
	assert.Contains(t, stdout, "include:sendgrid.net")
	assert.Contains(t, stdout, "s1._domainkey.example.com")
}

func TestCheckDomain_Argument(t *testing.T) {
	t.Parallel()

	app := newDomainApp(config.ProviderResend, staticResolver{
		"send.mail.example.org":              {"v=spf1 include:amazonses.com ~all"},
		"resend._domainkey.mail.example.org": {"p=MIGf"},
	})

	_, _, err := run(t, app, "check-domain", "mail.example.org")
	require.NoError(t, err)
}

func TestCheckDomain_Failures(t *testing.T) {
	t.Parallel()

	app := newDomainApp(config.ProviderPostmark, staticResolver{
		"example.com": {"v=spf1 mx -all"},
	})

	stdout, _, err := run(t, app, "check-domain")
	require.ErrorIs(t, err, cli.ErrDomainNotReady)
	require.ErrorIs(t, err, dnsverify.ErrIncludeMissing)
	assert.Contains(t, stdout, "FAIL")

	_, _, err = run(t, app, "check-domain", "--include", "spf.example.net", "--dkim-selector", "pm")
	require.ErrorIs(t, err, dnsverify.ErrIncludeMissing)
	require.ErrorIs(t, err, dnsverify.ErrRecordNotFound)
}
