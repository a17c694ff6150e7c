package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flint/Stampie/pkg/config"
	"github.com/flint/Stampie/pkg/dnsverify"
	"github.com/flint/Stampie/pkg/mailer"
)

// senderRecords describes where a provider expects its DNS records.
type senderRecords struct {
	spfHost      string // prefix added to the domain for the SPF lookup
	include      string
	dkimSelector string
}

var providerRecords = map[string]senderRecords{
	config.ProviderPostmark: {include: "spf.mtasv.net"},
	config.ProviderSendGrid: {include: "sendgrid.net", dkimSelector: "s1"},
	config.ProviderResend:   {spfHost: "send.", include: "amazonses.com", dkimSelector: "resend"},
}

// ErrDomainNotReady indicates at least one DNS check failed.
var ErrDomainNotReady = errors.New("cli: domain is not set up for the provider")

func (a *App) checkDomainCommand() *cobra.Command {
	var include, selector string

	cmd := &cobra.Command{
		Use:   "check-domain [domain]",
		Short: "Check the SPF and DKIM records of a sender domain",
		Long: "Check that a sender domain publishes the SPF and DKIM records the " +
			"configured provider needs. The domain defaults to the one in STAMPIE_FROM.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}

			domain, err := senderDomain(cfg, args)
			if err != nil {
				return err
			}

			rec := providerRecords[cfg.Provider]
			if include != "" {
				rec.include = include
			}
			if selector != "" {
				rec.dkimSelector = selector
			}

			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			var failed []error

			spfDomain := rec.spfHost + domain
			if txt, err := dnsverify.CheckSPF(ctx, a.resolver, spfDomain, rec.include); err != nil {
				failed = append(failed, err)
				_, _ = fmt.Fprintf(out, "spf   %-28s FAIL %v\n", spfDomain, err)
			} else {
				_, _ = fmt.Fprintf(out, "spf   %-28s ok   %s\n", spfDomain, txt)
			}

			if rec.dkimSelector != "" {
				name := rec.dkimSelector + "._domainkey." + domain
				if _, err := dnsverify.CheckDKIM(ctx, a.resolver, domain, rec.dkimSelector); err != nil {
					failed = append(failed, err)
					_, _ = fmt.Fprintf(out, "dkim  %-28s FAIL %v\n", name, err)
				} else {
					_, _ = fmt.Fprintf(out, "dkim  %-28s ok\n", name)
				}
			}

			if len(failed) > 0 {
				return errors.Join(append([]error{ErrDomainNotReady}, failed...)...)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&include, "include", "", "SPF include to require instead of the provider default")
	cmd.Flags().StringVar(&selector, "dkim-selector", "", "DKIM selector to check instead of the provider default")

	return cmd
}

func senderDomain(cfg *config.Config, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	if cfg.From == "" {
		return "", ErrNoSender
	}

	from, err := mailer.ParseIdentity(cfg.From)
	if err != nil {
		return "", err
	}
	_, domain, ok := strings.Cut(from.Address, "@")
	if !ok || domain == "" {
		return "", fmt.Errorf("%w: %q has no domain", mailer.ErrInvalidArgument, from.Address)
	}
	return domain, nil
}
