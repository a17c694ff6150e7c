package cli

import (
	"io/fs"
	"log/slog"
	"net"
	"os"

	"github.com/spf13/cobra"

	"github.com/flint/Stampie/pkg/config"
	"github.com/flint/Stampie/pkg/dnsverify"
	"github.com/flint/Stampie/pkg/logger"
	"github.com/flint/Stampie/pkg/mailer"
)

// App holds the dependencies of the command tree. The zero value is not
// usable; create one with New.
type App struct {
	loadConfig   func() (*config.Config, error)
	newTransport func(cfg *config.Config, log *slog.Logger) mailer.Transport
	openDir      func(dir string) fs.FS
	resolver     dnsverify.Resolver
}

// Option configures an App.
type Option func(*App)

// WithConfigLoader replaces config.Load.
func WithConfigLoader(load func() (*config.Config, error)) Option {
	return func(a *App) {
		a.loadConfig = load
	}
}

// WithTransport replaces the HTTP transport built from the config.
func WithTransport(fn func(cfg *config.Config, log *slog.Logger) mailer.Transport) Option {
	return func(a *App) {
		a.newTransport = fn
	}
}

// WithTemplatesFS replaces os.DirFS for template directories.
func WithTemplatesFS(open func(dir string) fs.FS) Option {
	return func(a *App) {
		a.openDir = open
	}
}

// WithResolver replaces net.DefaultResolver for DNS checks.
func WithResolver(r dnsverify.Resolver) Option {
	return func(a *App) {
		a.resolver = r
	}
}

// New creates an App wired to the process environment.
func New(opts ...Option) *App {
	a := &App{
		loadConfig:   config.Load,
		newTransport: (*config.Config).NewTransport,
		openDir:      os.DirFS,
		resolver:     net.DefaultResolver,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// RootCommand builds the command tree.
func (a *App) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "stampie",
		Short:         "Send transactional email through provider HTTP APIs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(a.sendCommand(), a.checkDomainCommand())
	return root
}

func (a *App) logger(cfg *config.Config, cmd *cobra.Command) *slog.Logger {
	lc := cfg.Log
	lc.Output = cmd.ErrOrStderr()
	return logger.NewWithSentry(lc, cfg.Sentry,
		logger.ProviderExtractor(),
		logger.CallIDExtractor(),
	)
}
