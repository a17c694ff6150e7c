package config

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/flint/Stampie/pkg/compose"
	"github.com/flint/Stampie/pkg/logger"
)

// Supported provider names.
const (
	ProviderPostmark = "postmark"
	ProviderSendGrid = "sendgrid"
	ProviderResend   = "resend"
)

// Config is the application configuration.
type Config struct {
	Sentry       logger.SentryConfig
	Log          logger.Config
	Compose      compose.Config
	Provider     string        `env:"STAMPIE_PROVIDER" envDefault:"postmark" validate:"required,oneof=postmark sendgrid resend"`
	ServerToken  string        `env:"STAMPIE_SERVER_TOKEN" validate:"required"`
	From         string        `env:"STAMPIE_FROM" validate:"omitempty,mailbox"`
	Endpoint     string        `env:"STAMPIE_ENDPOINT" validate:"omitempty,url"`
	UserAgent    string        `env:"STAMPIE_USER_AGENT"`
	TemplatesDir string        `env:"STAMPIE_TEMPLATES_DIR" envDefault:"templates"`
	Timeout      time.Duration `env:"STAMPIE_TIMEOUT" envDefault:"30s" validate:"gt=0"`
}

// Load reads the configuration from the process environment.
func Load() (*Config, error) {
	return load(env.Options{})
}

// LoadFrom reads the configuration from the given variables instead of the
// process environment.
func LoadFrom(vars map[string]string) (*Config, error) {
	return load(env.Options{Environment: vars})
}

func load(opts env.Options) (*Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](opts)
	if err != nil {
		return nil, errors.Join(ErrParse, err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ComposeConfig returns the composer defaults, using From as the default sender.
func (c *Config) ComposeConfig() compose.Config {
	cc := c.Compose
	if cc.From == "" {
		cc.From = c.From
	}
	return cc
}
