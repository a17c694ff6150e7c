package compose

// Config holds composer defaults.
type Config struct {
	// From is the default sender, e.g. `Team <team@example.com>`.
	From            string `env:"COMPOSE_FROM"`
	FallbackSubject string `env:"COMPOSE_FALLBACK_SUBJECT" envDefault:"Notification"`
	DefaultLayout   string `env:"COMPOSE_DEFAULT_LAYOUT" envDefault:"base.html"`
}
