// Package config loads Stampie settings from the environment.
//
// Variables are read with github.com/caarlos0/env and checked with
// github.com/go-playground/validator before any provider is built:
//
//	STAMPIE_PROVIDER      postmark | sendgrid | resend (default postmark)
//	STAMPIE_SERVER_TOKEN  provider credential; "user:password" for sendgrid
//	STAMPIE_FROM          default sender mailbox
//	STAMPIE_ENDPOINT      overrides the provider endpoint
//	STAMPIE_TIMEOUT       HTTP timeout (default 30s)
//	STAMPIE_USER_AGENT    User-Agent sent to the provider
//	LOG_LEVEL, LOG_FORMAT, SENTRY_DSN, SENTRY_ENVIRONMENT
//	COMPOSE_FROM, COMPOSE_FALLBACK_SUBJECT, COMPOSE_DEFAULT_LAYOUT
//	STAMPIE_TEMPLATES_DIR  template root; layouts live in its layouts/ dir
//
// Config.NewSender turns a loaded Config into the matching provider Mailer.
package config
