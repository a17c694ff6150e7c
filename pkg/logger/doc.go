// Package logger builds slog loggers for applications that send mail through
// the mailer packages.
//
// Loggers are JSON (or text) handlers wrapped in a context handler that copies
// request-scoped values from the context into every record. Extractors for the
// provider name and the transport call ID are included:
//
//	log := logger.New(logger.Config{Level: "debug"},
//		logger.ProviderExtractor(),
//		logger.CallIDExtractor(),
//	)
//
//	ctx := logger.WithProvider(ctx, "postmark")
//	log.InfoContext(ctx, "message accepted")
//	// {"level":"INFO","msg":"message accepted","provider":"postmark"}
//
// # Sentry
//
// NewWithSentry additionally forwards warnings and errors to Sentry. With an
// empty DSN, or when the SDK fails to initialize, it falls back to the plain
// logger so the same code path works in development.
package logger
