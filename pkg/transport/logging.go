package transport

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/flint/Stampie/pkg/logger"
	"github.com/flint/Stampie/pkg/mailer"
)

type loggingTransport struct {
	next mailer.Transport
	log  *slog.Logger
}

// Logging wraps a transport and logs every call. Each call gets a fresh
// call ID, stored in the context passed to next so that loggers built with
// logger.CallIDExtractor pick it up. Request and response bodies are never
// logged. A nil logger disables logging.
func Logging(next mailer.Transport, log *slog.Logger) mailer.Transport {
	if log == nil {
		log = logger.NewNope()
	}
	return &loggingTransport{next: next, log: log}
}

func (t *loggingTransport) Call(ctx context.Context, req *mailer.Request) (*mailer.Response, error) {
	ctx = logger.WithCallID(ctx, uuid.NewString())
	start := time.Now()

	resp, err := t.next.Call(ctx, req)

	attrs := []any{
		slog.String("method", req.Method),
		slog.String("url", req.URL),
		slog.Int("request_bytes", len(req.Body)),
		slog.Duration("duration", time.Since(start)),
	}

	switch {
	case err != nil:
		t.log.ErrorContext(ctx, "provider call failed", append(attrs, slog.String("error", err.Error()))...)
	case resp == nil:
		t.log.ErrorContext(ctx, "provider call returned no response", attrs...)
	case !resp.IsSuccessful():
		t.log.WarnContext(ctx, "provider call rejected",
			append(attrs, slog.Int("status", resp.StatusCode), slog.Int("response_bytes", len(resp.Body)))...)
	default:
		t.log.DebugContext(ctx, "provider call completed",
			append(attrs, slog.Int("status", resp.StatusCode), slog.Int("response_bytes", len(resp.Body)))...)
	}

	return resp, err
}
