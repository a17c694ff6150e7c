package logger

import (
	"context"
	"log/slog"
)

type ctxKey int

const (
	providerKey ctxKey = iota
	callIDKey
)

// ContextExtractor extracts a slog attribute from context.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

// WithProvider stores the provider name in the context.
func WithProvider(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, providerKey, name)
}

// WithCallID stores a transport call ID in the context.
func WithCallID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, callIDKey, id)
}

// CallID returns the call ID stored by WithCallID.
func CallID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(callIDKey).(string)
	return id, ok && id != ""
}

// ProviderExtractor adds a "provider" attribute when set with WithProvider.
func ProviderExtractor() ContextExtractor {
	return stringExtractor(providerKey, "provider")
}

// CallIDExtractor adds a "call_id" attribute when set with WithCallID.
func CallIDExtractor() ContextExtractor {
	return stringExtractor(callIDKey, "call_id")
}

func stringExtractor(key ctxKey, attr string) ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if v, ok := ctx.Value(key).(string); ok && v != "" {
			return slog.String(attr, v), true
		}
		return slog.Attr{}, false
	}
}
