package transport

import (
	"context"

	"github.com/flint/Stampie/pkg/mailer"
)

// Func adapts an ordinary function to mailer.Transport.
type Func func(ctx context.Context, req *mailer.Request) (*mailer.Response, error)

// Call implements mailer.Transport.
func (f Func) Call(ctx context.Context, req *mailer.Request) (*mailer.Response, error) {
	return f(ctx, req)
}
