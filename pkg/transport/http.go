package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/flint/Stampie/pkg/mailer"
)

// DefaultUserAgent identifies the library to provider APIs.
const DefaultUserAgent = "stampie-go"

// HTTP implements mailer.Transport using net/http.
type HTTP struct {
	client      *http.Client
	userAgent   string
	maxBodySize int64
}

var _ mailer.Transport = (*HTTP)(nil)

// NewHTTP creates an HTTP transport. Without WithHTTPClient it uses
// http.DefaultClient.
func NewHTTP(opts ...Option) *HTTP {
	o := options{
		httpClient:  http.DefaultClient,
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.httpClient == nil {
		o.httpClient = http.DefaultClient
	}

	return &HTTP{
		client:      o.httpClient,
		userAgent:   o.userAgent,
		maxBodySize: o.maxBodySize,
	}
}

// Call implements mailer.Transport. Non-2xx responses are returned, not
// treated as errors.
func (t *HTTP) Call(ctx context.Context, req *mailer.Request) (*mailer.Response, error) {
	method := req.Method
	if method == "" {
		method = http.MethodPost
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, bytes.NewReader(req.Body))
	if err != nil {
		return nil, errors.Join(ErrBuildRequest, err)
	}

	if t.userAgent != "" {
		httpReq.Header.Set("User-Agent", t.userAgent)
	}
	for name, value := range req.Headers {
		httpReq.Header.Set(name, value)
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, errors.Join(ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	// Read one byte past the limit to detect oversized bodies.
	body, err := io.ReadAll(io.LimitReader(resp.Body, t.maxBodySize+1))
	if err != nil {
		return nil, errors.Join(ErrReadBody, err)
	}
	if int64(len(body)) > t.maxBodySize {
		return nil, errors.Join(ErrBodyTooLarge, fmt.Errorf("limit %d bytes", t.maxBodySize))
	}

	return &mailer.Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}
