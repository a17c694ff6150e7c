package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Dispatch runs the send protocol shared by all providers: format the message,
// post it to the provider endpoint through the transport, and interpret the
// response. It returns true only for a 2xx response that passes the
// provider's success check. It never retries.
func Dispatch(ctx context.Context, transport Transport, p Provider, msg *Message) (bool, error) {
	if transport == nil {
		return false, fmt.Errorf("%w: transport cannot be nil", ErrInvalidConfiguration)
	}
	if p == nil {
		return false, fmt.Errorf("%w: provider cannot be nil", ErrInvalidConfiguration)
	}
	if msg == nil {
		return false, fmt.Errorf("%w: message cannot be nil", ErrInvalidArgument)
	}

	endpoint := p.Endpoint()

	headers := map[string]string{}
	if hp, ok := p.(HeaderProvider); ok {
		headers = hp.Headers()
	}

	body, err := p.Format(msg)
	if err != nil {
		return false, errors.Join(ErrFormatFailed, err)
	}

	resp, err := transport.Call(ctx, &Request{
		Method:  http.MethodPost,
		URL:     endpoint,
		Body:    body,
		Headers: headers,
	})
	if err != nil {
		return false, errors.Join(ErrTransportFailed, err)
	}
	if resp == nil {
		return false, ErrNilResponse
	}

	if resp.IsSuccessful() && verifySuccess(p, resp) {
		return true, nil
	}

	if err := p.HandleFailure(resp); err != nil {
		return false, err
	}
	// The failure hook must not turn a rejected response into success.
	return false, NewHTTPError(resp)
}

func verifySuccess(p Provider, resp *Response) bool {
	if v, ok := p.(SuccessVerifier); ok {
		return v.VerifySuccess(resp)
	}
	return true
}
