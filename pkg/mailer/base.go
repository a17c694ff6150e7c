package mailer

import "fmt"

// Base holds the transport and server token shared by provider Mailers.
// Provider packages embed it and call Dispatch from their Send method.
type Base struct {
	transport   Transport
	serverToken string
}

// NewBase validates and stores the transport and server token.
func NewBase(transport Transport, serverToken string) (*Base, error) {
	b := &Base{}
	if err := b.SetTransport(transport); err != nil {
		return nil, err
	}
	if err := b.SetServerToken(serverToken); err != nil {
		return nil, err
	}
	return b, nil
}

// Transport returns the configured transport.
func (b *Base) Transport() Transport {
	return b.transport
}

// SetTransport replaces the transport. A nil transport is rejected.
func (b *Base) SetTransport(transport Transport) error {
	if transport == nil {
		return fmt.Errorf("%w: transport cannot be nil", ErrInvalidConfiguration)
	}
	b.transport = transport
	return nil
}

// ServerToken returns the credential used to authenticate with the provider.
func (b *Base) ServerToken() string {
	return b.serverToken
}

// SetServerToken replaces the credential. An empty token is rejected and the
// previous value is kept.
func (b *Base) SetServerToken(serverToken string) error {
	if serverToken == "" {
		return fmt.Errorf("%w: server token cannot be empty", ErrInvalidConfiguration)
	}
	b.serverToken = serverToken
	return nil
}
