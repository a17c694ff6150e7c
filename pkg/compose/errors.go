package compose

import "errors"

var (
	// ErrNoRecipient indicates no recipient was specified.
	ErrNoRecipient = errors.New("compose: message must have at least one recipient")

	// ErrNoSender indicates neither the params nor the config provide a sender.
	ErrNoSender = errors.New("compose: message must have a sender")

	// ErrTemplateNotFound indicates the template file was not found.
	ErrTemplateNotFound = errors.New("compose: template not found")

	// ErrLayoutNotFound indicates the layout file was not found.
	ErrLayoutNotFound = errors.New("compose: layout not found")

	// ErrRenderFailed indicates template rendering failed.
	ErrRenderFailed = errors.New("compose: failed to render template")

	// ErrInvalidFrontmatter indicates invalid YAML frontmatter.
	ErrInvalidFrontmatter = errors.New("compose: invalid frontmatter")

	// ErrSendFailed wraps errors returned by the underlying mailer.Sender.
	ErrSendFailed = errors.New("compose: failed to send message")
)
