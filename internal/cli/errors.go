package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/flint/Stampie/pkg/mailer"
)

var (
	// ErrNoBody indicates neither a body nor a template was given.
	ErrNoBody = errors.New("cli: one of --text, --html or --template is required")

	// ErrNoSubject indicates a message without template has no subject.
	ErrNoSubject = errors.New("cli: --subject is required without --template")

	// ErrNoSender indicates neither --from nor STAMPIE_FROM is set.
	ErrNoSender = errors.New("cli: --from or STAMPIE_FROM is required")

	// ErrSeparateCopies indicates --separate was combined with --cc or --bcc.
	ErrSeparateCopies = errors.New("cli: --separate cannot be combined with --cc or --bcc")

	// ErrNotAccepted indicates the provider did not accept the message.
	ErrNotAccepted = errors.New("cli: message was not accepted")
)

// reportError writes the provider detail carried by err, if any.
func reportError(w io.Writer, err error) {
	var apiErr *mailer.APIError
	if errors.As(err, &apiErr) {
		_, _ = fmt.Fprintf(w, "provider:    %s\n", apiErr.Provider)
		_, _ = fmt.Fprintf(w, "status:      %d\n", apiErr.StatusCode)
		if apiErr.Code != 0 {
			_, _ = fmt.Fprintf(w, "code:        %d\n", apiErr.Code)
		}
		if apiErr.Name != "" {
			_, _ = fmt.Fprintf(w, "name:        %s\n", apiErr.Name)
		}
		_, _ = fmt.Fprintf(w, "message:     %s\n", apiErr.Message)
		return
	}

	var httpErr *mailer.HTTPError
	if errors.As(err, &httpErr) {
		_, _ = fmt.Fprintf(w, "status:      %d\n", httpErr.StatusCode)
		_, _ = fmt.Fprintf(w, "body:        %s\n", httpErr.Body)
	}
}
