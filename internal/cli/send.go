package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/flint/Stampie/pkg/compose"
	"github.com/flint/Stampie/pkg/config"
	"github.com/flint/Stampie/pkg/logger"
	"github.com/flint/Stampie/pkg/mailer"
)

type sendFlags struct {
	vars         map[string]string
	from         string
	replyTo      string
	subject      string
	text         string
	html         string
	template     string
	templatesDir string
	layout       string
	data         string
	to           []string
	cc           []string
	bcc          []string
	tags         []string
	attach       []string
	headers      []string
	concurrency  int
	separate     bool
	dryRun       bool
}

func (a *App) sendCommand() *cobra.Command {
	f := &sendFlags{}

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a message through the configured provider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runSend(cmd, f)
		},
	}

	fl := cmd.Flags()
	fl.StringArrayVar(&f.to, "to", nil, "recipient mailbox, repeatable or comma separated")
	fl.StringArrayVar(&f.cc, "cc", nil, "carbon copy mailbox")
	fl.StringArrayVar(&f.bcc, "bcc", nil, "blind carbon copy mailbox")
	fl.StringVar(&f.from, "from", "", "sender mailbox (default STAMPIE_FROM)")
	fl.StringVar(&f.replyTo, "reply-to", "", "reply-to mailbox")
	fl.StringVar(&f.subject, "subject", "", "subject, a Go template when --template is used")
	fl.StringVar(&f.text, "text", "", "plain text body")
	fl.StringVar(&f.html, "html", "", "HTML body")
	fl.StringVar(&f.template, "template", "", "markdown template file to render")
	fl.StringVar(&f.templatesDir, "templates-dir", "", "template directory (default STAMPIE_TEMPLATES_DIR)")
	fl.StringVar(&f.layout, "layout", "", "layout file under <templates-dir>/layouts")
	fl.StringVar(&f.data, "data", "", "template data as a JSON object")
	fl.StringToStringVar(&f.vars, "var", nil, "template variable as key=value, overrides --data")
	fl.StringArrayVar(&f.tags, "tag", nil, "tag name")
	fl.StringArrayVar(&f.attach, "attach", nil, "file to attach")
	fl.StringArrayVar(&f.headers, "header", nil, "custom header as Name: value")
	fl.BoolVar(&f.separate, "separate", false, "send one message per --to recipient")
	fl.IntVar(&f.concurrency, "concurrency", 4, "parallel sends with --separate")
	fl.BoolVar(&f.dryRun, "dry-run", false, "print the message instead of sending it")

	_ = cmd.MarkFlagRequired("to")
	cmd.MarkFlagsMutuallyExclusive("template", "text")
	cmd.MarkFlagsMutuallyExclusive("template", "html")

	return cmd
}

func (a *App) runSend(cmd *cobra.Command, f *sendFlags) error {
	if f.separate && (len(f.cc) > 0 || len(f.bcc) > 0) {
		return ErrSeparateCopies
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	log := a.logger(cfg, cmd)
	ctx := logger.WithProvider(cmd.Context(), cfg.Provider)

	sender, err := cfg.NewSender(a.newTransport(cfg, log))
	if err != nil {
		return err
	}

	msg, err := a.buildMessage(cfg, sender, f)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if f.dryRun {
		return writePreview(out, msg)
	}

	if !f.separate {
		if err := deliver(ctx, sender, msg); err != nil {
			log.ErrorContext(ctx, "send failed", slog.String("error", err.Error()))
			reportError(cmd.ErrOrStderr(), err)
			return err
		}
		_, _ = fmt.Fprintf(out, "sent %q to %s\n", msg.Subject, mailer.JoinIdentities(msg.To))
		return nil
	}

	return deliverEach(ctx, cmd, log, sender, msg, f.concurrency)
}

func deliver(ctx context.Context, sender mailer.Sender, msg *mailer.Message) error {
	ok, err := sender.Send(ctx, msg)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotAccepted
	}
	return nil
}

// deliverEach sends a copy of msg to every recipient. All sends run even if
// some fail; the failures are joined.
func deliverEach(ctx context.Context, cmd *cobra.Command, log *slog.Logger, sender mailer.Sender, msg *mailer.Message, limit int) error {
	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	g.SetLimit(max(limit, 1))

	for _, rcpt := range msg.To {
		single := *msg
		single.To = []mailer.Identity{rcpt}

		g.Go(func() error {
			err := deliver(ctx, sender, &single)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.ErrorContext(ctx, "send failed",
					slog.String("to", rcpt.Address),
					slog.String("error", err.Error()),
				)
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "failed %s: %v\n", rcpt, err)
				reportError(cmd.ErrOrStderr(), err)
				errs = append(errs, fmt.Errorf("%s: %w", rcpt.Address, err))
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "sent %q to %s\n", single.Subject, rcpt)
			return nil
		})
	}

	_ = g.Wait()
	return errors.Join(errs...)
}

func (a *App) buildMessage(cfg *config.Config, sender mailer.Sender, f *sendFlags) (*mailer.Message, error) {
	attachments, err := readAttachments(f.attach)
	if err != nil {
		return nil, err
	}
	headers, err := parseHeaders(f.headers)
	if err != nil {
		return nil, err
	}
	var tags mailer.Tags
	if len(f.tags) > 0 {
		tags = mailer.SimpleTags(f.tags...)
	}

	var msg *mailer.Message
	if f.template != "" {
		msg, err = a.composeMessage(cfg, sender, f, attachments, tags)
	} else {
		msg, err = plainMessage(cfg, f, attachments, tags)
	}
	if err != nil {
		return nil, err
	}

	if len(headers) > 0 {
		if msg.Headers == nil {
			msg.Headers = make(map[string]string, len(headers))
		}
		maps.Copy(msg.Headers, headers)
	}
	return msg, nil
}

func (a *App) composeMessage(cfg *config.Config, sender mailer.Sender, f *sendFlags, attachments []mailer.Attachment, tags mailer.Tags) (*mailer.Message, error) {
	data, err := templateData(f.data, f.vars)
	if err != nil {
		return nil, err
	}

	dir := f.templatesDir
	if dir == "" {
		dir = cfg.TemplatesDir
	}

	c := compose.New(sender, compose.NewRenderer(a.openDir(dir)), cfg.ComposeConfig())
	return c.Compose(compose.SendParams{
		To:          strings.Join(f.to, ", "),
		Template:    f.template,
		Data:        data,
		Subject:     f.subject,
		Layout:      f.layout,
		From:        f.from,
		ReplyTo:     f.replyTo,
		CC:          f.cc,
		BCC:         f.bcc,
		Attachments: attachments,
		Tags:        tags,
	})
}

func plainMessage(cfg *config.Config, f *sendFlags, attachments []mailer.Attachment, tags mailer.Tags) (*mailer.Message, error) {
	if f.text == "" && f.html == "" {
		return nil, ErrNoBody
	}
	if f.subject == "" {
		return nil, ErrNoSubject
	}

	fromAddr := lo.CoalesceOrEmpty(f.from, cfg.From)
	if fromAddr == "" {
		return nil, ErrNoSender
	}
	from, err := mailer.ParseIdentity(fromAddr)
	if err != nil {
		return nil, fmt.Errorf("from: %w", err)
	}

	to, err := parseMailboxes(f.to)
	if err != nil {
		return nil, fmt.Errorf("to: %w", err)
	}
	cc, err := parseMailboxes(f.cc)
	if err != nil {
		return nil, fmt.Errorf("cc: %w", err)
	}
	bcc, err := parseMailboxes(f.bcc)
	if err != nil {
		return nil, fmt.Errorf("bcc: %w", err)
	}

	opts := []mailer.MessageOption{mailer.WithText(f.text), mailer.WithHTML(f.html)}
	if len(cc) > 0 {
		opts = append(opts, mailer.WithCC(cc))
	}
	if len(bcc) > 0 {
		opts = append(opts, mailer.WithBCC(bcc))
	}
	if f.replyTo != "" {
		replyTo, err := mailer.ParseIdentities(f.replyTo)
		if err != nil {
			return nil, fmt.Errorf("reply-to: %w", err)
		}
		opts = append(opts, mailer.WithReplyTo(replyTo))
	}
	if len(tags) > 0 {
		opts = append(opts, mailer.WithTags(tags))
	}
	for _, att := range attachments {
		opts = append(opts, mailer.WithAttachment(att))
	}

	return mailer.NewMessage(from, to, f.subject, opts...)
}

func parseMailboxes(values []string) ([]mailer.Identity, error) {
	var out []mailer.Identity
	for _, v := range values {
		ids, err := mailer.ParseIdentities(v)
		if err != nil {
			return nil, err
		}
		out = append(out, ids...)
	}
	return out, nil
}

func templateData(raw string, vars map[string]string) (map[string]any, error) {
	data := map[string]any{}
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			return nil, fmt.Errorf("--data: %w", err)
		}
	}
	for k, v := range vars {
		data[k] = v
	}
	return data, nil
}

func parseHeaders(values []string) (map[string]string, error) {
	headers := make(map[string]string, len(values))
	for _, v := range values {
		name, value, ok := strings.Cut(v, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("--header %q: expected Name: value", v)
		}
		headers[name] = strings.TrimSpace(value)
	}
	return headers, nil
}

func readAttachments(paths []string) ([]mailer.Attachment, error) {
	attachments := make([]mailer.Attachment, 0, len(paths))
	for _, p := range paths {
		content, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("--attach: %w", err)
		}
		attachments = append(attachments, mailer.Attachment{
			Filename:    filepath.Base(p),
			ContentType: contentType(p, content),
			Content:     content,
		})
	}
	return attachments, nil
}

func contentType(name string, content []byte) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return http.DetectContentType(content)
}
