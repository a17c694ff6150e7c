// Package compose renders markdown email templates and sends them through any
// mailer.Sender.
//
// Templates are markdown files with optional YAML frontmatter:
//
//	---
//	Subject: Welcome, {{.Name}}
//	---
//	Hello **{{.Name}}**,
//
//	[!button|Confirm your address](https://example.com/confirm?t={{.Token}})
//
// The body is executed as a text/template, converted to HTML with goldmark,
// sanitized with an email policy and placed into an html/template layout as
// {{.Content}}. The frontmatter is available to the layout as {{.Metadata}}.
//
// # Usage
//
//	sender, err := postmark.New(transport.NewHTTP(), token)
//	if err != nil {
//		return err
//	}
//
//	c := compose.New(sender, compose.NewRenderer(templatesFS), compose.Config{
//		From:            "Team <team@example.com>",
//		FallbackSubject: "Notification",
//		DefaultLayout:   "base.html",
//	})
//
//	ok, err := c.Send(ctx, compose.SendParams{
//		To:       "jane@example.com",
//		Template: "welcome.md",
//		Data:     map[string]any{"Name": "Jane", "Token": token},
//	})
//
// Subjects resolve in order: SendParams.Subject, the frontmatter Subject,
// Config.FallbackSubject. Whichever wins is executed as a template with the
// same data as the body.
package compose
