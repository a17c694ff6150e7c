package compose

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"io/fs"
	"path"
	"sync"
	"text/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"

	"github.com/flint/Stampie/pkg/sanitizer"
)

// RendererConfig configures the renderer.
type RendererConfig struct {
	// Policy sanitizes the HTML produced from markdown before it is placed in
	// the layout. Default: sanitizer.EmailPolicy().
	Policy      *bluemonday.Policy
	TemplateDir string // Default: "."
	LayoutDir   string // Default: "layouts"
	// DisableSanitize skips the policy; use only for fully trusted data.
	DisableSanitize bool
}

// RenderResult contains the rendered HTML, plain text and template metadata.
type RenderResult struct {
	Metadata map[string]any
	HTML     string
	Text     string // Executed markdown, before HTML conversion
}

// Renderer turns markdown templates with YAML frontmatter into HTML wrapped in
// a layout. Parsed templates and layouts are cached; rendered output is not.
// A Renderer is safe for concurrent use.
type Renderer struct {
	fs          fs.FS
	md          goldmark.Markdown
	policy      *bluemonday.Policy
	templates   cache[*compiledTemplate]
	layouts     cache[*htmltemplate.Template]
	templateDir string
	layoutDir   string
}

type compiledTemplate struct {
	metadata map[string]any
	body     *template.Template
}

// NewRenderer creates a renderer with default config.
func NewRenderer(fsys fs.FS) *Renderer {
	return NewRendererWithConfig(fsys, RendererConfig{})
}

// NewRendererWithConfig creates a renderer with custom config.
func NewRendererWithConfig(fsys fs.FS, cfg RendererConfig) *Renderer {
	if cfg.TemplateDir == "" {
		cfg.TemplateDir = "."
	}
	if cfg.LayoutDir == "" {
		cfg.LayoutDir = "layouts"
	}

	policy := cfg.Policy
	if policy == nil && !cfg.DisableSanitize {
		policy = sanitizer.EmailPolicy()
	}
	if cfg.DisableSanitize {
		policy = nil
	}

	return &Renderer{
		fs:          fsys,
		md:          goldmark.New(goldmark.WithExtensions(NewButtonExtension())),
		policy:      policy,
		templates:   cache[*compiledTemplate]{items: map[string]*compiledTemplate{}},
		layouts:     cache[*htmltemplate.Template]{items: map[string]*htmltemplate.Template{}},
		templateDir: cfg.TemplateDir,
		layoutDir:   cfg.LayoutDir,
	}
}

// Render executes templateName with data, converts the markdown to HTML and
// places it in layout as {{.Content}}. The layout also receives the
// template's frontmatter as {{.Metadata}}.
func (r *Renderer) Render(layout, templateName string, data any) (*RenderResult, error) {
	tmpl, err := r.templates.load(templateName, func() (*compiledTemplate, error) {
		return r.compileTemplate(templateName)
	})
	if err != nil {
		return nil, err
	}

	var markdown bytes.Buffer
	if err := tmpl.body.Execute(&markdown, data); err != nil {
		return nil, fmt.Errorf("%w: execute template %s: %v", ErrRenderFailed, templateName, err)
	}

	var content bytes.Buffer
	if err := r.md.Convert(markdown.Bytes(), &content); err != nil {
		return nil, fmt.Errorf("%w: convert markdown: %v", ErrRenderFailed, err)
	}

	contentHTML := content.String()
	if r.policy != nil {
		contentHTML = sanitizer.Custom(contentHTML, r.policy)
	}

	layoutTmpl, err := r.layouts.load(layout, func() (*htmltemplate.Template, error) {
		return r.compileLayout(layout)
	})
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	err = layoutTmpl.Execute(&out, map[string]any{
		"Content":  htmltemplate.HTML(contentHTML), //nolint:gosec // sanitized above unless disabled
		"Metadata": tmpl.metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: execute layout %s: %v", ErrRenderFailed, layout, err)
	}

	return &RenderResult{
		Metadata: tmpl.metadata,
		HTML:     out.String(),
		Text:     markdown.String(),
	}, nil
}

func (r *Renderer) compileTemplate(name string) (*compiledTemplate, error) {
	raw, err := fs.ReadFile(r.fs, path.Join(r.templateDir, name))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplateNotFound, name, err)
	}

	parsed, err := ParseTemplate(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	body, err := template.New(name).Parse(parsed.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: parse template %s: %v", ErrRenderFailed, name, err)
	}

	return &compiledTemplate{metadata: parsed.Metadata, body: body}, nil
}

func (r *Renderer) compileLayout(name string) (*htmltemplate.Template, error) {
	raw, err := fs.ReadFile(r.fs, path.Join(r.layoutDir, name))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLayoutNotFound, name, err)
	}

	layout, err := htmltemplate.New(name).Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: parse layout %s: %v", ErrRenderFailed, name, err)
	}
	return layout, nil
}

// cache memoizes values by name. Failed builds are not cached.
type cache[T any] struct {
	items map[string]T
	mu    sync.RWMutex
}

func (c *cache[T]) load(name string, build func() (T, error)) (T, error) {
	c.mu.RLock()
	v, ok := c.items[name]
	c.mu.RUnlock()
	if ok {
		return v, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.items[name]; ok {
		return v, nil
	}

	v, err := build()
	if err != nil {
		return v, err
	}
	c.items[name] = v
	return v, nil
}
