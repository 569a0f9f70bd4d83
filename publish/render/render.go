package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	ghtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/net/html"

	"github.com/biosignalsplux/biosignals-go/publish/notebook"
)

// defaultPage is the page shell a rendered notebook is embedded in. The
// stylesheet link doubles as the style_import anchor for InjectStyle.
const defaultPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<link rel="stylesheet" href="../../styles/theme_style.css" id="style_import">
</head>
<body>
<div class="notebook-container">
{{.Body}}
</div>
</body>
</html>
`

// Option configures a Renderer.
type Option func(*config)

type config struct {
	css  string
	page string
}

// WithCSS inlines the given stylesheet text before the style_import
// anchor of every rendered page.
func WithCSS(css string) Option {
	return func(cfg *config) { cfg.css = css }
}

// WithPageTemplate replaces the page shell. The template receives Title
// and Body fields.
func WithPageTemplate(src string) Option {
	return func(cfg *config) { cfg.page = src }
}

// Renderer converts notebooks to standalone HTML pages.
type Renderer struct {
	md   goldmark.Markdown
	page *template.Template
	css  string
}

func New(opts ...Option) (*Renderer, error) {
	cfg := config{page: defaultPage}
	for _, opt := range opts {
		opt(&cfg)
	}

	page, err := template.New("page").Parse(cfg.page)
	if err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}

	// Raw HTML passthrough is required: the intro tables and shields in
	// the markdown cells are plain HTML.
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(ghtml.WithUnsafe()),
	)

	return &Renderer{md: md, page: page, css: cfg.css}, nil
}

type pageData struct {
	Title string
	Body  template.HTML
}

// Render converts the notebook into a full HTML page: cells are rendered
// into the page shell, tagged input and output containers get the hide
// class, and the stylesheet is inlined at the style_import anchor.
func (r *Renderer) Render(nb *notebook.Notebook, title string) ([]byte, error) {
	body, err := r.renderCells(nb)
	if err != nil {
		return nil, err
	}

	var page bytes.Buffer
	if err := r.page.Execute(&page, pageData{Title: title, Body: template.HTML(body)}); err != nil {
		return nil, fmt.Errorf("assembling page: %w", err)
	}

	doc, err := html.Parse(&page)
	if err != nil {
		return nil, fmt.Errorf("parsing rendered page: %w", err)
	}
	HideTagged(doc)
	if r.css != "" {
		InjectStyle(doc, r.css)
	}

	var out bytes.Buffer
	if err := html.Render(&out, doc); err != nil {
		return nil, fmt.Errorf("serializing page: %w", err)
	}
	return out.Bytes(), nil
}

func (r *Renderer) renderCells(nb *notebook.Notebook) (string, error) {
	var b strings.Builder
	for i, cell := range nb.Cells {
		switch cell.Type {
		case notebook.CellMarkdown:
			if err := r.markdownCell(&b, cell); err != nil {
				return "", fmt.Errorf("cell %d: %w", i, err)
			}
		case notebook.CellCode:
			codeCell(&b, cell)
		}
	}
	return b.String(), nil
}

func (r *Renderer) markdownCell(b *strings.Builder, cell notebook.Cell) error {
	var rendered bytes.Buffer
	if err := r.md.Convert([]byte(cell.Source), &rendered); err != nil {
		return fmt.Errorf("rendering markdown: %w", err)
	}
	fmt.Fprintf(b, "<div class=%q>\n", cellClasses("text_cell rendered", cell))
	b.WriteString("<div class=\"text_cell_render\">\n")
	b.Write(rendered.Bytes())
	b.WriteString("</div>\n</div>\n")
	return nil
}

func codeCell(b *strings.Builder, cell notebook.Cell) {
	fmt.Fprintf(b, "<div class=%q>\n", cellClasses("code_cell rendered", cell))
	b.WriteString("<div class=\"input\"><pre><code class=\"language-python\">")
	b.WriteString(html.EscapeString(string(cell.Source)))
	b.WriteString("</code></pre></div>\n")
	if len(cell.Outputs) > 0 {
		b.WriteString("<div class=\"output_wrapper\"><div class=\"output\">\n")
		for _, out := range cell.Outputs {
			writeOutput(b, out)
		}
		b.WriteString("</div></div>\n")
	}
	b.WriteString("</div>\n")
}

// cellClasses joins the container classes with the cell's metadata tags
// so the hide pass can find tagged cells.
func cellClasses(kind string, cell notebook.Cell) string {
	classes := append([]string{"cell"}, strings.Fields(kind)...)
	classes = append(classes, cell.Metadata.Tags...)
	return strings.Join(classes, " ")
}

func writeOutput(b *strings.Builder, out notebook.Output) {
	switch out.Type {
	case "stream":
		name := out.Name
		if name == "" {
			name = "stdout"
		}
		fmt.Fprintf(b, "<div class=\"output_subarea output_stream output_%s\"><pre>%s</pre></div>\n",
			name, html.EscapeString(string(out.Text)))

	case "execute_result", "display_data":
		if payload, ok := decodePayload(out.Data, "text/html"); ok {
			b.WriteString("<div class=\"output_subarea output_html rendered_html\">" + payload + "</div>\n")
			return
		}
		if payload, ok := decodePayload(out.Data, "text/plain"); ok {
			fmt.Fprintf(b, "<div class=\"output_subarea output_text\"><pre>%s</pre></div>\n",
				html.EscapeString(payload))
		}
	}
}

func decodePayload(data map[string]json.RawMessage, mime string) (string, bool) {
	raw, ok := data[mime]
	if !ok {
		return "", false
	}
	var text notebook.Text
	if err := json.Unmarshal(raw, &text); err != nil {
		return "", false
	}
	return string(text), true
}
