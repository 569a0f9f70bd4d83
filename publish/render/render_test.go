package render

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/biosignalsplux/biosignals-go/publish/notebook"
)

func mustParse(t *testing.T, page string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(page))
	require.NoError(t, err)
	return doc
}

func renderBack(t *testing.T, doc *html.Node) string {
	t.Helper()
	var b strings.Builder
	require.NoError(t, html.Render(&b, doc))
	return b.String()
}

func TestHideTagged(t *testing.T) {
	doc := mustParse(t, `<html><body>
<div class="cell hide_in"><div class="input"><pre>a</pre></div><div class="output">b</div></div>
<div class="cell hide_out"><div class="input"><pre>c</pre></div><div class="output">d</div></div>
<div class="cell hide_both"><div class="input"><pre>e</pre></div><div class="output">f</div></div>
<div class="cell hide_mark">notes</div>
</body></html>`)

	HideTagged(doc)
	out := renderBack(t, doc)

	assert.Contains(t, out, `<div class="input hide"><pre>a</pre></div><div class="output">b</div>`)
	assert.Contains(t, out, `<div class="input"><pre>c</pre></div><div class="output hide">d</div>`)
	assert.Contains(t, out, `<div class="input hide"><pre>e</pre></div><div class="output hide">f</div>`)
	assert.Contains(t, out, `<div class="cell hide_mark hide">notes</div>`)
}

func TestHideTaggedCrossesCellBoundary(t *testing.T) {
	// A tagged cell without its own container hides the next one in
	// reading order.
	doc := mustParse(t, `<html><body>
<div class="cell hide_in">marker</div>
<div class="cell"><div class="input"><pre>x</pre></div></div>
</body></html>`)

	HideTagged(doc)
	assert.Contains(t, renderBack(t, doc), `<div class="input hide">`)
}

func TestInjectStyle(t *testing.T) {
	doc := mustParse(t, `<html><head><link rel="stylesheet" href="t.css" id="style_import"></head><body></body></html>`)

	require.True(t, InjectStyle(doc, "<style>body{color:red}"))
	out := renderBack(t, doc)

	// The sheet loses its style wrapper and lands before the anchor.
	assert.Contains(t, out, "<style>body{color:red}</style>")
	assert.Less(t, strings.Index(out, "<style>"), strings.Index(out, "style_import"))
}

func TestInjectStyleNoAnchor(t *testing.T) {
	doc := mustParse(t, `<html><head></head><body></body></html>`)
	assert.False(t, InjectStyle(doc, "body{}"))
}

func TestRenderPage(t *testing.T) {
	code := notebook.Cell{
		Type:   notebook.CellCode,
		Source: notebook.Text("print(1 < 2)"),
		Outputs: []notebook.Output{
			{Type: "stream", Name: "stdout", Text: notebook.Text("True\n")},
		},
	}
	code.Metadata.Tags = []string{"hide_in"}

	nb := &notebook.Notebook{
		Cells: []notebook.Cell{
			notebook.NewMarkdownCell("# Tachogram\n\n<table><tr><td>raw</td></tr></table>"),
			code,
		},
		NBFormat: 4,
	}

	r, err := New(WithCSS("<style>body{margin:0}"))
	require.NoError(t, err)

	page, err := r.Render(nb, "Tachogram")
	require.NoError(t, err)
	out := string(page)

	assert.Contains(t, out, "<title>Tachogram</title>")
	assert.Contains(t, out, "<h1>Tachogram</h1>")
	// Raw HTML in markdown passes through.
	assert.Contains(t, out, "<td>raw</td>")
	// Code is escaped, its input container hidden, its output kept.
	assert.Contains(t, out, "print(1 &lt; 2)")
	assert.Contains(t, out, `class="input hide"`)
	assert.Contains(t, out, "<pre>True\n</pre>")
	// The stylesheet is inlined before the anchor.
	assert.Contains(t, out, "<style>body{margin:0}</style>")
}

func TestRenderCustomTemplate(t *testing.T) {
	r, err := New(WithPageTemplate(`<html><body>{{.Body}}</body></html>`))
	require.NoError(t, err)

	nb := &notebook.Notebook{
		Cells:    []notebook.Cell{notebook.NewMarkdownCell("plain *text*")},
		NBFormat: 4,
	}
	page, err := r.Render(nb, "ignored")
	require.NoError(t, err)
	assert.Contains(t, string(page), "<em>text</em>")
}

func TestRenderBadTemplate(t *testing.T) {
	_, err := New(WithPageTemplate(`{{.Body`))
	require.Error(t, err)
}

func TestRenderHTMLOutputPayload(t *testing.T) {
	out := notebook.Output{
		Type: "display_data",
		Data: map[string]json.RawMessage{
			"text/html": json.RawMessage(`["<b>bold</b>"]`),
		},
	}
	nb := &notebook.Notebook{
		Cells: []notebook.Cell{{
			Type:    notebook.CellCode,
			Source:  notebook.Text("plot()"),
			Outputs: []notebook.Output{out},
		}},
		NBFormat: 4,
	}

	r, err := New()
	require.NoError(t, err)
	page, err := r.Render(nb, "t")
	require.NoError(t, err)
	assert.Contains(t, string(page), "<b>bold</b>")
}
