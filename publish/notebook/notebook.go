package notebook

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// Notebook is a Jupyter notebook document in the nbformat 4 JSON layout.
type Notebook struct {
	Cells         []Cell                     `json:"cells"`
	Metadata      map[string]json.RawMessage `json:"metadata"`
	NBFormat      int                        `json:"nbformat"`
	NBFormatMinor int                        `json:"nbformat_minor"`
}

// Cell types defined by nbformat 4.
const (
	CellMarkdown = "markdown"
	CellCode     = "code"
	CellRaw      = "raw"
)

// Cell is a single notebook cell. Code cells carry outputs and an execution
// count; markdown and raw cells carry source only.
type Cell struct {
	Type           string       `json:"cell_type"`
	Metadata       CellMetadata `json:"metadata"`
	Source         Text         `json:"source"`
	ExecutionCount *int         `json:"execution_count,omitempty"`
	Outputs        []Output     `json:"outputs,omitempty"`
}

// CellMetadata is the metadata block of a cell. Unknown fields are kept so
// a read-modify-write cycle does not lose information.
type CellMetadata struct {
	Tags  []string                   `json:"tags,omitempty"`
	Extra map[string]json.RawMessage `json:"-"`
}

// Output is one execution output of a code cell.
type Output struct {
	Type           string                     `json:"output_type"`
	Name           string                     `json:"name,omitempty"`
	Text           Text                       `json:"text,omitempty"`
	Data           map[string]json.RawMessage `json:"data,omitempty"`
	Metadata       map[string]json.RawMessage `json:"metadata,omitempty"`
	ExecutionCount *int                       `json:"execution_count,omitempty"`
}

// Text is notebook source text, stored on disk as either a single string or
// a list of line fragments.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*t = Text(s)
		return nil
	}

	var lines []string
	if err := json.Unmarshal(b, &lines); err != nil {
		return fmt.Errorf("source must be a string or string list: %w", err)
	}
	*t = Text(strings.Join(lines, ""))
	return nil
}

// MarshalJSON writes the text as a line list, the layout Jupyter itself
// produces.
func (t Text) MarshalJSON() ([]byte, error) {
	if t == "" {
		return []byte("[]"), nil
	}
	return json.Marshal(splitAfterNewlines(string(t)))
}

func splitAfterNewlines(s string) []string {
	var lines []string
	for {
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			if s != "" {
				lines = append(lines, s)
			}
			return lines
		}
		lines = append(lines, s[:i+1])
		s = s[i+1:]
	}
}

func (m *CellMetadata) UnmarshalJSON(b []byte) error {
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	if tags, ok := raw["tags"]; ok {
		if err := json.Unmarshal(tags, &m.Tags); err != nil {
			return fmt.Errorf("cell tags: %w", err)
		}
		delete(raw, "tags")
	}
	m.Extra = raw
	return nil
}

func (m CellMetadata) MarshalJSON() ([]byte, error) {
	raw := make(map[string]json.RawMessage, len(m.Extra)+1)
	for k, v := range m.Extra {
		raw[k] = v
	}
	if len(m.Tags) > 0 {
		tags, err := json.Marshal(m.Tags)
		if err != nil {
			return nil, err
		}
		raw["tags"] = tags
	}
	return json.Marshal(raw)
}

// HasTag reports whether the cell metadata carries the given tag.
func (m CellMetadata) HasTag(tag string) bool {
	for _, t := range m.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Parse decodes a notebook from JSON.
func Parse(r io.Reader) (*Notebook, error) {
	var nb Notebook
	dec := json.NewDecoder(r)
	if err := dec.Decode(&nb); err != nil {
		return nil, fmt.Errorf("decoding notebook: %w", err)
	}
	if nb.NBFormat != 0 && nb.NBFormat < 4 {
		return nil, fmt.Errorf("%w: version %d", ErrUnsupportedFormat, nb.NBFormat)
	}
	return &nb, nil
}

// Read loads a notebook file.
func Read(path string) (*Notebook, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening notebook: %w", err)
	}
	defer f.Close()

	nb, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return nb, nil
}

// Encode writes the notebook as indented JSON.
func (nb *Notebook) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	enc.SetEscapeHTML(false)
	return enc.Encode(nb)
}

// Write stores the notebook at path.
func (nb *Notebook) Write(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating notebook: %w", err)
	}
	if err := nb.Encode(f); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}

// NewMarkdownCell builds a markdown cell with the given source and tags.
func NewMarkdownCell(source string, tags ...string) Cell {
	return Cell{
		Type:     CellMarkdown,
		Metadata: CellMetadata{Tags: tags},
		Source:   Text(source),
	}
}
