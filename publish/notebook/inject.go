package notebook

import (
	"fmt"
	"net/url"
	"strings"
)

// Placeholder strings replaced inside the header template.
const (
	placeholderFilename = "FILENAME"
	placeholderSource   = "SOURCE"
)

// Tags that mark the generated cells.
const (
	TagHeader = "header"
	TagFooter = "footer"

	// tagAux marks legacy closing cells that count as footers.
	tagAux = "aux"
)

// DefaultBinderBaseURL is the interactive execution service the header
// links to.
const DefaultBinderBaseURL = "https://mybinder.org/v2/gh/biosignalsplux/biosignalsnotebooks/mybinder_complete"

// Injector rewrites notebook header and footer cells from templates.
type Injector struct {
	// Header is the markdown placed in the first cell. Occurrences of
	// FILENAME and SOURCE are replaced per notebook.
	Header string

	// Footer is the markdown appended as the last cell.
	Footer string

	// BinderBaseURL overrides DefaultBinderBaseURL when set.
	BinderBaseURL string
}

// Inject replaces or inserts the header and footer cells of the notebook
// named name (without extension) in the given category. Existing cells
// tagged header or footer are rewritten in place; otherwise the header is
// inserted first and the footer appended. The result is idempotent.
func (inj Injector) Inject(nb *Notebook, category, name string) error {
	headerIdx, footerIdx, err := headerFooterCells(nb, name)
	if err != nil {
		return err
	}

	header := strings.ReplaceAll(inj.Header, placeholderFilename, name+".zip")
	header = strings.ReplaceAll(header, placeholderSource, inj.binderURL(category, name))

	headerCell := NewMarkdownCell(header, TagHeader)
	if headerIdx < 0 {
		nb.Cells = append([]Cell{headerCell}, nb.Cells...)
		if footerIdx >= 0 {
			footerIdx++
		}
	} else {
		nb.Cells[headerIdx] = headerCell
	}

	footerCell := NewMarkdownCell(inj.Footer, TagFooter)
	if footerIdx < 0 {
		nb.Cells = append(nb.Cells, footerCell)
	} else {
		nb.Cells[footerIdx] = footerCell
	}
	return nil
}

// binderURL points SOURCE at the notebook's interactive session.
func (inj Injector) binderURL(category, name string) string {
	base := inj.BinderBaseURL
	if base == "" {
		base = DefaultBinderBaseURL
	}
	filepath := "biosignalsnotebooks_environment/categories/" + category + "/" + name + ".dwipynb"
	return base + "?filepath=" + url.QueryEscape(filepath)
}

// headerFooterCells locates the tagged header and footer cells, returning
// -1 when absent. Duplicate tags are an authoring error.
func headerFooterCells(nb *Notebook, name string) (headerIdx, footerIdx int, err error) {
	headerIdx, footerIdx = -1, -1
	for i, cell := range nb.Cells {
		switch {
		case cell.Metadata.HasTag(TagHeader):
			if headerIdx >= 0 {
				return 0, 0, fmt.Errorf("%w: header in %s", ErrDuplicateTag, name)
			}
			headerIdx = i
		case cell.Metadata.HasTag(TagFooter):
			if footerIdx >= 0 {
				return 0, 0, fmt.Errorf("%w: footer in %s", ErrDuplicateTag, name)
			}
			footerIdx = i
		case cell.Metadata.HasTag(tagAux):
			// Legacy closing cells double as footers when none is tagged.
			if footerIdx < 0 {
				footerIdx = i
			}
		}
	}
	return headerIdx, footerIdx, nil
}
