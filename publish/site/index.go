package site

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/biosignalsplux/biosignals-go/publish/notebook"
)

// writeIndexPages renders the group-by pages at the output root.
func (b *Builder) writeIndexPages(infos []notebook.Info) ([]string, error) {
	pages := []struct {
		name  string
		title string
		nb    *notebook.Notebook
	}{
		{"by_diff", "Notebooks Grouped by Difficulty", difficultyIndex(infos)},
		{"by_tag", "Notebooks Grouped by Tag Values", tagIndex(infos)},
		{"by_signal_type", "Notebooks Grouped by Signal Type", signalIndex(infos)},
	}

	var written []string
	for _, p := range pages {
		page, err := b.renderer.Render(p.nb, p.title)
		if err != nil {
			return nil, fmt.Errorf("rendering %s page: %w", p.name, err)
		}
		out := filepath.Join(b.cfg.OutputDir, p.name+renderedSuffix)
		if err := os.WriteFile(out, page, 0o644); err != nil {
			return nil, fmt.Errorf("writing %s page: %w", p.name, err)
		}
		written = append(written, out)
	}
	return written, nil
}

func difficultyIndex(infos []notebook.Info) *notebook.Notebook {
	groups := notebook.ByDifficulty(infos)
	stars := make([]int, 0, len(groups))
	for s := range groups {
		stars = append(stars, s)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(stars)))

	var md strings.Builder
	md.WriteString("# Notebooks Grouped by Difficulty\n")
	for _, s := range stars {
		fmt.Fprintf(&md, "\n## %s\n\n", starRating(s))
		writeEntries(&md, groups[s])
	}
	return indexNotebook(md.String())
}

func tagIndex(infos []notebook.Info) *notebook.Notebook {
	groups := notebook.ByTag(infos)

	var md strings.Builder
	md.WriteString("# Notebooks Grouped by Tag Values\n")
	for _, tag := range notebook.SortedKeys(groups) {
		fmt.Fprintf(&md, "\n## %s\n\n", tag)
		writeEntries(&md, groups[tag])
	}
	return indexNotebook(md.String())
}

func signalIndex(infos []notebook.Info) *notebook.Notebook {
	groups := notebook.BySignalType(infos)

	var md strings.Builder
	md.WriteString("# Notebooks Grouped by Signal Type\n")
	for _, signal := range notebook.SortedKeys(groups) {
		fmt.Fprintf(&md, "\n## %s\n\n", strings.ToUpper(signal))
		writeEntries(&md, groups[signal])
	}
	return indexNotebook(md.String())
}

func writeEntries(md *strings.Builder, infos []notebook.Info) {
	sorted := append([]notebook.Info(nil), infos...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].File < sorted[j].File })
	for _, info := range sorted {
		title := info.Title
		if title == "" {
			title = info.File
		}
		fmt.Fprintf(md, "- [%s](%s/%s/%s%s)\n",
			title, categoriesDir, info.Category, info.File, renderedSuffix)
	}
}

func starRating(stars int) string {
	if stars < 1 {
		return "Unrated"
	}
	return strings.Repeat("&#9733;", stars)
}

func indexNotebook(markdown string) *notebook.Notebook {
	return &notebook.Notebook{
		Cells:    []notebook.Cell{notebook.NewMarkdownCell(markdown)},
		NBFormat: 4,
	}
}
