package site

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/biosignalsplux/biosignals-go/publish/notebook"
	"github.com/biosignalsplux/biosignals-go/publish/render"
)

const (
	categoriesDir  = "categories"
	manifestName   = "last_updated_nbs.json"
	renderedSuffix = "_rev.html"
)

// Builder converts a notebook environment into a static HTML site.
type Builder struct {
	cfg      Config
	log      *zap.Logger
	renderer *render.Renderer
	injector notebook.Injector
}

// NewBuilder wires a builder from the configuration. A nil logger
// disables logging.
func NewBuilder(cfg Config, log *zap.Logger) (*Builder, error) {
	if log == nil {
		log = zap.NewNop()
	}

	var opts []render.Option
	if cfg.CSSFile != "" {
		css, err := os.ReadFile(cfg.CSSFile)
		if err != nil {
			return nil, fmt.Errorf("reading stylesheet: %w", err)
		}
		opts = append(opts, render.WithCSS(string(css)))
	}
	if cfg.TemplateFile != "" {
		page, err := os.ReadFile(cfg.TemplateFile)
		if err != nil {
			return nil, fmt.Errorf("reading page template: %w", err)
		}
		opts = append(opts, render.WithPageTemplate(string(page)))
	}
	renderer, err := render.New(opts...)
	if err != nil {
		return nil, err
	}

	header := notebook.DefaultHeader
	if cfg.HeaderFile != "" {
		data, err := os.ReadFile(cfg.HeaderFile)
		if err != nil {
			return nil, fmt.Errorf("reading header template: %w", err)
		}
		header = string(data)
	}
	footer := notebook.DefaultFooter
	if cfg.FooterFile != "" {
		data, err := os.ReadFile(cfg.FooterFile)
		if err != nil {
			return nil, fmt.Errorf("reading footer template: %w", err)
		}
		footer = string(data)
	}

	return &Builder{
		cfg:      cfg,
		log:      log,
		renderer: renderer,
		injector: notebook.Injector{
			Header:        header,
			Footer:        footer,
			BinderBaseURL: cfg.BinderBaseURL,
		},
	}, nil
}

// Result lists what a build produced.
type Result struct {
	Notebooks []string
	Pages     []string
}

// Build copies the asset directories, converts every notebook in the
// category tree, and writes the group-by index pages and the update
// manifest. Conversions run in parallel, bounded by the configured
// concurrency.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	categories, err := b.categories()
	if err != nil {
		return nil, err
	}
	if err := b.copyAssets(); err != nil {
		return nil, err
	}

	var (
		mu    sync.Mutex
		infos []notebook.Info
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.cfg.Concurrency)

	for _, category := range categories {
		names, err := b.notebooks(category)
		if err != nil {
			return nil, err
		}
		if err := os.MkdirAll(filepath.Join(b.cfg.OutputDir, categoriesDir, category), 0o755); err != nil {
			return nil, fmt.Errorf("creating output category: %w", err)
		}

		for _, name := range names {
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				info, err := b.convertOne(category, name)
				if err != nil {
					return fmt.Errorf("%s/%s: %w", category, name, err)
				}
				mu.Lock()
				infos = append(infos, info)
				mu.Unlock()
				b.log.Info("converted notebook",
					zap.String("category", category),
					zap.String("notebook", name))
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].File < infos[j].File })
	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.File
	}

	pages, err := b.writeIndexPages(infos)
	if err != nil {
		return nil, err
	}
	if err := b.writeManifest(names); err != nil {
		return nil, err
	}

	b.log.Info("site build finished",
		zap.Int("notebooks", len(names)),
		zap.Int("pages", len(pages)))
	return &Result{Notebooks: names, Pages: pages}, nil
}

// ConvertOne converts a single notebook, creating its output directory
// when needed. Used by watch mode for incremental rebuilds.
func (b *Builder) ConvertOne(category, name string) error {
	if err := os.MkdirAll(filepath.Join(b.cfg.OutputDir, categoriesDir, category), 0o755); err != nil {
		return fmt.Errorf("creating output category: %w", err)
	}
	if _, err := b.convertOne(category, name); err != nil {
		return fmt.Errorf("%s/%s: %w", category, name, err)
	}
	return nil
}

func (b *Builder) convertOne(category, name string) (notebook.Info, error) {
	src := filepath.Join(b.cfg.SourceDir, categoriesDir, category, name+".ipynb")
	nb, err := notebook.Read(src)
	if err != nil {
		return notebook.Info{}, err
	}
	if err := b.injector.Inject(nb, category, name); err != nil {
		return notebook.Info{}, err
	}

	info := notebook.Harvest(nb, category, name)
	title := info.Title
	if title == "" {
		title = name
	}

	page, err := b.renderer.Render(nb, title)
	if err != nil {
		return notebook.Info{}, err
	}

	out := filepath.Join(b.cfg.OutputDir, categoriesDir, category, name+renderedSuffix)
	if err := os.WriteFile(out, page, 0o644); err != nil {
		return notebook.Info{}, fmt.Errorf("writing page: %w", err)
	}
	return info, nil
}

// categories lists the category directories, skipping names with dots
// (checkpoint and hidden directories).
func (b *Builder) categories() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(b.cfg.SourceDir, categoriesDir))
	if err != nil {
		return nil, fmt.Errorf("reading categories: %w", err)
	}
	var categories []string
	for _, e := range entries {
		if e.IsDir() && !strings.Contains(e.Name(), ".") {
			categories = append(categories, e.Name())
		}
	}
	sort.Strings(categories)
	return categories, nil
}

// notebooks lists the convertible notebook names in a category, without
// extension. Template notebooks and excluded names are skipped.
func (b *Builder) notebooks(category string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(b.cfg.SourceDir, categoriesDir, category))
	if err != nil {
		return nil, fmt.Errorf("reading category %s: %w", category, err)
	}
	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".ipynb") || strings.Contains(name, "Template") {
			continue
		}
		base := strings.TrimSuffix(name, ".ipynb")
		if b.cfg.excluded(base) {
			continue
		}
		names = append(names, base)
	}
	sort.Strings(names)
	return names, nil
}

func (b *Builder) copyAssets() error {
	for _, dir := range b.cfg.AssetDirs {
		src := filepath.Join(b.cfg.SourceDir, dir)
		if _, err := os.Stat(src); err != nil {
			b.log.Warn("asset directory missing", zap.String("dir", src))
			continue
		}
		dst := filepath.Join(b.cfg.OutputDir, dir)
		// Stale copies from earlier builds are replaced wholesale.
		if err := os.RemoveAll(dst); err != nil {
			return fmt.Errorf("clearing assets: %w", err)
		}
		if err := copyTree(src, dst); err != nil {
			return fmt.Errorf("copying assets %s: %w", dir, err)
		}
	}
	return nil
}

func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func (b *Builder) writeManifest(names []string) error {
	manifest := struct {
		UpdatedNotebooks []string `json:"updated_notebooks"`
	}{UpdatedNotebooks: names}

	data, err := json.Marshal(manifest)
	if err != nil {
		return err
	}
	path := filepath.Join(b.cfg.OutputDir, manifestName)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}
