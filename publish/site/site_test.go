package site

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const notebookTemplate = `{
 "cells": [
  {"cell_type": "markdown", "metadata": {"tags": ["intro_info_title"]}, "source": "<table><td class=\"header_text\">%s</td></table>"},
  {"cell_type": "markdown", "metadata": {"tags": ["intro_info_tags"]}, "source": "<td class=\"shield_right\" id=\"tags\">ecg&#9729;detect</td><input checked><input checked>"},
  {"cell_type": "code", "metadata": {"tags": ["hide_in"]}, "source": "print(1)", "outputs": [], "execution_count": 1},
  {"cell_type": "markdown", "metadata": {}, "source": "# Content"}
 ],
 "metadata": {},
 "nbformat": 4,
 "nbformat_minor": 5
}`

func writeTestNotebook(t *testing.T, path, title string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf(notebookTemplate, title)), 0o644))
}

func testConfig(t *testing.T) Config {
	t.Helper()
	source := t.TempDir()
	output := t.TempDir()

	writeTestNotebook(t, filepath.Join(source, "categories", "Detect", "tachogram.ipynb"), "Tachogram Analysis")
	writeTestNotebook(t, filepath.Join(source, "categories", "Detect", "Template_page.ipynb"), "skip me")
	writeTestNotebook(t, filepath.Join(source, "categories", ".ipynb_checkpoints", "stale.ipynb"), "skip me too")

	cssPath := filepath.Join(source, "styles", "theme_style.css")
	require.NoError(t, os.MkdirAll(filepath.Dir(cssPath), 0o755))
	require.NoError(t, os.WriteFile(cssPath, []byte("body{margin:0}"), 0o644))

	cfg := DefaultConfig()
	cfg.SourceDir = source
	cfg.OutputDir = output
	cfg.CSSFile = cssPath
	return cfg
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"source_dir: /src\noutput_dir: /out\nconcurrency: 8\nexclude: [quick_start_guide]\n"), 0o644))

	t.Setenv("BSN_CONCURRENCY", "2")
	t.Setenv("BSN_BINDER_BASE_URL", "https://example.org/binder")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/src", cfg.SourceDir)
	assert.Equal(t, "/out", cfg.OutputDir)
	assert.Equal(t, 2, cfg.Concurrency)
	assert.Equal(t, "https://example.org/binder", cfg.BinderBaseURL)
	assert.Equal(t, []string{"images", "styles"}, cfg.AssetDirs)
	assert.True(t, cfg.excluded("quick_start_guide"))
	assert.False(t, cfg.excluded("tachogram"))
}

func TestLoadConfigValidation(t *testing.T) {
	_, err := LoadConfig("")
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte("source_dir: /src\noutput_dir: /out\nconcurrency: 0\n"), 0o644))
	_, err = LoadConfig(path)
	require.Error(t, err)
}

func TestBuild(t *testing.T) {
	cfg := testConfig(t)
	b, err := NewBuilder(cfg, zap.NewNop())
	require.NoError(t, err)

	result, err := b.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"tachogram"}, result.Notebooks)
	assert.Len(t, result.Pages, 3)

	page, err := os.ReadFile(filepath.Join(cfg.OutputDir, "categories", "Detect", "tachogram_rev.html"))
	require.NoError(t, err)
	out := string(page)
	assert.Contains(t, out, "<title>Tachogram Analysis</title>")
	assert.Contains(t, out, `class="input hide"`)
	assert.Contains(t, out, "<style>body{margin:0}</style>")
	assert.Contains(t, out, "tachogram.zip")

	// Templates and checkpoints never reach the output tree.
	_, err = os.Stat(filepath.Join(cfg.OutputDir, "categories", "Detect", "Template_page_rev.html"))
	assert.True(t, os.IsNotExist(err))

	manifest, err := os.ReadFile(filepath.Join(cfg.OutputDir, manifestName))
	require.NoError(t, err)
	assert.JSONEq(t, `{"updated_notebooks": ["tachogram"]}`, string(manifest))

	byTag, err := os.ReadFile(filepath.Join(cfg.OutputDir, "by_tag_rev.html"))
	require.NoError(t, err)
	assert.Contains(t, string(byTag), "categories/Detect/tachogram_rev.html")
	assert.Contains(t, string(byTag), "ecg")

	// Asset directories are mirrored.
	copied, err := os.ReadFile(filepath.Join(cfg.OutputDir, "styles", "theme_style.css"))
	require.NoError(t, err)
	assert.Equal(t, "body{margin:0}", string(copied))
}

func TestBuildExclude(t *testing.T) {
	cfg := testConfig(t)
	cfg.Exclude = []string{"tachogram"}

	b, err := NewBuilder(cfg, nil)
	require.NoError(t, err)

	result, err := b.Build(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result.Notebooks)
}

func TestConvertOne(t *testing.T) {
	cfg := testConfig(t)
	b, err := NewBuilder(cfg, nil)
	require.NoError(t, err)

	require.NoError(t, b.ConvertOne("Detect", "tachogram"))
	_, err = os.Stat(filepath.Join(cfg.OutputDir, "categories", "Detect", "tachogram_rev.html"))
	require.NoError(t, err)

	require.Error(t, b.ConvertOne("Detect", "missing"))
}

func TestWatcherLifecycle(t *testing.T) {
	cfg := testConfig(t)
	b, err := NewBuilder(cfg, zap.NewNop())
	require.NoError(t, err)

	w, err := NewWatcher(b)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, w.Start(ctx))
	assert.True(t, w.IsWatching())

	// A second start is a no-op.
	require.NoError(t, w.Start(ctx))

	w.Stop()
	assert.False(t, w.IsWatching())
}
