package site

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// envPrefix namespaces the environment overrides.
const envPrefix = "BSN_"

// Config drives a site build. Values come from defaults, then an optional
// YAML file, then BSN_-prefixed environment variables.
type Config struct {
	// SourceDir holds the notebook environment: a categories tree plus
	// the asset directories.
	SourceDir string `yaml:"source_dir" env:"SOURCE_DIR"`

	// OutputDir receives the rendered site.
	OutputDir string `yaml:"output_dir" env:"OUTPUT_DIR"`

	// AssetDirs are copied verbatim from SourceDir to OutputDir.
	AssetDirs []string `yaml:"asset_dirs" env:"ASSET_DIRS" envSeparator:","`

	// CSSFile is the stylesheet inlined into every rendered page.
	CSSFile string `yaml:"css_file" env:"CSS_FILE"`

	// TemplateFile overrides the built-in page shell.
	TemplateFile string `yaml:"template_file" env:"TEMPLATE_FILE"`

	// HeaderFile and FooterFile override the built-in header and footer
	// cell markdown.
	HeaderFile string `yaml:"header_file" env:"HEADER_FILE"`
	FooterFile string `yaml:"footer_file" env:"FOOTER_FILE"`

	// BinderBaseURL overrides the interactive execution service linked
	// from the header.
	BinderBaseURL string `yaml:"binder_base_url" env:"BINDER_BASE_URL"`

	// Concurrency bounds the number of notebooks converted in parallel.
	Concurrency int `yaml:"concurrency" env:"CONCURRENCY"`

	// Exclude lists notebook names (without extension) to skip.
	Exclude []string `yaml:"exclude" env:"EXCLUDE" envSeparator:","`
}

// DefaultConfig returns the configuration used when no file or
// environment overrides are present.
func DefaultConfig() Config {
	return Config{
		AssetDirs:   []string{"images", "styles"},
		Concurrency: 4,
	}
}

// LoadConfig builds the effective configuration. path may be empty, in
// which case only defaults and environment overrides apply.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: envPrefix}); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.SourceDir == "" {
		return fmt.Errorf("source_dir is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be positive: %d", c.Concurrency)
	}
	return nil
}

func (c Config) excluded(name string) bool {
	for _, e := range c.Exclude {
		if e == name {
			return true
		}
	}
	return false
}
