package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
)

// DefaultFile is the configuration file looked up when none is given explicitly.
const DefaultFile = "sitebuilder.yaml"

// Config is the complete build configuration. It is constructed once at
// startup and passed explicitly to every component.
type Config struct {
	// Root is the project directory; relative paths below resolve against it.
	Root       string           `yaml:"root,omitempty"`
	Paths      PathsConfig      `yaml:"paths"`
	Categories []CategoryConfig `yaml:"categories"`
	Content    ContentConfig    `yaml:"content"`
	Assets     AssetsConfig     `yaml:"assets"`
	Metrics    MetricsConfig    `yaml:"metrics,omitempty"`
	Logging    LoggingConfig    `yaml:"logging,omitempty"`
}

// PathsConfig locates the input and output trees.
type PathsConfig struct {
	Content   string `yaml:"content"`
	Templates string `yaml:"templates"`
	Source    string `yaml:"source"`
	Output    string `yaml:"output"`
}

// CategoryConfig describes one content category: its content subdirectory,
// template and output subdirectory all share Name.
type CategoryConfig struct {
	Name     string `yaml:"name"`
	Template string `yaml:"template"`
	// Title is used in progress output ("Processing blog articles...").
	Title string `yaml:"title,omitempty"`
	// Unit is used in the per-category total ("Total: 3 articles").
	Unit string `yaml:"unit,omitempty"`
	// OptionalTemplate skips the category when its template file is missing.
	OptionalTemplate bool `yaml:"optional_template,omitempty"`
}

// ContentConfig controls how content files are discovered and rendered.
type ContentConfig struct {
	Extension         string    `yaml:"extension"`
	Order             SortOrder `yaml:"order"`
	StrictFrontmatter bool      `yaml:"strict_frontmatter,omitempty"`
	HardWraps         bool      `yaml:"hard_wraps,omitempty"`
	EscapeHTML        bool      `yaml:"escape_html,omitempty"`
}

// AssetsConfig lists the static inputs copied verbatim from the source tree.
type AssetsConfig struct {
	Dirs     []string `yaml:"dirs"`
	Sections []string `yaml:"sections"`
	Favicon  string   `yaml:"favicon"`
	// DraftPrefix excludes top-level pages whose name starts with it.
	DraftPrefix string `yaml:"draft_prefix"`
}

// MetricsConfig enables the Prometheus textfile written after each build.
type MetricsConfig struct {
	File string `yaml:"file,omitempty"`
}

// LoggingConfig holds log level and format.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level,omitempty"`
	Format LogFormat `yaml:"format,omitempty"`
}

// Load reads, expands, defaults and validates the configuration at path.
// Relative paths in the file resolve against the file's directory unless
// root is set explicitly.
func Load(path string) (*Config, error) {
	loadEnvFiles(filepath.Dir(path))

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ferrors.NewError(ferrors.CategoryNotFound, "configuration file not found").
			WithContext("path", path).Build()
	}
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "read configuration file").
			WithContext("path", path).Build()
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "invalid configuration file").
			WithContext("path", path).Fatal().Build()
	}
	switch {
	case cfg.Root == "":
		cfg.Root = filepath.Dir(path)
	case !filepath.IsAbs(cfg.Root):
		cfg.Root = filepath.Join(filepath.Dir(path), cfg.Root)
	}
	return cfg, nil
}

// LoadOrDefault loads path when it exists and falls back to Default otherwise.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if ferrors.HasCategory(err, ferrors.CategoryNotFound) {
		cfg = Default()
		cfg.Root = filepath.Dir(path)
		return cfg, nil
	}
	return cfg, err
}

// Parse decodes YAML configuration, expanding ${VAR} references first, then
// applies defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := ApplyDefaults(&cfg); err != nil {
		return nil, err
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Init writes a starter configuration file mirroring the defaults.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return ferrors.NewError(ferrors.CategoryValidation, "configuration file already exists (use --force to overwrite)").
			WithContext("path", path).Build()
	}

	cfg := Default()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return ferrors.FileSystemError(err, "create configuration directory").WithContext("path", dir).Build()
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return ferrors.FileSystemError(err, "write configuration file").WithContext("path", path).Build()
	}
	return nil
}

func (c *Config) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || c.Root == "" {
		return p
	}
	return filepath.Join(c.Root, p)
}

// OutputRoot is the directory the site is written to.
func (c *Config) OutputRoot() string { return c.resolve(c.Paths.Output) }

// SourceRoot is the directory static assets and standalone pages are copied from.
func (c *Config) SourceRoot() string { return c.resolve(c.Paths.Source) }

// ContentRoot holds one subdirectory per category.
func (c *Config) ContentRoot() string { return c.resolve(c.Paths.Content) }

// TemplatesRoot holds one template per category.
func (c *Config) TemplatesRoot() string { return c.resolve(c.Paths.Templates) }

// ContentDir returns the content directory of a category.
func (c *Config) ContentDir(cat CategoryConfig) string {
	return filepath.Join(c.ContentRoot(), cat.Name)
}

// TemplatePath returns the template file of a category.
func (c *Config) TemplatePath(cat CategoryConfig) string {
	return filepath.Join(c.TemplatesRoot(), cat.Template)
}

// OutputDir returns the output directory of a category.
func (c *Config) OutputDir(cat CategoryConfig) string {
	return filepath.Join(c.OutputRoot(), cat.Name)
}

// WatchRoots lists the input directories a rebuild depends on.
func (c *Config) WatchRoots() []string {
	return []string{c.ContentRoot(), c.TemplatesRoot(), c.SourceRoot()}
}

// MetricsFile is the Prometheus textfile path, or "" when disabled.
func (c *Config) MetricsFile() string { return c.resolve(c.Metrics.File) }
