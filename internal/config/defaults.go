package config

import "strings"

// DefaultApplier applies defaults for one configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

// defaultAppliers run in order; later domains may rely on earlier ones.
var defaultAppliers = []DefaultApplier{
	pathsDefaults{},
	categoryDefaults{},
	contentDefaults{},
	assetDefaults{},
	loggingDefaults{},
}

// ApplyDefaults fills every unset field with its default value.
func ApplyDefaults(cfg *Config) error {
	for _, a := range defaultAppliers {
		if err := a.ApplyDefaults(cfg); err != nil {
			return err
		}
	}
	return nil
}

// Default returns the configuration used when no file is present. It matches
// the conventional layout: content/, build/templates/, src/ and dist/.
func Default() *Config {
	cfg := &Config{}
	_ = ApplyDefaults(cfg)
	return cfg
}

// DefaultCategories returns the blog and notes categories.
func DefaultCategories() []CategoryConfig {
	return []CategoryConfig{
		{Name: "blog", Template: "article.html", Title: "blog articles", Unit: "articles"},
		{Name: "notes", Template: "note.html", Title: "notes", Unit: "notes", OptionalTemplate: true},
	}
}

type pathsDefaults struct{}

func (pathsDefaults) Domain() string { return "paths" }

func (pathsDefaults) ApplyDefaults(cfg *Config) error {
	p := &cfg.Paths
	if p.Content == "" {
		p.Content = "content"
	}
	if p.Templates == "" {
		p.Templates = "build/templates"
	}
	if p.Source == "" {
		p.Source = "src"
	}
	if p.Output == "" {
		p.Output = "dist"
	}
	return nil
}

type categoryDefaults struct{}

func (categoryDefaults) Domain() string { return "categories" }

func (categoryDefaults) ApplyDefaults(cfg *Config) error {
	if len(cfg.Categories) == 0 {
		cfg.Categories = DefaultCategories()
		return nil
	}
	for i := range cfg.Categories {
		c := &cfg.Categories[i]
		c.Name = strings.TrimSpace(c.Name)
		if c.Title == "" {
			c.Title = c.Name
		}
		if c.Unit == "" {
			c.Unit = "pages"
		}
	}
	return nil
}

type contentDefaults struct{}

func (contentDefaults) Domain() string { return "content" }

func (contentDefaults) ApplyDefaults(cfg *Config) error {
	c := &cfg.Content
	if c.Extension == "" {
		c.Extension = ".md"
	}
	if !strings.HasPrefix(c.Extension, ".") {
		c.Extension = "." + c.Extension
	}
	order, err := NormalizeSortOrder(string(c.Order))
	if err != nil {
		return err
	}
	c.Order = order
	return nil
}

type assetDefaults struct{}

func (assetDefaults) Domain() string { return "assets" }

func (assetDefaults) ApplyDefaults(cfg *Config) error {
	a := &cfg.Assets
	if a.Dirs == nil {
		a.Dirs = []string{"css", "js"}
	}
	if a.Sections == nil {
		a.Sections = make([]string, 0, len(cfg.Categories))
		for _, c := range cfg.Categories {
			a.Sections = append(a.Sections, c.Name)
		}
	}
	if a.Favicon == "" {
		a.Favicon = "favicon.svg"
	}
	if a.DraftPrefix == "" {
		a.DraftPrefix = "_"
	}
	return nil
}

type loggingDefaults struct{}

func (loggingDefaults) Domain() string { return "logging" }

func (loggingDefaults) ApplyDefaults(cfg *Config) error {
	cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	cfg.Logging.Format = NormalizeLogFormat(string(cfg.Logging.Format))
	return nil
}
