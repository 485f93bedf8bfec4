package config

import (
	"fmt"
	"path/filepath"
	"strings"

	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
)

// Validate checks the configuration for values that would make a build
// write outside its output tree or collide between categories.
func Validate(cfg *Config) error {
	if err := validateCategories(cfg.Categories); err != nil {
		return err
	}
	return validatePaths(cfg)
}

func validateCategories(cats []CategoryConfig) error {
	if len(cats) == 0 {
		return ferrors.ValidationError("at least one category must be configured").Build()
	}
	seen := make(map[string]bool, len(cats))
	for i, c := range cats {
		field := fmt.Sprintf("categories[%d]", i)
		if c.Name == "" {
			return ferrors.ValidationError("category name is required").WithContext("field", field).Build()
		}
		if !isSingleSegment(c.Name) {
			return ferrors.ValidationError("category name must be a single path segment").
				WithContext("field", field).WithContext("name", c.Name).Build()
		}
		if seen[c.Name] {
			return ferrors.ValidationError("duplicate category name").WithContext("name", c.Name).Build()
		}
		seen[c.Name] = true
		if strings.TrimSpace(c.Template) == "" {
			return ferrors.ValidationError("category template is required").WithContext("name", c.Name).Build()
		}
	}
	return nil
}

func validatePaths(cfg *Config) error {
	out := filepath.Clean(cfg.Paths.Output)
	for name, p := range map[string]string{
		"paths.content":   cfg.Paths.Content,
		"paths.templates": cfg.Paths.Templates,
		"paths.source":    cfg.Paths.Source,
	} {
		if filepath.Clean(p) == out {
			return ferrors.ValidationError("output directory must differ from input directories").
				WithContext("field", name).WithContext("path", p).Build()
		}
	}
	return nil
}

func isSingleSegment(name string) bool {
	return name != "." && name != ".." && !strings.ContainsAny(name, `/\`)
}
