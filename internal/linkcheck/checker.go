// Package linkcheck verifies that internal links in a built site resolve to
// files in the output tree.
package linkcheck

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
)

// BrokenLink is an internal link whose target does not exist.
type BrokenLink struct {
	Page string // Output-relative slash path of the page containing the link
	Link Link
}

// Result summarizes a check run.
type Result struct {
	Pages   int
	Checked int
	Broken  []BrokenLink
}

// Err returns a links-classified error when broken links were found.
func (r *Result) Err() error {
	if len(r.Broken) == 0 {
		return nil
	}
	return errors.NewError(errors.CategoryLinks, fmt.Sprintf("%d broken internal link(s)", len(r.Broken))).
		WithContext("pages", r.Pages).
		Build()
}

// Checker walks an output tree and verifies internal links.
type Checker struct {
	root   string
	logger *slog.Logger
}

// NewChecker returns a Checker for the site rooted at root.
func NewChecker(root string, logger *slog.Logger) *Checker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Checker{root: root, logger: logger}
}

// Check parses every .html file below the root. Pages are visited in
// lexical order so results are stable.
func (c *Checker) Check(ctx context.Context) (*Result, error) {
	if _, err := os.Stat(c.root); err != nil {
		return nil, errors.WrapError(err, errors.CategoryNotFound, "output directory not found").
			WithContext("path", c.root).Build()
	}

	res := &Result{}
	err := filepath.WalkDir(c.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".html") {
			return nil
		}
		rel, err := filepath.Rel(c.root, p)
		if err != nil {
			return err
		}
		return c.checkPage(p, filepath.ToSlash(rel), res)
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.FileSystemError(err, "walk output directory").WithContext("path", c.root).Build()
	}
	return res, nil
}

func (c *Checker) checkPage(file, rel string, res *Result) error {
	links, err := ExtractLinks(file)
	if err != nil {
		return err
	}
	res.Pages++
	for _, link := range links {
		if !ShouldVerifyLink(link) {
			continue
		}
		res.Checked++
		if !c.resolves(rel, link.URL) {
			res.Broken = append(res.Broken, BrokenLink{Page: rel, Link: link})
			c.logger.Warn("Broken internal link", logfields.File(rel), slog.String("url", link.URL))
		}
	}
	return nil
}

// resolves reports whether raw, found on the page at rel, names an existing
// file. Directory targets resolve through index.html; extensionless targets
// may also resolve to <target>.html.
func (c *Checker) resolves(rel, raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Path == "" {
		return true
	}

	var target string
	if strings.HasPrefix(u.Path, "/") {
		target = path.Clean(u.Path)
	} else {
		target = path.Join("/", path.Dir(rel), u.Path)
	}
	target = strings.TrimPrefix(target, "/")

	full := filepath.Join(c.root, filepath.FromSlash(target))
	info, err := os.Stat(full)
	switch {
	case err == nil && info.IsDir():
		return isFile(filepath.Join(full, "index.html"))
	case err == nil:
		return true
	case path.Ext(target) == "":
		return isFile(full + ".html")
	default:
		return false
	}
}

func isFile(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}
