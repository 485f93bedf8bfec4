// Package assets copies static files from the source tree into the output tree.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
)

// Layout names the inputs of a copy pass. All paths in Dirs, Sections and
// Favicon are relative to SourceRoot.
type Layout struct {
	SourceRoot  string
	OutputRoot  string
	Dirs        []string
	Sections    []string
	Favicon     string
	DraftPrefix string
}

// Report lists the copied files as output-relative slash paths, in copy order.
type Report struct {
	Files []string
}

// Copier copies a Layout's static assets.
type Copier struct {
	layout Layout
	out    io.Writer
	logger *slog.Logger
}

// Option configures a Copier.
type Option func(*Copier)

// WithOutput sets the writer receiving one progress line per copied file.
func WithOutput(w io.Writer) Option { return func(c *Copier) { c.out = w } }

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option { return func(c *Copier) { c.logger = l } }

// NewCopier returns a Copier for layout.
func NewCopier(layout Layout, opts ...Option) *Copier {
	c := &Copier{layout: layout, out: io.Discard, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Copy copies, in order: every asset directory, the top-level HTML pages
// whose names do not start with the draft prefix, each section's index.html
// and the favicon. Missing inputs are skipped. Existing outputs are
// overwritten; nothing is deleted.
func (c *Copier) Copy(ctx context.Context) (Report, error) {
	var rep Report
	steps := []func(context.Context, *Report) error{
		c.copyDirs,
		c.copyPages,
		c.copySections,
		c.copyFavicon,
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		if err := step(ctx, &rep); err != nil {
			return rep, err
		}
	}
	return rep, nil
}

func (c *Copier) copyDirs(ctx context.Context, rep *Report) error {
	for _, dir := range c.layout.Dirs {
		src := filepath.Join(c.layout.SourceRoot, dir)
		if !isDir(src) {
			c.logger.Debug("Asset directory not present", logfields.Path(src))
			continue
		}
		if err := c.copyTree(ctx, src, filepath.Join(c.layout.OutputRoot, dir), dir, rep); err != nil {
			return err
		}
	}
	return nil
}

func (c *Copier) copyPages(_ context.Context, rep *Report) error {
	entries, err := os.ReadDir(c.layout.SourceRoot)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return ferrors.FileSystemError(err, "read source directory").WithContext("path", c.layout.SourceRoot).Build()
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".html") {
			continue
		}
		if c.layout.DraftPrefix != "" && strings.HasPrefix(name, c.layout.DraftPrefix) {
			continue
		}
		if err := c.copyOne(filepath.Join(c.layout.SourceRoot, name), name, rep); err != nil {
			return err
		}
	}
	return nil
}

func (c *Copier) copySections(_ context.Context, rep *Report) error {
	for _, section := range c.layout.Sections {
		src := filepath.Join(c.layout.SourceRoot, section)
		if !isDir(src) {
			continue
		}
		dst := filepath.Join(c.layout.OutputRoot, section)
		if err := os.MkdirAll(dst, 0o755); err != nil {
			return ferrors.FileSystemError(err, "create section directory").WithContext("path", dst).Build()
		}
		index := filepath.Join(src, "index.html")
		if !isFile(index) {
			continue
		}
		if err := c.copyOne(index, section+"/index.html", rep); err != nil {
			return err
		}
	}
	return nil
}

func (c *Copier) copyFavicon(_ context.Context, rep *Report) error {
	if c.layout.Favicon == "" {
		return nil
	}
	src := filepath.Join(c.layout.SourceRoot, c.layout.Favicon)
	if !isFile(src) {
		return nil
	}
	return c.copyOne(src, filepath.ToSlash(c.layout.Favicon), rep)
}

// copyTree recursively copies src into dst. rel is the output-relative
// slash path of dst.
func (c *Copier) copyTree(ctx context.Context, src, dst, rel string, rep *Report) error {
	info, err := os.Stat(src)
	if err != nil {
		return ferrors.FileSystemError(err, "stat asset directory").WithContext("path", src).Build()
	}
	if err := os.MkdirAll(dst, info.Mode().Perm()|0o700); err != nil {
		return ferrors.FileSystemError(err, "create asset directory").WithContext("path", dst).Build()
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		return ferrors.FileSystemError(err, "read asset directory").WithContext("path", src).Build()
	}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())
		relPath := rel + "/" + entry.Name()
		if entry.IsDir() {
			if err := c.copyTree(ctx, srcPath, dstPath, relPath, rep); err != nil {
				return err
			}
			continue
		}
		if err := copyFile(srcPath, dstPath); err != nil {
			return ferrors.FileSystemError(err, "copy asset").WithContext("path", srcPath).Build()
		}
		c.record(relPath, rep)
	}
	return nil
}

func (c *Copier) copyOne(src, rel string, rep *Report) error {
	dst := filepath.Join(c.layout.OutputRoot, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return ferrors.FileSystemError(err, "create output directory").WithContext("path", dst).Build()
	}
	if err := copyFile(src, dst); err != nil {
		return ferrors.FileSystemError(err, "copy asset").WithContext("path", src).Build()
	}
	c.record(rel, rep)
	return nil
}

func (c *Copier) record(rel string, rep *Report) {
	rep.Files = append(rep.Files, rel)
	fmt.Fprintf(c.out, "  ✓ %s\n", rel)
	c.logger.Debug("Copied asset", logfields.Output(rel))
}

// copyFile copies a single file from src to dst, preserving its mode.
func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = srcFile.Close()
	}()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return err
	}

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, srcInfo.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(dstFile, srcFile); err != nil {
		_ = dstFile.Close()
		return err
	}
	if err := dstFile.Close(); err != nil {
		return err
	}
	return os.Chmod(dst, srcInfo.Mode().Perm())
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
