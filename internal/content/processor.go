package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/frontmatter"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/markdown"
	"git.home.luguber.info/inful/sitebuilder/internal/page"
)

// Processor renders the content files of a directory.
type Processor struct {
	renderer  *markdown.Renderer
	out       io.Writer
	logger    *slog.Logger
	extension string
	order     config.SortOrder
	strict    bool
}

// Option configures a Processor.
type Option func(*Processor)

// WithOutput sets the writer receiving progress lines. Defaults to io.Discard.
func WithOutput(w io.Writer) Option { return func(p *Processor) { p.out = w } }

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option { return func(p *Processor) { p.logger = l } }

// WithExtension sets the content file extension. Defaults to ".md".
func WithExtension(ext string) Option { return func(p *Processor) { p.extension = ext } }

// WithOrder selects the output order. Defaults to config.SortByFilename.
func WithOrder(o config.SortOrder) Option { return func(p *Processor) { p.order = o } }

// WithStrictFrontmatter makes malformed frontmatter a build error.
func WithStrictFrontmatter(strict bool) Option { return func(p *Processor) { p.strict = strict } }

// NewProcessor returns a Processor rendering Markdown with r.
func NewProcessor(r *markdown.Renderer, opts ...Option) *Processor {
	p := &Processor{
		renderer:  r,
		out:       io.Discard,
		logger:    slog.Default(),
		extension: ".md",
		order:     config.SortByFilename,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// document is a content file read from disk, before rendering.
type document struct {
	name string
	path string
	raw  string
	body string
	meta frontmatter.Metadata
	date time.Time
}

// ProcessDirectory renders every content file in contentDir with the template
// at templatePath and writes the pages to outputDir.
//
// A missing contentDir is not an error: a warning is printed and an empty
// result returned. Any other filesystem error aborts processing.
func (p *Processor) ProcessDirectory(ctx context.Context, contentDir, templatePath, outputDir string) ([]Summary, error) {
	if _, err := os.Stat(contentDir); errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(p.out, "  ⚠ Directory not found: %s\n", contentDir)
		p.logger.Warn("Content directory not found", logfields.Path(contentDir))
		return []Summary{}, nil
	}

	names, err := p.listFiles(contentDir)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return []Summary{}, nil
	}

	docs := make([]document, 0, len(names))
	for _, name := range names {
		doc, err := p.readDocument(filepath.Join(contentDir, name))
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if p.order == config.SortByDate {
		sortByDate(docs)
	}

	tmpl, err := os.ReadFile(templatePath)
	if err != nil {
		return nil, ferrors.FileSystemError(err, "read template").WithContext("path", templatePath).Build()
	}

	summaries := make([]Summary, 0, len(docs))
	written := make(map[string]string, len(docs))
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s, err := p.renderDocument(doc, string(tmpl), outputDir)
		if err != nil {
			return nil, err
		}
		if prev, dup := written[s.Slug]; dup {
			p.logger.Warn("Duplicate slug; later file overwrites earlier output",
				logfields.Slug(s.Slug), logfields.File(doc.path), slog.String("previous", prev))
		}
		written[s.Slug] = doc.path
		summaries = append(summaries, s)
	}
	return summaries, nil
}

// listFiles returns the content file names of dir, sorted descending.
func (p *Processor) listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, ferrors.FileSystemError(err, "read content directory").WithContext("path", dir).Build()
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), p.extension) {
			continue
		}
		names = append(names, e.Name())
	}
	slices.Sort(names)
	slices.Reverse(names)
	return names, nil
}

func (p *Processor) readDocument(path string) (document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return document{}, ferrors.FileSystemError(err, "read content file").WithContext("path", path).Build()
	}
	text := string(data)
	doc := document{name: filepath.Base(path), path: path}

	if p.strict {
		meta, body, err := frontmatter.ParseStrict(text)
		if err != nil {
			return document{}, ferrors.WrapError(err, ferrors.CategoryValidation, "invalid frontmatter").
				Fatal().WithContext("path", path).Build()
		}
		doc.meta, doc.body = meta, body
	} else {
		doc.meta, doc.body = frontmatter.Parse(text)
	}
	doc.raw, _, _ = frontmatter.Split(text)
	doc.date, _ = page.ParseDate(doc.meta.Get("date"))
	return doc, nil
}

// Slug returns the explicit frontmatter slug or the file name without extension.
func Slug(meta frontmatter.Metadata, path, extension string) string {
	return meta.ValueOr("slug", strings.TrimSuffix(filepath.Base(path), extension))
}

func (p *Processor) renderDocument(doc document, tmpl, outputDir string) (Summary, error) {
	htmlBody, err := p.renderer.Render(doc.body)
	if err != nil {
		return Summary{}, ferrors.RenderError(err, "render markdown").WithContext("path", doc.path).Build()
	}

	slug := Slug(doc.meta, doc.path, p.extension)
	html := page.Render(tmpl, page.Resolve(doc.meta, slug, htmlBody))

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return Summary{}, ferrors.FileSystemError(err, "create output directory").WithContext("path", outputDir).Build()
	}
	outPath := filepath.Join(outputDir, slug+".html")
	if err := os.WriteFile(outPath, []byte(html), 0o644); err != nil {
		return Summary{}, ferrors.FileSystemError(err, "write page").WithContext("path", outPath).Build()
	}

	fmt.Fprintf(p.out, "  ✓ %s → %s\n", doc.name, filepath.Base(outPath))

	s := Summary{
		Title:       doc.meta.Get("title"),
		Description: doc.meta.Get("description"),
		Date:        doc.meta.Get("date"),
		Category:    doc.meta.Get("category"),
		Slug:        slug,
		Source:      doc.path,
		Output:      outPath,
		Fingerprint: mdfp.CalculateFingerprintFromParts(doc.raw, doc.body),
	}
	p.logger.Debug("Rendered page",
		logfields.File(doc.path), logfields.Output(outPath), logfields.Slug(slug),
		slog.String("fingerprint", s.Fingerprint))
	return s, nil
}

// sortByDate orders docs newest first by frontmatter date. Undated documents
// go last; ties keep their filename order.
func sortByDate(docs []document) {
	slices.SortStableFunc(docs, func(a, b document) int {
		switch {
		case a.date.IsZero() && b.date.IsZero():
			return 0
		case a.date.IsZero():
			return 1
		case b.date.IsZero():
			return -1
		default:
			return b.date.Compare(a.date)
		}
	})
}
