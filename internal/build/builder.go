package build

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	prom "github.com/prometheus/client_golang/prometheus"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/sitebuilder/internal/assets"
	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/content"
	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/git"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/markdown"
	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
	"git.home.luguber.info/inful/sitebuilder/internal/observability"
)

// Stage names used in logs and metrics. Category stages use the category name.
const (
	StagePrepareOutput = "prepare_output"
	StageCopyAssets    = "copy_assets"
)

// errStageSkipped marks a stage that did nothing by design.
var errStageSkipped = errors.New("stage skipped")

// Builder runs site builds for one configuration.
type Builder struct {
	cfg      *config.Config
	out      io.Writer
	logger   *slog.Logger
	recorder metrics.Recorder
	registry *prom.Registry
}

// Option configures a Builder.
type Option func(*Builder)

// WithOutput sets the writer receiving progress lines. Defaults to io.Discard.
func WithOutput(w io.Writer) Option { return func(b *Builder) { b.out = w } }

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option { return func(b *Builder) { b.logger = l } }

// WithRecorder sets the metrics recorder. Defaults to metrics.NoopRecorder.
func WithRecorder(r metrics.Recorder) Option { return func(b *Builder) { b.recorder = r } }

// WithMetricsRegistry sets the registry exported to the configured metrics
// textfile after each build.
func WithMetricsRegistry(reg *prom.Registry) Option { return func(b *Builder) { b.registry = reg } }

// NewBuilder returns a Builder for cfg.
func NewBuilder(cfg *config.Config, opts ...Option) *Builder {
	b := &Builder{
		cfg:      cfg,
		out:      io.Discard,
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Run executes one full build. The returned Report is never nil, even on error.
func (b *Builder) Run(ctx context.Context) (*Report, error) {
	report := &Report{
		BuildID:   uuid.NewString(),
		StartTime: time.Now(),
	}
	if b.cfg == nil {
		report.finish(StatusFailed)
		b.recorder.IncBuildOutcome(metrics.OutcomeFailed)
		return report, ferrors.ConfigError("config required").Build()
	}
	report.Output = b.cfg.OutputRoot()

	ctx = observability.WithBuildID(ctx, report.BuildID)
	report.Revision = b.readRevision(ctx)
	observability.InfoContext(ctx, b.logger, "Starting build",
		logfields.Output(report.Output), logfields.Revision(report.Revision))

	fmt.Fprintln(b.out, "Building site...")
	fmt.Fprintln(b.out)

	err := b.runStages(ctx, report)
	b.recorder.ObserveBuildDuration(time.Since(report.StartTime))
	switch {
	case err == nil:
		report.finish(StatusSuccess)
		b.recorder.IncBuildOutcome(metrics.OutcomeSuccess)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		report.finish(StatusCanceled)
		b.recorder.IncBuildOutcome(metrics.OutcomeFailed)
	default:
		report.finish(StatusFailed)
		b.recorder.IncBuildOutcome(metrics.OutcomeFailed)
	}
	b.writeMetrics(ctx)

	if err != nil {
		observability.ErrorContext(ctx, b.logger, "Build failed", logfields.Error(err))
		return report, err
	}

	fmt.Fprintln(b.out)
	fmt.Fprintln(b.out, "✓ Build complete!")
	fmt.Fprintf(b.out, "  Output: %s\n", report.Output)
	observability.InfoContext(ctx, b.logger, "Build complete",
		logfields.Count(report.TotalPages()),
		logfields.DurationMS(float64(report.Duration.Microseconds())/1000))
	return report, nil
}

func (b *Builder) runStages(ctx context.Context, report *Report) error {
	if err := b.stage(ctx, StagePrepareOutput, func(context.Context) error {
		return b.prepareOutput()
	}); err != nil {
		return err
	}

	renderer := markdown.NewRenderer(markdown.Options{
		HardWraps:  b.cfg.Content.HardWraps,
		EscapeHTML: b.cfg.Content.EscapeHTML,
	})
	for _, cat := range b.cfg.Categories {
		err := b.stage(ctx, cat.Name, func(ctx context.Context) error {
			res, err := b.processCategory(ctx, renderer, cat)
			report.Categories = append(report.Categories, res)
			if err == nil && res.Skipped {
				return errStageSkipped
			}
			return err
		})
		if err != nil {
			return err
		}
	}

	return b.stage(ctx, StageCopyAssets, func(ctx context.Context) error {
		files, err := b.copyAssets(ctx)
		report.Assets = files
		return err
	})
}

// stage runs fn with stage-scoped logging and metrics.
func (b *Builder) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ctx = observability.WithStage(ctx, name)
	start := time.Now()
	err := fn(ctx)
	b.recorder.ObserveStageDuration(name, time.Since(start))
	if errors.Is(err, errStageSkipped) {
		b.recorder.IncStageResult(name, metrics.ResultSkipped)
		return nil
	}
	if err != nil {
		b.recorder.IncStageResult(name, metrics.ResultFailed)
		return err
	}
	b.recorder.IncStageResult(name, metrics.ResultSuccess)
	observability.Logger(ctx, b.logger).Debug("Stage complete",
		logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
	return nil
}

func (b *Builder) prepareOutput() error {
	out := b.cfg.OutputRoot()
	if err := os.MkdirAll(out, 0o755); err != nil {
		return ferrors.FileSystemError(err, "create output directory").WithContext("path", out).Build()
	}
	return nil
}

func (b *Builder) processCategory(ctx context.Context, renderer *markdown.Renderer, cat config.CategoryConfig) (CategoryResult, error) {
	ctx = observability.WithCategory(ctx, cat.Name)
	logger := observability.Logger(ctx, b.logger)
	res := CategoryResult{Name: cat.Name}

	fmt.Fprintf(b.out, "Processing %s...\n", cat.Title)

	tmpl := b.cfg.TemplatePath(cat)
	if cat.OptionalTemplate && !fileExists(tmpl) {
		fmt.Fprintf(b.out, "  ⚠ %s template not found, skipping %s\n\n", templateLabel(cat.Template), cat.Title)
		logger.Warn("Template not found; category skipped", logfields.Path(tmpl))
		res.Skipped = true
		return res, nil
	}

	proc := content.NewProcessor(renderer,
		content.WithOutput(b.out),
		content.WithLogger(logger),
		content.WithExtension(b.cfg.Content.Extension),
		content.WithOrder(b.cfg.Content.Order),
		content.WithStrictFrontmatter(b.cfg.Content.StrictFrontmatter),
	)
	pages, err := proc.ProcessDirectory(ctx, b.cfg.ContentDir(cat), tmpl, b.cfg.OutputDir(cat))
	if err != nil {
		return res, err
	}
	res.Pages = pages
	b.recorder.AddPagesRendered(cat.Name, len(pages))

	fmt.Fprintf(b.out, "  Total: %d %s\n\n", len(pages), cat.Unit)
	logger.Info("Category rendered", logfields.Count(len(pages)))
	return res, nil
}

func (b *Builder) copyAssets(ctx context.Context) ([]string, error) {
	fmt.Fprintln(b.out, "\nCopying static assets...")

	copier := assets.NewCopier(assets.Layout{
		SourceRoot:  b.cfg.SourceRoot(),
		OutputRoot:  b.cfg.OutputRoot(),
		Dirs:        b.cfg.Assets.Dirs,
		Sections:    b.cfg.Assets.Sections,
		Favicon:     b.cfg.Assets.Favicon,
		DraftPrefix: b.cfg.Assets.DraftPrefix,
	}, assets.WithOutput(b.out), assets.WithLogger(observability.Logger(ctx, b.logger)))

	rep, err := copier.Copy(ctx)
	b.recorder.AddAssetsCopied(len(rep.Files))
	return rep.Files, err
}

func (b *Builder) readRevision(ctx context.Context) string {
	root := b.cfg.Root
	if root == "" {
		root = "."
	}
	rev, err := git.ReadRevision(root)
	switch {
	case errors.Is(err, git.ErrNotRepository):
		return ""
	case err != nil:
		observability.WarnContext(ctx, b.logger, "Could not read source revision", logfields.Error(err))
		return ""
	}
	return rev.Commit
}

func (b *Builder) writeMetrics(ctx context.Context) {
	path := b.cfg.MetricsFile()
	if path == "" || b.registry == nil {
		return
	}
	if err := metrics.WriteTextfile(b.registry, path); err != nil {
		observability.WarnContext(ctx, b.logger, "Failed to write metrics textfile",
			logfields.Path(path), logfields.Error(err))
	}
}

// templateLabel turns "note.html" into "Note".
func templateLabel(name string) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	return cases.Title(language.English).String(base)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
