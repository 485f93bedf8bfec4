package commands

import (
	"fmt"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/sitebuilder/internal/build"
	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output      string `short:"o" help:"Override the output directory"`
	Order       string `help:"Override content order (filename|date)"`
	Strict      bool   `help:"Fail on malformed frontmatter"`
	MetricsFile string `name:"metrics-file" help:"Write Prometheus metrics to this file after the build"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	if err := b.apply(cfg); err != nil {
		return err
	}
	root.configureLogging(g, cfg)

	_, err = RunBuild(g, cfg)
	return err
}

// apply overlays the command flags on cfg and revalidates it.
func (b *BuildCmd) apply(cfg *config.Config) error {
	if b.Output != "" {
		cfg.Paths.Output = b.Output
	}
	if b.Order != "" {
		order, err := config.NormalizeSortOrder(b.Order)
		if err != nil {
			return fmt.Errorf("--order: %w", err)
		}
		cfg.Content.Order = order
	}
	if b.Strict {
		cfg.Content.StrictFrontmatter = true
	}
	if b.MetricsFile != "" {
		cfg.Metrics.File = b.MetricsFile
	}
	return config.Validate(cfg)
}

// RunBuild runs one build of cfg, exporting metrics when a metrics file is
// configured.
func RunBuild(g *Global, cfg *config.Config) (*build.Report, error) {
	opts := []build.Option{build.WithOutput(g.Out), build.WithLogger(g.Logger)}
	if cfg.MetricsFile() != "" {
		reg := prom.NewRegistry()
		opts = append(opts,
			build.WithRecorder(metrics.NewPrometheusRecorder(reg)),
			build.WithMetricsRegistry(reg))
	}
	return build.NewBuilder(cfg, opts...).Run(g.Ctx)
}
