package commands

import (
	"fmt"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/sitebuilder/internal/build"
	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
	"git.home.luguber.info/inful/sitebuilder/internal/preview"
)

// PreviewCmd serves the output directory and rebuilds when inputs change.
type PreviewCmd struct {
	BuildCmd `embed:""`
	Addr     string        `name:"addr" default:"localhost:8080" help:"Listen address."`
	Poll     time.Duration `name:"poll" help:"Also rebuild periodically at this interval (0 disables)."`
	Debounce time.Duration `name:"debounce" default:"300ms" help:"Quiet period after a change before rebuilding."`
}

func (p *PreviewCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	if err := p.apply(cfg); err != nil {
		return err
	}
	root.configureLogging(g, cfg)

	reg := prom.NewRegistry()
	builder := build.NewBuilder(cfg,
		build.WithOutput(g.Out),
		build.WithLogger(g.Logger),
		build.WithRecorder(metrics.NewPrometheusRecorder(reg)),
		build.WithMetricsRegistry(reg),
	)

	fmt.Fprintf(g.Out, "Serving %s on http://%s (Ctrl+C to stop)\n", cfg.OutputRoot(), p.Addr)
	return preview.New(cfg, builder, preview.Options{
		Addr:     p.Addr,
		Debounce: p.Debounce,
		Poll:     p.Poll,
		Registry: reg,
		Logger:   g.Logger,
	}).Run(g.Ctx)
}
