package commands

import (
	"fmt"

	"git.home.luguber.info/inful/sitebuilder/internal/linkcheck"
)

// CheckCmd builds the site and verifies that internal links resolve.
type CheckCmd struct {
	BuildCmd `embed:""`
	SkipBuild bool `name:"skip-build" help:"Check the existing output without rebuilding"`
}

func (c *CheckCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	if err := c.apply(cfg); err != nil {
		return err
	}
	root.configureLogging(g, cfg)

	if !c.SkipBuild {
		if _, err := RunBuild(g, cfg); err != nil {
			return err
		}
	}

	fmt.Fprintln(g.Out, "\nChecking links...")
	res, err := linkcheck.NewChecker(cfg.OutputRoot(), g.Logger).Check(g.Ctx)
	if err != nil {
		return err
	}
	for _, b := range res.Broken {
		fmt.Fprintf(g.Out, "  ✗ %s → %s\n", b.Page, b.Link.URL)
	}
	fmt.Fprintf(g.Out, "  Checked %d links in %d pages, %d broken\n", res.Checked, res.Pages, len(res.Broken))
	return res.Err()
}
