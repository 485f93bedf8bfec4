package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
)

// LogLevelEnv overrides the log level unless --verbose is given.
const LogLevelEnv = "SITEBUILDER_LOG_LEVEL"

// Global holds state shared by all subcommands.
type Global struct {
	Ctx    context.Context
	Logger *slog.Logger
	// Out receives user-facing progress lines.
	Out io.Writer
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (default: ./sitebuilder.yaml when present)" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build   BuildCmd   `cmd:"" default:"withargs" help:"Build the site (default command)"`
	Init    InitCmd    `cmd:"" help:"Write a starter configuration file"`
	Check   CheckCmd   `cmd:"" help:"Build the site and verify internal links"`
	Preview PreviewCmd `cmd:"" help:"Serve the site locally and rebuild on changes"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	slog.SetDefault(newLogger(c.logLevel(config.LogLevelInfo), config.LogFormatText))
	return nil
}

// LoadConfig loads the configuration named by --config. Without the flag the
// default file is used when present and built-in defaults otherwise.
func (c *CLI) LoadConfig() (*config.Config, error) {
	if c.Config == "" {
		return config.LoadOrDefault(config.DefaultFile)
	}
	return config.Load(c.Config)
}

// configureLogging applies the logging section of cfg unless the level was
// forced by flag or environment, and updates g.Logger.
func (c *CLI) configureLogging(g *Global, cfg *config.Config) {
	logger := newLogger(c.logLevel(cfg.Logging.Level), cfg.Logging.Format)
	slog.SetDefault(logger)
	g.Logger = logger
}

// logLevel resolves the effective level: --verbose, then the environment,
// then fallback.
func (c *CLI) logLevel(fallback config.LogLevel) config.LogLevel {
	if c.Verbose {
		return config.LogLevelDebug
	}
	if env := os.Getenv(LogLevelEnv); env != "" {
		return config.NormalizeLogLevel(env)
	}
	return fallback
}

func newLogger(level config.LogLevel, format config.LogFormat) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level.SlogLevel()}
	if format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
