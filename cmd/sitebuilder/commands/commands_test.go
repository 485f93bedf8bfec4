package commands

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

// newSite creates a project with a config file and returns the config path.
func newSite(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "content", "blog", "hello.md"), "---\ntitle: Hello\n---\n[home](../index.html)\n")
	writeFile(t, filepath.Join(root, "build", "templates", "article.html"), "<main>{{content}}</main>")
	writeFile(t, filepath.Join(root, "src", "index.html"), `<a href="blog/hello.html">hello</a>`)
	writeFile(t, filepath.Join(root, config.DefaultFile), "paths:\n  output: public\n")
	return filepath.Join(root, config.DefaultFile)
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var cli CLI
	parser, err := kong.New(&cli, kong.Name("sitebuilder"), kong.Vars{"version": "test"}, kong.Exit(func(int) {}))
	require.NoError(t, err)
	kctx, err := parser.Parse(args)
	require.NoError(t, err)

	var out bytes.Buffer
	g := &Global{Ctx: context.Background(), Logger: slog.Default(), Out: &out}
	err = kctx.Run(g, &cli)
	return out.String(), err
}

func TestBuild_IsDefaultCommand(t *testing.T) {
	cfgPath := newSite(t)

	out, err := run(t, "-c", cfgPath)
	require.NoError(t, err)
	require.Contains(t, out, "Building site...")
	require.Contains(t, out, "✓ Build complete!")

	root := filepath.Dir(cfgPath)
	require.FileExists(t, filepath.Join(root, "public", "blog", "hello.html"))
	require.FileExists(t, filepath.Join(root, "public", "index.html"))
}

func TestBuild_FlagOverrides(t *testing.T) {
	cfgPath := newSite(t)
	root := filepath.Dir(cfgPath)
	metricsFile := filepath.Join(root, "metrics.prom")

	_, err := run(t, "build", "-c", cfgPath, "-o", filepath.Join(root, "out"), "--order", "date", "--metrics-file", metricsFile)
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(root, "out", "blog", "hello.html"))
	require.FileExists(t, metricsFile)
}

func TestBuild_InvalidOrder(t *testing.T) {
	_, err := run(t, "build", "-c", newSite(t), "--order", "random")
	require.Error(t, err)
}

func TestBuild_MissingConfigFile(t *testing.T) {
	_, err := run(t, "build", "-c", filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryNotFound))
}

func TestInit_WritesConfigOnce(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, "init", "-o", dir)
	require.NoError(t, err)
	require.Contains(t, out, "✓ Initialized")

	cfg, err := config.Load(filepath.Join(dir, config.DefaultFile))
	require.NoError(t, err)
	require.Equal(t, "dist", cfg.Paths.Output)

	_, err = run(t, "init", "-o", dir)
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))

	_, err = run(t, "init", "-o", dir, "--force")
	require.NoError(t, err)
}

func TestCheck_CleanSite(t *testing.T) {
	out, err := run(t, "check", "-c", newSite(t))
	require.NoError(t, err)
	require.Contains(t, out, "Checked 2 links in 2 pages, 0 broken")
}

func TestCheck_BrokenLink(t *testing.T) {
	cfgPath := newSite(t)
	writeFile(t, filepath.Join(filepath.Dir(cfgPath), "src", "about.html"), `<a href="missing.html">x</a>`)

	out, err := run(t, "check", "-c", cfgPath)
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryLinks))
	require.Contains(t, out, "  ✗ about.html → missing.html\n")
}

func TestCheck_SkipBuildWithoutOutput(t *testing.T) {
	_, err := run(t, "check", "-c", newSite(t), "--skip-build")
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryNotFound))
}

func TestLogLevelPrecedence(t *testing.T) {
	t.Setenv(LogLevelEnv, "")
	require.Equal(t, config.LogLevelWarn, (&CLI{}).logLevel(config.LogLevelWarn))

	t.Setenv(LogLevelEnv, "error")
	require.Equal(t, config.LogLevelError, (&CLI{}).logLevel(config.LogLevelWarn))
	require.Equal(t, config.LogLevelDebug, (&CLI{Verbose: true}).logLevel(config.LogLevelWarn))
}
