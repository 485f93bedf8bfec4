package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault_MatchesConventionalLayout(t *testing.T) {
	cfg := Default()

	require.Equal(t, PathsConfig{Content: "content", Templates: "build/templates", Source: "src", Output: "dist"}, cfg.Paths)
	require.Equal(t, DefaultCategories(), cfg.Categories)
	require.Equal(t, []string{"css", "js"}, cfg.Assets.Dirs)
	require.Equal(t, []string{"blog", "notes"}, cfg.Assets.Sections)
	require.Equal(t, "favicon.svg", cfg.Assets.Favicon)
	require.Equal(t, "_", cfg.Assets.DraftPrefix)
	require.Equal(t, ".md", cfg.Content.Extension)
	require.Equal(t, SortByFilename, cfg.Content.Order)
	require.False(t, cfg.Content.StrictFrontmatter)
	require.Equal(t, LogLevelInfo, cfg.Logging.Level)
	require.Equal(t, LogFormatText, cfg.Logging.Format)
}

func TestDefault_PrimaryAndOptionalCategories(t *testing.T) {
	cats := DefaultCategories()
	require.Len(t, cats, 2)
	require.Equal(t, "blog", cats[0].Name)
	require.False(t, cats[0].OptionalTemplate)
	require.Equal(t, "notes", cats[1].Name)
	require.True(t, cats[1].OptionalTemplate)
}

func TestLoad_ResolvesPathsAgainstConfigDir(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "paths:\n  output: public\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, dir, cfg.Root)
	require.Equal(t, filepath.Join(dir, "public"), cfg.OutputRoot())
	require.Equal(t, filepath.Join(dir, "content"), cfg.ContentRoot())
	require.Equal(t, filepath.Join(dir, "content", "blog"), cfg.ContentDir(cfg.Categories[0]))
	require.Equal(t, filepath.Join(dir, "build", "templates", "article.html"), cfg.TemplatePath(cfg.Categories[0]))
	require.Equal(t, filepath.Join(dir, "public", "notes"), cfg.OutputDir(cfg.Categories[1]))
	require.Equal(t, []string{
		filepath.Join(dir, "content"),
		filepath.Join(dir, "build", "templates"),
		filepath.Join(dir, "src"),
	}, cfg.WatchRoots())
}

func TestLoad_RelativeRoot(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "root: site\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "site"), cfg.Root)
	require.Equal(t, filepath.Join(dir, "site", "dist"), cfg.OutputRoot())
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	t.Setenv("SITE_OUT", "/tmp/site-out")
	dir := t.TempDir()
	path := writeConfig(t, dir, "paths:\n  output: ${SITE_OUT}\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/tmp/site-out", cfg.OutputRoot())
}

func TestLoad_ReadsDotEnvWithoutOverriding(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SB_TEST_OUT=from-dotenv\nSB_TEST_KEEP=from-dotenv\n"), 0o644))
	t.Setenv("SB_TEST_KEEP", "from-env")
	t.Setenv("SB_TEST_OUT", "")
	require.NoError(t, os.Unsetenv("SB_TEST_OUT"))
	path := writeConfig(t, dir, "paths:\n  output: ${SB_TEST_OUT}\n  source: ${SB_TEST_KEEP}\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "from-dotenv", cfg.Paths.Output)
	require.Equal(t, "from-env", cfg.Paths.Source)
}

func TestLoad_CustomCategories(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
categories:
  - name: posts
    template: post.html
  - name: docs
    template: doc.html
    title: documentation pages
    unit: pages
    optional_template: true
content:
  order: Date
  strict_frontmatter: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Categories, 2)
	require.Equal(t, CategoryConfig{Name: "posts", Template: "post.html", Title: "posts", Unit: "pages"}, cfg.Categories[0])
	require.True(t, cfg.Categories[1].OptionalTemplate)
	require.Equal(t, []string{"posts", "docs"}, cfg.Assets.Sections)
	require.Equal(t, SortByDate, cfg.Content.Order)
	require.True(t, cfg.Content.StrictFrontmatter)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.True(t, ferrors.HasCategory(err, ferrors.CategoryNotFound))
	})

	t.Run("bad yaml", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "paths: [unclosed\n")
		_, err := Load(path)
		require.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
	})

	t.Run("unknown order", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "content:\n  order: random\n")
		_, err := Load(path)
		require.Error(t, err)
		require.Contains(t, err.Error(), "random")
	})

	t.Run("duplicate category", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "categories:\n  - {name: a, template: a.html}\n  - {name: a, template: b.html}\n")
		_, err := Load(path)
		require.ErrorContains(t, err, "duplicate category name")
	})

	t.Run("nested category name", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "categories:\n  - {name: a/b, template: a.html}\n")
		_, err := Load(path)
		require.ErrorContains(t, err, "single path segment")
	})

	t.Run("output equals source", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "paths:\n  source: site\n  output: ./site\n")
		_, err := Load(path)
		require.ErrorContains(t, err, "output directory must differ")
	})
}

func TestLoadOrDefault(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadOrDefault(filepath.Join(dir, DefaultFile))
	require.NoError(t, err)
	require.Equal(t, dir, cfg.Root)
	require.Equal(t, filepath.Join(dir, "dist"), cfg.OutputRoot())

	path := writeConfig(t, dir, "content:\n  order: nonsense\n")
	_, err = LoadOrDefault(path)
	require.Error(t, err)
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", DefaultFile)

	require.NoError(t, Init(path, false))
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, Default().Categories, cfg.Categories)
	require.Equal(t, Default().Paths, cfg.Paths)

	err = Init(path, false)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
	require.NoError(t, Init(path, true))
}

func TestLogLevel(t *testing.T) {
	require.Equal(t, LogLevelWarn, NormalizeLogLevel(" WARNING "))
	require.Equal(t, LogLevelInfo, NormalizeLogLevel("verbose"))
	require.Equal(t, LogLevelDebug.SlogLevel().String(), "DEBUG")
	require.Equal(t, LogFormatJSON, NormalizeLogFormat("JSON"))
}
