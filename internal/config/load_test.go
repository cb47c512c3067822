package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, Validate(cfg))
	require.Equal(t, "International K-matrix day", cfg.Project)
	require.Equal(t, "K-matrix.html", cfg.Static.Artifact)
	require.Equal(t, "_static", cfg.Static.Directory)
	require.Equal(t, []string{"_static"}, cfg.HTML.StaticPath)
	require.Equal(t, "_static/favicon.ico", cfg.HTML.Favicon)
	require.Equal(t, ExecutionCache, cfg.Notebook.ExecutionMode)
	require.Equal(t, -1, *cfg.Notebook.Timeout)
	require.Len(t, cfg.Theme.IconLinks, 6)
	require.Len(t, cfg.Intersphinx, 9)
}

func TestParseMinimalYAMLUsesDefaults(t *testing.T) {
	cfg, err := Parse([]byte("version: \"1.0\"\n"), FormatYAML)
	require.NoError(t, err)
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("minimal config differs from defaults (-want +got):\n%s", diff)
	}
}

func TestParseEmptyDocument(t *testing.T) {
	cfg, err := Parse(nil, FormatYAML)
	require.NoError(t, err)
	require.Equal(t, CurrentVersion, cfg.Version)
}

func TestParseOverridesAndCanonicalizes(t *testing.T) {
	data := `
version: "1.0"
project: Pole hunting
repository:
  organization: ComPWA
  name: kmatrix-school
  branch: develop
static:
  artifact: poles.html
  directory: assets
html:
  static_path: [assets]
theme_options:
  launch_buttons:
    notebook_interface: " JupyterLab "
  buttons:
    issues: false
notebook:
  execution_mode: FORCE
  output_stderr: Remove-Warn
  timeout: 120
myst:
  enable_extensions: [Dollarmath]
  heading_anchors: 3
intersphinx: {}
watch:
  debounce: 2s
  poll_interval: 1m
`
	cfg, err := Parse([]byte(data), FormatYAML)
	require.NoError(t, err)

	require.Equal(t, "Pole hunting", cfg.Project)
	require.Equal(t, "Pole hunting", cfg.Theme.LogoText)
	require.Equal(t, "poles.html", cfg.Static.Artifact)
	require.Equal(t, InterfaceJupyterLab, cfg.Theme.LaunchButtons.NotebookInterface)
	require.Equal(t, ExecutionForce, cfg.Notebook.ExecutionMode)
	require.Equal(t, StderrRemoveWarn, cfg.Notebook.OutputStderr)
	require.Equal(t, 120, *cfg.Notebook.Timeout)
	require.Equal(t, []MySTExtension{"dollarmath"}, cfg.MyST.EnableExtensions)
	require.Equal(t, 3, *cfg.MyST.HeadingAnchors)
	require.Empty(t, cfg.Intersphinx, "explicit empty map must not be replaced by defaults")
	require.False(t, Enabled(cfg.Theme.Buttons.Issues))
	require.True(t, Enabled(cfg.Theme.Buttons.Source))
	require.Equal(t, 2*time.Second, cfg.Watch.Debounce)
	require.Equal(t, time.Minute, cfg.Watch.PollInterval)
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("version: \"1.0\"\nhtml_theme: alabaster\n"), FormatYAML)
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))

	_, err = Parse([]byte("version = \"1.0\"\nhtml_theme = \"alabaster\"\n"), FormatTOML)
	require.Error(t, err)
	var verrs ValidationErrors
	require.True(t, stderrors.As(err, &verrs))
	require.Equal(t, []string{"html_theme"}, verrs.Fields())

	ce, ok := errors.AsClassified(err)
	require.True(t, ok)
	require.Equal(t, "html_theme", ce.Context()["fields"])
}

func TestLoadExpandsEnvFromDotEnv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".env", "DOCSITE_TEST_BRANCH=release\nDOCSITE_TEST_ORG=\"compwa\"\n")
	t.Cleanup(func() {
		_ = os.Unsetenv("DOCSITE_TEST_BRANCH")
		_ = os.Unsetenv("DOCSITE_TEST_ORG")
	})
	t.Setenv("DOCSITE_TEST_ORG_PRESET", "kept")

	path := writeFile(t, dir, "docsite.yaml", `
version: "1.0"
repository:
  organization: ${DOCSITE_TEST_ORG}
  branch: ${DOCSITE_TEST_BRANCH}
  name: ${DOCSITE_TEST_ORG_PRESET}
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "compwa", cfg.Repository.Organization)
	require.Equal(t, "release", cfg.Repository.Branch)
	require.Equal(t, "kept", cfg.Repository.Name)
}

func TestLoadDotEnvDoesNotOverrideProcessEnv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".env", "DOCSITE_TEST_PROJECT=from-file\n")
	t.Setenv("DOCSITE_TEST_PROJECT", "from-env")

	path := writeFile(t, dir, "docsite.yaml", "version: \"1.0\"\nproject: ${DOCSITE_TEST_PROJECT}\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "from-env", cfg.Project)
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "docsite.toml", `
version = "1.0"
project = "K-matrix (TOML)"

[repository]
branch = "gh-pages"

[notebook]
execution_mode = "off"
allow_errors = true

[[theme_options.icon_links]]
name = "Source"
url = "{host}/{organization}/{repository}"
icon = "fa-brands fa-github"
type = "fontawesome"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "K-matrix (TOML)", cfg.Project)
	require.Equal(t, "gh-pages", cfg.Repository.Branch)
	require.Equal(t, ExecutionOff, cfg.Notebook.ExecutionMode)
	require.True(t, cfg.Notebook.AllowErrors)
	require.Len(t, cfg.Theme.IconLinks, 1)
	require.Equal(t, IconFontAwesome, cfg.Theme.IconLinks[0].Type)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "docsite.yaml"))
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryNotFound))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestFormatFor(t *testing.T) {
	require.Equal(t, FormatTOML, FormatFor("site/docsite.TOML"))
	require.Equal(t, FormatYAML, FormatFor("docsite.yml"))
	require.Equal(t, FormatYAML, FormatFor("docsite"))
}

func TestInitRoundTrip(t *testing.T) {
	for _, name := range []string{"docsite.yaml", "docsite.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, Init(path, false))

			loaded, err := Load(path)
			require.NoError(t, err)
			if diff := cmp.Diff(Default(), loaded); diff != "" {
				t.Fatalf("init output does not load back to defaults (-want +got):\n%s", diff)
			}

			err = Init(path, false)
			require.Error(t, err)
			require.True(t, errors.HasCategory(err, errors.CategoryConfig))
			require.NoError(t, Init(path, true))
		})
	}
}
