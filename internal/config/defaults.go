package config

import (
	"maps"
	"time"
)

// CurrentVersion is the configuration schema version written by Init.
const CurrentVersion = "1.0"

// Documented defaults. They reproduce the International K-matrix day site.
const (
	DefaultProject      = "International K-matrix day"
	DefaultHost         = "https://github.com"
	DefaultOrganization = "mmikhasenko"
	DefaultRepoName     = "international-k-matrix-day"
	DefaultBranch       = "main"
	DefaultPathToDocs   = "docs"

	DefaultArtifact   = "K-matrix.html"
	DefaultStaticDir  = "_static"
	DefaultSourceRoot = "."

	DefaultHTMLTheme     = "sphinx_book_theme"
	DefaultShowTOCLevel  = 2
	DefaultHeadingAnchor = 2

	DefaultHistoryPath   = ".docsite/history.db"
	DefaultNotifySubject = "docsite.publish"
	DefaultDebounce      = 500 * time.Millisecond
)

var defaultIconLinks = []IconLink{
	{Name: "Indico", URL: "https://indico.cern.ch/event/1397619", Icon: "https://indico.cern.ch/images/indico.ico", Type: IconURL},
	{Name: "Launch on Binder", URL: "https://mybinder.org/v2/gh/{organization}/{repository}/{branch}?filepath={path_to_docs}", Icon: "https://mybinder.readthedocs.io/en/latest/_static/favicon.png", Type: IconURL},
	{Name: "Launch on Colaboratory", URL: "https://colab.research.google.com/github/{organization}/{repository}/blob/{branch}", Icon: "https://avatars.githubusercontent.com/u/33467679?s=100", Type: IconURL},
	{Name: "Ruhr University Bochum", URL: "https://www.ruhr-uni-bochum.de", Icon: "https://www.ruhr-uni-bochum.de/themes/custom/rub/favicon.ico", Type: IconURL},
	{Name: "Ruhr University Bochum", URL: "https://mmikhasenko.github.io/agmikhasenko", Icon: "https://mmikhasenko.github.io/agmikhasenko/logo/ep1mikhasenko_logo_small.svg", Type: IconURL},
	{Name: "Common Partial Wave Analysis", URL: "https://compwa.github.io", Icon: "https://compwa.github.io/_static/favicon.ico", Type: IconURL},
}

var defaultIntersphinx = map[string]string{
	"ampform":    "https://ampform.readthedocs.io/stable",
	"IPython":    "https://ipython.readthedocs.io/en/stable",
	"ipywidgets": "https://ipywidgets.readthedocs.io/en/stable",
	"matplotlib": "https://matplotlib.org",
	"numba":      "https://numba.pydata.org/numba-doc/latest",
	"numpy":      "https://numpy.org/doc/1.26",
	"plotly":     "https://plotly.com/python-api-reference/",
	"python":     "https://docs.python.org/3",
	"sympy":      "https://docs.sympy.org/latest",
}

// Default returns a fully populated configuration with the documented defaults.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults fills fields the file left unset. Nil slices and maps are
// unset; an explicitly empty list stays empty.
func applyDefaults(cfg *Config) {
	if cfg.Version == "" {
		cfg.Version = CurrentVersion
	}
	if cfg.Project == "" {
		cfg.Project = DefaultProject
	}
	applyRepositoryDefaults(&cfg.Repository)
	applyStaticDefaults(&cfg.Static)
	applySphinxDefaults(&cfg.Sphinx)
	applyHTMLDefaults(&cfg.HTML, cfg.Static.Directory)
	applyThemeDefaults(&cfg.Theme, cfg.Project)
	if cfg.Intersphinx == nil {
		cfg.Intersphinx = maps.Clone(defaultIntersphinx)
	}
	if cfg.MyST.EnableExtensions == nil {
		cfg.MyST.EnableExtensions = []MySTExtension{"amsmath", "colon_fence", "dollarmath", "smartquotes"}
	}
	if cfg.MyST.HeadingAnchors == nil {
		cfg.MyST.HeadingAnchors = intPtr(DefaultHeadingAnchor)
	}
	applyNotebookDefaults(&cfg.Notebook)

	if cfg.Monitoring.Logging.Level == "" {
		cfg.Monitoring.Logging.Level = LogLevelInfo
	}
	if cfg.Monitoring.Logging.Format == "" {
		cfg.Monitoring.Logging.Format = LogFormatText
	}
	if cfg.History.Path == "" {
		cfg.History.Path = DefaultHistoryPath
	}
	if cfg.Notify.Subject == "" {
		cfg.Notify.Subject = DefaultNotifySubject
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = DefaultDebounce
	}
}

func applyRepositoryDefaults(r *RepositoryConfig) {
	if r.Host == "" {
		r.Host = DefaultHost
	}
	if r.Organization == "" {
		r.Organization = DefaultOrganization
	}
	if r.Name == "" {
		r.Name = DefaultRepoName
	}
	if r.Branch == "" {
		r.Branch = DefaultBranch
	}
	if r.PathToDocs == "" {
		r.PathToDocs = DefaultPathToDocs
	}
}

func applyStaticDefaults(s *StaticConfig) {
	if s.Artifact == "" {
		s.Artifact = DefaultArtifact
	}
	if s.Directory == "" {
		s.Directory = DefaultStaticDir
	}
	if s.SourceRoot == "" {
		s.SourceRoot = DefaultSourceRoot
	}
}

func applySphinxDefaults(s *SphinxConfig) {
	if s.Extensions == nil {
		s.Extensions = []string{
			"myst_nb",
			"sphinx_codeautolink",
			"sphinx_copybutton",
			"sphinx_design",
			"sphinx.ext.intersphinx",
		}
	}
	if s.ExcludePatterns == nil {
		s.ExcludePatterns = []string{"**.ipynb_checkpoints", "*build"}
	}
	if s.SuppressWarnings == nil {
		s.SuppressWarnings = []string{"mystnb.unknown_mime_type"}
	}
	if s.CodeAutolinkConcatDefault == nil {
		s.CodeAutolinkConcatDefault = boolPtr(true)
	}
}

func applyHTMLDefaults(h *HTMLConfig, staticDir string) {
	if h.Theme == "" {
		h.Theme = DefaultHTMLTheme
	}
	if h.Logo == "" {
		h.Logo = "https://github.com/mmikhasenko/international-k-matrix-day/assets/29308176/458409be-e6af-4838-89ff-dca8ed531874"
	}
	if h.Favicon == "" {
		h.Favicon = staticDir + "/favicon.ico"
	}
	if h.JSFiles == nil {
		h.JSFiles = []string{"https://cdnjs.cloudflare.com/ajax/libs/require.js/2.3.6/require.min.js"}
	}
	if h.StaticPath == nil {
		h.StaticPath = []string{staticDir}
	}
}

func applyThemeDefaults(t *ThemeOptions, project string) {
	if t.IconLinks == nil {
		t.IconLinks = append([]IconLink(nil), defaultIconLinks...)
	}
	for i := range t.IconLinks {
		if t.IconLinks[i].Type == "" {
			t.IconLinks[i].Type = IconURL
		}
	}
	if t.LaunchButtons.BinderHubURL == "" {
		t.LaunchButtons.BinderHubURL = "https://mybinder.org"
	}
	if t.LaunchButtons.ColabURL == "" {
		t.LaunchButtons.ColabURL = "https://colab.research.google.com"
	}
	if t.LaunchButtons.NotebookInterface == "" {
		t.LaunchButtons.NotebookInterface = InterfaceJupyterLab
	}
	if t.LogoText == "" {
		t.LogoText = project
	}
	if t.ShowTOCLevel == 0 {
		t.ShowTOCLevel = DefaultShowTOCLevel
	}
}

func applyNotebookDefaults(n *NotebookConfig) {
	if n.ExecutionMode == "" {
		n.ExecutionMode = ExecutionCache
	}
	if n.ShowTraceback == nil {
		n.ShowTraceback = boolPtr(true)
	}
	if n.Timeout == nil {
		n.Timeout = intPtr(-1)
	}
	if n.OutputStderr == "" {
		n.OutputStderr = StderrRemove
	}
}
