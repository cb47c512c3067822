package config

import "time"

// Config is the typed site configuration. It replaces the declarative
// settings block the documentation generator used to execute as code.
type Config struct {
	Version     string            `yaml:"version" toml:"version"`
	Project     string            `yaml:"project" toml:"project"`
	Repository  RepositoryConfig  `yaml:"repository" toml:"repository"`
	Static      StaticConfig      `yaml:"static" toml:"static"`
	Sphinx      SphinxConfig      `yaml:"sphinx" toml:"sphinx"`
	HTML        HTMLConfig        `yaml:"html" toml:"html"`
	Theme       ThemeOptions      `yaml:"theme_options" toml:"theme_options"`
	Intersphinx map[string]string `yaml:"intersphinx" toml:"intersphinx"` // project -> inventory base URL
	MyST        MySTConfig        `yaml:"myst" toml:"myst"`
	Notebook    NotebookConfig    `yaml:"notebook" toml:"notebook"`
	Monitoring  MonitoringConfig  `yaml:"monitoring,omitempty" toml:"monitoring"`
	History     HistoryConfig     `yaml:"history,omitempty" toml:"history"`
	Notify      NotifyConfig      `yaml:"notify,omitempty" toml:"notify"`
	Watch       WatchConfig       `yaml:"watch,omitempty" toml:"watch"`
}

// RepositoryConfig identifies the hosted repository the site links to.
type RepositoryConfig struct {
	Host         string `yaml:"host" toml:"host"`                 // e.g. https://github.com
	Organization string `yaml:"organization" toml:"organization"` // owner/organization
	Name         string `yaml:"name" toml:"name"`                 // repository name
	Branch       string `yaml:"branch" toml:"branch"`
	PathToDocs   string `yaml:"path_to_docs" toml:"path_to_docs"`
}

// StaticConfig describes the optional pre-built artifact and where it is published.
type StaticConfig struct {
	Artifact   string `yaml:"artifact" toml:"artifact"`       // file name in SourceRoot
	Directory  string `yaml:"directory" toml:"directory"`     // static-assets dir, relative to SourceRoot
	SourceRoot string `yaml:"source_root" toml:"source_root"` // defaults to the working directory
}

// SphinxConfig holds generator-level settings.
type SphinxConfig struct {
	Extensions                []string `yaml:"extensions" toml:"extensions"`
	ExcludePatterns           []string `yaml:"exclude_patterns" toml:"exclude_patterns"`
	SuppressWarnings          []string `yaml:"suppress_warnings" toml:"suppress_warnings"`
	CodeAutolinkConcatDefault *bool    `yaml:"codeautolink_concat_default,omitempty" toml:"codeautolink_concat_default"`
}

// HTMLConfig holds HTML output settings.
type HTMLConfig struct {
	Theme      string   `yaml:"theme" toml:"theme"`
	Logo       string   `yaml:"logo" toml:"logo"`
	Favicon    string   `yaml:"favicon" toml:"favicon"`
	JSFiles    []string `yaml:"js_files" toml:"js_files"`
	StaticPath []string `yaml:"static_path" toml:"static_path"`
}

// ThemeOptions mirrors the book theme's html_theme_options.
type ThemeOptions struct {
	IconLinks     []IconLink    `yaml:"icon_links" toml:"icon_links"`
	LaunchButtons LaunchButtons `yaml:"launch_buttons" toml:"launch_buttons"`
	LogoText      string        `yaml:"logo_text" toml:"logo_text"`
	ShowTOCLevel  int           `yaml:"show_toc_level" toml:"show_toc_level"`
	Buttons       ButtonToggles `yaml:"buttons" toml:"buttons"`
}

// IconLink is one entry of the header icon bar. URL may reference
// {host}, {organization}, {repository}, {branch} and {path_to_docs}.
type IconLink struct {
	Name string   `yaml:"name" toml:"name"`
	URL  string   `yaml:"url" toml:"url"`
	Icon string   `yaml:"icon" toml:"icon"`
	Type IconType `yaml:"type" toml:"type"`
}

// LaunchButtons configures notebook launch targets.
type LaunchButtons struct {
	BinderHubURL      string            `yaml:"binderhub_url" toml:"binderhub_url"`
	ColabURL          string            `yaml:"colab_url" toml:"colab_url"`
	NotebookInterface NotebookInterface `yaml:"notebook_interface" toml:"notebook_interface"`
}

// ButtonToggles are the use_*_button theme switches. Nil means enabled.
type ButtonToggles struct {
	Download   *bool `yaml:"download,omitempty" toml:"download"`
	EditPage   *bool `yaml:"edit_page,omitempty" toml:"edit_page"`
	Issues     *bool `yaml:"issues,omitempty" toml:"issues"`
	Repository *bool `yaml:"repository,omitempty" toml:"repository"`
	Source     *bool `yaml:"source,omitempty" toml:"source"`
}

// MySTConfig holds MyST markdown parser settings.
type MySTConfig struct {
	EnableExtensions []MySTExtension `yaml:"enable_extensions" toml:"enable_extensions"`
	HeadingAnchors   *int            `yaml:"heading_anchors,omitempty" toml:"heading_anchors"`
}

// NotebookConfig holds notebook execution settings.
type NotebookConfig struct {
	ExecutionMode ExecutionMode `yaml:"execution_mode" toml:"execution_mode"`
	AllowErrors   bool          `yaml:"allow_errors" toml:"allow_errors"`
	ShowTraceback *bool         `yaml:"show_traceback,omitempty" toml:"show_traceback"`
	Timeout       *int          `yaml:"timeout,omitempty" toml:"timeout"` // seconds, -1 = unlimited
	OutputStderr  StderrMode    `yaml:"output_stderr" toml:"output_stderr"`
}

// MonitoringConfig represents logging and metrics configuration.
type MonitoringConfig struct {
	Logging MonitoringLogging `yaml:"logging" toml:"logging"`
	Metrics MonitoringMetrics `yaml:"metrics" toml:"metrics"`
}

// MonitoringLogging represents logging configuration.
type MonitoringLogging struct {
	Level  LogLevel  `yaml:"level" toml:"level"`
	Format LogFormat `yaml:"format" toml:"format"`
}

// MonitoringMetrics points at a node-exporter textfile; empty disables it.
type MonitoringMetrics struct {
	Textfile string `yaml:"textfile" toml:"textfile"`
}

// HistoryConfig enables the SQLite record of publish runs.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled" toml:"enabled"`
	Path    string `yaml:"path" toml:"path"`
}

// NotifyConfig enables NATS events for publish runs.
type NotifyConfig struct {
	Enabled bool   `yaml:"enabled" toml:"enabled"`
	NATSURL string `yaml:"nats_url" toml:"nats_url"`
	Subject string `yaml:"subject" toml:"subject"`
}

// WatchConfig tunes watch mode.
type WatchConfig struct {
	Debounce     time.Duration `yaml:"debounce" toml:"debounce"`
	PollInterval time.Duration `yaml:"poll_interval" toml:"poll_interval"` // 0 disables polling
}

// Enabled reports the effective value of a toggle (nil means true).
func Enabled(b *bool) bool {
	return b == nil || *b
}

func boolPtr(b bool) *bool { return &b }
func intPtr(i int) *int    { return &i }
