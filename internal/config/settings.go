package config

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Settings is the resolved settings document handed to the documentation
// generator. Keys use the generator's own names.
type Settings struct {
	Project                   string                    `json:"project" yaml:"project"`
	Extensions                []string                  `json:"extensions" yaml:"extensions"`
	ExcludePatterns           []string                  `json:"exclude_patterns" yaml:"exclude_patterns"`
	SuppressWarnings          []string                  `json:"suppress_warnings" yaml:"suppress_warnings"`
	CodeautolinkConcatDefault bool                      `json:"codeautolink_concat_default" yaml:"codeautolink_concat_default"`
	HTMLTheme                 string                    `json:"html_theme" yaml:"html_theme"`
	HTMLLogo                  string                    `json:"html_logo,omitempty" yaml:"html_logo,omitempty"`
	HTMLFavicon               string                    `json:"html_favicon,omitempty" yaml:"html_favicon,omitempty"`
	HTMLJSFiles               []string                  `json:"html_js_files" yaml:"html_js_files"`
	HTMLStaticPath            []string                  `json:"html_static_path" yaml:"html_static_path"`
	HTMLThemeOptions          ThemeSettings             `json:"html_theme_options" yaml:"html_theme_options"`
	IntersphinxMapping        map[string]IntersphinxRef `json:"intersphinx_mapping" yaml:"intersphinx_mapping"`
	MystEnableExtensions      []string                  `json:"myst_enable_extensions" yaml:"myst_enable_extensions"`
	MystHeadingAnchors        int                       `json:"myst_heading_anchors" yaml:"myst_heading_anchors"`
	NBExecutionAllowErrors    bool                      `json:"nb_execution_allow_errors" yaml:"nb_execution_allow_errors"`
	NBExecutionMode           string                    `json:"nb_execution_mode" yaml:"nb_execution_mode"`
	NBExecutionShowTB         bool                      `json:"nb_execution_show_tb" yaml:"nb_execution_show_tb"`
	NBExecutionTimeout        int                       `json:"nb_execution_timeout" yaml:"nb_execution_timeout"`
	NBOutputStderr            string                    `json:"nb_output_stderr" yaml:"nb_output_stderr"`
	// StaticFiles lists files published into the static-assets directory for this build.
	StaticFiles []string `json:"static_files" yaml:"static_files"`
}

// IntersphinxRef is an (inventory URL, inventory file) pair; the file is
// always null so the generator fetches objects.inv from the URL.
type IntersphinxRef [2]*string

// ThemeSettings is html_theme_options.
type ThemeSettings struct {
	IconLinks           []IconLinkSettings    `json:"icon_links" yaml:"icon_links"`
	LaunchButtons       LaunchButtonsSettings `json:"launch_buttons" yaml:"launch_buttons"`
	Logo                LogoSettings          `json:"logo" yaml:"logo"`
	PathToDocs          string                `json:"path_to_docs" yaml:"path_to_docs"`
	RepositoryBranch    string                `json:"repository_branch" yaml:"repository_branch"`
	RepositoryURL       string                `json:"repository_url" yaml:"repository_url"`
	ShowTOCLevel        int                   `json:"show_toc_level" yaml:"show_toc_level"`
	UseDownloadButton   bool                  `json:"use_download_button" yaml:"use_download_button"`
	UseEditPageButton   bool                  `json:"use_edit_page_button" yaml:"use_edit_page_button"`
	UseIssuesButton     bool                  `json:"use_issues_button" yaml:"use_issues_button"`
	UseRepositoryButton bool                  `json:"use_repository_button" yaml:"use_repository_button"`
	UseSourceButton     bool                  `json:"use_source_button" yaml:"use_source_button"`
}

// IconLinkSettings is one resolved icon link.
type IconLinkSettings struct {
	Icon string `json:"icon" yaml:"icon"`
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
	URL  string `json:"url" yaml:"url"`
}

// LaunchButtonsSettings is html_theme_options.launch_buttons.
type LaunchButtonsSettings struct {
	BinderHubURL      string `json:"binderhub_url" yaml:"binderhub_url"`
	ColabURL          string `json:"colab_url" yaml:"colab_url"`
	NotebookInterface string `json:"notebook_interface" yaml:"notebook_interface"`
}

// LogoSettings is html_theme_options.logo.
type LogoSettings struct {
	Text string `json:"text" yaml:"text"`
}

// Settings resolves cfg into the generator's settings document. published
// is the publisher's result and is merged into StaticFiles.
func (c *Config) Settings(published []string) *Settings {
	urls := c.URLs()
	s := &Settings{
		Project:                   c.Project,
		Extensions:                nonNil(c.Sphinx.Extensions),
		ExcludePatterns:           nonNil(c.Sphinx.ExcludePatterns),
		SuppressWarnings:          nonNil(c.Sphinx.SuppressWarnings),
		CodeautolinkConcatDefault: Enabled(c.Sphinx.CodeAutolinkConcatDefault),
		HTMLTheme:                 c.HTML.Theme,
		HTMLLogo:                  c.HTML.Logo,
		HTMLFavicon:               c.HTML.Favicon,
		HTMLJSFiles:               nonNil(c.HTML.JSFiles),
		HTMLStaticPath:            nonNil(c.HTML.StaticPath),
		HTMLThemeOptions: ThemeSettings{
			LaunchButtons: LaunchButtonsSettings{
				BinderHubURL:      c.Theme.LaunchButtons.BinderHubURL,
				ColabURL:          c.Theme.LaunchButtons.ColabURL,
				NotebookInterface: string(c.Theme.LaunchButtons.NotebookInterface),
			},
			Logo:                LogoSettings{Text: c.Theme.LogoText},
			PathToDocs:          c.Repository.PathToDocs,
			RepositoryBranch:    c.Repository.Branch,
			RepositoryURL:       urls.Repository,
			ShowTOCLevel:        c.Theme.ShowTOCLevel,
			UseDownloadButton:   Enabled(c.Theme.Buttons.Download),
			UseEditPageButton:   Enabled(c.Theme.Buttons.EditPage),
			UseIssuesButton:     Enabled(c.Theme.Buttons.Issues),
			UseRepositoryButton: Enabled(c.Theme.Buttons.Repository),
			UseSourceButton:     Enabled(c.Theme.Buttons.Source),
		},
		IntersphinxMapping:     make(map[string]IntersphinxRef, len(c.Intersphinx)),
		NBExecutionAllowErrors: c.Notebook.AllowErrors,
		NBExecutionMode:        string(c.Notebook.ExecutionMode),
		NBExecutionShowTB:      Enabled(c.Notebook.ShowTraceback),
		NBOutputStderr:         string(c.Notebook.OutputStderr),
		StaticFiles:            append([]string{}, published...),
	}

	s.HTMLThemeOptions.IconLinks = make([]IconLinkSettings, 0, len(c.Theme.IconLinks))
	for _, link := range c.ResolvedIconLinks() {
		s.HTMLThemeOptions.IconLinks = append(s.HTMLThemeOptions.IconLinks, IconLinkSettings{
			Icon: link.Icon, Name: link.Name, Type: string(link.Type), URL: link.URL,
		})
	}
	for name, inv := range c.Intersphinx {
		u := inv
		s.IntersphinxMapping[name] = IntersphinxRef{&u, nil}
	}
	s.MystEnableExtensions = make([]string, 0, len(c.MyST.EnableExtensions))
	for _, ext := range c.MyST.EnableExtensions {
		s.MystEnableExtensions = append(s.MystEnableExtensions, string(ext))
	}
	if c.MyST.HeadingAnchors != nil {
		s.MystHeadingAnchors = *c.MyST.HeadingAnchors
	}
	s.NBExecutionTimeout = -1
	if c.Notebook.Timeout != nil {
		s.NBExecutionTimeout = *c.Notebook.Timeout
	}
	return s
}

// RenderFormat selects the settings document encoding.
type RenderFormat string

const (
	RenderJSON RenderFormat = "json"
	RenderYAML RenderFormat = "yaml"
)

// Render writes s to w.
func (s *Settings) Render(w io.Writer, format RenderFormat) error {
	switch format {
	case RenderYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("render settings: %w", err)
		}
		return enc.Close()
	case RenderJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("render settings: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported settings format %q", format)
	}
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
