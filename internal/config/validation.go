package config

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

// FieldError reports one invalid configuration field.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors lists every invalid field found in one pass.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	if len(v) == 1 {
		return v[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d invalid fields:", len(v))
	for _, fe := range v {
		b.WriteString("\n  - ")
		b.WriteString(fe.Error())
	}
	return b.String()
}

// Fields returns the names of the invalid fields.
func (v ValidationErrors) Fields() []string {
	out := make([]string, len(v))
	for i, fe := range v {
		out[i] = fe.Field
	}
	return out
}

func (v ValidationErrors) classified() *errors.ClassifiedError {
	return errors.WrapError(v, errors.CategoryValidation, "invalid configuration").
		Fatal().
		UserAction().
		WithContext("fields", strings.Join(v.Fields(), ",")).
		Build()
}

// Validate checks every field and canonicalizes enum values in place.
// All problems are reported together; the returned error unwraps to
// ValidationErrors.
func Validate(cfg *Config) error {
	v := &validator{}
	v.validate(cfg)
	if len(v.errs) == 0 {
		return nil
	}
	return v.errs.classified()
}

type validator struct {
	errs ValidationErrors
}

func (v *validator) add(field, format string, args ...any) {
	v.errs = append(v.errs, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (v *validator) validate(cfg *Config) {
	if cfg.Version != CurrentVersion {
		v.add("version", "unsupported version %q (expected %s)", cfg.Version, CurrentVersion)
	}
	v.required("project", cfg.Project)
	v.validateRepository(&cfg.Repository)
	v.validateStatic(cfg)
	v.validateSphinx(&cfg.Sphinx)
	v.validateHTML(&cfg.HTML)
	v.validateTheme(&cfg.Theme)
	v.validateIntersphinx(cfg.Intersphinx)
	v.validateMyST(&cfg.MyST)
	v.validateNotebook(&cfg.Notebook)
	v.validateMonitoring(&cfg.Monitoring)
	v.validateOptional(cfg)
}

func (v *validator) required(field, value string) bool {
	if strings.TrimSpace(value) == "" {
		v.add(field, "must not be empty")
		return false
	}
	return true
}

// absoluteURL requires an http(s) URL with a host.
func (v *validator) absoluteURL(field, raw string) {
	if !v.required(field, raw) {
		return
	}
	u, err := url.Parse(raw)
	if err != nil {
		v.add(field, "invalid URL: %v", err)
		return
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		v.add(field, "must be an absolute http(s) URL, got %q", raw)
	}
}

// urlOrRelative accepts an absolute http(s) URL or a relative path inside the project.
func (v *validator) urlOrRelative(field, raw string) {
	if !v.required(field, raw) {
		return
	}
	if strings.Contains(raw, "://") {
		v.absoluteURL(field, raw)
		return
	}
	v.relativePath(field, raw)
}

func (v *validator) relativePath(field, raw string) {
	p := filepath.ToSlash(raw)
	if path.IsAbs(p) || filepath.IsAbs(raw) {
		v.add(field, "must be relative, got %q", raw)
		return
	}
	if clean := path.Clean(p); clean == ".." || strings.HasPrefix(clean, "../") {
		v.add(field, "must stay inside the project, got %q", raw)
	}
}

func (v *validator) validateRepository(r *RepositoryConfig) {
	v.absoluteURL("repository.host", r.Host)
	r.Host = strings.TrimRight(r.Host, "/")
	v.required("repository.organization", r.Organization)
	v.required("repository.name", r.Name)
	v.required("repository.branch", r.Branch)
	if v.required("repository.path_to_docs", r.PathToDocs) {
		v.relativePath("repository.path_to_docs", r.PathToDocs)
	}
}

func (v *validator) validateStatic(cfg *Config) {
	s := &cfg.Static
	if v.required("static.artifact", s.Artifact) {
		if s.Artifact != filepath.Base(s.Artifact) || strings.ContainsAny(s.Artifact, `/\`) || s.Artifact == "." || s.Artifact == ".." {
			v.add("static.artifact", "must be a bare file name, got %q", s.Artifact)
		}
	}
	if v.required("static.directory", s.Directory) {
		v.relativePath("static.directory", s.Directory)
		if path.Clean(filepath.ToSlash(s.Directory)) == "." {
			v.add("static.directory", "must be a subdirectory of the source root")
		}
	}
	v.required("static.source_root", s.SourceRoot)

	served := false
	want := path.Clean(filepath.ToSlash(s.Directory))
	for _, p := range cfg.HTML.StaticPath {
		if path.Clean(filepath.ToSlash(p)) == want {
			served = true
			break
		}
	}
	if !served && s.Directory != "" {
		v.add("html.static_path", "must include static.directory %q or the published artifact is never served", s.Directory)
	}
}

func (v *validator) validateSphinx(s *SphinxConfig) {
	seen := make(map[string]bool, len(s.Extensions))
	for i, ext := range s.Extensions {
		field := fmt.Sprintf("sphinx.extensions[%d]", i)
		if !v.required(field, ext) {
			continue
		}
		if seen[ext] {
			v.add(field, "duplicate extension %q", ext)
		}
		seen[ext] = true
	}
	for i, p := range s.ExcludePatterns {
		if _, err := filepath.Match(strings.ReplaceAll(p, "**", "*"), ""); err != nil {
			v.add(fmt.Sprintf("sphinx.exclude_patterns[%d]", i), "invalid pattern %q: %v", p, err)
		}
	}
}

func (v *validator) validateHTML(h *HTMLConfig) {
	v.required("html.theme", h.Theme)
	if h.Logo != "" {
		v.urlOrRelative("html.logo", h.Logo)
	}
	if h.Favicon != "" {
		v.urlOrRelative("html.favicon", h.Favicon)
	}
	for i, js := range h.JSFiles {
		v.urlOrRelative(fmt.Sprintf("html.js_files[%d]", i), js)
	}
	for i, p := range h.StaticPath {
		field := fmt.Sprintf("html.static_path[%d]", i)
		if v.required(field, p) {
			v.relativePath(field, p)
		}
	}
}

func (v *validator) validateTheme(t *ThemeOptions) {
	for i := range t.IconLinks {
		link := &t.IconLinks[i]
		prefix := fmt.Sprintf("theme_options.icon_links[%d]", i)
		v.required(prefix+".name", link.Name)
		v.absoluteURL(prefix+".url", expandPlaceholders(link.URL, RepositoryConfig{
			Host: "https://example.invalid", Organization: "org", Name: "repo", Branch: "main", PathToDocs: "docs",
		}))
		v.required(prefix+".icon", link.Icon)
		if typ, err := iconTypeNormalizer.NormalizeWithValidation(string(link.Type)); err != nil {
			v.add(prefix+".type", "%v", err)
		} else {
			link.Type = typ
		}
	}

	lb := &t.LaunchButtons
	if lb.BinderHubURL != "" {
		v.absoluteURL("theme_options.launch_buttons.binderhub_url", lb.BinderHubURL)
	}
	if lb.ColabURL != "" {
		v.absoluteURL("theme_options.launch_buttons.colab_url", lb.ColabURL)
	}
	if ni, err := notebookInterfaceNormalizer.NormalizeWithValidation(string(lb.NotebookInterface)); err != nil {
		v.add("theme_options.launch_buttons.notebook_interface", "%v", err)
	} else {
		lb.NotebookInterface = ni
	}

	if t.ShowTOCLevel < 1 {
		v.add("theme_options.show_toc_level", "must be at least 1, got %d", t.ShowTOCLevel)
	}
}

func (v *validator) validateIntersphinx(m map[string]string) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if strings.TrimSpace(k) == "" {
			v.add("intersphinx", "project name must not be empty")
			continue
		}
		v.absoluteURL("intersphinx."+k, m[k])
	}
}

func (v *validator) validateMyST(m *MySTConfig) {
	for i, ext := range m.EnableExtensions {
		field := fmt.Sprintf("myst.enable_extensions[%d]", i)
		norm, err := mystExtensionNormalizer.NormalizeWithValidation(string(ext))
		if err != nil || norm == "" {
			if err == nil {
				err = fmt.Errorf("must not be empty")
			}
			v.add(field, "%v", err)
			continue
		}
		m.EnableExtensions[i] = norm
	}
	if m.HeadingAnchors != nil && (*m.HeadingAnchors < 0 || *m.HeadingAnchors > 6) {
		v.add("myst.heading_anchors", "must be between 0 and 6, got %d", *m.HeadingAnchors)
	}
}

func (v *validator) validateNotebook(n *NotebookConfig) {
	if mode, err := executionModeNormalizer.NormalizeWithValidation(string(n.ExecutionMode)); err != nil {
		v.add("notebook.execution_mode", "%v", err)
	} else {
		n.ExecutionMode = mode
	}
	if mode, err := stderrModeNormalizer.NormalizeWithValidation(string(n.OutputStderr)); err != nil {
		v.add("notebook.output_stderr", "%v", err)
	} else {
		n.OutputStderr = mode
	}
	if n.Timeout != nil && *n.Timeout < -1 {
		v.add("notebook.timeout", "must be -1 (unlimited) or a non-negative number of seconds, got %d", *n.Timeout)
	}
}

func (v *validator) validateMonitoring(m *MonitoringConfig) {
	if lvl, err := logLevelNormalizer.NormalizeWithValidation(string(m.Logging.Level)); err != nil {
		v.add("monitoring.logging.level", "%v", err)
	} else {
		m.Logging.Level = lvl
	}
	if f, err := logFormatNormalizer.NormalizeWithValidation(string(m.Logging.Format)); err != nil {
		v.add("monitoring.logging.format", "%v", err)
	} else {
		m.Logging.Format = f
	}
}

func (v *validator) validateOptional(cfg *Config) {
	if cfg.History.Enabled {
		v.required("history.path", cfg.History.Path)
	}
	if cfg.Notify.Enabled {
		if v.required("notify.nats_url", cfg.Notify.NATSURL) {
			if u, err := url.Parse(cfg.Notify.NATSURL); err != nil || u.Host == "" {
				v.add("notify.nats_url", "must be a server URL such as nats://localhost:4222, got %q", cfg.Notify.NATSURL)
			}
		}
		if v.required("notify.subject", cfg.Notify.Subject) && strings.ContainsAny(cfg.Notify.Subject, " \t*>") {
			v.add("notify.subject", "must be a literal subject without spaces or wildcards, got %q", cfg.Notify.Subject)
		}
	}
	if cfg.Watch.Debounce < 0 {
		v.add("watch.debounce", "must not be negative")
	}
	if cfg.Watch.PollInterval < 0 {
		v.add("watch.poll_interval", "must not be negative")
	}
}
