package config

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

func validationFields(t *testing.T, err error) []string {
	t.Helper()
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryValidation))
	var verrs ValidationErrors
	require.True(t, stderrors.As(err, &verrs), "expected ValidationErrors in chain: %v", err)
	return verrs.Fields()
}

func TestValidateReportsEveryInvalidField(t *testing.T) {
	cfg := Default()
	cfg.Version = "2.0"
	cfg.Repository.Host = "github.com"
	cfg.Static.Artifact = "../K-matrix.html"
	cfg.Static.Directory = "/var/www/_static"
	cfg.Theme.ShowTOCLevel = 0
	cfg.Theme.IconLinks[0].URL = "indico.cern.ch/event/1397619"
	cfg.Notebook.ExecutionMode = "eager"
	cfg.Notebook.Timeout = intPtr(-5)
	cfg.MyST.EnableExtensions = []MySTExtension{"dollarmath", "emoji"}
	cfg.Intersphinx["numpy"] = "numpy.org/doc"

	fields := validationFields(t, Validate(cfg))
	require.ElementsMatch(t, []string{
		"version",
		"repository.host",
		"static.artifact",
		"static.directory",
		"html.static_path",
		"theme_options.icon_links[0].url",
		"theme_options.show_toc_level",
		"intersphinx.numpy",
		"myst.enable_extensions[1]",
		"notebook.execution_mode",
		"notebook.timeout",
	}, fields)
}

func TestValidateMessages(t *testing.T) {
	cfg := Default()
	cfg.Notebook.OutputStderr = "loud"

	err := Validate(cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "notebook.output_stderr: invalid notebook.output_stderr")
	require.Contains(t, err.Error(), "remove-warn")
}

func TestValidateStaticDirectoryMustBeServed(t *testing.T) {
	cfg := Default()
	cfg.HTML.StaticPath = []string{"assets"}
	require.Equal(t, []string{"html.static_path"}, validationFields(t, Validate(cfg)))

	cfg.HTML.StaticPath = []string{"./_static/"}
	require.NoError(t, Validate(cfg))
}

func TestValidateStaticDirectoryEscapes(t *testing.T) {
	cfg := Default()
	cfg.Static.Directory = "../public"
	cfg.HTML.StaticPath = []string{"../public"}
	fields := validationFields(t, Validate(cfg))
	require.Contains(t, fields, "static.directory")
	require.Contains(t, fields, "html.static_path[0]")
}

func TestValidateOptionalSections(t *testing.T) {
	cfg := Default()
	cfg.Notify.Enabled = true
	cfg.Notify.NATSURL = ""
	cfg.Notify.Subject = "docsite.>"
	cfg.History.Enabled = true
	cfg.History.Path = ""
	cfg.Watch.PollInterval = -1

	require.ElementsMatch(t, []string{
		"notify.nats_url",
		"notify.subject",
		"history.path",
		"watch.poll_interval",
	}, validationFields(t, Validate(cfg)))

	cfg = Default()
	cfg.Notify.Enabled = true
	cfg.Notify.NATSURL = "nats://127.0.0.1:4222"
	require.NoError(t, Validate(cfg))
}

func TestValidateDuplicateExtension(t *testing.T) {
	cfg := Default()
	cfg.Sphinx.Extensions = append(cfg.Sphinx.Extensions, "myst_nb")
	fields := validationFields(t, Validate(cfg))
	require.Equal(t, []string{"sphinx.extensions[5]"}, fields)
}

func TestValidationErrorsFormatting(t *testing.T) {
	single := ValidationErrors{{Field: "project", Message: "must not be empty"}}
	require.Equal(t, "project: must not be empty", single.Error())

	multi := ValidationErrors{
		{Field: "project", Message: "must not be empty"},
		{Field: "version", Message: "unsupported"},
	}
	require.True(t, strings.HasPrefix(multi.Error(), "2 invalid fields:"))
	require.Contains(t, multi.Error(), "\n  - version: unsupported")
}
