package commands

import (
	"fmt"
	"net/url"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/docsite/internal/artifact"
	"git.home.luguber.info/inful/docsite/internal/docrefs"
	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/logfields"
)

// CheckCmd implements the 'check' command.
type CheckCmd struct {
	Docs string `help:"Documentation directory to scan (defaults to the source root)"`
}

func (c *CheckCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig(g)
	if err != nil {
		return err
	}
	opts := root.PublishOptions(cfg)
	docs := opts.SourceRoot
	if c.Docs != "" {
		docs = c.Docs
	}

	scanner, err := docrefs.NewScanner(cfg.Sphinx.ExcludePatterns)
	if err != nil {
		return err
	}
	target := opts.PublishedPath()
	refs, err := scanner.Scan(docs, target)
	if err != nil {
		return err
	}

	out := g.out()
	for _, ref := range refs {
		_, _ = fmt.Fprintf(out, "%s: %s %s\n", ref.File, ref.Kind, ref.Destination)
	}

	artifactPresent := exists(opts.SourcePath())
	publishedPresent := exists(opts.DestinationPath())

	if len(refs) > 0 && !artifactPresent && !publishedPresent {
		return errors.ValidationError(fmt.Sprintf("%d reference(s) to %s but the artifact was never published", len(refs), target)).
			WithContext("artifact", opts.SourcePath()).
			WithContext("pages", strings.Join(referencingFiles(refs), ",")).
			UserAction().
			Build()
	}
	if artifactPresent && !exists(opts.DestinationDir()) {
		return errors.ValidationError("static directory does not exist; publishing would fail").
			WithContext("path", opts.DestinationDir()).
			UserAction().
			Build()
	}

	if artifactPresent {
		report, err := artifact.Inspect(opts.SourcePath())
		if err != nil {
			return err
		}
		for _, res := range report.RelativeResources() {
			p, ok := staticResourcePath(opts.DestinationDir(), res.URL)
			if !ok {
				continue
			}
			if !exists(p) {
				g.Logger.Warn("Artifact loads a resource missing from the static directory",
					logfields.Artifact(opts.ArtifactName),
					logfields.Path(p),
					logfields.Event(res.Tag))
			}
		}
	}

	state := "absent"
	switch {
	case artifactPresent:
		state = "present"
	case publishedPresent:
		state = "published"
	}
	_, _ = fmt.Fprintf(out, "ok: %d reference(s) to %s, artifact %s\n", len(refs), target, state)
	return nil
}

// staticResourcePath maps a relative resource URL of the published page to
// the file it loads from the static directory. Root-relative URLs resolve
// against the site root, not the static directory, and are not checked.
func staticResourcePath(staticDir, raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil || u.Path == "" || strings.HasPrefix(u.Path, "/") {
		return "", false
	}
	return filepath.Join(staticDir, filepath.FromSlash(u.Path)), true
}

func referencingFiles(refs []docrefs.Reference) []string {
	seen := make(map[string]bool, len(refs))
	files := make([]string, 0, len(refs))
	for _, r := range refs {
		if !seen[r.File] {
			seen[r.File] = true
			files = append(files, r.File)
		}
	}
	sort.Strings(files)
	return files
}
