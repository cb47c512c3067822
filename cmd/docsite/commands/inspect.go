package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"git.home.luguber.info/inful/docsite/internal/artifact"
)

// InspectCmd implements the 'inspect' command.
type InspectCmd struct {
	Path string `arg:"" optional:"" help:"HTML file to inspect (defaults to the configured artifact)"`
	JSON bool   `help:"Print the report as JSON"`
}

func (i *InspectCmd) Run(g *Global, root *CLI) error {
	path := i.Path
	if path == "" {
		cfg, err := root.LoadConfig(g)
		if err != nil {
			return err
		}
		path = root.PublishOptions(cfg).SourcePath()
	}

	report, err := artifact.Inspect(path)
	if err != nil {
		return err
	}

	out := g.out()
	if i.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	_, _ = fmt.Fprintf(out, "File:  %s\nTitle: %s\nSize:  %d bytes\n", path, report.Title, report.Size)
	if len(report.Resources) == 0 {
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "TAG\tLOCATION\tURL")
	for _, res := range report.Resources {
		loc := "relative"
		if res.External {
			loc = "external"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", res.Tag, loc, res.URL)
	}
	return tw.Flush()
}
