package commands

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"git.home.luguber.info/inful/docsite/internal/history"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit int `short:"n" help:"Number of runs to show; 0 shows all" default:"10"`
}

func (h *HistoryCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig(g)
	if err != nil {
		return err
	}
	path := root.Resolve(cfg.History.Path)
	out := g.out()
	if !exists(path) {
		_, _ = fmt.Fprintf(out, "No publish history at %s\n", path)
		if !cfg.History.Enabled {
			_, _ = fmt.Fprintln(out, "Enable it with history.enabled: true")
		}
		return nil
	}

	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	runs, err := store.Recent(context.Background(), h.Limit)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "STARTED\tOUTCOME\tBYTES\tDURATION\tDESTINATION\tRUN")
	for _, r := range runs {
		dest := r.Destination
		if r.Error != "" {
			dest = "error: " + r.Error
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\n",
			r.StartedAt.Local().Format(time.DateTime), r.Outcome, r.Bytes, r.Duration.Round(time.Microsecond), dest, r.RunID)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	last, err := store.LastPublished(context.Background())
	if err != nil {
		return err
	}
	if last == nil {
		_, _ = fmt.Fprintln(out, "\nLast published: never")
		return nil
	}
	_, _ = fmt.Fprintf(out, "\nLast published: %s %s (%d bytes, %s)\n",
		last.StartedAt.Local().Format(time.DateTime), last.Destination, last.Bytes, last.Fingerprint)
	return nil
}
