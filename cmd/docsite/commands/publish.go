package commands

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/publish"
)

// PublishCmd implements the 'publish' command.
type PublishCmd struct {
	RequireArtifact bool `name:"require-artifact" help:"Fail when the artifact is absent instead of skipping"`
}

func (p *PublishCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig(g)
	if err != nil {
		return err
	}
	rt, err := root.newRuntime(g, cfg)
	if err != nil {
		return err
	}
	defer rt.close()

	res, err := rt.publish(context.Background())
	if err != nil {
		return err
	}
	if res.Outcome == publish.OutcomeSkipped && p.RequireArtifact {
		return errors.NewError(errors.CategoryNotFound, "artifact not found").
			WithContext("path", rt.publisher.Options().SourcePath()).
			UserAction().
			Build()
	}
	for _, path := range res.Paths() {
		_, _ = fmt.Fprintln(g.out(), path)
	}
	return nil
}
