package commands

import (
	"fmt"

	"git.home.luguber.info/inful/docsite/internal/config"
)

// ConfigCmd groups configuration subcommands.
type ConfigCmd struct {
	Validate ConfigValidateCmd `cmd:"" help:"Load and validate the configuration"`
	Render   ConfigRenderCmd   `cmd:"" help:"Print the resolved settings document for the site generator"`
}

// ConfigValidateCmd implements 'config validate'.
type ConfigValidateCmd struct{}

func (v *ConfigValidateCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig(g)
	if err != nil {
		return err
	}
	urls := cfg.URLs()
	_, _ = fmt.Fprintf(g.out(), "Configuration valid: %s\n  repository: %s\n  binder:     %s\n  colab:      %s\n",
		root.Config, urls.Repository, urls.Binder, urls.Colab)
	return nil
}

// ConfigRenderCmd implements 'config render'.
type ConfigRenderCmd struct {
	Format string `short:"f" help:"Output format (json|yaml)" enum:"json,yaml" default:"json"`
}

func (r *ConfigRenderCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig(g)
	if err != nil {
		return err
	}
	opts := root.PublishOptions(cfg)
	published := []string{}
	if exists(opts.DestinationPath()) {
		published = append(published, opts.PublishedPath())
	}
	return cfg.Settings(published).Render(g.out(), config.RenderFormat(r.Format))
}
