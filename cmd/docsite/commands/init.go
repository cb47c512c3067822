package commands

import (
	"fmt"
	"path/filepath"

	"git.home.luguber.info/inful/docsite/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force  bool   `help:"Overwrite existing configuration file"`
	Output string `short:"o" name:"output" help:"Output directory for generated config file"`
	TOML   bool   `name:"toml" help:"Write docsite.toml instead of YAML when --output is given"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	if i.Output != "" {
		name := DefaultConfigPath
		if i.TOML {
			name = "docsite.toml"
		}
		return RunInit(g, filepath.Join(i.Output, name), i.Force)
	}
	return RunInit(g, root.Config, i.Force)
}

func RunInit(g *Global, configPath string, force bool) error {
	out := g.out()
	_, _ = fmt.Fprintf(out, "Writing configuration to %s\n", configPath)
	if err := config.Init(configPath, force); err != nil {
		_, _ = fmt.Fprintln(out, "Initialization failed")
		return err
	}
	_, _ = fmt.Fprintln(out, "initialized successfully")
	return nil
}
