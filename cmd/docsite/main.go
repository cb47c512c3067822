package main

import (
	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docsite/cmd/docsite/commands"
	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/version"
)

func main() {
	var cli commands.CLI
	parser := kong.Parse(&cli,
		kong.Name("docsite"),
		kong.Description("Publish the pre-built K-matrix page into the documentation site's static assets."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	g := commands.NewGlobal()
	errors.NewCLIErrorAdapter(cli.Verbose, g.Logger).HandleError(parser.Run(g, &cli))
}
