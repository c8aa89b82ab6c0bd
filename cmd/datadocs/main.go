package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/datadocs/cmd/datadocs/commands"
	"git.home.luguber.info/inful/datadocs/internal/foundation/errors"
	"git.home.luguber.info/inful/datadocs/internal/version"
)

func main() {
	var cli commands.CLI
	ctx := kong.Parse(&cli,
		kong.Name("datadocs"),
		kong.Description("Render expectation suites and validation results into a static documentation site."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)
	err := ctx.Run(&commands.Global{Logger: slog.Default()}, &cli)
	errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
}
