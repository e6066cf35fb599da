package main

import (
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/wikimatter/cmd/wikimatter/commands"
	ferrors "git.home.luguber.info/inful/wikimatter/internal/foundation/errors"
	"git.home.luguber.info/inful/wikimatter/internal/version"
)

func main() {
	var cli commands.CLI
	global := &commands.Global{}

	parser := kong.Must(&cli,
		kong.Name("wikimatter"),
		kong.Description("Adds numbered wiki publishing frontmatter to markdown pages"),
		kong.UsageOnError(),
		kong.Vars{"version": version.Version},
		kong.Bind(global),
	)

	ctx, err := parser.Parse(os.Args[1:])
	if err != nil && !ferrors.IsClassified(err) {
		parser.FatalIfErrorf(err)
	}
	if err == nil {
		err = ctx.Run(global, &cli)
	}
	if err != nil {
		adapter := ferrors.NewCLIErrorAdapter(cli.Verbose, global.Logger)
		os.Exit(adapter.HandleError(err))
	}
}
