package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/insurancevn/insurancenews/cmd/insurancenews/commands"
	ferrors "github.com/insurancevn/insurancenews/internal/foundation/errors"
	"github.com/insurancevn/insurancenews/internal/version"
)

func main() {
	var cli commands.CLI
	ctx := kong.Parse(&cli,
		kong.Name("insurancenews"),
		kong.Description("Server-rendered Insurance Vietnam news site"),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
		kong.Bind(&cli),
	)

	err := ctx.Run(&commands.Global{Logger: slog.Default()})
	os.Exit(ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).Report(os.Stderr, err))
}
