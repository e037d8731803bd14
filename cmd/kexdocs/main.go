package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/kexdocs/cmd/kexdocs/commands"
	"git.home.luguber.info/inful/kexdocs/internal/foundation/errors"
	"git.home.luguber.info/inful/kexdocs/internal/version"
)

func main() {
	var cli commands.CLI
	parser := kong.Parse(&cli,
		kong.Name("kexdocs"),
		kong.Description("Build the Kernel Extension API documentation site."),
		kong.Vars{"version": version.String()},
		kong.UsageOnError(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := parser.Run(&commands.Global{Ctx: ctx, Logger: slog.Default(), Out: os.Stdout}, &cli)
	stop()

	if err != nil {
		os.Exit(errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).Handle(err))
	}
}
