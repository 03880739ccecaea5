package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"

	"github.com/vitaminmoo/thingy-tool/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var c cli.CLI
	k := kong.Parse(&c,
		kong.Name("thingy"),
		kong.Description("Nordic Thingy:52 BLE tool"),
		kong.UsageOnError(),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)
	err := k.Run(&c)
	stop()
	k.FatalIfErrorf(err)
}
