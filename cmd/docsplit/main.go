package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/dgallion1/docsplit/internal/cli"
	"github.com/dgallion1/docsplit/internal/export"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := cli.NewRootCommand(export.SystemClipboard{})
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "docsplit:", err)
		stop()
		os.Exit(1)
	}
}
