package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/garage/internal/app"
	"github.com/dmitrijs2005/garage/internal/buildinfo"
	"github.com/dmitrijs2005/garage/internal/cli"
	"github.com/dmitrijs2005/garage/internal/config"
	"github.com/dmitrijs2005/garage/internal/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	console := cli.NewConsole(os.Stdin, os.Stdout)
	defer console.Close()

	err = app.New(cfg, log, app.ConsoleViews(console)).Run(ctx)
	return app.Finish(os.Stderr, err)
}
