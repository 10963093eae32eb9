package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	app := createCliApp()
	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func createCliApp() *cli.App {
	return &cli.App{
		Name:  "mrcompat",
		Usage: "Resolve Hadoop version differences in jobconf keys and features",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "Path to config file",
				Aliases: []string{"c"},
			},
		},
		Commands: []*cli.Command{
			createTranslateCommand(),
			createSupportsCommand(),
			createEnvCommand(),
			createJobConfCommand(),
			createServeCommand(),
		},
	}
}
