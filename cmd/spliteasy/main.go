package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path"

	"github.com/google/subcommands"

	"github.com/mmynk/spliteasy/internal/cli"
	"github.com/mmynk/spliteasy/internal/config"
	"github.com/mmynk/spliteasy/pkg/logging"
)

func main() {
	// Keep the CLI quiet unless LOG_LEVEL asks for more.
	logging.SetupWithLevel(logging.LevelFromEnv(slog.LevelWarn))

	app := cli.NewApp(config.Load())
	app.BindFlags(flag.CommandLine)

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cli.Register(commander, app)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
