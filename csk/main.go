package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"cardstock/cmd"
)

func main() {
	// A .env next to the store file is the lazy way to keep the API key out
	// of the crontab.
	if err := godotenv.Load(); err == nil {
		log.Println("loaded environment from .env")
	}

	// Shell completion: `COMP_INSTALL=1 csk` installs it.
	completion().Complete("csk")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	for _, c := range cmd.Commands {
		commander.Register(c, "")
	}
	commander.Register(commander.HelpCommand(), "help")
	commander.Register(commander.FlagsCommand(), "help")
	commander.Register(commander.CommandsCommand(), "help")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

func completion() *complete.Command {
	sub := make(map[string]*complete.Command, len(cmd.Commands))
	for _, c := range cmd.Commands {
		sub[c.Name()] = &complete.Command{}
	}
	sub["import"] = &complete.Command{Args: predict.Files("*.csv")}
	return &complete.Command{
		Sub: sub,
		Flags: map[string]complete.Predictor{
			"store-file":     predict.Files("*.json"),
			"watchlist-file": predict.Files("*.json"),
		},
	}
}
