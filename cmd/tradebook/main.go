package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

func main() {
	// Prices and quantities go over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	commander.Register(&serveCmd{}, "server")

	commander.Register(&addCmd{}, "ledger")
	commander.Register(&rmCmd{}, "ledger")
	commander.Register(&tradesCmd{}, "ledger")
	commander.Register(&importCmd{}, "ledger")
	commander.Register(&exportCmd{}, "ledger")

	commander.Register(&portfolioCmd{}, "portfolio")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
