package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"tradebook/internal/engine"

	"github.com/google/subcommands"
)

type portfolioCmd struct {
	csv    bool
	trades bool
}

func (*portfolioCmd) Name() string     { return "portfolio" }
func (*portfolioCmd) Synopsis() string { return "value open positions at current prices" }
func (*portfolioCmd) Usage() string {
	return `tradebook portfolio [-csv] [-trades]

  Aggregates the ledger into open positions and prices them through the
  quote provider. Positions without a current price are shown as unknown
  and left out of the total value.
`
}

func (c *portfolioCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.csv, "csv", false, "Write one CSV row per position instead of the report.")
	f.BoolVar(&c.trades, "trades", false, "Append the full trade list to the report.")
}

func (c *portfolioCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	report, view, trades, err := a.engine.Report(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	if c.csv {
		if err := engine.WritePortfolioCSV(os.Stdout, view); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	engine.PrintReport(os.Stdout, report, view, trades, engine.NewReportingConfig(a.cfg.ReportCurrency, c.trades))
	return subcommands.ExitSuccess
}
