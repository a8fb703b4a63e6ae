package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"tradebook/internal/engine"

	"github.com/google/subcommands"
	"github.com/schollz/progressbar/v3"
)

type importCmd struct {
	dryRun bool
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "append trades from a CSV file to the ledger" }
func (*importCmd) Usage() string {
	return `tradebook import [-dry-run] <file.csv>

  Reads trades in the format written by "tradebook export" or
  "tradebook trades -csv". Columns are matched by header name and the id and
  executed_at columns may be omitted. The whole file is validated before
  the first trade is recorded.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.dryRun, "dry-run", false, "Validate the file without recording anything.")
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}

	file, err := os.Open(f.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer file.Close()

	trades, err := engine.ReadTradesCSV(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", f.Arg(0), err)
		return subcommands.ExitFailure
	}
	if c.dryRun {
		fmt.Printf("%d trades OK\n", len(trades))
		return subcommands.ExitSuccess
	}

	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	bar := initProgressBar(len(trades))
	for i, trade := range trades {
		if _, err := a.engine.RecordTrade(ctx, trade); err != nil {
			_ = bar.Exit()
			fmt.Fprintf(os.Stderr, "\ntrade %d (%s): %v\n", i+1, trade.Symbol, err)
			fmt.Fprintf(os.Stderr, "%d of %d trades recorded\n", i, len(trades))
			return subcommands.ExitFailure
		}
		_ = bar.Add(1)
	}
	_ = bar.Finish()
	fmt.Printf("\n%d trades recorded\n", len(trades))
	return subcommands.ExitSuccess
}

func initProgressBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription("Importing trades..."),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}

type exportCmd struct{}

func (*exportCmd) Name() string           { return "export" }
func (*exportCmd) Synopsis() string       { return "write the whole ledger to a CSV file" }
func (*exportCmd) Usage() string          { return "tradebook export <file.csv>\n" }
func (*exportCmd) SetFlags(*flag.FlagSet) {}

func (*exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}

	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	trades, err := a.engine.Trades(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := engine.WriteTradesCSVFile(f.Arg(0), trades); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("%d trades written to %s\n", len(trades), f.Arg(0))
	return subcommands.ExitSuccess
}
