package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"tradebook/internal/engine"
	"tradebook/types"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

type addCmd struct {
	id string
	at string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "record a BUY or SELL trade in the ledger" }
func (*addCmd) Usage() string {
	return `tradebook add [-id <id>] [-at <RFC3339 time>] <BUY|SELL> <symbol> <quantity> <price>

  Appends one trade to the ledger. The id defaults to a random UUID and the
  execution time to now.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Trade identifier. Generated when empty.")
	f.StringVar(&c.at, "at", "", "Execution time in RFC3339. Defaults to now.")
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 4 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	trade, err := c.parse(f.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	stored, err := a.engine.RecordTrade(ctx, trade)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Println(stored.ID)
	return subcommands.ExitSuccess
}

func (c *addCmd) parse(args []string) (types.TradeRecord, error) {
	side, err := types.ParseSide(args[0])
	if err != nil {
		return types.TradeRecord{}, err
	}
	quantity, err := decimal.NewFromString(args[2])
	if err != nil {
		return types.TradeRecord{}, fmt.Errorf("quantity %q: %w", args[2], err)
	}
	price, err := decimal.NewFromString(args[3])
	if err != nil {
		return types.TradeRecord{}, fmt.Errorf("price %q: %w", args[3], err)
	}
	var executedAt time.Time
	if c.at != "" {
		if executedAt, err = time.Parse(time.RFC3339, c.at); err != nil {
			return types.TradeRecord{}, fmt.Errorf("execution time %q: %w", c.at, err)
		}
	}
	return types.NewTradeRecord(c.id, args[1], quantity, price, side, executedAt), nil
}

type rmCmd struct{}

func (*rmCmd) Name() string           { return "rm" }
func (*rmCmd) Synopsis() string       { return "delete a trade from the ledger by id" }
func (*rmCmd) Usage() string          { return "tradebook rm <id>...\n" }
func (*rmCmd) SetFlags(*flag.FlagSet) {}

func (*rmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}

	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	status := subcommands.ExitSuccess
	for _, id := range f.Args() {
		if err := a.engine.DeleteTrade(ctx, id); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", id, err)
			status = subcommands.ExitFailure
		}
	}
	return status
}

type tradesCmd struct {
	csv bool
}

func (*tradesCmd) Name() string     { return "trades" }
func (*tradesCmd) Synopsis() string { return "list every trade in ledger order" }
func (*tradesCmd) Usage() string    { return "tradebook trades [-csv]\n" }

func (c *tradesCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.csv, "csv", false, "Write CSV instead of a table.")
}

func (c *tradesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	if c.csv {
		if err := engine.WriteTradesCSV(os.Stdout, trades); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "EXECUTED AT\tTYPE\tSYMBOL\tQUANTITY\tPRICE\tID")
	for _, tr := range trades {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			tr.ExecutedAt.Format(time.RFC3339), tr.Side, tr.Symbol, tr.Quantity, tr.Price, tr.ID)
	}
	if err := w.Flush(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
