package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tradebook/internal/api"
	"tradebook/internal/observability"

	"github.com/google/subcommands"
)

const shutdownTimeout = 10 * time.Second

type serveCmd struct {
	addr string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the trade ledger and live portfolio over HTTP" }
func (*serveCmd) Usage() string {
	return `tradebook serve [-addr <host:port>]

  Starts the JSON API (/api/trades, /api/portfolio) with /healthz and
  /metrics. The listen address defaults to HTTP_ADDR.
`
}

func (s *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&s.addr, "addr", "", "Listen address. Overrides HTTP_ADDR.")
}

func (s *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	addr := s.addr
	if addr == "" {
		addr = a.cfg.HTTPAddr
	}

	server := api.NewServer(a.engine, a.logger, observability.Handler(a.registry))
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(addr)
	}()
	go a.pruneLoop(ctx)

	select {
	case err := <-errCh:
		if err != nil {
			a.logger.Error("http server failed", "err", err)
			return subcommands.ExitFailure
		}
	case <-ctx.Done():
		a.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Stop(shutdownCtx); err != nil {
			a.logger.Error("http server shutdown", "err", err)
			return subcommands.ExitFailure
		}
	}
	return subcommands.ExitSuccess
}

// pruneLoop drops expired cache entries once per TTL so symbols that left
// the portfolio do not accumulate.
func (a *app) pruneLoop(ctx context.Context) {
	ticker := time.NewTicker(a.cfg.PriceCacheTTL)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := a.prices.Prune(now); n > 0 {
				a.logger.Debug("pruned price cache", "removed", n, "remaining", a.prices.Len())
			}
		}
	}
}
