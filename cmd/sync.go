package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"

	"cardstock"
	"cardstock/justtcg"
	"cardstock/renderer"
)

type syncCmd struct {
	maxAge    time.Duration
	all       bool
	watchlist bool
}

func (*syncCmd) Name() string     { return "sync" }
func (*syncCmd) Synopsis() string { return "refresh market prices from the pricing service" }
func (*syncCmd) Usage() string {
	return `csk sync [-max-age <d>] [-all] [-watchlist]

  Refresh market prices for in-stock items whose last observation is older
  than -max-age, derive selling prices and persist the catalog. Fetches are
  batched and paced against the service's per-minute budget, so a large
  catalog takes a few minutes. Safe to run from cron: a fresh catalog
  selects nothing and exits immediately.

Usage Examples:
# The hourly cron line.
$ csk sync

# Everything, now.
$ csk sync -all

`
}

func (c *syncCmd) SetFlags(f *flag.FlagSet) {
	f.DurationVar(&c.maxAge, "max-age", 24*time.Hour, "refresh items whose last observation is older than this")
	f.BoolVar(&c.all, "all", false, "refresh every in-stock item regardless of age")
	f.BoolVar(&c.watchlist, "watchlist", false, "sync the watchlist store instead of the catalog")
}

func (c *syncCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "no arguments expected")
		return subcommands.ExitUsageError
	}

	store := OpenStore()
	if c.watchlist {
		store = OpenWatchlist()
	}

	policy := cardstock.StaleFor(c.maxAge)
	if c.all {
		policy = cardstock.Refreshable
	}
	if c.watchlist {
		// Watched items are not stocked; staleness and age still apply
		// through the wrapped policy.
		stocked := policy
		policy = func(it cardstock.Item) bool {
			it.Quantity = 1
			return stocked(it)
		}
	}

	engine := cardstock.NewEngine(store, justtcg.New(justtcg.APIKey()))
	report, err := engine.Sync(ctx, policy)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: sync failed: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.RenderReport(renderer.NewReport(report)))
	return subcommands.ExitSuccess
}
