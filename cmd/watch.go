package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"

	"cardstock/renderer"
)

type watchCmd struct {
	id   string
	name string
	set  string
}

func (*watchCmd) Name() string     { return "watch" }
func (*watchCmd) Synopsis() string { return "track an item's price without stocking it" }
func (*watchCmd) Usage() string {
	return `csk watch -id <externalId> [-name <name>] [-set <set>]

  Add an item to the watchlist. Watched items get prices from
  'csk sync -watchlist' and show up in 'csk digest'.
`
}

func (c *watchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "marketplace product id to watch")
	f.StringVar(&c.name, "name", "", "display name")
	f.StringVar(&c.set, "set", "", "set name")
}

func (c *watchCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == "" {
		fmt.Fprintln(os.Stderr, "Error: -id is required, a watched item without one can never get a price")
		return subcommands.ExitUsageError
	}
	return addItem(OpenWatchlist(), c.id, c.name, c.set, 0, 0, "", "")
}

type unwatchCmd struct{}

func (*unwatchCmd) Name() string     { return "unwatch" }
func (*unwatchCmd) Synopsis() string { return "remove an item from the watchlist" }
func (*unwatchCmd) Usage() string {
	return `csk unwatch <key>

  Remove the item with the given key from the watchlist.
`
}

func (*unwatchCmd) SetFlags(f *flag.FlagSet) {}

func (c *unwatchCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one key expected")
		return subcommands.ExitUsageError
	}
	return removeItem(OpenWatchlist(), f.Arg(0))
}

type digestCmd struct{}

func (*digestCmd) Name() string     { return "digest" }
func (*digestCmd) Synopsis() string { return "show where watched items stand against their baselines" }
func (*digestCmd) Usage() string {
	return `csk digest

  Render the watchlist digest: market price and movement since the first
  observed price, for every watched item.
`
}

func (*digestCmd) SetFlags(f *flag.FlagSet) {}

func (c *digestCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	doc, err := OpenWatchlist().Read()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading watchlist: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.RenderDigest(renderer.NewDigest(doc.Items, time.Now())))
	return subcommands.ExitSuccess
}
