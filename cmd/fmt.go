package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type fmtCmd struct {
	watchlist bool
}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "rewrite the store file in canonical form"
}
func (*fmtCmd) Usage() string {
	return `csk fmt [-watchlist]

  Read the store file and write it back: normalizes every record, drops
  unknown fields and duplicates, and upgrades a legacy bare-array file to
  the current envelope. A no-op on an already canonical file, apart from
  the timestamp.
`
}

func (c *fmtCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.watchlist, "watchlist", false, "format the watchlist store instead of the catalog")
}

func (c *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store := OpenStore()
	if c.watchlist {
		store = OpenWatchlist()
	}

	doc, err := store.Read()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading store: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := store.Write(doc.Items); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing store: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Formatted %s (%d items, schema v%d)\n", store.Path, len(doc.Items), doc.SchemaVersion)
	return subcommands.ExitSuccess
}
