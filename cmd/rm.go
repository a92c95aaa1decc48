package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"cardstock"
)

type rmCmd struct{}

func (*rmCmd) Name() string     { return "rm" }
func (*rmCmd) Synopsis() string { return "remove an item from the catalog" }
func (*rmCmd) Usage() string {
	return `csk rm <key>

  Remove the item with the given key: its external id, or its name for items
  without one. Removal is for items that leave the catalog for good; an item
  merely out of stock should get -qty 0 instead.
`
}

func (*rmCmd) SetFlags(f *flag.FlagSet) {}

func (c *rmCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one key expected")
		return subcommands.ExitUsageError
	}
	return removeItem(OpenStore(), f.Arg(0))
}

// removeItem is shared with the unwatch command.
func removeItem(store *cardstock.Store, key string) subcommands.ExitStatus {
	doc, err := store.Read()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading store: %v\n", err)
		return subcommands.ExitFailure
	}

	target := cardstock.NormalizeName(key)
	kept := make([]cardstock.Item, 0, len(doc.Items))
	removed := 0
	for _, it := range doc.Items {
		if it.Key() == key || it.Key() == target {
			removed++
			continue
		}
		kept = append(kept, it)
	}
	if removed == 0 {
		fmt.Fprintf(os.Stderr, "Error: no item with key %q\n", key)
		return subcommands.ExitFailure
	}

	if err := store.Write(kept); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing store: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Removed %q\n", key)
	return subcommands.ExitSuccess
}
