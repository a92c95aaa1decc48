package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"cardstock"
)

type addCmd struct {
	id      string
	name    string
	set     string
	qty     int
	percent float64
	image   string
	source  string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "add an item to the catalog" }
func (*addCmd) Usage() string {
	return `csk add -name <name> [-id <externalId>] [-qty <n>] [-set <set>] [-percent <p>]

  Add an item to the catalog. An item with an external id gets market prices
  on the next sync; an item without one is tracked by its name only.

Usage Examples:
# A priced product.
$ csk add -id 123456 -name "Booster Box" -set "Destined Rivals" -qty 3

`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "marketplace product id used for price lookups")
	f.StringVar(&c.name, "name", "", "display name of the item")
	f.StringVar(&c.set, "set", "", "set name of the item")
	f.IntVar(&c.qty, "qty", 0, "quantity in stock")
	f.Float64Var(&c.percent, "percent", 0, "pricing percent override (1-200), 0 for the shop default")
	f.StringVar(&c.image, "image", "", "image URL")
	f.StringVar(&c.source, "source", "", "marketplace page URL")
}

func (c *addCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return addItem(OpenStore(), c.id, c.name, c.set, c.qty, c.percent, c.image, c.source)
}

// addItem is shared with the watch command, which is an add on the watchlist
// store.
func addItem(store *cardstock.Store, id, name, set string, qty int, percent float64, image, source string) subcommands.ExitStatus {
	it := cardstock.Item{
		ExternalID: id,
		Name:       name,
		SetName:    set,
		Quantity:   qty,
		ImageURL:   image,
		SourceURL:  source,
	}
	if percent != 0 {
		p := cardstock.Percent(percent)
		if !cardstock.ValidPricingPercent(p) {
			fmt.Fprintf(os.Stderr, "Error: pricing percent %v is out of range [%v, %v]\n",
				percent, cardstock.MinPricingPercent, cardstock.MaxPricingPercent)
			return subcommands.ExitUsageError
		}
		it.PricingPercent = &p
	}
	if !it.HasIdentity() {
		fmt.Fprintln(os.Stderr, "Error: an item needs a -name or an -id")
		return subcommands.ExitUsageError
	}

	doc, err := store.Read()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading store: %v\n", err)
		return subcommands.ExitFailure
	}
	if _, exists := cardstock.Index(doc.Items)[it.Key()]; exists {
		fmt.Fprintf(os.Stderr, "Error: an item with key %q already exists, use 'csk set' to modify it\n", it.Key())
		return subcommands.ExitFailure
	}

	if err := store.Write(append(doc.Items, it)); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing store: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Added %q (key %s)\n", it.Name, it.Key())
	return subcommands.ExitSuccess
}
