package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"cardstock"
)

type setCmd struct {
	id      string
	name    string
	qty     int
	percent float64
	newName string
	set     string
	image   string
	source  string
}

func (*setCmd) Name() string     { return "set" }
func (*setCmd) Synopsis() string { return "modify an existing catalog item" }
func (*setCmd) Usage() string {
	return `csk set (-id <externalId> | -name <name>) [-qty <n>] [-percent <p>] ...

  Modify the admin-owned fields of an existing item, looked up by external id
  or by name. Only the flags you pass change anything; prices and baselines
  are owned by sync and cannot be set here.

Usage Examples:
# Sold two boxes.
$ csk set -id 123456 -qty 1

# This one sells above the shop default.
$ csk set -name "Booster Box" -percent 110

`
}

func (c *setCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "external id of the item to modify")
	f.StringVar(&c.name, "name", "", "name of the item to modify, when it has no external id")
	f.IntVar(&c.qty, "qty", -1, "new quantity, -1 to leave unchanged")
	f.Float64Var(&c.percent, "percent", -1, "new pricing percent, 0 to reset to the shop default, -1 to leave unchanged")
	f.StringVar(&c.newName, "rename", "", "new display name")
	f.StringVar(&c.set, "set", "", "new set name")
	f.StringVar(&c.image, "image", "", "new image URL")
	f.StringVar(&c.source, "source", "", "new marketplace page URL")
}

func (c *setCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	key := c.id
	if key == "" {
		key = cardstock.NormalizeName(c.name)
	}
	if key == "" {
		fmt.Fprintln(os.Stderr, "Error: -id or -name is required")
		return subcommands.ExitUsageError
	}

	store := OpenStore()
	doc, err := store.Read()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading catalog: %v\n", err)
		return subcommands.ExitFailure
	}

	it, ok := cardstock.Index(doc.Items)[key]
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: no item with key %q\n", key)
		return subcommands.ExitFailure
	}

	if c.qty >= 0 {
		it.Quantity = c.qty
	}
	switch {
	case c.percent == 0:
		it.PricingPercent = nil
	case c.percent > 0:
		p := cardstock.Percent(c.percent)
		if !cardstock.ValidPricingPercent(p) {
			fmt.Fprintf(os.Stderr, "Error: pricing percent %v is out of range [%v, %v]\n",
				c.percent, cardstock.MinPricingPercent, cardstock.MaxPricingPercent)
			return subcommands.ExitUsageError
		}
		it.PricingPercent = &p
		// Re-derive the selling price so the change shows without waiting
		// for the next sync.
		if it.MarketPrice != nil {
			yours := it.MarketPrice.ApplyPercent(p)
			it.YourPrice = &yours
		}
	}
	if c.newName != "" {
		it.Name = c.newName
	}
	if c.set != "" {
		it.SetName = c.set
	}
	if c.image != "" {
		it.ImageURL = c.image
	}
	if c.source != "" {
		it.SourceURL = c.source
	}

	if err := store.Write(doc.Items); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing catalog: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Updated %q\n", key)
	return subcommands.ExitSuccess
}
