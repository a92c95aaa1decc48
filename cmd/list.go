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

type listCmd struct {
	inStock bool
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list the catalog with prices" }
func (*listCmd) Usage() string {
	return `csk list [-in-stock]

  List every catalog item with its quantity, market price, selling price and
  the time of the last price observation.
`
}

func (c *listCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.inStock, "in-stock", false, "only list items with quantity > 0")
}

func (c *listCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	doc, err := OpenStore().Read()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading catalog: %v\n", err)
		return subcommands.ExitFailure
	}

	items := doc.Items
	if c.inStock {
		items = items[:0:0]
		for _, it := range doc.Items {
			if it.Quantity > 0 {
				items = append(items, it)
			}
		}
	}

	printMarkdown(renderer.RenderCatalog(renderer.NewCatalog(items, time.Now())))
	return subcommands.ExitSuccess
}
