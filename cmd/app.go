// Package cmd implements the CLI application to manage a card-shop catalog.
package cmd

import (
	"flag"

	"github.com/google/subcommands"

	"cardstock"
)

// Commands lists every subcommand. A main package registers them on its
// commander and executes the user-selected one.
var Commands = []subcommands.Command{
	&listCmd{},
	&addCmd{},
	&rmCmd{},
	&setCmd{},
	&syncCmd{},
	&importCmd{},
	&exportCmd{},
	&fmtCmd{},
	&watchCmd{},
	&unwatchCmd{},
	&digestCmd{},
	&serveCmd{},
	&assistCmd{},
	&topicCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var storeFile = flag.String("store-file", "catalog.json", "Path to the catalog store file")
var watchlistFile = flag.String("watchlist-file", "watchlist.json", "Path to the watchlist store file")

// OpenStore returns the catalog store. A missing file reads as an empty
// collection, so there is no explicit init command.
func OpenStore() *cardstock.Store { return cardstock.NewStore(*storeFile) }

// OpenWatchlist returns the watchlist store.
func OpenWatchlist() *cardstock.Store { return cardstock.NewStore(*watchlistFile) }
