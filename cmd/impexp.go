package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/subcommands"

	"cardstock"
)

type importCmd struct{}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "replace the catalog from a CSV or XLSX file" }
func (*importCmd) Usage() string {
	return `csk import <file.csv|file.xlsx>

  Replace the whole catalog with the content of the given file. Columns are
  matched by header name; rows without a name or external id are dropped,
  and the result is normalized like any other write. The previous catalog
  ends up in backups/ like before any write.
`
}

func (*importCmd) SetFlags(f *flag.FlagSet) {}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one file expected")
		return subcommands.ExitUsageError
	}
	path := f.Arg(0)

	in, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening %q: %v\n", path, err)
		return subcommands.ExitFailure
	}
	defer in.Close()

	var items []cardstock.Item
	switch filepath.Ext(path) {
	case ".xlsx":
		items, err = cardstock.ImportXLSX(in)
	default:
		items, err = cardstock.ImportCSV(in)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error importing %q: %v\n", path, err)
		return subcommands.ExitFailure
	}

	if err := OpenStore().Write(items); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing catalog: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Imported %d items from %s\n", len(items), path)
	return subcommands.ExitSuccess
}

type exportCmd struct {
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export the catalog to CSV or XLSX" }
func (*exportCmd) Usage() string {
	return `csk export [-o <file.csv|file.xlsx>]

  Export the catalog. Without -o, CSV goes to stdout. With -o, the format
  follows the file extension.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "output file, stdout when empty")
}

func (c *exportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	doc, err := OpenStore().Read()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading catalog: %v\n", err)
		return subcommands.ExitFailure
	}

	var w io.Writer = os.Stdout
	if c.output != "" {
		out, err := os.Create(c.output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", c.output, err)
			return subcommands.ExitFailure
		}
		defer out.Close()
		w = out
	}

	if filepath.Ext(c.output) == ".xlsx" {
		err = cardstock.ExportXLSX(w, doc.Items)
	} else {
		err = cardstock.ExportCSV(w, doc.Items)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error exporting catalog: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
