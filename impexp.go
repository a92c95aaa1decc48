package cardstock

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// this file contains functions to handle the import/export formats.
// CSV is the interchange format with spreadsheet people; XLSX is served by
// the web export for the ones who never open a .csv.

// csvHeader is the canonical column order. Import is header-driven and
// tolerates any column order and missing columns; the header names are the
// store's JSON field names.
var csvHeader = []string{
	"externalId", "name", "setName", "quantity", "pricingPercent",
	"marketPrice", "yourPrice", "lastUpdated", "imageUrl", "sourceUrl",
}

// ImportCSV reads a catalog from CSV. The first row is the header; columns
// are matched by name. Every record passes through normalization, so the
// result is a valid collection whatever the spreadsheet did to the data.
func ImportCSV(r io.Reader) ([]Item, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("cannot parse csv: %w", err)
	}
	return importRows(rows)
}

// ExportCSV writes the collection as CSV in the canonical column order.
func ExportCSV(w io.Writer, items []Item) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("cannot write csv header: %w", err)
	}
	for _, it := range items {
		if err := cw.Write(exportRow(it)); err != nil {
			return fmt.Errorf("cannot write csv row for %q: %w", it.Key(), err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ImportXLSX reads a catalog from the first sheet of an XLSX workbook, with
// the same header-driven column matching as CSV.
func ImportXLSX(r io.Reader) ([]Item, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("cannot open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("cannot read workbook rows: %w", err)
	}
	return importRows(rows)
}

// ExportXLSX writes the collection as a single-sheet XLSX workbook.
func ExportXLSX(w io.Writer, items []Item) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	writeRow := func(n int, row []string) error {
		cell, err := excelize.CoordinatesToCellName(1, n)
		if err != nil {
			return err
		}
		return f.SetSheetRow(sheet, cell, &row)
	}

	if err := writeRow(1, csvHeader); err != nil {
		return fmt.Errorf("cannot write workbook header: %w", err)
	}
	for i, it := range items {
		if err := writeRow(i+2, exportRow(it)); err != nil {
			return fmt.Errorf("cannot write workbook row for %q: %w", it.Key(), err)
		}
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("cannot write workbook: %w", err)
	}
	return nil
}

// importRows converts header-plus-data rows into a normalized collection.
func importRows(rows [][]string) ([]Item, error) {
	if len(rows) == 0 {
		return []Item{}, nil
	}

	raws := make([]map[string]any, 0, len(rows)-1)
	header := rows[0]
	for _, row := range rows[1:] {
		raw := make(map[string]any, len(header))
		for i, col := range header {
			if i >= len(row) || row[i] == "" {
				continue
			}
			raw[col] = row[i]
		}
		if len(raw) > 0 {
			raws = append(raws, raw)
		}
	}
	return NormalizeRawCollection(raws), nil
}

func exportRow(it Item) []string {
	row := make([]string, len(csvHeader))
	row[0] = it.ExternalID
	row[1] = it.Name
	row[2] = it.SetName
	row[3] = strconv.Itoa(it.Quantity)
	if it.PricingPercent != nil {
		row[4] = strconv.FormatFloat(float64(*it.PricingPercent), 'f', -1, 64)
	}
	if it.MarketPrice != nil {
		row[5] = it.MarketPrice.Round().Amount()
	}
	if it.YourPrice != nil {
		row[6] = it.YourPrice.Round().Amount()
	}
	if it.LastUpdated != nil {
		row[7] = it.LastUpdated.UTC().Format("2006-01-02T15:04:05Z07:00")
	}
	row[8] = it.ImageURL
	row[9] = it.SourceURL
	return row
}
