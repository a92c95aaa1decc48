package renderer

import (
	"time"

	"cardstock"
)

// Catalog is the view model for a catalog listing. Every field is already
// formatted; the template only lays it out.
type Catalog struct {
	GeneratedAt string
	TotalItems  int
	InStock     int
	TotalValue  string
	Rows        []CatalogRow
}

// CatalogRow is one listed item.
type CatalogRow struct {
	Key      string
	Name     string
	SetName  string
	Quantity int
	Market   string
	Yours    string
	Percent  string
	Updated  string
	Error    string
}

// NewCatalog builds the listing view from a collection. TotalValue is the
// sum of selling price times quantity over items that have a selling price.
func NewCatalog(items []cardstock.Item, now time.Time) *Catalog {
	c := &Catalog{
		GeneratedAt: now.Format("2006-01-02 15:04"),
		TotalItems:  len(items),
	}

	total := cardstock.USD(0)
	for _, it := range items {
		if it.Quantity > 0 {
			c.InStock++
		}
		row := CatalogRow{
			Key:      it.Key(),
			Name:     it.Name,
			SetName:  it.SetName,
			Quantity: it.Quantity,
			Market:   "-",
			Yours:    "-",
			Percent:  it.EffectivePercent().String(),
			Updated:  "never",
			Error:    string(it.PriceError),
		}
		if it.MarketPrice != nil {
			row.Market = it.MarketPrice.String()
		}
		if it.YourPrice != nil {
			row.Yours = it.YourPrice.String()
			total = total.Add(it.YourPrice.Times(it.Quantity))
		}
		if it.LastUpdated != nil {
			row.Updated = it.LastUpdated.Local().Format("2006-01-02 15:04")
		}
		c.Rows = append(c.Rows, row)
	}
	c.TotalValue = total.String()
	return c
}
