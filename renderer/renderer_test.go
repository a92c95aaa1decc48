package renderer

import (
	"strings"
	"testing"
	"time"

	"cardstock"
)

var testNow = time.Date(2026, 1, 2, 15, 4, 0, 0, time.UTC)

func TestRenderCatalog(t *testing.T) {
	market, yours := cardstock.USD(100), cardstock.USD(90)
	items := []cardstock.Item{
		{ExternalID: "1", Name: "Booster Box", SetName: "Destined Rivals", Quantity: 3, MarketPrice: &market, YourPrice: &yours},
		{Name: "Promo Tin", Quantity: 0, PriceError: cardstock.ReasonNotFound},
	}

	md := RenderCatalog(NewCatalog(items, testNow))

	for _, want := range []string{
		"# Catalog",
		"2 items, 1 in stock, stock value $270.00",
		"| Booster Box | Destined Rivals | 3 | $100.00 | $90.00 |",
		"| Promo Tin |  | 0 | - | - |",
		"NOT_FOUND",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("catalog markdown misses %q:\n%s", want, md)
		}
	}
}

func TestRenderReport(t *testing.T) {
	report := cardstock.SyncReport{
		Started:  testNow,
		Finished: testNow.Add(90 * time.Second),
		Total:    10, Selected: 4, Updated: 3, Skipped: 6, Errored: 1,
	}

	md := RenderReport(NewReport(report))
	for _, want := range []string{"# Sync Report", "took 1m30s", "| 10 | 4 | 3 | 6 | 1 |"} {
		if !strings.Contains(md, want) {
			t.Errorf("report markdown misses %q:\n%s", want, md)
		}
	}
	if strings.Contains(md, "Restocks") {
		t.Error("restocks section rendered without restock events")
	}

	report.Restocks = []cardstock.RestockEvent{{Key: "1", Name: "Booster Box", OldQuantity: 0, NewQuantity: 6, Delta: 6}}
	md = RenderReport(NewReport(report))
	if !strings.Contains(md, "## Restocks") || !strings.Contains(md, "| Booster Box | 0 | 6 |") {
		t.Errorf("restocks section missing:\n%s", md)
	}
}

func TestRenderDigest(t *testing.T) {
	market, baseline := cardstock.USD(140), cardstock.USD(100)
	updated := testNow.Add(-2 * time.Hour)
	items := []cardstock.Item{
		{ExternalID: "1", Name: "Booster Box", MarketPrice: &market, BaselinePrice: &baseline, LastUpdated: &updated},
		{ExternalID: "2", Name: "Unpriced"},
	}

	md := RenderDigest(NewDigest(items, testNow))
	for _, want := range []string{
		"# Watchlist Digest",
		"| Booster Box | $140.00 | +$40.00 (+40.00%) |",
		"| Unpriced | - | - | never |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("digest markdown misses %q:\n%s", want, md)
		}
	}
}
