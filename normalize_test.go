package cardstock

import (
	"reflect"
	"testing"
)

func TestNormalizeRecordSchemaLock(t *testing.T) {
	// Only the known fields survive; everything else a record carries is
	// silently dropped.
	raw := map[string]any{
		"externalId":   " 123456 ",
		"name":         "  Booster Box ",
		"setName":      "Destined Rivals",
		"quantity":     float64(3),
		"marketPrice":  100.456,
		"yourPrice":    "90.41",
		"lastUpdated":  "2026-01-02T15:04:05Z",
		"legacyField":  "whatever",
		"internalNote": map[string]any{"x": 1},
	}

	it := NormalizeRecord(raw)

	if it.ExternalID != "123456" || it.Name != "Booster Box" || it.SetName != "Destined Rivals" {
		t.Errorf("strings not trimmed/kept: %+v", it)
	}
	if it.Quantity != 3 {
		t.Errorf("quantity = %d, want 3", it.Quantity)
	}
	if it.MarketPrice == nil || !it.MarketPrice.Equal(USD(100.46)) {
		t.Errorf("market price not rounded to cents: %v", it.MarketPrice)
	}
	if it.YourPrice == nil || !it.YourPrice.Equal(USD(90.41)) {
		t.Errorf("numeric string price not accepted: %v", it.YourPrice)
	}
	if it.LastUpdated == nil {
		t.Error("valid RFC3339 timestamp dropped")
	}
}

func TestNormalizeRecordDegradesInvalid(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
		pick func(Item) bool
	}{
		{"negative quantity", map[string]any{"name": "x", "quantity": float64(-2)},
			func(it Item) bool { return it.Quantity == 0 }},
		{"bogus quantity", map[string]any{"name": "x", "quantity": "three"},
			func(it Item) bool { return it.Quantity == 0 }},
		{"bogus price", map[string]any{"name": "x", "marketPrice": "free"},
			func(it Item) bool { return it.MarketPrice == nil }},
		{"bogus timestamp", map[string]any{"name": "x", "lastUpdated": "yesterday"},
			func(it Item) bool { return it.LastUpdated == nil }},
		{"percent below range", map[string]any{"name": "x", "pricingPercent": float64(0.5)},
			func(it Item) bool { return it.PricingPercent == nil }},
		{"percent above range", map[string]any{"name": "x", "pricingPercent": float64(250)},
			func(it Item) bool { return it.PricingPercent == nil }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if it := NormalizeRecord(tc.raw); !tc.pick(it) {
				t.Errorf("normalization kept an invalid value: %+v", it)
			}
		})
	}
}

func TestNormalizeCollectionIdentity(t *testing.T) {
	items := []Item{
		{Name: "Booster Box"},
		{Name: "booster box "}, // duplicate by normalized name
		{},                     // no identity at all
		{ExternalID: "123"},
		{ExternalID: "123", Name: "shadowed"}, // duplicate by external id
	}

	got := NormalizeCollection(items)
	if len(got) != 2 {
		t.Fatalf("got %d items, want 2: %+v", len(got), got)
	}
	if got[0].Key() != "booster box" || got[1].Key() != "123" {
		t.Errorf("unexpected survivors: %q, %q", got[0].Key(), got[1].Key())
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	raws := []map[string]any{
		{"externalId": "1", "name": " A ", "quantity": float64(2), "marketPrice": 10.111},
		{"name": "b", "pricingPercent": float64(85)},
	}

	once := NormalizeRawCollection(raws)
	twice := NormalizeCollection(once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("normalization is not idempotent:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}
