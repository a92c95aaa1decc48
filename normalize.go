package cardstock

import (
	"log"
	"math"
	"strconv"
	"strings"
	"time"
)

// This file is the schema lock. Raw records, decoded JSON objects from the
// store file, an import payload or the web admin, only enter the catalog
// through NormalizeRecord/NormalizeCollection, and only the recognized
// fields survive. The field set below is an allow-list, not a denylist:
// unexpected or legacy fields cannot leak into a canonical record.

// NormalizeRecord coerces an arbitrary decoded JSON object into a canonical
// Item. It is pure and deterministic: strings are trimmed, quantities forced
// to non-negative integers, money values rounded to cents, timestamps
// validated by parsing. Invalid values degrade to their zero form rather
// than failing the record; identity checking is left to NormalizeCollection.
func NormalizeRecord(raw map[string]any) Item {
	it := Item{
		ExternalID: asString(raw["externalId"]),
		Name:       asString(raw["name"]),
		SetName:    asString(raw["setName"]),
		Quantity:   asQuantity(raw["quantity"]),
		ImageURL:   asString(raw["imageUrl"]),
		SourceURL:  asString(raw["sourceUrl"]),
	}
	it.MarketPrice = asMoney(raw["marketPrice"])
	it.YourPrice = asMoney(raw["yourPrice"])
	it.PricingPercent = asPricingPercent(raw["pricingPercent"])
	it.LastUpdated = asTime(raw["lastUpdated"])
	it.BaselinePrice = asMoney(raw["baselinePrice"])
	it.BaselineAt = asTime(raw["baselineAt"])
	if s := asString(raw["priceError"]); s != "" {
		it.PriceError = Reason(s)
	}
	return it
}

// NormalizeItem re-applies the canonical constraints to an already typed
// item: trimmed strings, non-negative quantity, cent-rounded money, pricing
// percent within its valid range.
func NormalizeItem(it Item) Item {
	it.ExternalID = strings.TrimSpace(it.ExternalID)
	it.Name = strings.TrimSpace(it.Name)
	it.SetName = strings.TrimSpace(it.SetName)
	it.ImageURL = strings.TrimSpace(it.ImageURL)
	it.SourceURL = strings.TrimSpace(it.SourceURL)
	if it.Quantity < 0 {
		it.Quantity = 0
	}
	it.MarketPrice = roundPtr(it.MarketPrice)
	it.YourPrice = roundPtr(it.YourPrice)
	it.BaselinePrice = roundPtr(it.BaselinePrice)
	if it.PricingPercent != nil && !ValidPricingPercent(*it.PricingPercent) {
		it.PricingPercent = nil
	}
	return it
}

// NormalizeCollection normalizes every item and drops the unusable ones:
// records with neither a usable name nor an external id, and later records
// whose identity collides with an earlier one. The result always satisfies
// the collection invariants, whatever went in.
func NormalizeCollection(items []Item) []Item {
	out := make([]Item, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		it = NormalizeItem(it)
		key := it.Key()
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			log.Printf("drop-duplicate-record key=%q name=%q", key, it.Name)
			continue
		}
		seen[key] = struct{}{}
		out = append(out, it)
	}
	return out
}

// NormalizeRawCollection is the raw-input variant of NormalizeCollection.
func NormalizeRawCollection(raws []map[string]any) []Item {
	items := make([]Item, 0, len(raws))
	for _, raw := range raws {
		items = append(items, NormalizeRecord(raw))
	}
	return NormalizeCollection(items)
}

func roundPtr(m *Money) *Money {
	if m == nil {
		return nil
	}
	r := m.Round()
	return &r
}

func asString(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

func asQuantity(v any) int {
	f, ok := asNumber(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return int(f)
}

func asMoney(v any) *Money {
	f, ok := asNumber(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	m := USD(f).Round()
	return &m
}

func asPricingPercent(v any) *Percent {
	f, ok := asNumber(v)
	if !ok {
		return nil
	}
	p := Percent(f)
	if !ValidPricingPercent(p) {
		return nil
	}
	return &p
}

func asTime(v any) *time.Time {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &t
}

// asNumber accepts the numeric shapes a loosely produced JSON record can
// carry: a JSON number, or a numeric string left behind by an older writer.
func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}
