package cardstock

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Quote is one fetched price observation for an external identifier.
// Either Price is set, or Reason explains why no usable price exists.
type Quote struct {
	Price   *Money
	Name    string
	SetName string
	Reason  Reason
}

// PriceFetcher produces one Quote per requested identifier. The returned
// map covers every requested identifier, including the failed ones.
type PriceFetcher interface {
	FetchPrices(ctx context.Context, ids []string) (map[string]Quote, error)
}

// SelectionPolicy decides which items are refreshed by a sync run. It is a
// pure predicate supplied by the caller, not part of the engine.
type SelectionPolicy func(Item) bool

// StaleFor selects items that carry an external id, are in stock and whose
// last observation is missing or older than maxAge. This is the policy the
// scheduled refresh runs with.
func StaleFor(maxAge time.Duration) SelectionPolicy {
	return func(it Item) bool {
		if it.ExternalID == "" || it.Quantity <= 0 {
			return false
		}
		return it.LastUpdated == nil || time.Since(*it.LastUpdated) > maxAge
	}
}

// Refreshable selects every in-stock item with an external id regardless of
// staleness, for forced refreshes.
func Refreshable(it Item) bool {
	return it.ExternalID != "" && it.Quantity > 0
}

// RestockEvent reports that an item's quantity increased between the
// pre-sync snapshot and the persisted collection. The engine only returns
// these; dispatching notifications is the caller's business.
type RestockEvent struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	OldQuantity int    `json:"oldQuantity"`
	NewQuantity int    `json:"newQuantity"`
	Delta       int    `json:"delta"`
}

// SyncReport summarizes one sync run. Per-item and per-chunk failures are
// absorbed here rather than surfaced as a run error: a completed run always
// reports what it processed, updated, skipped and got wrong.
type SyncReport struct {
	Started  time.Time      `json:"started"`
	Finished time.Time      `json:"finished"`
	Total    int            `json:"total"`
	Selected int            `json:"selected"`
	Updated  int            `json:"updated"`
	Skipped  int            `json:"skipped"`
	Errored  int            `json:"errored"`
	Restocks []RestockEvent `json:"restocks,omitempty"`
}

// Engine is the single reconciliation entry point shared by the scheduled
// refresh, the on-demand web refresh and the watchlist digest. It merges
// fetched price data into the collection while preserving the admin-owned
// fields, and persists the result through the durable store.
type Engine struct {
	Store   *Store
	Fetcher PriceFetcher

	// now is the clock, replaceable in tests.
	now func() time.Time
}

// NewEngine returns an engine over the given store and fetcher.
func NewEngine(store *Store, fetcher PriceFetcher) *Engine {
	return &Engine{Store: store, Fetcher: fetcher, now: time.Now}
}

// Sync runs one reconciliation pass:
//
//  1. read the current collection (the pre-sync snapshot),
//  2. select the identifiers to refresh with the caller's policy,
//  3. fetch prices in rate-limited batches,
//  4. re-read the collection, since another consumer (the web admin) may have
//     edited quantities during the fetch window, and index it by identity,
//  5. merge quotes into the indexed records,
//  6. diff quantities against the pre-sync snapshot into restock events,
//  7. persist once through the store.
//
// Only a store write failure (or a fetcher refusing to run at all) is a
// hard error; everything per-item lands in the report and in PriceError.
func (e *Engine) Sync(ctx context.Context, policy SelectionPolicy) (SyncReport, error) {
	report := SyncReport{Started: e.now()}

	snapshot, err := e.Store.Read()
	if err != nil {
		return report, fmt.Errorf("cannot read collection: %w", err)
	}
	report.Total = len(snapshot.Items)

	var ids []string
	for _, it := range snapshot.Items {
		if policy(it) {
			ids = append(ids, it.ExternalID)
		}
	}
	report.Selected = len(ids)
	report.Skipped = report.Total - report.Selected

	var quotes map[string]Quote
	if len(ids) > 0 {
		quotes, err = e.Fetcher.FetchPrices(ctx, ids)
		if err != nil {
			return report, fmt.Errorf("price fetch did not run: %w", err)
		}
	}

	// Re-read so admin edits that landed during the (slow, rate-limited)
	// fetch are not clobbered by the final write.
	current, err := e.Store.Read()
	if err != nil {
		return report, fmt.Errorf("cannot re-read collection: %w", err)
	}
	items := current.Items

	// The index covers the full collection, not just the selected subset,
	// so every quote can find its target.
	idx := Index(items)
	now := e.now().UTC()
	for id, q := range quotes {
		it, ok := idx[id]
		if !ok {
			log.Printf("warning: fetched price for unknown identifier %q", id)
			continue
		}
		e.merge(it, q, now)
		if q.Price != nil {
			report.Updated++
		} else {
			report.Errored++
		}
	}

	report.Restocks = restocks(snapshot.Items, items)

	if err := e.Store.Write(items); err != nil {
		return report, fmt.Errorf("cannot persist collection: %w", err)
	}
	report.Finished = e.now()
	return report, nil
}

// merge applies one quote to one record. A nil price records the reason and
// leaves the existing price fields untouched: stale-but-known beats blank.
func (e *Engine) merge(it *Item, q Quote, now time.Time) {
	if q.Price == nil {
		it.PriceError = q.Reason
		return
	}

	market := q.Price.Round()
	it.MarketPrice = &market
	yours := market.ApplyPercent(it.EffectivePercent())
	it.YourPrice = &yours
	it.LastUpdated = &now
	it.PriceError = ""

	// Fill display fields the admin never set; never overwrite their edits.
	if it.Name == "" {
		it.Name = q.Name
	}
	if it.SetName == "" {
		it.SetName = q.SetName
	}

	// The baseline locks on the first observed price and never moves.
	if it.BaselinePrice == nil {
		it.BaselinePrice = &market
		at := now
		it.BaselineAt = &at
	}
}

// restocks diffs quantities between the pre-sync snapshot and the collection
// about to be persisted.
func restocks(before, after []Item) []RestockEvent {
	prev := Index(before)
	var events []RestockEvent
	for _, it := range after {
		old, ok := prev[it.Key()]
		if !ok || it.Quantity <= old.Quantity {
			continue
		}
		events = append(events, RestockEvent{
			Key:         it.Key(),
			Name:        it.Name,
			OldQuantity: old.Quantity,
			NewQuantity: it.Quantity,
			Delta:       it.Quantity - old.Quantity,
		})
	}
	return events
}
