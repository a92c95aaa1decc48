package cardstock

import (
	"strings"
	"time"
)

// Item is a canonical catalog record. Only the fields below survive
// normalization; anything else found in an input record is dropped.
//
// Ownership is split between two writers. The admin/catalog-editing path
// owns Name, SetName, Quantity and PricingPercent. The reconciliation engine
// owns MarketPrice, YourPrice, LastUpdated, the baseline pair and PriceError.
// A price refresh never resets Quantity and never deletes an item.
type Item struct {
	// ExternalID is the marketplace product id used for batch price lookups.
	// When empty, the item is keyed by its normalized name instead.
	ExternalID string `json:"externalId,omitempty"`

	Name    string `json:"name,omitempty"`
	SetName string `json:"setName,omitempty"`

	Quantity int `json:"quantity"`

	MarketPrice *Money `json:"marketPrice,omitempty"`
	YourPrice   *Money `json:"yourPrice,omitempty"`

	// PricingPercent overrides the shop-wide selling ratio for this item.
	// Valid range is [MinPricingPercent, MaxPricingPercent]; nil means the
	// default applies.
	PricingPercent *Percent `json:"pricingPercent,omitempty"`

	// LastUpdated is the time of the last successful price observation.
	LastUpdated *time.Time `json:"lastUpdated,omitempty"`

	// BaselinePrice is the first successfully observed price, locked once
	// with BaselineAt and never overwritten. Long-horizon deltas are
	// reported against it.
	BaselinePrice *Money     `json:"baselinePrice,omitempty"`
	BaselineAt    *time.Time `json:"baselineAt,omitempty"`

	ImageURL  string `json:"imageUrl,omitempty"`
	SourceURL string `json:"sourceUrl,omitempty"`

	// PriceError is a transient reason code recorded when the last refresh
	// attempt failed for this item. Cleared on the next success.
	PriceError Reason `json:"priceError,omitempty"`
}

// Key returns the identity key of the item: the external id when present,
// otherwise the normalized name. An empty key means the record has no usable
// identity and cannot be kept in a collection.
func (it Item) Key() string {
	if it.ExternalID != "" {
		return it.ExternalID
	}
	return NormalizeName(it.Name)
}

// HasIdentity reports whether the item can be matched across syncs.
func (it Item) HasIdentity() bool { return it.Key() != "" }

// EffectivePercent returns the item's pricing percent override, or the
// default when it has none.
func (it Item) EffectivePercent() Percent {
	if it.PricingPercent != nil {
		return *it.PricingPercent
	}
	return DefaultPricingPercent
}

// NormalizeName folds a display name into its identity form: trimmed and
// case-folded, so that "Booster Box " and "booster box" key the same record.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Index builds an identity index over a collection. Later duplicates do not
// displace earlier entries; collection normalization is responsible for
// keeping identities unique in the first place.
func Index(items []Item) map[string]*Item {
	idx := make(map[string]*Item, len(items))
	for i := range items {
		key := items[i].Key()
		if key == "" {
			continue
		}
		if _, ok := idx[key]; !ok {
			idx[key] = &items[i]
		}
	}
	return idx
}

// Reason is a price-error reason code recorded on an item when a refresh
// attempt could not produce a usable price.
type Reason string

const (
	// ReasonNoVariants: the pricing service returned the card but none of
	// its variants carried a price.
	ReasonNoVariants Reason = "NO_VARIANTS"
	// ReasonInvalidPrice: the service returned a non-finite, non-positive
	// or implausibly large price.
	ReasonInvalidPrice Reason = "INVALID_PRICE"
	// ReasonNotFound: the service response did not mention the identifier.
	ReasonNotFound Reason = "NOT_FOUND"
	// ReasonFetchFailed: the whole batch chunk carrying the identifier
	// failed (network error, non-2xx status or unusable payload).
	ReasonFetchFailed Reason = "FETCH_FAILED"
)
