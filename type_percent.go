package cardstock

import "fmt"

type Percent float64

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", float64(p))
}

func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", float64(p))
	if res == "+0.00%" {
		return "-"
	}
	return res
}

// Pricing percent bounds. A per-item override outside this range is rejected
// at normalization time and the item falls back to the configured default.
const (
	MinPricingPercent Percent = 1
	MaxPricingPercent Percent = 200

	// DefaultPricingPercent is the shop-wide selling ratio applied when an
	// item carries no override.
	DefaultPricingPercent Percent = 90
)

// ValidPricingPercent reports whether p is a usable per-item override.
func ValidPricingPercent(p Percent) bool {
	return p >= MinPricingPercent && p <= MaxPricingPercent
}
