package cardstock

import "fmt"

// Delta is a price movement between two observations.
type Delta struct {
	Amount Money
	// Pct is nil when the previous price was zero, where the ratio is
	// undefined.
	Pct *Percent
}

// NewDelta computes current - previous and the percent change relative to
// previous.
func NewDelta(previous, current Money) Delta {
	d := Delta{Amount: current.Sub(previous)}
	if pct, ok := d.Amount.PercentOver(previous); ok {
		d.Pct = &pct
	}
	return d
}

// String renders the delta as e.g. "+10.00 (+10.00%)". Without a defined
// percent the parenthesis is omitted.
func (d Delta) String() string {
	if d.Pct == nil {
		return d.Amount.SignedString()
	}
	return fmt.Sprintf("%s (%s)", d.Amount.SignedString(), d.Pct.SignedString())
}

// Deltas reports an item's price movement since the last observation and
// since its locked baseline. The booleans are false when the corresponding
// reference price is unknown.
func Deltas(prev, baseline, current *Money) (sinceLast, sinceBaseline Delta, okLast, okBaseline bool) {
	if current == nil {
		return
	}
	if prev != nil {
		sinceLast = NewDelta(*prev, *current)
		okLast = true
	}
	if baseline != nil {
		sinceBaseline = NewDelta(*baseline, *current)
		okBaseline = true
	}
	return
}
