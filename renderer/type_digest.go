package renderer

import (
	"time"

	"cardstock"
)

const durationGrain = time.Millisecond

// Digest is the view model for a watchlist digest: where each watched item
// stands relative to its last observation and its locked baseline.
type Digest struct {
	GeneratedAt string
	Rows        []DigestRow
}

// DigestRow is one watched item.
type DigestRow struct {
	Name          string
	Market        string
	SinceBaseline string
	Updated       string
}

// NewDigest builds the digest view. Items without a market price are listed
// with dashes rather than dropped: a watcher wants to see what is still
// unpriced.
func NewDigest(items []cardstock.Item, now time.Time) *Digest {
	d := &Digest{GeneratedAt: now.Format("2006-01-02 15:04")}
	for _, it := range items {
		row := DigestRow{
			Name:          it.Name,
			Market:        "-",
			SinceBaseline: "-",
			Updated:       "never",
		}
		if it.MarketPrice != nil {
			row.Market = it.MarketPrice.String()
		}
		if _, sinceBaseline, _, ok := cardstock.Deltas(nil, it.BaselinePrice, it.MarketPrice); ok {
			row.SinceBaseline = sinceBaseline.String()
		}
		if it.LastUpdated != nil {
			row.Updated = it.LastUpdated.Local().Format("2006-01-02 15:04")
		}
		d.Rows = append(d.Rows, row)
	}
	return d
}
