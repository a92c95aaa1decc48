package cardstock

import "testing"

func TestDeltaString(t *testing.T) {
	tests := []struct {
		name     string
		previous float64
		current  float64
		want     string
	}{
		{"up", 100, 110, "+$10.00 (+10.00%)"},
		{"down", 110, 108, "-$2.00 (-1.82%)"},
		{"flat", 100, 100, "- (-)"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := NewDelta(USD(tc.previous), USD(tc.current)).String()
			if got != tc.want {
				t.Errorf("delta %v -> %v = %q, want %q", tc.previous, tc.current, got, tc.want)
			}
		})
	}
}

func TestDeltaZeroBase(t *testing.T) {
	// Relative change over a zero previous price is undefined: no percent.
	d := NewDelta(USD(0), USD(5))
	if d.Pct != nil {
		t.Fatalf("delta over zero base has a percent: %v", *d.Pct)
	}
	if got := d.String(); got != "+$5.00" {
		t.Errorf("String() = %q, want +$5.00", got)
	}
}

func TestDeltas(t *testing.T) {
	prev, baseline, current := USD(100), USD(80), USD(110)

	sinceLast, sinceBaseline, okLast, okBaseline := Deltas(&prev, &baseline, &current)
	if !okLast || !okBaseline {
		t.Fatal("both references are known, both deltas should be defined")
	}
	if got := sinceLast.String(); got != "+$10.00 (+10.00%)" {
		t.Errorf("since last = %q", got)
	}
	if got := sinceBaseline.String(); got != "+$30.00 (+37.50%)" {
		t.Errorf("since baseline = %q", got)
	}

	if _, _, okLast, _ := Deltas(nil, &baseline, &current); okLast {
		t.Error("delta without a previous price should be undefined")
	}
	if _, _, _, okBaseline := Deltas(&prev, &baseline, nil); okBaseline {
		t.Error("delta without a current price should be undefined")
	}
}
