package cardstock

import (
	"encoding/json"
	"testing"
)

func TestApplyPercent(t *testing.T) {
	tests := []struct {
		name    string
		market  float64
		percent Percent
		want    string
	}{
		{"default ratio", 100, 90, "$90.00"},
		{"rounds to cents", 33.33, 90, "$30.00"},
		{"above market", 100, 110, "$110.00"},
		{"small price", 0.99, 90, "$0.89"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := USD(tc.market).ApplyPercent(tc.percent).String()
			if got != tc.want {
				t.Errorf("USD(%v).ApplyPercent(%v) = %s, want %s", tc.market, tc.percent, got, tc.want)
			}
		})
	}
}

func TestPercentOver(t *testing.T) {
	pct, ok := USD(10).PercentOver(USD(100))
	if !ok || !pct.Equal(10) {
		t.Errorf("10 over 100 = %v (ok=%v), want 10%%", pct, ok)
	}

	if _, ok := USD(10).PercentOver(USD(0)); ok {
		t.Error("percent over a zero base should be undefined")
	}
}

func TestMoneyJSONShape(t *testing.T) {
	// The store file persists money as a bare number rounded to cents.
	data, err := json.Marshal(USD(90.005))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "90.01" {
		t.Errorf("marshal = %s, want 90.01", data)
	}

	var m Money
	if err := json.Unmarshal([]byte("123.4"), &m); err != nil {
		t.Fatal(err)
	}
	if !m.Equal(USD(123.4)) || m.Currency() != "USD" {
		t.Errorf("unmarshal 123.4 = %v %s, want $123.40", m, m.Currency())
	}
}

func TestMoneySignedString(t *testing.T) {
	if got := USD(10).SignedString(); got != "+$10.00" {
		t.Errorf("SignedString = %q", got)
	}
	if got := USD(-2).SignedString(); got != "-$2.00" {
		t.Errorf("SignedString = %q", got)
	}
	if got := USD(0).SignedString(); got != "-" {
		t.Errorf("SignedString of zero = %q, want -", got)
	}
}
