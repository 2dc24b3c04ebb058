package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCompute_Example(t *testing.T) {
	got := Compute([]Line{
		{Price: dec("45"), Quantity: 2},
		{Price: dec("120"), Quantity: 1},
	})
	if !got.Subtotal.Equal(dec("210")) {
		t.Fatalf("expected subtotal 210, got %s", got.Subtotal)
	}
	if !got.Tax.Equal(dec("38")) {
		t.Fatalf("expected tax 38, got %s", got.Tax)
	}
	if !got.Total.Equal(dec("248")) {
		t.Fatalf("expected total 248, got %s", got.Total)
	}
	if !got.Shipping.IsZero() {
		t.Fatalf("expected free shipping, got %s", got.Shipping)
	}
	if got.Items != 3 {
		t.Fatalf("expected 3 items, got %d", got.Items)
	}
}

func TestCompute_RoundsHalfUp(t *testing.T) {
	cases := []struct {
		sub, tax, total string
	}{
		{"25", "5", "30"},        // 4.5 -> 5, 29.5 -> 30
		{"2.5", "0", "3"},        // 0.45 -> 0, 2.95 -> 3
		{"99.99", "18", "118"},   // 17.9982 -> 18, 117.9882 -> 118
		{"1000", "180", "1180"},
	}
	for _, tc := range cases {
		got := Compute([]Line{{Price: dec(tc.sub), Quantity: 1}})
		if !got.Tax.Equal(dec(tc.tax)) || !got.Total.Equal(dec(tc.total)) {
			t.Errorf("subtotal %s: expected tax %s total %s, got %s %s", tc.sub, tc.tax, tc.total, got.Tax, got.Total)
		}
	}
}

func TestCompute_Empty(t *testing.T) {
	got := Compute(nil)
	if !got.Subtotal.IsZero() || !got.Tax.IsZero() || !got.Total.IsZero() || got.Items != 0 {
		t.Fatalf("expected zero totals, got %+v", got)
	}
}

func TestMinorUnits(t *testing.T) {
	if p := ToMinorUnits(dec("248")); p != 24800 {
		t.Fatalf("expected 24800 paise, got %d", p)
	}
	if !FromMinorUnits(24850).Equal(dec("248.5")) {
		t.Fatalf("unexpected conversion back")
	}
}
