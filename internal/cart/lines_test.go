package cart

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
)

func product(id string, stock, minQty int) Product {
	return Product{ID: id, Name: "Med " + id, Price: decimal.NewFromInt(45), Stock: stock, MinQuantity: minQty}
}

func TestAddOrIncrement_NewLineStartsAtMinimum(t *testing.T) {
	lines, changed := AddOrIncrement(nil, product("m1", 100, 10))
	if !changed || len(lines) != 1 {
		t.Fatalf("expected one new line, got %+v", lines)
	}
	if lines[0].Quantity != 10 {
		t.Fatalf("expected quantity 10, got %d", lines[0].Quantity)
	}
}

func TestAddOrIncrement_IncrementsByMinimumAndClamps(t *testing.T) {
	lines, _ := AddOrIncrement(nil, product("m1", 25, 10))
	lines, _ = AddOrIncrement(lines, product("m1", 25, 10))
	if lines[0].Quantity != 20 {
		t.Fatalf("expected 20 after second add, got %d", lines[0].Quantity)
	}
	lines, _ = AddOrIncrement(lines, product("m1", 25, 10))
	if lines[0].Quantity != 25 {
		t.Fatalf("expected clamp to stock 25, got %d", lines[0].Quantity)
	}
	_, changed := AddOrIncrement(lines, product("m1", 25, 10))
	if changed {
		t.Fatalf("line at stock must not change")
	}
}

func TestAddOrIncrement_StockBelowMinimumIsRejected(t *testing.T) {
	lines, changed := AddOrIncrement(nil, product("m1", 5, 10))
	if changed || len(lines) != 0 {
		t.Fatalf("expected no line, got %+v", lines)
	}
}

func TestAddOrIncrement_RefreshesCatalogFields(t *testing.T) {
	lines, _ := AddOrIncrement(nil, product("m1", 100, 10))
	p := product("m1", 100, 10)
	p.Price = decimal.NewFromInt(50)
	lines, _ = AddOrIncrement(lines, p)
	if !lines[0].Price.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected refreshed price 50, got %s", lines[0].Price)
	}
}

func TestAddOrIncrement_DoesNotMutateInput(t *testing.T) {
	orig, _ := AddOrIncrement(nil, product("m1", 100, 10))
	_, _ = AddOrIncrement(orig, product("m1", 100, 10))
	if orig[0].Quantity != 10 {
		t.Fatalf("input slice was modified: %d", orig[0].Quantity)
	}
}

func TestSetQuantity_BelowMinimumIsNoop(t *testing.T) {
	lines, _ := AddOrIncrement(nil, product("m1", 100, 10))
	lines, changed := SetQuantity(lines, "m1", 5)
	if changed || lines[0].Quantity != 10 {
		t.Fatalf("expected quantity to stay 10, got %d", lines[0].Quantity)
	}
}

func TestSetQuantity_AboveStockIsNoop(t *testing.T) {
	lines := []Line{{ID: "m1", Quantity: 50, MinQuantity: 10, Stock: 100}}
	lines, changed := SetQuantity(lines, "m1", 150)
	if changed || lines[0].Quantity != 50 {
		t.Fatalf("expected quantity to stay 50, got %d", lines[0].Quantity)
	}
}

func TestSetQuantity_WithinBounds(t *testing.T) {
	lines := []Line{{ID: "m1", Quantity: 50, MinQuantity: 10, Stock: 100}}
	lines, changed := SetQuantity(lines, "m1", 51)
	if !changed || lines[0].Quantity != 51 {
		t.Fatalf("expected 51, got %d", lines[0].Quantity)
	}
	if _, changed := SetQuantity(lines, "missing", 20); changed {
		t.Fatalf("unknown id must be a no-op")
	}
}

func TestRemove_IgnoresMinimum(t *testing.T) {
	lines := []Line{
		{ID: "m1", Quantity: 10, MinQuantity: 10, Stock: 100},
		{ID: "m2", Quantity: 1, MinQuantity: 1, Stock: 5},
	}
	lines, changed := Remove(lines, "m1")
	if !changed || len(lines) != 1 || lines[0].ID != "m2" {
		t.Fatalf("expected only m2 left, got %+v", lines)
	}
}

// Random sequences of operations must keep every line within its bounds.
func TestOperations_KeepBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	catalog := []Product{
		product("a", 100, 10),
		product("b", 7, 3),
		product("c", 1, 1),
		product("d", 4, 5),
		product("e", 60, 25),
	}
	var lines []Line
	for step := 0; step < 5000; step++ {
		p := catalog[rng.Intn(len(catalog))]
		switch rng.Intn(3) {
		case 0:
			lines, _ = AddOrIncrement(lines, p)
		case 1:
			lines, _ = SetQuantity(lines, p.ID, rng.Intn(130)-10)
		case 2:
			if rng.Intn(4) == 0 {
				lines, _ = Remove(lines, p.ID)
			}
		}
		seen := map[string]bool{}
		for _, l := range lines {
			if seen[l.ID] {
				t.Fatalf("step %d: duplicate line %s", step, l.ID)
			}
			seen[l.ID] = true
			if l.Quantity < l.MinQuantity || l.Quantity > l.Stock {
				t.Fatalf("step %d: line %s out of bounds: %d not in [%d,%d]", step, l.ID, l.Quantity, l.MinQuantity, l.Stock)
			}
		}
	}
}
