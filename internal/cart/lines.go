package cart

// The functions below never mutate their input. They return the new line
// list and whether anything changed; a rejected mutation returns the input
// unchanged with changed == false.

func indexOf(lines []Line, id string) int {
	for i, l := range lines {
		if l.ID == id {
			return i
		}
	}
	return -1
}

func clone(lines []Line) []Line {
	out := make([]Line, len(lines))
	copy(out, lines)
	return out
}

// AddOrIncrement adds p with quantity MinQuantity, or raises an existing
// line by MinQuantity clamped to stock. Price, stock and minimum on an
// existing line are refreshed from p.
func AddOrIncrement(lines []Line, p Product) ([]Line, bool) {
	minQty := p.MinQuantity
	if minQty < 1 {
		minQty = 1
	}
	if p.ID == "" || p.Stock < minQty {
		return lines, false
	}

	i := indexOf(lines, p.ID)
	if i < 0 {
		out := append(clone(lines), Line{
			ID:           p.ID,
			Name:         p.Name,
			Manufacturer: p.Manufacturer,
			Price:        p.Price,
			Quantity:     minQty,
			MinQuantity:  minQty,
			Stock:        p.Stock,
			Expiry:       p.Expiry,
			Category:     p.Category,
			Type:         p.Type,
		})
		return out, true
	}

	cur := lines[i]
	if cur.Quantity >= p.Stock {
		return lines, false
	}
	qty := cur.Quantity + minQty
	if qty > p.Stock {
		qty = p.Stock
	}
	if qty < minQty {
		qty = minQty
	}

	out := clone(lines)
	out[i].Quantity = qty
	out[i].Price = p.Price
	out[i].Stock = p.Stock
	out[i].MinQuantity = minQty
	if p.Name != "" {
		out[i].Name = p.Name
	}
	return out, true
}

// SetQuantity sets the quantity of line id. Values below the line's
// minimum or above its stock are ignored, as are unknown ids.
func SetQuantity(lines []Line, id string, q int) ([]Line, bool) {
	i := indexOf(lines, id)
	if i < 0 {
		return lines, false
	}
	l := lines[i]
	if q < l.MinQuantity || q > l.Stock || q == l.Quantity {
		return lines, false
	}
	out := clone(lines)
	out[i].Quantity = q
	return out, true
}

// Remove drops line id whatever its quantity.
func Remove(lines []Line, id string) ([]Line, bool) {
	i := indexOf(lines, id)
	if i < 0 {
		return lines, false
	}
	out := make([]Line, 0, len(lines)-1)
	out = append(out, lines[:i]...)
	out = append(out, lines[i+1:]...)
	return out, true
}
