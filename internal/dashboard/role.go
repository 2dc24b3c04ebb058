package dashboard

import "errors"

var ErrUnknownRole = errors.New("unknown role")

type Role string

const (
	RoleManufacturer Role = "manufacturer"
	RoleWholesaler   Role = "wholesaler"
	RoleDistributor  Role = "distributor"
	RoleRetailer     Role = "retailer"
)

// Roles lists every supply-chain role in order, upstream first.
var Roles = []Role{RoleManufacturer, RoleWholesaler, RoleDistributor, RoleRetailer}

type View string

const (
	ViewOverview        View = "overview"
	ViewBrowseMedicines View = "browse-medicines"
	ViewAddProduct      View = "add-product"
	ViewMyProducts      View = "my-products"
	ViewOrdersPlaced    View = "orders-placed"
	ViewOrdersReceived  View = "orders-received"
	ViewProfile         View = "profile"
)

// capabilities is the single descriptor every role dashboard is rendered from.
var capabilities = map[Role][]View{
	RoleManufacturer: {ViewOverview, ViewAddProduct, ViewMyProducts, ViewOrdersReceived, ViewProfile},
	RoleWholesaler:   {ViewOverview, ViewBrowseMedicines, ViewAddProduct, ViewMyProducts, ViewOrdersPlaced, ViewOrdersReceived, ViewProfile},
	RoleDistributor:  {ViewOverview, ViewBrowseMedicines, ViewAddProduct, ViewMyProducts, ViewOrdersPlaced, ViewProfile},
	RoleRetailer:     {ViewOverview, ViewBrowseMedicines, ViewOrdersPlaced, ViewProfile},
}

func ParseRole(s string) (Role, error) {
	r := Role(s)
	if _, ok := capabilities[r]; !ok {
		return "", ErrUnknownRole
	}
	return r, nil
}

// Views returns the views enabled for r in sidebar order.
func (r Role) Views() []View {
	return append([]View(nil), capabilities[r]...)
}

func (r Role) Can(v View) bool {
	for _, have := range capabilities[r] {
		if have == v {
			return true
		}
	}
	return false
}

// Sells reports whether the role lists its own products.
func (r Role) Sells() bool { return r.Can(ViewMyProducts) }

// Buys reports whether the role purchases from the catalog.
func (r Role) Buys() bool { return r.Can(ViewBrowseMedicines) }
