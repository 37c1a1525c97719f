package domain

import "time"

// View selects which screen the UI is showing.
type View string

const (
	ViewLogin   View = "login"
	ViewCatalog View = "catalog"
	ViewCart    View = "cart"
)

type Product struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	StockQuantity int     `json:"stockQuantity"`

	// Adding is true while an add-to-cart call for this product is in flight.
	// UI-only, never sent to or read from the backend.
	Adding bool `json:"-"`
}

type CartItem struct {
	ID          int64   `json:"id"`
	ProductID   int64   `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	Subtotal    float64 `json:"subtotal"`
}

type Cart struct {
	ID           int64      `json:"id"`
	Status       string     `json:"status"`
	CreationDate time.Time  `json:"creationDate"`
	Items        []CartItem `json:"items"`
	Total        float64    `json:"total"`
}

// EmptyCart is the placeholder shown when the backend has no cart for the
// session yet (a not-found response, not an error).
func EmptyCart() *Cart {
	return &Cart{ID: 0, Status: "NEW", Items: []CartItem{}, Total: 0}
}

// ItemCount sums the item quantities. Safe on a nil cart.
func (c *Cart) ItemCount() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}
