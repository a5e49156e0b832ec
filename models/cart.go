package models

import "time"

// CartItem is a single cart line. The product is embedded as a snapshot so
// derived totals never need a catalog round trip; quantities are merged per
// product ID, never duplicated.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Cart is the per-user cart snapshot persisted in Redis.
type Cart struct {
	UserID    string     `json:"user_id"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TotalItems returns the summed quantity across all lines.
func (c *Cart) TotalItems() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// Subtotal returns the base-price subtotal. Tier pricing is applied at order
// time, never here.
func (c *Cart) Subtotal() float64 {
	var subtotal float64
	for _, item := range c.Items {
		subtotal += float64(item.Quantity) * item.Product.Price
	}
	return subtotal
}

// TotalWeightKg returns the summed shipping weight of the cart.
func (c *Cart) TotalWeightKg() float64 {
	var weight float64
	for _, item := range c.Items {
		weight += float64(item.Quantity) * item.Product.Weight()
	}
	return weight
}

// CategoryQuantity sums quantities of lines whose product belongs to the
// given category.
func (c *Cart) CategoryQuantity(ref CategoryRef) int {
	total := 0
	for _, item := range c.Items {
		if item.Product.CategoryRef().Same(ref) {
			total += item.Quantity
		}
	}
	return total
}

// Advisory levels for category minimum-order-quantity notices. Advisories
// never block a cart mutation.
const (
	AdvisoryWarning = "warning"
	AdvisorySuccess = "success"
)

// MOQAdvisory is the non-blocking notice raised after a cart mutation when
// the affected category carries a minimum order quantity.
type MOQAdvisory struct {
	Level     string `json:"level"`
	Category  string `json:"category"`
	Required  int    `json:"required"`
	Current   int    `json:"current"`
	Remaining int    `json:"remaining,omitempty"`
	Message   string `json:"message"`
}

// CartUpdate is the result of a cart mutation: the new cart state plus an
// optional category-MOQ advisory.
type CartUpdate struct {
	Cart     *Cart        `json:"cart"`
	Advisory *MOQAdvisory `json:"advisory,omitempty"`
}
