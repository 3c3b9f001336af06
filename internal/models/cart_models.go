package models

import "time"

// Cart is the in-progress sale for a single cashier session. It lives in
// the session store only and is destroyed on checkout or explicit clear;
// it is never shared across sessions.
type Cart struct {
	SessionID string     `json:"session_id"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CartItem snapshots the product's name and price at the moment it was
// added, so the cart is stable even if the catalog changes underneath it.
type CartItem struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
}

// Total returns the current cart total.
func (c *Cart) Total() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.UnitPrice * float64(item.Quantity)
	}
	return total
}
