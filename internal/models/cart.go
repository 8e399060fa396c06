package models

// GuestUserID is the owner id carried by a cart that belongs to no account.
const GuestUserID int64 = 0

// CartItem is a single product line inside a cart.
type CartItem struct {
	ProductID   int64   `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	TotalPrice  float64 `json:"totalPrice"`
}

// UserCart is the cart for one owner, guest or account.
type UserCart struct {
	UserID     int64      `json:"userId"`
	Items      []CartItem `json:"items"`
	GrandTotal float64    `json:"grandTotal"`
}

// EmptyCart returns a fresh cart for the given owner.
func EmptyCart(userID int64) *UserCart {
	return &UserCart{UserID: userID, Items: []CartItem{}}
}

// ItemCount is the summed quantity across all lines; this is the value
// broadcast to count subscribers.
func (c *UserCart) ItemCount() int {
	if c == nil {
		return 0
	}
	total := 0
	for _, it := range c.Items {
		total += it.Quantity
	}
	return total
}

// Recalculate recomputes every line total and the grand total. Totals are
// always derived, never trusted from storage.
func (c *UserCart) Recalculate() {
	var grand float64
	for i := range c.Items {
		c.Items[i].TotalPrice = c.Items[i].UnitPrice * float64(c.Items[i].Quantity)
		grand += c.Items[i].TotalPrice
	}
	c.GrandTotal = grand
}

// FindItem returns the index of the line holding productID, or -1.
func (c *UserCart) FindItem(productID int64) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}
