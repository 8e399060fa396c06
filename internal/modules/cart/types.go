package cart

import "errors"

// guestCartKey is the fixed storage slot for the serialized guest cart.
const guestCartKey = "guest_cart"

// ErrInvalidQuantity rejects quantities below 1 before any state is touched.
// Dropping a line is an explicit RemoveItem, never a zero quantity.
var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// AddItemRequest adds a product to the active cart.
type AddItemRequest struct {
	ProductID int64 `json:"productId" binding:"required"`
	Quantity  int   `json:"quantity"`
}

// UpdateItemRequest changes the quantity of an existing line.
type UpdateItemRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// remoteCartRequest is the payload shape shared by the backend's cart add and
// update endpoints.
type remoteCartRequest struct {
	UserID    int64 `json:"userId"`
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}
