package models

import "time"

// Payment methods accepted at checkout.
const (
	PaymentCOD    = "COD"
	PaymentOnline = "ONLINE"
)

// OrderItem is a purchased line on a placed order.
type OrderItem struct {
	ProductID   int64   `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	TotalPrice  float64 `json:"totalPrice"`
}

// Order is a placed order as returned by the backend.
type Order struct {
	ID              int64       `json:"id"`
	UserID          int64       `json:"userId"`
	Items           []OrderItem `json:"items,omitempty"`
	Total           float64     `json:"total,omitempty"`
	PaymentMethod   string      `json:"paymentMethod"`
	ShippingAddress string      `json:"shippingAddress"`
	Status          string      `json:"status,omitempty"`
	CreatedAt       *time.Time  `json:"createdAt,omitempty"`
}
