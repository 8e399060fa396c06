package models

// Product is a catalog entry as served by the backend.
type Product struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description,omitempty"`
	SubDescription string   `json:"subDescription,omitempty"`
	Price          float64  `json:"price"`
	MRP            float64  `json:"mrp,omitempty"`
	Stock          int      `json:"stock,omitempty"`
	Images         []string `json:"images"` // relative paths, e.g. /files/products/xxx.jpg
	Category       string   `json:"category,omitempty"`
}
