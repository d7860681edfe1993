package domain

// CartItem is a single cart line. ID is a snowflake generated when the line
// is first created; Quantity is always >= 1 (a line whose quantity drops to
// zero is removed, never kept).
type CartItem struct {
	ID        int64  `json:"id,string"`
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Type      string `json:"type,omitempty"`
	Quantity  int    `json:"quantity"`
}

// Subtotal returns price multiplied by quantity for this line.
func (i CartItem) Subtotal() int64 {
	return i.Price * int64(i.Quantity)
}
