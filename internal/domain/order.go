package domain

// OrderReceipt is returned by the dispatcher after a successful submit. Link
// is the pre-filled wa.me URL the client opens; Forwarded reports whether the
// order was also handed to the configured webhook collaborator.
type OrderReceipt struct {
	OrderNo       string `json:"order_no"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	PaymentMethod string `json:"payment_method"`
	Message       string `json:"message"`
	Link          string `json:"link"`
	Total         int64  `json:"total"`
	Forwarded     bool   `json:"forwarded"`
}
