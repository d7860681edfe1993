package domain

// Product is a purchasable catalog entry. Prices are integer amounts in the
// store currency (no minor units). Products are immutable once loaded.
type Product struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Category      string   `json:"category"`
	Price         int64    `json:"price"`
	OriginalPrice int64    `json:"originalPrice,omitempty"`
	Discount      int      `json:"discount,omitempty"` // percent off, 0 = none
	Duration      string   `json:"duration,omitempty"`
	Features      []string `json:"features"`
	IsPopular     bool     `json:"isPopular"`
}

// Category groups related products for display.
type Category struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// CatalogDocument is the decoded shape of the remote catalog file.
type CatalogDocument struct {
	Products       []Product           `json:"products"`
	Categories     map[string]Category `json:"categories"`
	PaymentMethods []string            `json:"paymentMethods"`
}

// EmptyCatalog returns a well-formed document with no content. It is the
// fallback installed when the catalog source cannot be loaded so that
// rendering never sees nil slices or maps.
func EmptyCatalog() *CatalogDocument {
	return &CatalogDocument{
		Products:       []Product{},
		Categories:     map[string]Category{},
		PaymentMethods: []string{},
	}
}
