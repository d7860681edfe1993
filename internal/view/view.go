// Package view maps store state to plain view-model values. Nothing here
// holds state or touches a rendering surface; the structures are what a
// client template or JSON consumer renders directly.
package view

import (
	"github.com/talkincode/souqlink/internal/domain"
	"github.com/talkincode/souqlink/internal/i18n"
)

// Badge is the cart item counter shown on the cart button. Hidden when the
// cart is empty.
type Badge struct {
	Count  int  `json:"count"`
	Hidden bool `json:"hidden"`
}

// CartLine is one rendered cart row.
type CartLine struct {
	ID       int64  `json:"id,string"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
	Subtotal int64  `json:"subtotal"`
}

// CartView is the full cart panel.
type CartView struct {
	Items    []CartLine `json:"items"`
	Total    int64      `json:"total"`
	Currency string     `json:"currency"`
	Empty    bool       `json:"empty"`
	Badge    Badge      `json:"badge"`
}

// BuildCart renders cart lines. Lines without a type label fall back to the
// localized generic product label.
func BuildCart(items []domain.CartItem, lang string) CartView {
	lines := make([]CartLine, 0, len(items))
	var total int64
	count := 0
	for _, it := range items {
		typ := it.Type
		if typ == "" {
			typ = i18n.T(lang, "product.default_type")
		}
		lines = append(lines, CartLine{
			ID:       it.ID,
			Name:     it.Name,
			Type:     typ,
			Price:    it.Price,
			Quantity: it.Quantity,
			Subtotal: it.Subtotal(),
		})
		total += it.Subtotal()
		count += it.Quantity
	}
	return CartView{
		Items:    lines,
		Total:    total,
		Currency: i18n.T(lang, "currency"),
		Empty:    len(lines) == 0,
		Badge:    Badge{Count: count, Hidden: count == 0},
	}
}

// ProductCard is one rendered product tile.
type ProductCard struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Price         int64    `json:"price"`
	OriginalPrice int64    `json:"original_price,omitempty"`
	HasDiscount   bool     `json:"has_discount"`
	Discount      int      `json:"discount,omitempty"`
	Duration      string   `json:"duration,omitempty"`
	Features      []string `json:"features"`
	IsPopular     bool     `json:"is_popular"`
	Currency      string   `json:"currency"`
}

// CategorySection is one catalog section: a category heading and its
// products in source order.
type CategorySection struct {
	Key      string        `json:"key"`
	Name     string        `json:"name"`
	Icon     string        `json:"icon"`
	Products []ProductCard `json:"products"`
}

// BuildCatalog renders catalog sections in first-seen-category order.
// Categories missing from the metadata map still render, with the key as
// the heading, so a sloppy document degrades instead of dropping products.
func BuildCatalog(order []string, groups map[string][]domain.Product, cats map[string]domain.Category, lang string) []CategorySection {
	sections := make([]CategorySection, 0, len(order))
	for _, key := range order {
		cat, ok := cats[key]
		if !ok {
			cat = domain.Category{Key: key, Name: key}
		}
		products := groups[key]
		cards := make([]ProductCard, 0, len(products))
		for _, p := range products {
			cards = append(cards, ProductCard{
				ID:            p.ID,
				Name:          p.Name,
				Description:   p.Description,
				Price:         p.Price,
				OriginalPrice: p.OriginalPrice,
				HasDiscount:   p.Discount > 0,
				Discount:      p.Discount,
				Duration:      p.Duration,
				Features:      p.Features,
				IsPopular:     p.IsPopular,
				Currency:      i18n.T(lang, "currency"),
			})
		}
		sections = append(sections, CategorySection{
			Key:      cat.Key,
			Name:     cat.Name,
			Icon:     cat.Icon,
			Products: cards,
		})
	}
	return sections
}

// UserView is the header account widget state.
type UserView struct {
	LoggedIn bool   `json:"logged_in"`
	Name     string `json:"name,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// BuildUser renders the account widget. A nil identity is anonymous.
func BuildUser(id *domain.Identity) UserView {
	if id == nil {
		return UserView{}
	}
	return UserView{LoggedIn: true, Name: id.Name, Phone: id.Phone}
}

// PaymentOption is one entry of the payment method selector.
type PaymentOption struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// BuildPayments resolves payment method keys to localized options.
func BuildPayments(keys []string, lang string) []PaymentOption {
	opts := make([]PaymentOption, 0, len(keys))
	for _, k := range keys {
		opts = append(opts, PaymentOption{Key: k, Label: i18n.PaymentLabel(lang, k)})
	}
	return opts
}
