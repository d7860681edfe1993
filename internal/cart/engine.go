// Package cart implements the in-memory shopping cart. Each browser session
// owns one Engine; a Registry hands engines out keyed by session id.
package cart

import (
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/pkg/errors"

	"github.com/talkincode/souqlink/internal/domain"
)

var (
	ErrNoName  = errors.New("cart: product name is required")
	ErrNoPrice = errors.New("cart: product price is required")
)

// AddInput describes the product being added. ProductID and Type are
// optional display metadata; Name and Price are mandatory.
type AddInput struct {
	ProductID string
	Name      string
	Price     int64
	Type      string
}

// Engine holds the ordered cart lines of a single session. All methods are
// safe for concurrent use; totals are derived on every read, never cached.
type Engine struct {
	mu       sync.Mutex
	items    []*domain.CartItem
	node     *snowflake.Node
	onChange func()
}

// NewEngine creates an empty cart. node supplies line ids; onChange, when
// non-nil, fires after every mutation that altered the cart.
func NewEngine(node *snowflake.Node, onChange func()) *Engine {
	return &Engine{node: node, onChange: onChange}
}

// Add puts a product in the cart. A line with the same product name already
// present has its quantity incremented instead of a duplicate being inserted.
func (e *Engine) Add(in AddInput) error {
	if in.Name == "" {
		return ErrNoName
	}
	if in.Price <= 0 {
		return ErrNoPrice
	}

	e.mu.Lock()
	found := false
	for _, item := range e.items {
		if item.Name == in.Name {
			item.Quantity++
			found = true
			break
		}
	}
	if !found {
		e.items = append(e.items, &domain.CartItem{
			ID:        e.node.Generate().Int64(),
			ProductID: in.ProductID,
			Name:      in.Name,
			Price:     in.Price,
			Type:      in.Type,
			Quantity:  1,
		})
	}
	e.mu.Unlock()

	e.notify()
	return nil
}

// Remove deletes the line with the given id. An unknown id is a silent no-op;
// cart mutations are UI state changes, not transactions.
func (e *Engine) Remove(id int64) {
	e.mu.Lock()
	removed := false
	for i, item := range e.items {
		if item.ID == id {
			e.items = append(e.items[:i], e.items[i+1:]...)
			removed = true
			break
		}
	}
	e.mu.Unlock()

	if removed {
		e.notify()
	}
}

// UpdateQuantity sets the quantity of a line. A quantity of zero or less
// removes the line; an unknown id is a no-op.
func (e *Engine) UpdateQuantity(id int64, quantity int) {
	if quantity <= 0 {
		e.Remove(id)
		return
	}

	e.mu.Lock()
	changed := false
	for _, item := range e.items {
		if item.ID == id {
			item.Quantity = quantity
			changed = true
			break
		}
	}
	e.mu.Unlock()

	if changed {
		e.notify()
	}
}

// Total returns the sum of price multiplied by quantity over all lines.
func (e *Engine) Total() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	var total int64
	for _, item := range e.items {
		total += item.Subtotal()
	}
	return total
}

// ItemCount returns the sum of quantities, shown on the cart badge.
func (e *Engine) ItemCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	count := 0
	for _, item := range e.items {
		count += item.Quantity
	}
	return count
}

// Items returns a copy of the cart lines in insertion order.
func (e *Engine) Items() []domain.CartItem {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]domain.CartItem, 0, len(e.items))
	for _, item := range e.items {
		out = append(out, *item)
	}
	return out
}

// Len returns the number of distinct lines.
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.items)
}

// Clear empties the cart.
func (e *Engine) Clear() {
	e.mu.Lock()
	had := len(e.items) > 0
	e.items = nil
	e.mu.Unlock()

	if had {
		e.notify()
	}
}

func (e *Engine) notify() {
	if e.onChange != nil {
		e.onChange()
	}
}
