package main

import (
	"log"

	"github.com/shopspring/decimal"
)

// CartLine is one row in the shopping cart, keyed by a composite identifier
// encoding the base product plus any selected variant. Price is a snapshot
// taken when the line was created.
type CartLine struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Image    string          `json:"image"`
	Type     string          `json:"type,omitempty"`
	SKU      string          `json:"sku,omitempty"`
}

// CartProduct is the product-shaped input a cart line is created from.
// Price may arrive as a number or a comma-grouped string; it is normalized
// through ParsePrice before any arithmetic.
type CartProduct struct {
	ID    string      `json:"id"`
	Title string      `json:"title"`
	Price interface{} `json:"price"`
	Image string      `json:"image"`
	Type  string      `json:"type,omitempty"`
	SKU   string      `json:"sku,omitempty"`
}

// CartStore persists the full cart line list on every mutation and
// rehydrates it on load.
type CartStore interface {
	Save(lines []CartLine) error
	Load() ([]CartLine, error)
}

// Cart holds the shopping cart state for one session. Persistence is an
// injected side effect; every mutation writes the whole line list through
// the store. Save failures are logged and the in-memory state stays
// authoritative.
type Cart struct {
	lines []CartLine
	store CartStore
}

// NewCart rehydrates a cart from the store. Corrupt stored data fails closed
// to an empty cart rather than surfacing an error.
func NewCart(store CartStore) *Cart {
	c := &Cart{store: store}
	if store == nil {
		return c
	}
	lines, err := store.Load()
	if err != nil {
		log.Println("cart load, starting empty:", err)
		return c
	}
	c.lines = lines
	return c
}

// AddItem appends a new line, or sums quantities when a line with the same
// identifier already exists. Quantities below 1 are rejected as a no-op.
func (c *Cart) AddItem(p CartProduct, quantity int) {
	if quantity < 1 {
		return
	}
	for i := range c.lines {
		if c.lines[i].ID == p.ID {
			c.lines[i].Quantity += quantity
			c.persist()
			return
		}
	}
	c.lines = append(c.lines, CartLine{
		ID:       p.ID,
		Title:    p.Title,
		Price:    ParsePrice(p.Price),
		Quantity: quantity,
		Image:    p.Image,
		Type:     p.Type,
		SKU:      p.SKU,
	})
	c.persist()
}

// RemoveItem deletes the line with the given identifier. Absent lines are
// ignored.
func (c *Cart) RemoveItem(id string) {
	for i := range c.lines {
		if c.lines[i].ID == id {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			c.persist()
			return
		}
	}
}

// UpdateQuantity replaces the quantity of an existing line. Values below 1
// are a no-op: dropping a line goes through RemoveItem instead.
func (c *Cart) UpdateQuantity(id string, quantity int) {
	if quantity < 1 {
		return
	}
	for i := range c.lines {
		if c.lines[i].ID == id {
			c.lines[i].Quantity = quantity
			c.persist()
			return
		}
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
	c.persist()
}

// Count returns the sum of quantities across all lines.
func (c *Cart) Count() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// Total returns the sum of price×quantity over all lines, rounded to two
// fraction digits.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total.Round(2)
}

// Lines returns a copy of the current cart lines.
func (c *Cart) Lines() []CartLine {
	cp := make([]CartLine, len(c.lines))
	copy(cp, c.lines)
	return cp
}

func (c *Cart) persist() {
	if c.store == nil {
		return
	}
	if err := c.store.Save(c.lines); err != nil {
		log.Println("cart save:", err)
	}
}
