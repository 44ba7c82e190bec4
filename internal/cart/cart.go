package cart

import (
	"github.com/svetline/svetline-backend/pkg/db/models"
	"github.com/svetline/svetline-backend/pkg/types"
)

// LineItem pairs a product snapshot with its quantity. The snapshot is
// frozen at add time so later catalog edits never reprice an open cart.
type LineItem struct {
	Product  models.Product `json:"product"`
	Quantity int            `json:"quantity"`
}

// Cart holds the line items for one session in insertion order.
// At most one line item exists per product id.
type Cart struct {
	items []LineItem
	index map[int64]int
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{index: map[int64]int{}}
}

// AddItem increments the quantity for the product if it is already in the
// cart, otherwise appends a new line item with quantity 1.
func (c *Cart) AddItem(product models.Product) {
	if pos, ok := c.index[product.ID]; ok {
		c.items[pos].Quantity++
		return
	}
	c.index[product.ID] = len(c.items)
	c.items = append(c.items, LineItem{Product: product, Quantity: 1})
}

// RemoveItem drops the line item for the product id. Absent ids are a no-op.
func (c *Cart) RemoveItem(productID int64) {
	pos, ok := c.index[productID]
	if !ok {
		return
	}
	c.items = append(c.items[:pos], c.items[pos+1:]...)
	delete(c.index, productID)
	for i := pos; i < len(c.items); i++ {
		c.index[c.items[i].Product.ID] = i
	}
}

// UpdateQuantity sets the absolute quantity for an existing line item.
// Quantities at or below zero remove the line item. Ids without an existing
// line item are ignored rather than created; callers add first.
func (c *Cart) UpdateQuantity(productID int64, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(productID)
		return
	}
	if pos, ok := c.index[productID]; ok {
		c.items[pos].Quantity = quantity
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.items = nil
	c.index = map[int64]int{}
}

// Items returns a copy of the line items in insertion order.
func (c *Cart) Items() []LineItem {
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

// TotalItems sums the quantities across all line items.
func (c *Cart) TotalItems() int {
	total := 0
	for _, item := range c.items {
		total += item.Quantity
	}
	return total
}

// TotalPrice sums price times quantity across all line items. It is
// recomputed on every call so it can never drift from the items.
func (c *Cart) TotalPrice() types.Rubles {
	var total types.Rubles
	for _, item := range c.items {
		total += types.Rubles(item.Product.PriceRub) * types.Rubles(item.Quantity)
	}
	return total
}
