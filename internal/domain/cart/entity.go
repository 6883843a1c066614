// internal/domain/cart/entity.go
package cart

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductSnapshot is the slice of catalog data the cart copies at add time.
// Prices and stock figures are frozen here; they are not re-read from the
// catalog on later mutations.
type ProductSnapshot struct {
	ID            uint            `json:"id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity *int            `json:"stock_quantity,omitempty"`
}

// LineItem represents one row in the cart: a product snapshot plus the
// quantity the customer asked for. Quantity is always at least 1; a line
// that would drop below 1 is removed instead.
type LineItem struct {
	ProductID    uint            `json:"product_id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Quantity     int             `json:"quantity"`
	StockCeiling *int            `json:"stock_ceiling,omitempty"`
	AddedAt      time.Time       `json:"added_at"`
}

// Ceiling resolves the maximum quantity this line allows. A missing stock
// figure means the default per-customer limit, not unlimited.
func (li LineItem) Ceiling(defaultLimit int) int {
	if li.StockCeiling != nil {
		return *li.StockCeiling
	}
	return defaultLimit
}

// LineTotal returns unit price times quantity.
func (li LineItem) LineTotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Cart is the aggregate of line items for one cart session. Items keep
// insertion order for display; product IDs are unique within the slice.
type Cart struct {
	Items     []LineItem `json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// New creates an empty cart.
func New() *Cart {
	now := time.Now().UTC()
	return &Cart{
		Items:     []LineItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Find returns a pointer to the line item for productID, or nil.
func (c *Cart) Find(productID uint) *LineItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// Remove deletes the line item for productID, reporting whether it existed.
func (c *Cart) Remove(productID uint) bool {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return true
		}
	}
	return false
}

// IsEmpty reports whether the cart has no line items.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// TotalItemCount returns the sum of all line quantities.
func (c *Cart) TotalItemCount() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// Subtotal returns the sum of unit price times quantity over all lines.
func (c *Cart) Subtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range c.Items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	return subtotal
}
