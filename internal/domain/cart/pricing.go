// internal/domain/cart/pricing.go
package cart

import "github.com/shopspring/decimal"

// Pricing holds the knobs for the derived monetary figures. All amounts and
// the subtotal share one currency unit; the tax rate is a fraction (0.18).
type Pricing struct {
	FreeShippingThreshold decimal.Decimal
	ShippingFlatFee       decimal.Decimal
	TaxRate               decimal.Decimal
}

// Totals represents calculated cart totals. Figures are recomputed from the
// current items on every call, never cached.
type Totals struct {
	ItemCount     int             `json:"item_count"`
	TotalQuantity int             `json:"total_quantity"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Shipping      decimal.Decimal `json:"shipping"`
	Tax           decimal.Decimal `json:"tax"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
}

// ShippingEstimate is a step function of the subtotal: an empty cart ships
// for nothing, a subtotal strictly above the free-shipping threshold ships
// free, everything else pays the flat fee.
func (p Pricing) ShippingEstimate(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.IsZero() {
		return decimal.Zero
	}
	if subtotal.GreaterThan(p.FreeShippingThreshold) {
		return decimal.Zero
	}
	return p.ShippingFlatFee
}

// TaxEstimate applies the tax rate to the subtotal, rounded half-up to two
// decimal places.
func (p Pricing) TaxEstimate(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(p.TaxRate).Round(2)
}

// GrandTotal is subtotal plus shipping plus tax, rounded to two decimals.
func (p Pricing) GrandTotal(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.
		Add(p.ShippingEstimate(subtotal)).
		Add(p.TaxEstimate(subtotal)).
		Round(2)
}

// Totals computes the full set of derived figures for a cart.
func (p Pricing) Totals(c *Cart) Totals {
	subtotal := c.Subtotal()
	return Totals{
		ItemCount:     len(c.Items),
		TotalQuantity: c.TotalItemCount(),
		Subtotal:      subtotal,
		Shipping:      p.ShippingEstimate(subtotal),
		Tax:           p.TaxEstimate(subtotal),
		GrandTotal:    p.GrandTotal(subtotal),
	}
}
