// internal/domain/cart/errors.go
package cart

import (
	"errors"
	"fmt"
)

// ErrOutOfStock is returned when adding a product whose known stock is zero
// and which is not already in the cart.
var ErrOutOfStock = errors.New("product is out of stock")

// StockLimitError is returned when a mutation would push a line's quantity
// past its stock ceiling. The cart is left unchanged.
type StockLimitError struct {
	Limit int
}

func (e *StockLimitError) Error() string {
	return fmt.Sprintf("cannot exceed stock limit of %d", e.Limit)
}

// IsStockLimit reports whether err is a stock ceiling rejection.
func IsStockLimit(err error) bool {
	var sle *StockLimitError
	return errors.As(err, &sle)
}
