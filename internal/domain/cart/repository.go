// internal/domain/cart/repository.go
package cart

import "context"

// Repository is the persistence seam for carts. Implementations store one
// serialized cart per cart ID.
//
// Load never reports a missing or unreadable cart as an error: both yield a
// fresh empty cart, so a corrupted blob degrades to "no saved cart" rather
// than breaking the storefront. Errors from Load and Save are real I/O
// failures only.
type Repository interface {
	Load(ctx context.Context, cartID string) (*Cart, error)
	Save(ctx context.Context, cartID string, c *Cart) error
	Delete(ctx context.Context, cartID string) error
}
