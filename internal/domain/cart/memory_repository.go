// internal/domain/cart/memory_repository.go
package cart

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryRepository keeps serialized carts in a map. It backs tests and local
// development; carts do not survive a process restart.
type MemoryRepository struct {
	mu    sync.RWMutex
	carts map[string][]byte
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		carts: make(map[string][]byte),
	}
}

// Load returns the stored cart, or a fresh empty cart when none exists or
// the stored bytes no longer parse.
func (r *MemoryRepository) Load(_ context.Context, cartID string) (*Cart, error) {
	r.mu.RLock()
	data, ok := r.carts[cartID]
	r.mu.RUnlock()

	if !ok {
		return New(), nil
	}

	var c Cart
	if err := json.Unmarshal(data, &c); err != nil {
		return New(), nil
	}
	return &c, nil
}

// Save serializes the cart and stores it under cartID.
func (r *MemoryRepository) Save(_ context.Context, cartID string, c *Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.carts[cartID] = data
	r.mu.Unlock()
	return nil
}

// Delete removes the stored cart if present.
func (r *MemoryRepository) Delete(_ context.Context, cartID string) error {
	r.mu.Lock()
	delete(r.carts, cartID)
	r.mu.Unlock()
	return nil
}
