// internal/domain/cart/store.go
package cart

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/shopease-cart/internal/config"
)

// Store owns cart state and enforces the stock-aware invariants. Every
// mutation is a load-mutate-save cycle against the injected repository;
// outcomes are published to the event sink for the presentation layer.
type Store struct {
	repo Repository
	sink EventSink
	cfg  *config.Config
	log  *logrus.Logger
}

// NewStore creates a new cart store. The composition root decides which
// repository and sink back it.
func NewStore(repo Repository, sink EventSink, cfg *config.Config, log *logrus.Logger) *Store {
	return &Store{
		repo: repo,
		sink: sink,
		cfg:  cfg,
		log:  log,
	}
}

// Pricing returns the configured pricing rules for derived totals.
func (s *Store) Pricing() Pricing {
	return Pricing{
		FreeShippingThreshold: s.cfg.Cart.FreeShippingThreshold,
		ShippingFlatFee:       s.cfg.Cart.ShippingFlatFee,
		TaxRate:               s.cfg.Cart.TaxRate,
	}
}

// Totals computes the derived figures for a cart under the configured rules.
func (s *Store) Totals(c *Cart) Totals {
	return s.Pricing().Totals(c)
}

// Get retrieves the current cart for cartID, empty if none was saved.
func (s *Store) Get(ctx context.Context, cartID string) (*Cart, error) {
	return s.repo.Load(ctx, cartID)
}

// ItemCount returns the total quantity across all lines of the cart.
func (s *Store) ItemCount(ctx context.Context, cartID string) (int, error) {
	c, err := s.repo.Load(ctx, cartID)
	if err != nil {
		return 0, err
	}
	return c.TotalItemCount(), nil
}

// AddItem puts a product in the cart or bumps its quantity by one.
//
// A product that is already a line item is incremented by exactly one per
// call, never past its stock ceiling. A product that is not yet in the cart
// always starts at quantity one; the requested quantity is accepted for API
// compatibility but the storefront has always started new lines at one, and
// that behavior is kept.
func (s *Store) AddItem(ctx context.Context, cartID string, product ProductSnapshot, _ int) (*Cart, error) {
	c, err := s.repo.Load(ctx, cartID)
	if err != nil {
		return nil, err
	}

	ceiling := s.cfg.Cart.DefaultStockLimit
	if product.StockQuantity != nil {
		ceiling = *product.StockQuantity
	}

	if existing := c.Find(product.ID); existing != nil {
		if existing.Quantity >= ceiling {
			s.sink.Notify(Event{
				Kind:        EventStockLimitHit,
				CartID:      cartID,
				ProductID:   product.ID,
				ProductName: product.Name,
				Quantity:    existing.Quantity,
				StockLimit:  ceiling,
			})
			return nil, &StockLimitError{Limit: ceiling}
		}

		existing.Quantity++
		s.sink.Notify(Event{
			Kind:        EventQuantityIncreased,
			CartID:      cartID,
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    existing.Quantity,
		})
	} else {
		if ceiling <= 0 {
			s.sink.Notify(Event{
				Kind:        EventOutOfStock,
				CartID:      cartID,
				ProductID:   product.ID,
				ProductName: product.Name,
			})
			return nil, ErrOutOfStock
		}

		c.Items = append(c.Items, LineItem{
			ProductID:    product.ID,
			SKU:          product.SKU,
			Name:         product.Name,
			UnitPrice:    product.Price,
			Quantity:     1,
			StockCeiling: product.StockQuantity,
			AddedAt:      time.Now().UTC(),
		})
		s.sink.Notify(Event{
			Kind:        EventItemAdded,
			CartID:      cartID,
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    1,
		})
	}

	s.persist(ctx, cartID, c)
	return c, nil
}

// RemoveItem deletes the line item for productID. Removing an absent item
// is a no-op, not an error.
func (s *Store) RemoveItem(ctx context.Context, cartID string, productID uint) (*Cart, error) {
	c, err := s.repo.Load(ctx, cartID)
	if err != nil {
		return nil, err
	}

	c.Remove(productID)
	s.sink.Notify(Event{
		Kind:      EventItemRemoved,
		CartID:    cartID,
		ProductID: productID,
	})

	s.persist(ctx, cartID, c)
	return c, nil
}

// UpdateQuantity sets the quantity of an existing line item. A quantity
// below one removes the line; a quantity above the line's stock ceiling is
// rejected with the cart unchanged. The ceiling comes from the snapshot
// taken when the line was added, never from a fresh catalog read.
func (s *Store) UpdateQuantity(ctx context.Context, cartID string, productID uint, quantity int) (*Cart, error) {
	if quantity < 1 {
		return s.RemoveItem(ctx, cartID, productID)
	}

	c, err := s.repo.Load(ctx, cartID)
	if err != nil {
		return nil, err
	}

	item := c.Find(productID)
	if item == nil {
		return c, nil
	}

	if ceiling := item.Ceiling(s.cfg.Cart.DefaultStockLimit); quantity > ceiling {
		s.sink.Notify(Event{
			Kind:        EventStockLimitHit,
			CartID:      cartID,
			ProductID:   productID,
			ProductName: item.Name,
			Quantity:    item.Quantity,
			StockLimit:  ceiling,
		})
		return nil, &StockLimitError{Limit: ceiling}
	}

	item.Quantity = quantity
	s.persist(ctx, cartID, c)
	return c, nil
}

// Clear empties the cart unconditionally. Called by the checkout flow after
// a successful order placement.
func (s *Store) Clear(ctx context.Context, cartID string) error {
	if err := s.repo.Delete(ctx, cartID); err != nil {
		s.log.WithFields(logrus.Fields{
			"cart_id": cartID,
			"error":   err,
		}).Error("Failed to clear persisted cart")
	}

	s.sink.Notify(Event{
		Kind:   EventCartCleared,
		CartID: cartID,
	})
	return nil
}

// persist writes the mutated cart back. Write failures are logged and
// swallowed: the in-memory mutation already succeeded and the cart is not
// safety-critical, so the user action is reported as successful. Hardening
// this (retry, surfacing the error) is a deliberate single-line change here.
func (s *Store) persist(ctx context.Context, cartID string, c *Cart) {
	c.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, cartID, c); err != nil {
		s.log.WithFields(logrus.Fields{
			"cart_id": cartID,
			"error":   err,
		}).Error("Failed to persist cart")
	}
}
