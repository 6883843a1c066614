// internal/pkg/notify/notify.go
package notify

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/shopease-cart/internal/domain/cart"
)

// LogSink renders cart events as structured log entries. It stands in for
// the storefront's toast notifications: rejections log as warnings, normal
// mutations as info. Notify never blocks and never fails.
type LogSink struct {
	log *logrus.Logger
}

// NewLogSink creates a logrus-backed event sink.
func NewLogSink(log *logrus.Logger) *LogSink {
	return &LogSink{log: log}
}

// Notify implements cart.EventSink.
func (s *LogSink) Notify(e cart.Event) {
	entry := s.log.WithFields(logrus.Fields{
		"event":      string(e.Kind),
		"cart_id":    e.CartID,
		"product_id": e.ProductID,
	})

	switch e.Kind {
	case cart.EventItemAdded:
		entry.Info(fmt.Sprintf("Added %s to cart", e.ProductName))
	case cart.EventQuantityIncreased:
		entry.Info(fmt.Sprintf("Increased %s quantity", e.ProductName))
	case cart.EventItemRemoved:
		entry.Info("Item removed from cart")
	case cart.EventCartCleared:
		entry.Info("Cart cleared")
	case cart.EventOutOfStock:
		entry.Warn("This product is out of stock")
	case cart.EventStockLimitHit:
		entry.WithField("stock_limit", e.StockLimit).
			Warn(fmt.Sprintf("Cannot add more. Only %d in stock", e.StockLimit))
	default:
		entry.Info("Cart event")
	}
}

// Fanout dispatches each event to every sink in order.
type Fanout []cart.EventSink

// Notify implements cart.EventSink.
func (f Fanout) Notify(e cart.Event) {
	for _, sink := range f {
		sink.Notify(e)
	}
}
