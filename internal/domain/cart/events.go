// internal/domain/cart/events.go
package cart

// EventKind identifies what happened to a cart.
type EventKind string

const (
	EventItemAdded         EventKind = "item_added"
	EventQuantityIncreased EventKind = "quantity_increased"
	EventItemRemoved       EventKind = "item_removed"
	EventCartCleared       EventKind = "cart_cleared"
	EventOutOfStock        EventKind = "out_of_stock"
	EventStockLimitHit     EventKind = "stock_limit_hit"
)

// Event describes a single cart mutation or rejection. Events carry enough
// context for a presentation layer to build a user-facing message.
type Event struct {
	Kind        EventKind
	CartID      string
	ProductID   uint
	ProductName string
	Quantity    int
	StockLimit  int
}

// EventSink receives cart events. Implementations must be non-blocking and
// must never fail the mutation that produced the event.
type EventSink interface {
	Notify(Event)
}
