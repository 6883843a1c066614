package cart

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/shopease-cart/internal/config"
)

type recordingSink struct {
	events []Event
}

func (s *recordingSink) Notify(e Event) {
	s.events = append(s.events, e)
}

func (s *recordingSink) last() Event {
	if len(s.events) == 0 {
		return Event{}
	}
	return s.events[len(s.events)-1]
}

// failingRepository loads fine but refuses every write.
type failingRepository struct {
	inner *MemoryRepository
}

func (r *failingRepository) Load(ctx context.Context, cartID string) (*Cart, error) {
	return r.inner.Load(ctx, cartID)
}

func (r *failingRepository) Save(context.Context, string, *Cart) error {
	return errors.New("storage unavailable")
}

func (r *failingRepository) Delete(context.Context, string) error {
	return errors.New("storage unavailable")
}

func testConfig() *config.Config {
	return &config.Config{
		Cart: config.CartConfig{
			DefaultStockLimit:     5,
			FreeShippingThreshold: decimal.NewFromInt(5000),
			ShippingFlatFee:       decimal.NewFromInt(500),
			TaxRate:               decimal.RequireFromString("0.18"),
		},
	}
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestStore(t *testing.T) (*Store, *MemoryRepository, *recordingSink) {
	t.Helper()
	repo := NewMemoryRepository()
	sink := &recordingSink{}
	return NewStore(repo, sink, testConfig(), testLogger()), repo, sink
}

func widget() ProductSnapshot {
	return ProductSnapshot{
		ID:            1,
		SKU:           "W1",
		Name:          "Widget",
		Price:         decimal.RequireFromString("10.00"),
		StockQuantity: intPtr(5),
	}
}

func TestAddItem_NewLineStartsAtOne(t *testing.T) {
	store, _, sink := newTestStore(t)
	ctx := context.Background()

	// The requested quantity is deliberately ignored for a brand-new line
	c, err := store.AddItem(ctx, "cart-1", widget(), 3)
	require.NoError(t, err)

	require.Len(t, c.Items, 1)
	assert.Equal(t, 1, c.Items[0].Quantity)
	assert.Equal(t, "W1", c.Items[0].SKU)
	assert.Equal(t, 1, c.TotalItemCount())
	assert.True(t, c.Subtotal().Equal(decimal.RequireFromString("10.00")))
	assert.Equal(t, EventItemAdded, sink.last().Kind)
}

func TestAddItem_IncrementsExistingLine(t *testing.T) {
	store, _, sink := newTestStore(t)
	ctx := context.Background()

	_, err := store.AddItem(ctx, "cart-1", widget(), 1)
	require.NoError(t, err)

	c, err := store.AddItem(ctx, "cart-1", widget(), 1)
	require.NoError(t, err)

	require.Len(t, c.Items, 1)
	assert.Equal(t, 2, c.Items[0].Quantity)
	assert.True(t, c.Subtotal().Equal(decimal.RequireFromString("20.00")))
	assert.Equal(t, EventQuantityIncreased, sink.last().Kind)
}

func TestAddItem_NeverExceedsCeiling(t *testing.T) {
	store, _, sink := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := store.AddItem(ctx, "cart-1", widget(), 1)
		require.NoError(t, err)
	}

	// The sixth add hits the ceiling, however often it is retried
	for i := 0; i < 3; i++ {
		_, err := store.AddItem(ctx, "cart-1", widget(), 1)
		require.Error(t, err)

		var stockErr *StockLimitError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, 5, stockErr.Limit)
	}

	c, err := store.Get(ctx, "cart-1")
	require.NoError(t, err)
	assert.Equal(t, 5, c.Items[0].Quantity)
	assert.Equal(t, EventStockLimitHit, sink.last().Kind)
	assert.Equal(t, 5, sink.last().StockLimit)
}

func TestAddItem_OutOfStock(t *testing.T) {
	store, _, sink := newTestStore(t)
	ctx := context.Background()

	soldOut := widget()
	soldOut.StockQuantity = intPtr(0)

	_, err := store.AddItem(ctx, "cart-1", soldOut, 1)
	require.ErrorIs(t, err, ErrOutOfStock)
	assert.Equal(t, EventOutOfStock, sink.last().Kind)

	c, err := store.Get(ctx, "cart-1")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

func TestAddItem_DefaultCeilingWhenStockUnknown(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	untracked := widget()
	untracked.StockQuantity = nil

	for i := 0; i < 5; i++ {
		_, err := store.AddItem(ctx, "cart-1", untracked, 1)
		require.NoError(t, err)
	}

	_, err := store.AddItem(ctx, "cart-1", untracked, 1)
	var stockErr *StockLimitError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 5, stockErr.Limit)
}

func TestUpdateQuantity_SetsQuantity(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.AddItem(ctx, "cart-1", widget(), 1)
	require.NoError(t, err)

	c, err := store.UpdateQuantity(ctx, "cart-1", 1, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, c.Items[0].Quantity)
}

func TestUpdateQuantity_BelowOneRemovesLine(t *testing.T) {
	store, _, sink := newTestStore(t)
	ctx := context.Background()

	_, err := store.AddItem(ctx, "cart-1", widget(), 1)
	require.NoError(t, err)

	c, err := store.UpdateQuantity(ctx, "cart-1", 1, 0)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
	assert.Equal(t, 0, c.TotalItemCount())
	assert.Equal(t, EventItemRemoved, sink.last().Kind)
}

func TestUpdateQuantity_AboveCeilingRejected(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	product := widget()
	product.StockQuantity = intPtr(3)
	_, err := store.AddItem(ctx, "cart-1", product, 1)
	require.NoError(t, err)

	_, err = store.UpdateQuantity(ctx, "cart-1", 1, 4)
	var stockErr *StockLimitError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 3, stockErr.Limit)

	// State unchanged after the rejection
	c, err := store.Get(ctx, "cart-1")
	require.NoError(t, err)
	assert.Equal(t, 1, c.Items[0].Quantity)
}

func TestUpdateQuantity_MissingLineIsNoop(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	c, err := store.UpdateQuantity(ctx, "cart-1", 99, 2)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

func TestRemoveItem_Idempotent(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.AddItem(ctx, "cart-1", widget(), 1)
	require.NoError(t, err)

	first, err := store.RemoveItem(ctx, "cart-1", 1)
	require.NoError(t, err)

	second, err := store.RemoveItem(ctx, "cart-1", 1)
	require.NoError(t, err)

	assert.Equal(t, first.Items, second.Items)
	assert.True(t, second.IsEmpty())
}

func TestClear_RoundTripYieldsEmptyCart(t *testing.T) {
	store, _, sink := newTestStore(t)
	ctx := context.Background()

	_, err := store.AddItem(ctx, "cart-1", widget(), 1)
	require.NoError(t, err)

	require.NoError(t, store.Clear(ctx, "cart-1"))
	assert.Equal(t, EventCartCleared, sink.last().Kind)

	c, err := store.Get(ctx, "cart-1")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

func TestMutationsSurviveReload(t *testing.T) {
	repo := NewMemoryRepository()
	sink := &recordingSink{}
	cfg := testConfig()
	store := NewStore(repo, sink, cfg, testLogger())
	ctx := context.Background()

	_, err := store.AddItem(ctx, "cart-1", widget(), 1)
	require.NoError(t, err)
	_, err = store.AddItem(ctx, "cart-1", widget(), 1)
	require.NoError(t, err)

	// A second store over the same repository sees the persisted state
	reloaded := NewStore(repo, sink, cfg, testLogger())
	c, err := reloaded.Get(ctx, "cart-1")
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 2, c.Items[0].Quantity)
}

func TestPersistenceFailureIsSwallowed(t *testing.T) {
	repo := &failingRepository{inner: NewMemoryRepository()}
	sink := &recordingSink{}
	store := NewStore(repo, sink, testConfig(), testLogger())
	ctx := context.Background()

	// The mutation succeeds from the caller's point of view
	c, err := store.AddItem(ctx, "cart-1", widget(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, c.TotalItemCount())
	assert.Equal(t, EventItemAdded, sink.last().Kind)

	require.NoError(t, store.Clear(ctx, "cart-1"))
}

func TestCorruptBlobResetsToEmpty(t *testing.T) {
	repo := NewMemoryRepository()
	repo.carts["cart-1"] = []byte("{not json")

	store := NewStore(repo, &recordingSink{}, testConfig(), testLogger())

	c, err := store.Get(context.Background(), "cart-1")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

func TestItemCount(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.AddItem(ctx, "cart-1", widget(), 1)
	require.NoError(t, err)
	_, err = store.AddItem(ctx, "cart-1", widget(), 1)
	require.NoError(t, err)

	count, err := store.ItemCount(ctx, "cart-1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
