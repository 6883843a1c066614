package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/shopease-cart/internal/config"
	"github.com/your-org/shopease-cart/internal/domain/cart"
	"github.com/your-org/shopease-cart/internal/domain/catalog"
	"github.com/your-org/shopease-cart/internal/interfaces/http/handlers"
	"github.com/your-org/shopease-cart/internal/interfaces/http/middleware"
	"github.com/your-org/shopease-cart/internal/interfaces/http/routes"
	"github.com/your-org/shopease-cart/internal/pkg/auth"
	"github.com/your-org/shopease-cart/internal/pkg/notify"
)

type stubCatalog struct {
	products map[uint]*catalog.Product
}

func (s *stubCatalog) Get(_ context.Context, id uint) (*catalog.Product, error) {
	if p, ok := s.products[id]; ok {
		return p, nil
	}
	return nil, catalog.ErrProductNotFound
}

func (s *stubCatalog) List(context.Context, int, int) ([]catalog.Product, error) {
	out := make([]catalog.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, *p)
	}
	return out, nil
}

func intPtr(n int) *int { return &n }

func testCatalog() *stubCatalog {
	return &stubCatalog{
		products: map[uint]*catalog.Product{
			1: {
				ID:            1,
				SKU:           "W1",
				Name:          "Widget",
				Price:         decimal.RequireFromString("10.00"),
				StockQuantity: intPtr(5),
				IsActive:      true,
			},
			2: {
				ID:            2,
				SKU:           "D1",
				Name:          "Doodad",
				Price:         decimal.RequireFromString("99.99"),
				StockQuantity: intPtr(0),
				IsActive:      true,
			},
		},
	}
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logrus.New()
	log.SetOutput(io.Discard)

	cfg := &config.Config{
		App: config.AppConfig{Name: "ShopEase Cart Service"},
		Session: config.SessionConfig{
			Secret: "test-secret-that-is-long-enough-00",
			Expiry: time.Hour,
		},
		Cart: config.CartConfig{
			DefaultStockLimit:     5,
			FreeShippingThreshold: decimal.NewFromInt(5000),
			ShippingFlatFee:       decimal.NewFromInt(500),
			TaxRate:               decimal.RequireFromString("0.18"),
		},
	}

	store := cart.NewStore(cart.NewMemoryRepository(), notify.NewLogSink(log), cfg, log)
	products := testCatalog()

	router := gin.New()
	routes.SetupRoutes(
		router.Group("/api/v1"),
		handlers.NewCartHandler(store, products),
		handlers.NewCatalogHandler(products),
		auth.NewSessionManager(cfg),
	)
	return router
}

type cartEnvelope struct {
	Message string `json:"message"`
	Data    struct {
		Items []struct {
			ProductID uint   `json:"product_id"`
			SKU       string `json:"sku"`
			Quantity  int    `json:"quantity"`
		} `json:"items"`
		Totals struct {
			ItemCount     int `json:"item_count"`
			TotalQuantity int `json:"total_quantity"`
		} `json:"totals"`
	} `json:"data"`
}

func doJSON(t *testing.T, router *gin.Engine, method, path, session string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if session != "" {
		req.Header.Set(middleware.SessionHeader, session)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAddToCart_HappyPath(t *testing.T) {
	router := setupRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/cart/items", "", gin.H{"product_id": 1, "quantity": 1})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	session := rec.Header().Get(middleware.SessionHeader)
	require.NotEmpty(t, session, "response should carry a cart session token")

	var env cartEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Len(t, env.Data.Items, 1)
	assert.Equal(t, uint(1), env.Data.Items[0].ProductID)
	assert.Equal(t, 1, env.Data.Items[0].Quantity)
	assert.Equal(t, 1, env.Data.Totals.TotalQuantity)

	// The same session sees the same cart on a later request
	rec = doJSON(t, router, http.MethodGet, "/api/v1/cart", session, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	env = cartEnvelope{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Len(t, env.Data.Items, 1)
	assert.Equal(t, "W1", env.Data.Items[0].SKU)
}

func TestAddToCart_OutOfStock(t *testing.T) {
	router := setupRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/cart/items", "", gin.H{"product_id": 2, "quantity": 1})
	assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
}

func TestAddToCart_UnknownProduct(t *testing.T) {
	router := setupRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/cart/items", "", gin.H{"product_id": 42, "quantity": 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddToCart_StockLimitReached(t *testing.T) {
	router := setupRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/cart/items", "", gin.H{"product_id": 1})
	require.Equal(t, http.StatusOK, rec.Code)
	session := rec.Header().Get(middleware.SessionHeader)

	for i := 0; i < 4; i++ {
		rec = doJSON(t, router, http.MethodPost, "/api/v1/cart/items", session, gin.H{"product_id": 1})
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/v1/cart/items", session, gin.H{"product_id": 1})
	assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
}

func TestUpdateCartItem_ZeroQuantityRemoves(t *testing.T) {
	router := setupRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/cart/items", "", gin.H{"product_id": 1})
	require.Equal(t, http.StatusOK, rec.Code)
	session := rec.Header().Get(middleware.SessionHeader)

	rec = doJSON(t, router, http.MethodPut, "/api/v1/cart/items/1", session, gin.H{"quantity": 0})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var env cartEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Empty(t, env.Data.Items)
	assert.Equal(t, 0, env.Data.Totals.TotalQuantity)
}

func TestClearCart(t *testing.T) {
	router := setupRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/cart/items", "", gin.H{"product_id": 1})
	require.Equal(t, http.StatusOK, rec.Code)
	session := rec.Header().Get(middleware.SessionHeader)

	rec = doJSON(t, router, http.MethodDelete, "/api/v1/cart", session, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/cart", session, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var env cartEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Empty(t, env.Data.Items)
}

func TestGetCartCount(t *testing.T) {
	router := setupRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/cart/items", "", gin.H{"product_id": 1})
	require.Equal(t, http.StatusOK, rec.Code)
	session := rec.Header().Get(middleware.SessionHeader)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/cart/items", session, gin.H{"product_id": 1})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/cart/count", session, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Count int `json:"count"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Data.Count)
}

func TestGetProducts(t *testing.T) {
	router := setupRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/products", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []catalog.Product `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 2)
}
