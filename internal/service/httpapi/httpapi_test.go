package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/montazhzhilstroy/backoffice/internal/domain"
	"github.com/montazhzhilstroy/backoffice/internal/service/orders"
	"github.com/montazhzhilstroy/backoffice/internal/storage/memory"
)

func newTestRouter(t *testing.T) (*gin.Engine, *memory.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	engine := orders.NewEngine(store.Orders(), nil, nil)
	server := NewServer(store.Products(), store.Clients(), store.StockLedger(), engine, nil)
	return server.Router(nil), store
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeID(t *testing.T, rec *httptest.ResponseRecorder) int64 {
	t.Helper()
	var resp struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotZero(t, resp.ID)
	return resp.ID
}

func seedProduct(t *testing.T, store *memory.Store, name, article string, stock int64) int64 {
	t.Helper()
	id, err := store.Products().Create(context.Background(), domain.Product{
		Name:          name,
		Article:       article,
		PriceMinor:    45000,
		StockQuantity: stock,
	})
	require.NoError(t, err)
	return id
}

func seedClient(t *testing.T, store *memory.Store, name, email string) int64 {
	t.Helper()
	id, err := store.Clients().Create(context.Background(), domain.Client{
		FullName: name,
		Email:    email,
	})
	require.NoError(t, err)
	return id
}

func TestProductEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/products", gin.H{
		"name":           "Гипсокартон 12.5мм",
		"article":        "GKL-125",
		"category":       "Листовые материалы",
		"price_minor":    45000,
		"stock_quantity": 20,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decodeID(t, rec)

	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/products/%d", id), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var product productPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &product))
	assert.Equal(t, "Гипсокартон 12.5мм", product.Name)
	assert.Equal(t, int64(20), product.StockQuantity)
	assert.False(t, product.AddedAt.IsZero())

	// Повторный артикул — конфликт.
	rec = doJSON(t, router, http.MethodPost, "/api/v1/products", gin.H{
		"name":    "Другой товар",
		"article": "GKL-125",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Пустое имя — ошибка валидации.
	rec = doJSON(t, router, http.MethodPost, "/api/v1/products", gin.H{
		"name": "  ",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = doJSON(t, router, http.MethodPatch, fmt.Sprintf("/api/v1/products/%d", id), gin.H{
		"price_minor": 47000,
	})
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/products", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []productPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, int64(47000), list[0].PriceMinor)

	rec = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/v1/products/%d", id), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/products/%d", id), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStockAdjustEndpoint(t *testing.T) {
	router, store := newTestRouter(t)
	productID := seedProduct(t, store, "Цемент М500", "CEM-500", 10)

	rec := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/products/%d/stock", productID), gin.H{"delta": 5})
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		StockQuantity int64 `json:"stock_quantity"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(15), resp.StockQuantity)

	// Списание ниже нуля отклоняется, остаток не меняется.
	rec = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/products/%d/stock", productID), gin.H{"delta": -100})
	require.Equal(t, http.StatusConflict, rec.Code)
	var conflict struct {
		Error     string `json:"error"`
		Available int64  `json:"available"`
		Requested int64  `json:"requested"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &conflict))
	assert.Equal(t, "insufficient stock", conflict.Error)
	assert.Equal(t, int64(15), conflict.Available)
	assert.Equal(t, int64(100), conflict.Requested)

	rec = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/products/%d/stock", productID), gin.H{"delta": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClientEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/clients", gin.H{
		"full_name": "Петров Пётр",
		"email":     "petrov@example.com",
		"phone":     "+7 900 000-00-00",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decodeID(t, rec)

	// Повторный email — конфликт.
	rec = doJSON(t, router, http.MethodPost, "/api/v1/clients", gin.H{
		"full_name": "Другой клиент",
		"email":     "petrov@example.com",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, router, http.MethodPatch, fmt.Sprintf("/api/v1/clients/%d", id), gin.H{
		"address": "г. Москва, ул. Строителей, 5",
	})
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/clients/%d", id), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var client clientPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &client))
	assert.Equal(t, "г. Москва, ул. Строителей, 5", client.Address)

	// Пустое обновление отклоняется.
	rec = doJSON(t, router, http.MethodPatch, fmt.Sprintf("/api/v1/clients/%d", id), gin.H{})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestOrderEndpoints(t *testing.T) {
	router, store := newTestRouter(t)
	productID := seedProduct(t, store, "Цемент М500", "CEM-500", 10)
	clientID := seedClient(t, store, "Иванов Иван", "ivanov@example.com")

	rec := doJSON(t, router, http.MethodPost, "/api/v1/orders", gin.H{
		"client_id": clientID,
		"items": []gin.H{
			{"product_id": productID, "quantity": 3, "price_minor": 35000},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	orderID := decodeID(t, rec)

	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/orders/%d", orderID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var detail orderDetailPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.Equal(t, "new", detail.Status)
	assert.Equal(t, "Иванов Иван", detail.ClientName)
	assert.Equal(t, int64(3*35000), detail.TotalMinor)
	require.Len(t, detail.Items, 1)
	assert.Equal(t, "Цемент М500", detail.Items[0].ProductName)

	// Остаток списан.
	product, err := store.Products().Get(context.Background(), productID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), product.StockQuantity)

	rec = doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/v1/orders/%d/status", orderID), gin.H{
		"status": "canceled",
	})
	require.Equal(t, http.StatusNoContent, rec.Code)

	// Отмена вернула остаток.
	product, err = store.Products().Get(context.Background(), productID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), product.StockQuantity)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/orders", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var summaries []orderSummaryPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, "canceled", summaries[0].Status)

	rec = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/v1/orders/%d", orderID), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/orders/%d", orderID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrderInsufficientStock(t *testing.T) {
	router, store := newTestRouter(t)
	productID := seedProduct(t, store, "Цемент М500", "CEM-500", 2)
	clientID := seedClient(t, store, "Иванов Иван", "ivanov@example.com")

	rec := doJSON(t, router, http.MethodPost, "/api/v1/orders", gin.H{
		"client_id": clientID,
		"items": []gin.H{
			{"product_id": productID, "quantity": 5, "price_minor": 35000},
		},
	})
	require.Equal(t, http.StatusConflict, rec.Code)

	var resp struct {
		Error       string `json:"error"`
		ProductName string `json:"product_name"`
		Available   int64  `json:"available"`
		Requested   int64  `json:"requested"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "insufficient stock", resp.Error)
	assert.Equal(t, "Цемент М500", resp.ProductName)
	assert.Equal(t, int64(2), resp.Available)
	assert.Equal(t, int64(5), resp.Requested)

	// Отклонённый заказ не трогает остаток и не появляется в списке.
	product, err := store.Products().Get(context.Background(), productID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), product.StockQuantity)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/orders", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var summaries []orderSummaryPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summaries))
	assert.Empty(t, summaries)
}

func TestBadRequests(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/products/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPut, "/api/v1/orders/1/status", gin.H{"status": "shipped"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequestIDHeader(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/products", nil)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))
}
