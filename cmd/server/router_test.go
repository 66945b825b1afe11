package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/h4ks-com/palay/internal/config"
	"github.com/h4ks-com/palay/internal/database"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		JWT:      config.JWTConfig{Secret: "test-secret"},
		Session:  config.SessionConfig{Secret: "test-session-secret"},
		TestMode: true,
		Marketplace: config.MarketplaceConfig{
			LowStockThreshold:     decimal.NewFromInt(10),
			PickupAutoConfirmDays: 30,
		},
	}
	return newRouter(cfg, db)
}

func serve(t *testing.T, router *gin.Engine, method, path, username string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if username != "" {
		req.Header.Set("X-Test-Username", username)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var result map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &result)
	return w, result
}

func TestRouter_Health(t *testing.T) {
	router := setupRouter(t)

	w, body := serve(t, router, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestRouter_RequiresAuth(t *testing.T) {
	router := setupRouter(t)

	w, _ := serve(t, router, http.MethodGet, "/api/v1/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, body := serve(t, router, http.MethodGet, "/api/v1/me", "juan", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "juan", body["username"])
	assert.Equal(t, "buyer", body["role"])
}

func TestRouter_FarmerRoutesRequireRole(t *testing.T) {
	router := setupRouter(t)

	w, _ := serve(t, router, http.MethodGet, "/api/v1/farmer/products", "juan", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = serve(t, router, http.MethodGet, "/api/v1/tasks", "juan", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = serve(t, router, http.MethodPut, "/api/v1/me/role", "juan", map[string]string{"role": "farmer"})
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = serve(t, router, http.MethodGet, "/api/v1/farmer/products", "juan", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_MarketplaceFlow(t *testing.T) {
	router := setupRouter(t)

	w, _ := serve(t, router, http.MethodPut, "/api/v1/me/role", "farmer-ana", map[string]string{"role": "farmer"})
	require.Equal(t, http.StatusOK, w.Code)

	w, product := serve(t, router, http.MethodPost, "/api/v1/farmer/products", "farmer-ana", map[string]string{
		"name":               "Jasmine",
		"unit":               "kg",
		"price_per_unit":     "48.50",
		"quantity_available": "20",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	productID := uint(product["ID"].(float64))

	w, list := serve(t, router, http.MethodGet, "/api/v1/products?search=jasmine", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1.0, list["total"])
	assert.Equal(t, 1.0, list["total_pages"])

	w, body := serve(t, router, http.MethodPost, "/api/v1/orders", "buyer-ben", map[string]interface{}{
		"product_id": productID,
		"quantity":   "25",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "insufficient_stock", body["kind"])

	w, order := serve(t, router, http.MethodPost, "/api/v1/orders", "buyer-ben", map[string]interface{}{
		"product_id": productID,
		"quantity":   "4",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "pending", order["status"])
	assert.Equal(t, 25.0, order["progress"])
	assert.True(t, decimal.RequireFromString(order["total_amount"].(string)).Equal(decimal.NewFromInt(194)))

	orderPath := "/api/v1/orders/" + jsonID(order)

	w, _ = serve(t, router, http.MethodGet, orderPath, "stranger", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, body = serve(t, router, http.MethodPost, "/api/v1/farmer/orders/"+jsonID(order)+"/ready", "farmer-ana", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "invalid_transition", body["kind"])

	w, _ = serve(t, router, http.MethodPost, "/api/v1/farmer/orders/"+jsonID(order)+"/accept", "farmer-ana", map[string]string{"notes": "pickup at the barn"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, body = serve(t, router, http.MethodPost, orderPath+"/cancel", "buyer-ben", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "cancelled", body["status"])
	assert.Equal(t, "Cancelled by buyer", body["cancel_reason"])

	w, body = serve(t, router, http.MethodGet, "/api/v1/products/"+jsonID(product), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decimal.RequireFromString(body["quantity_available"].(string)).Equal(decimal.NewFromInt(20)))
}

func TestRouter_SalesExport(t *testing.T) {
	router := setupRouter(t)

	w, _ := serve(t, router, http.MethodPut, "/api/v1/me/role", "farmer-ana", map[string]string{"role": "farmer"})
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = serve(t, router, http.MethodGet, "/api/v1/farmer/reports/sales/export?from=2024-01-01&to=2024-01-31", "farmer-ana", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "sales_2024-01-01_2024-01-31.xlsx")
	assert.NotZero(t, w.Body.Len())

	w, _ = serve(t, router, http.MethodGet, "/api/v1/farmer/reports/sales?from=bad", "farmer-ana", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = serve(t, router, http.MethodGet, "/api/v1/farmer/reports/sales?from=2024-02-01&to=2024-01-01", "farmer-ana", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestRouter_InventoryFlow(t *testing.T) {
	router := setupRouter(t)

	w, _ := serve(t, router, http.MethodPut, "/api/v1/me/role", "farmer-ana", map[string]string{"role": "farmer"})
	require.Equal(t, http.StatusOK, w.Code)

	w, item := serve(t, router, http.MethodPost, "/api/v1/inventory", "farmer-ana", map[string]string{
		"name":          "Complete 14-14-14",
		"category":      "fertilizers",
		"unit":          "bags",
		"current_stock": "6",
		"minimum_stock": "4",
		"unit_price":    "1350",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "fertilizer", item["category"])
	itemPath := "/api/v1/inventory/" + jsonID(item)

	w, body := serve(t, router, http.MethodPost, itemPath+"/add-stock", "farmer-ana", map[string]string{"quantity": "2"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	expense := body["expense"].(map[string]interface{})
	assert.Equal(t, "fertilizer", expense["category"])
	assert.True(t, decimal.RequireFromString(expense["amount"].(string)).Equal(decimal.NewFromInt(2700)))

	w, body = serve(t, router, http.MethodPost, itemPath+"/remove-stock", "farmer-ana", map[string]string{"quantity": "9"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "insufficient_stock", body["kind"])

	w, body = serve(t, router, http.MethodPut, itemPath+"/stock", "farmer-ana", map[string]string{"quantity": "4", "operation": "subtract"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "low_stock", body["stock_status"])

	w, _ = serve(t, router, http.MethodGet, "/api/v1/inventory/low-stock", "farmer-ana", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var low []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &low))
	assert.Len(t, low, 1)

	w, _ = serve(t, router, http.MethodGet, itemPath+"/transactions", "farmer-ana", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var txns []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &txns))
	require.Len(t, txns, 3)
	assert.Equal(t, "out", txns[0]["transaction_type"])

	w, body = serve(t, router, http.MethodGet, "/api/v1/notifications/unread-count", "farmer-ana", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1.0, body["unread"])

	w, _ = serve(t, router, http.MethodGet, itemPath, "buyer-ben", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRouter_Tokens(t *testing.T) {
	router := setupRouter(t)

	w, body := serve(t, router, http.MethodPost, "/api/v1/tokens", "juan", map[string]interface{}{"name": "cli", "expires_in_days": 400})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "validation", body["kind"])

	w, body = serve(t, router, http.MethodPost, "/api/v1/tokens", "juan", map[string]interface{}{"name": "cli"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotEmpty(t, body["token"])
	info := body["info"].(map[string]interface{})
	assert.Equal(t, "cli", info["name"])
	assert.NotContains(t, info, "token")

	w, _ = serve(t, router, http.MethodGet, "/api/v1/tokens", "juan", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var tokens []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tokens))
	assert.Len(t, tokens, 1)

	w, _ = serve(t, router, http.MethodDelete, "/api/v1/tokens/abc", "juan", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = serve(t, router, http.MethodDelete, "/api/v1/tokens/"+jsonID(info), "stranger", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = serve(t, router, http.MethodDelete, "/api/v1/tokens/"+jsonID(info), "juan", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func jsonID(obj map[string]interface{}) string {
	return strconv.Itoa(int(obj["ID"].(float64)))
}
