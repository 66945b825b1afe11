package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type palayContainer struct {
	testcontainers.Container
	URI string
}

func setupPalay(ctx context.Context, t *testing.T) (*palayContainer, error) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "test-secret"
	}

	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		sessionSecret = "test-session-secret"
	}

	natPort := nat.Port(port + "/tcp")

	req := testcontainers.ContainerRequest{
		FromDockerfile: testcontainers.FromDockerfile{
			Context:    "../",
			Dockerfile: "Dockerfile",
		},
		ExposedPorts: []string{string(natPort)},
		Env: map[string]string{
			"PORT":           port,
			"GIN_MODE":       "release",
			"DATABASE_URL":   "sqlite::memory:",
			"JWT_SECRET":     jwtSecret,
			"SESSION_SECRET": sessionSecret,
			"TEST_MODE":      "true",
		},
		WaitingFor: wait.ForHTTP("/healthz").
			WithPort(natPort).
			WithStatusCodeMatcher(func(status int) bool {
				return status == 200
			}).
			WithStartupTimeout(120 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})

	var palayC *palayContainer
	if container != nil {
		palayC = &palayContainer{Container: container}
	}
	if err != nil {
		return palayC, err
	}

	host, err := container.Host(ctx)
	if err != nil {
		return palayC, err
	}

	mappedPort, err := container.MappedPort(ctx, natPort)
	if err != nil {
		return palayC, err
	}

	palayC.URI = fmt.Sprintf("http://%s:%s", host, mappedPort.Port())
	return palayC, nil
}

func startPalay(t *testing.T) string {
	if testing.Short() {
		t.Skip("skipping E2E test")
	}

	ctx := context.Background()
	palayC, err := setupPalay(ctx, t)
	require.NoError(t, err)
	testcontainers.CleanupContainer(t, palayC)
	return palayC.URI
}

// call sends a JSON request as the given test-mode user and decodes the
// response body into a generic value.
func call(t *testing.T, method, url, username string, body interface{}) (int, interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if username != "" {
		req.Header.Set("X-Test-Username", username)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var result interface{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &result); err != nil {
			t.Logf("non-JSON response: status=%d, body=%s", resp.StatusCode, string(raw))
		}
	}
	return resp.StatusCode, result
}

func object(t *testing.T, v interface{}) map[string]interface{} {
	t.Helper()
	m, ok := v.(map[string]interface{})
	require.True(t, ok, "expected JSON object, got %T", v)
	return m
}

func amount(t *testing.T, v interface{}) decimal.Decimal {
	t.Helper()
	s, ok := v.(string)
	require.True(t, ok, "expected decimal string, got %T", v)
	return decimal.RequireFromString(s)
}

func becomeFarmer(t *testing.T, baseURL, username string) {
	t.Helper()
	status, _ := call(t, http.MethodPut, baseURL+"/api/v1/me/role", username, map[string]string{"role": "farmer"})
	require.Equal(t, http.StatusOK, status)
}

func createProduct(t *testing.T, baseURL, farmer string, quantity, price string) uint {
	t.Helper()
	status, body := call(t, http.MethodPost, baseURL+"/api/v1/farmer/products", farmer, map[string]string{
		"name":               "Dinorado",
		"unit":               "kg",
		"price_per_unit":     price,
		"quantity_available": quantity,
	})
	require.Equal(t, http.StatusCreated, status, "%v", body)
	return uint(object(t, body)["ID"].(float64))
}

func TestE2E_Health(t *testing.T) {
	baseURL := startPalay(t)

	status, body := call(t, http.MethodGet, baseURL+"/healthz", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", object(t, body)["status"])
}

func TestE2E_OrderLifecycle(t *testing.T) {
	baseURL := startPalay(t)

	becomeFarmer(t, baseURL, "mang-jose")
	productID := createProduct(t, baseURL, "mang-jose", "100", "50")

	status, body := call(t, http.MethodPost, baseURL+"/api/v1/orders", "ana", map[string]interface{}{
		"product_id": productID,
		"quantity":   "10",
	})
	require.Equal(t, http.StatusCreated, status, "%v", body)
	order := object(t, body)
	orderID := uint(order["ID"].(float64))
	assert.Equal(t, "pending", order["status"])
	assert.True(t, amount(t, order["total_amount"]).Equal(decimal.NewFromInt(500)))

	status, body = call(t, http.MethodGet, fmt.Sprintf("%s/api/v1/products/%d", baseURL, productID), "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, amount(t, object(t, body)["quantity_available"]).Equal(decimal.NewFromInt(90)))

	// buyers cannot drive farmer transitions
	status, _ = call(t, http.MethodPost, fmt.Sprintf("%s/api/v1/farmer/orders/%d/accept", baseURL, orderID), "ana", nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = call(t, http.MethodPost, fmt.Sprintf("%s/api/v1/orders/%d/pickup", baseURL, orderID), "ana", nil)
	assert.Equal(t, http.StatusConflict, status, "pickup before ready must be rejected")

	for _, step := range []string{"accept", "ready"} {
		status, body = call(t, http.MethodPost, fmt.Sprintf("%s/api/v1/farmer/orders/%d/%s", baseURL, orderID, step), "mang-jose", nil)
		require.Equal(t, http.StatusOK, status, "%s: %v", step, body)
	}
	assert.Equal(t, "ready_for_pickup", object(t, body)["status"])

	status, body = call(t, http.MethodPost, fmt.Sprintf("%s/api/v1/orders/%d/pickup", baseURL, orderID), "ana", nil)
	require.Equal(t, http.StatusOK, status, "%v", body)
	assert.Equal(t, "picked_up", object(t, body)["status"])
	assert.Equal(t, 100.0, object(t, body)["progress"])

	status, _ = call(t, http.MethodPost, fmt.Sprintf("%s/api/v1/orders/%d/pickup", baseURL, orderID), "ana", nil)
	assert.Equal(t, http.StatusConflict, status)

	status, body = call(t, http.MethodGet, baseURL+"/api/v1/farmer/reports/sales", "mang-jose", nil)
	require.Equal(t, http.StatusOK, status, "%v", body)
	report := object(t, body)
	assert.Equal(t, 1.0, report["sales_count"])
	assert.True(t, amount(t, report["revenue"]).Equal(decimal.NewFromInt(500)))

	status, body = call(t, http.MethodGet, baseURL+"/api/v1/notifications", "mang-jose", nil)
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body)
}

func TestE2E_InsufficientStock(t *testing.T) {
	baseURL := startPalay(t)

	becomeFarmer(t, baseURL, "aling-rosa")
	productID := createProduct(t, baseURL, "aling-rosa", "5", "60")

	status, body := call(t, http.MethodPost, baseURL+"/api/v1/orders", "ben", map[string]interface{}{
		"product_id": productID,
		"quantity":   "6",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "insufficient_stock", object(t, body)["kind"])

	status, body = call(t, http.MethodGet, fmt.Sprintf("%s/api/v1/products/%d", baseURL, productID), "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, amount(t, object(t, body)["quantity_available"]).Equal(decimal.NewFromInt(5)))
}

func TestE2E_CancelRestoresStock(t *testing.T) {
	baseURL := startPalay(t)

	becomeFarmer(t, baseURL, "tatay-ramon")
	productID := createProduct(t, baseURL, "tatay-ramon", "40", "55")

	status, body := call(t, http.MethodPost, baseURL+"/api/v1/orders", "carla", map[string]interface{}{
		"product_id": productID,
		"quantity":   "15",
	})
	require.Equal(t, http.StatusCreated, status, "%v", body)
	orderID := uint(object(t, body)["ID"].(float64))

	status, body = call(t, http.MethodPost, fmt.Sprintf("%s/api/v1/orders/%d/cancel", baseURL, orderID), "carla", map[string]string{"reason": "changed my mind"})
	require.Equal(t, http.StatusOK, status, "%v", body)
	assert.Equal(t, "cancelled", object(t, body)["status"])

	status, body = call(t, http.MethodGet, fmt.Sprintf("%s/api/v1/products/%d", baseURL, productID), "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, amount(t, object(t, body)["quantity_available"]).Equal(decimal.NewFromInt(40)))
}

func TestE2E_TaskWages(t *testing.T) {
	baseURL := startPalay(t)

	becomeFarmer(t, baseURL, "mang-ben")

	status, body := call(t, http.MethodPost, baseURL+"/api/v1/laborers", "mang-ben", map[string]string{
		"name": "Pedro",
		"rate": "450",
	})
	require.Equal(t, http.StatusCreated, status, "%v", body)
	laborerID := uint(object(t, body)["ID"].(float64))

	status, body = call(t, http.MethodPost, baseURL+"/api/v1/tasks", "mang-ben", map[string]interface{}{
		"task_type":    "harvesting",
		"payment_type": "piece_rate",
		"unit":         "sacks",
		"quantity":     "11",
		"unit_price":   "50",
		"assigned_to":  laborerID,
	})
	require.Equal(t, http.StatusCreated, status, "%v", body)
	task := object(t, body)
	taskID := uint(task["ID"].(float64))
	assert.True(t, amount(t, task["wage_amount"]).Equal(decimal.NewFromInt(550)))

	status, body = call(t, http.MethodPost, fmt.Sprintf("%s/api/v1/tasks/%d/complete", baseURL, taskID), "mang-ben", map[string]string{})
	require.Equal(t, http.StatusOK, status, "%v", body)
	wages := object(t, body)["wages"].([]interface{})
	require.Len(t, wages, 1)
	assert.True(t, amount(t, object(t, wages[0])["wage_amount"]).Equal(decimal.NewFromInt(550)))

	status, _ = call(t, http.MethodPost, fmt.Sprintf("%s/api/v1/tasks/%d/complete", baseURL, taskID), "mang-ben", map[string]string{})
	assert.Equal(t, http.StatusConflict, status)

	// laborer management is farmer-only
	status, _ = call(t, http.MethodGet, baseURL+"/api/v1/laborers", "someone-else", nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestE2E_TokenAuthentication(t *testing.T) {
	baseURL := startPalay(t)

	status, body := call(t, http.MethodPost, baseURL+"/api/v1/accounts/register", "", map[string]string{
		"username": "dolores",
		"password": "palay-secret-1",
		"role":     "buyer",
	})
	require.Equal(t, http.StatusCreated, status, "%v", body)

	status, body = call(t, http.MethodPost, baseURL+"/api/v1/accounts/login", "", map[string]string{
		"username": "dolores",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = call(t, http.MethodPost, baseURL+"/api/v1/accounts/login", "", map[string]string{
		"username": "dolores",
		"password": "palay-secret-1",
	})
	require.Equal(t, http.StatusOK, status, "%v", body)
	token, ok := object(t, body)["token"].(string)
	require.True(t, ok)
	assert.NotEmpty(t, token)
}
