package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"tokoproduk/internal/config"
	"tokoproduk/internal/database/dbtest"
	"tokoproduk/internal/middleware"
	"tokoproduk/internal/services"
	"tokoproduk/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockPublisher is a mock implementation of services.EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(eventType string, body []byte) error {
	args := m.Called(eventType, body)
	return args.Error(0)
}

func newTestApp(t *testing.T, publisher services.EventPublisher) (*fiber.App, *metrics.Metrics) {
	t.Helper()

	m := metrics.New("toko")
	deps := Dependencies{
		Config:    &config.Config{AppPort: ":0"},
		DB:        dbtest.New(t),
		Logger:    zap.NewNop(),
		Metrics:   m,
		Publisher: publisher,
	}
	return NewApp(deps), m
}

func send(t *testing.T, app *fiber.App, method, target, body string) (*http.Response, []byte) {
	t.Helper()

	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestHealthCheck(t *testing.T) {
	app, _ := newTestApp(t, nil)

	resp, data := send(t, app, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(data), `"status":"healthy"`)
	assert.NotEmpty(t, resp.Header.Get(middleware.HeaderRequestID))
}

func TestProductLifecycle(t *testing.T) {
	pub := new(MockPublisher)
	pub.On("Publish", services.EventProductCreated, mock.Anything).Return(nil).Once()
	pub.On("Publish", services.EventProductUpdated, mock.Anything).Return(nil).Once()
	pub.On("Publish", services.EventProductDeleted, mock.Anything).Return(errors.New("broker down")).Once()

	app, m := newTestApp(t, pub)

	resp, data := send(t, app, http.MethodPost, "/products", `{"product_name":"Pen","product_price":1.5,"product_stock":10}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))

	var created map[string]any
	require.NoError(t, json.Unmarshal(data, &created))
	assert.EqualValues(t, 1, created["product_id"])

	resp, _ = send(t, app, http.MethodPut, "/products/1", `{"product_name":"Pen","product_price":2,"product_stock":5}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// a failed publish does not fail the delete
	resp, _ = send(t, app, http.MethodDelete, "/products/1", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = send(t, app, http.MethodGet, "/products/1", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	pub.AssertExpectations(t)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/products/:id", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProductOperations.WithLabelValues("create", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProductOperations.WithLabelValues("get", "not_found")))
}

func TestRejectedPayloadsAreCounted(t *testing.T) {
	app, m := newTestApp(t, nil)

	resp, _ := send(t, app, http.MethodPost, "/products", `{"product_name":"Pen","product_price":"a","product_stock":"b"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = send(t, app, http.MethodPost, "/products", `{"product_name":"","product_price":1,"product_stock":1}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = send(t, app, http.MethodPut, "/products/1", `{"product_name":"Pen","product_price":1,"product_stock":1.5}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ProductOperations.WithLabelValues("create", "validation_error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProductOperations.WithLabelValues("update", "validation_error")))
}

func TestMetricsEndpoint(t *testing.T) {
	app, _ := newTestApp(t, nil)

	send(t, app, http.MethodGet, "/products", "")

	resp, data := send(t, app, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(data), "toko_http_requests_total")
	assert.Contains(t, string(data), "toko_product_operations_total")
}

func TestUnknownRoute(t *testing.T) {
	app, _ := newTestApp(t, nil)

	resp, data := send(t, app, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Cannot GET /nope"}`, string(data))
}
