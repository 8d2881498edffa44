package middleware_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"tokoproduk/internal/middleware"
	"tokoproduk/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newApp(m *metrics.Metrics, log *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(log)})
	app.Use(middleware.Metrics(m))
	app.Use(middleware.RequestLogger(log))
	app.Use(recover.New())

	app.Get("/ok", func(c *fiber.Ctx) error {
		return c.SendString(middleware.RequestID(c))
	})
	app.Get("/teapot", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "short and stout")
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("boom")
	})
	app.Get("/panic", func(c *fiber.Ctx) error {
		panic("unexpected")
	})
	return app
}

func get(t *testing.T, app *fiber.App, target string, header map[string]string) (*http.Response, string) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestRequestLoggerAssignsID(t *testing.T) {
	app := newApp(metrics.New("test"), zap.NewNop())

	resp, body := get(t, app, "/ok", nil)
	id := resp.Header.Get(middleware.HeaderRequestID)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, body)

	resp, body = get(t, app, "/ok", map[string]string{middleware.HeaderRequestID: "abc-123"})
	assert.Equal(t, "abc-123", resp.Header.Get(middleware.HeaderRequestID))
	assert.Equal(t, "abc-123", body)
}

func TestRequestLoggerLogsFinalStatus(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	app := newApp(metrics.New("test"), zap.New(core))

	resp, _ := get(t, app, "/teapot", map[string]string{middleware.HeaderRequestID: "req-1"})
	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)

	entries := logs.FilterMessage("HTTP Request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.EqualValues(t, fiber.StatusTeapot, fields["status"])
	assert.Equal(t, "/teapot", fields["path"])
	assert.Equal(t, "req-1", fields["request_id"])
}

func TestErrorHandler(t *testing.T) {
	app := newApp(metrics.New("test"), zap.NewNop())

	tests := []struct {
		target string
		status int
		body   string
	}{
		{"/teapot", fiber.StatusTeapot, `{"error":"short and stout"}`},
		{"/boom", fiber.StatusInternalServerError, `{"error":"Internal server error"}`},
		{"/panic", fiber.StatusInternalServerError, `{"error":"Internal server error"}`},
		{"/missing", fiber.StatusNotFound, `{"error":"Cannot GET /missing"}`},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			resp, body := get(t, app, tt.target, nil)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.JSONEq(t, tt.body, body)
		})
	}
}

func TestMetricsRecordsRoutePattern(t *testing.T) {
	m := metrics.New("test")
	app := newApp(m, zap.NewNop())

	get(t, app, "/ok", nil)
	get(t, app, "/ok", nil)
	get(t, app, "/teapot", nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/ok", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/teapot", "418")))
}
