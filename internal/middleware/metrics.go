package middleware

import (
	"strconv"
	"time"

	"tokoproduk/pkg/metrics"

	"github.com/gofiber/fiber/v2"
)

// Metrics records request count and latency per route pattern. It must wrap
// RequestLogger so the recorded status is final.
func Metrics(m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		method := c.Method()
		path := c.Route().Path
		status := strconv.Itoa(c.Response().StatusCode())

		m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
		m.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(time.Since(start).Seconds())

		return err
	}
}
