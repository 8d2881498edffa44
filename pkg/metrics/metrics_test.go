package metrics_test

import (
	"testing"

	"tokoproduk/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordProductOperation(t *testing.T) {
	m := metrics.New("toko")

	m.RecordProductOperation("create", "success")
	m.RecordProductOperation("create", "success")
	m.RecordProductOperation("create", "validation_error")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ProductOperations.WithLabelValues("create", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProductOperations.WithLabelValues("create", "validation_error")))
}

func TestNewIsolatedRegistries(t *testing.T) {
	a := metrics.New("toko")
	b := metrics.New("toko")

	a.HTTPRequestsTotal.WithLabelValues("GET", "/products", "200").Inc()
	assert.Equal(t, 0.0, testutil.ToFloat64(b.HTTPRequestsTotal.WithLabelValues("GET", "/products", "200")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() { m.RecordProductOperation("delete", "success") })
}
