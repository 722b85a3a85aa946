package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestInitMetrics 重复初始化不会panic（promauto重复注册会panic）
func TestInitMetrics(t *testing.T) {
	InitMetrics()
	InitMetrics()

	assert.NotNil(t, HTTPRequestsTotal)
	assert.NotNil(t, HTTPRequestDuration)
	assert.NotNil(t, HTTPRequestsInProgress)
	assert.NotNil(t, BookOperationsTotal)
	assert.NotNil(t, BookOperationDuration)
	assert.NotNil(t, CircuitBreakerState)
	assert.NotNil(t, CircuitBreakerRequests)
}

// TestCounterVec 不同标签分别计数
func TestCounterVec(t *testing.T) {
	InitMetrics()

	get := map[string]string{"method": "GET", "path": "/test/counter", "status": "200"}
	post := map[string]string{"method": "POST", "path": "/test/counter", "status": "201"}

	IncCounterVec(HTTPRequestsTotal, get)
	IncCounterVec(HTTPRequestsTotal, post)
	IncCounterVec(HTTPRequestsTotal, get)

	assert.Equal(t, float64(2), testutil.ToFloat64(HTTPRequestsTotal.With(get)))
	assert.Equal(t, float64(1), testutil.ToFloat64(HTTPRequestsTotal.With(post)))
}

// TestGauge 递增、递减、设置
func TestGauge(t *testing.T) {
	InitMetrics()
	SetGauge(HTTPRequestsInProgress, 0)

	IncGauge(HTTPRequestsInProgress)
	IncGauge(HTTPRequestsInProgress)
	assert.Equal(t, float64(2), testutil.ToFloat64(HTTPRequestsInProgress))

	DecGauge(HTTPRequestsInProgress)
	assert.Equal(t, float64(1), testutil.ToFloat64(HTTPRequestsInProgress))

	SetGauge(HTTPRequestsInProgress, 10)
	assert.Equal(t, float64(10), testutil.ToFloat64(HTTPRequestsInProgress))

	SetGauge(HTTPRequestsInProgress, 0)
}

// TestGaugeVec 熔断器状态按名称区分
func TestGaugeVec(t *testing.T) {
	InitMetrics()

	SetGaugeVec(CircuitBreakerState, map[string]string{"name": "test-closed"}, 0)
	SetGaugeVec(CircuitBreakerState, map[string]string{"name": "test-open"}, 2)

	assert.Equal(t, float64(0), testutil.ToFloat64(CircuitBreakerState.WithLabelValues("test-closed")))
	assert.Equal(t, float64(2), testutil.ToFloat64(CircuitBreakerState.WithLabelValues("test-open")))
}

// TestRecordBookOperation 计数与耗时同时记录
func TestRecordBookOperation(t *testing.T) {
	RecordBookOperation("test_create", ResultSuccess, 0.002)
	RecordBookOperation("test_create", ResultSuccess, 0.004)
	RecordBookOperation("test_create", ResultRejected, 0.001)

	assert.Equal(t, float64(2), testutil.ToFloat64(BookOperationsTotal.WithLabelValues("test_create", ResultSuccess)))
	assert.Equal(t, float64(1), testutil.ToFloat64(BookOperationsTotal.WithLabelValues("test_create", ResultRejected)))

	count, sum := histogramVecStats(t, BookOperationDuration, map[string]string{"operation": "test_create"})
	assert.Equal(t, uint64(3), count)
	assert.InDelta(t, 0.007, sum, 1e-9)
}

// TestHandler /metrics输出包含已注册的指标
func TestHandler(t *testing.T) {
	RecordBookOperation("test_handler", ResultSuccess, 0.001)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `book_operations_total{operation="test_handler",result="success"} 1`)
}

// histogramVecStats 读取HistogramVec的观测次数与总和
func histogramVecStats(t *testing.T, histogramVec *prometheus.HistogramVec, labels map[string]string) (uint64, float64) {
	var metric dto.Metric
	histogram := histogramVec.With(labels)
	if err := histogram.(prometheus.Histogram).Write(&metric); err != nil {
		t.Fatalf("读取HistogramVec值失败: %v", err)
	}
	return metric.Histogram.GetSampleCount(), metric.Histogram.GetSampleSum()
}
