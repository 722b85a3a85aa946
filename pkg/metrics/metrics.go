// Package metrics 提供基于Prometheus的指标收集
//
// 指标分三组：
//   - HTTP：请求总数、耗时分布、处理中的请求数（由HTTP中间件记录）
//   - 图书业务：每个用例的调用次数（按结果区分）与耗时分布（由应用服务记录）
//   - 熔断器：存储熔断器的状态与请求结果（由resilient仓储记录）
//
// 命名规范：
//   - Counter以_total结尾
//   - Histogram以单位结尾（_seconds）
//   - 标签只使用有限取值（method、路由模板、operation），不要使用ID、ISBN等高基数字段
//
// 使用示例：
//
//	metrics.InitMetrics()
//	router.GET("/metrics", gin.WrapH(metrics.Handler()))
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 用例结果标签取值
const (
	ResultSuccess  = "success"  // 成功
	ResultRejected = "rejected" // 业务拒绝（4xx：参数错误、不存在、ISBN重复等）
	ResultError    = "error"    // 服务端故障（5xx）
)

var (
	initOnce sync.Once

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数
	// 标签：method、path（路由模板，如/api/v1/books/:id）、status
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数
	HTTPRequestsInProgress prometheus.Gauge

	// 图书业务指标

	// BookOperationsTotal 图书用例调用总数
	// 标签：operation（create/get/list/...）、result（success/rejected/error）
	BookOperationsTotal *prometheus.CounterVec

	// BookOperationDuration 图书用例耗时
	BookOperationDuration *prometheus.HistogramVec

	// 熔断器指标

	// CircuitBreakerState 熔断器状态（0=CLOSED, 1=HALF_OPEN, 2=OPEN）
	CircuitBreakerState *prometheus.GaugeVec

	// CircuitBreakerRequests 熔断器请求总数
	// 标签：name、result（success/failure/rejected）
	CircuitBreakerRequests *prometheus.CounterVec
)

// InitMetrics 初始化所有Prometheus指标
// 使用promauto注册到默认Registry，多次调用只会注册一次
func InitMetrics() {
	initOnce.Do(func() {
		HTTPRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "HTTP请求总数",
			},
			[]string{"method", "path", "status"},
		)

		HTTPRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "http_request_duration_seconds",
				Help: "HTTP请求耗时（秒）",
				// 1ms、10ms、100ms、500ms、1s、5s、10s
				Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
			},
			[]string{"method", "path"},
		)

		HTTPRequestsInProgress = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_progress",
				Help: "正在处理的HTTP请求数",
			},
		)

		BookOperationsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "book_operations_total",
				Help: "图书用例调用总数",
			},
			[]string{"operation", "result"},
		)

		BookOperationDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "book_operation_duration_seconds",
				Help: "图书用例耗时（秒）",
				// 单次用例只涉及一张表，耗时集中在毫秒级
				Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"operation"},
		)

		CircuitBreakerState = promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "circuit_breaker_state",
				Help: "熔断器状态（0=CLOSED, 1=HALF_OPEN, 2=OPEN）",
			},
			[]string{"name"},
		)

		CircuitBreakerRequests = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "circuit_breaker_requests_total",
				Help: "熔断器请求总数",
			},
			[]string{"name", "result"},
		)
	})
}

// Handler 暴露默认Registry的/metrics处理器
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordBookOperation 记录一次图书用例调用
func RecordBookOperation(operation, result string, seconds float64) {
	InitMetrics()
	IncCounterVec(BookOperationsTotal, map[string]string{"operation": operation, "result": result})
	ObserveHistogramVec(BookOperationDuration, map[string]string{"operation": operation}, seconds)
}

// IncCounter 递增Counter
func IncCounter(counter prometheus.Counter) {
	counter.Inc()
}

// IncCounterVec 递增CounterVec（带标签）
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	counter.With(labels).Inc()
}

// IncGauge 递增Gauge
func IncGauge(gauge prometheus.Gauge) {
	gauge.Inc()
}

// DecGauge 递减Gauge
func DecGauge(gauge prometheus.Gauge) {
	gauge.Dec()
}

// SetGauge 设置Gauge值
func SetGauge(gauge prometheus.Gauge, value float64) {
	gauge.Set(value)
}

// SetGaugeVec 设置GaugeVec值（带标签）
func SetGaugeVec(gauge *prometheus.GaugeVec, labels map[string]string, value float64) {
	gauge.With(labels).Set(value)
}

// ObserveHistogram 记录Histogram观测值
func ObserveHistogram(histogram prometheus.Histogram, value float64) {
	histogram.Observe(value)
}

// ObserveHistogramVec 记录HistogramVec观测值（带标签）
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	histogram.With(labels).Observe(value)
}
