// Package metrics 将缓存和内容生成事件导出为Prometheus指标
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// 默认的Prometheus指标前缀
	defaultMetricPrefix = "prepmate"
)

// Collector 持有全部指标，实现cache.Recorder
// 每个Collector使用独立的Registry，便于测试隔离
type Collector struct {
	registry *prometheus.Registry

	hits          *prometheus.CounterVec
	misses        *prometheus.CounterVec
	sets          *prometheus.CounterVec
	setFailures   *prometheus.CounterVec
	deletes       *prometheus.CounterVec
	evictions     *prometheus.CounterVec
	cleaned       prometheus.Counter
	fetchDuration *prometheus.HistogramVec
	storedBytes   prometheus.Gauge

	aiRequests     *prometheus.CounterVec
	aiDuration     prometheus.Histogram
	rateLimitWaits prometheus.Counter
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
}

// NewCollector 创建指标收集器，prefix为空时使用默认前缀
func NewCollector(prefix string) *Collector {
	if prefix == "" {
		prefix = defaultMetricPrefix
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		hits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: prefix,
			Name:      "cache_hits_total",
			Help:      "Total number of cache hits",
		}, []string{"namespace"}),
		misses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: prefix,
			Name:      "cache_misses_total",
			Help:      "Total number of cache misses",
		}, []string{"namespace", "reason"}), // reason: absent, expired, invalid, corrupt
		sets: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: prefix,
			Name:      "cache_sets_total",
			Help:      "Total number of cache writes",
		}, []string{"namespace"}),
		setFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: prefix,
			Name:      "cache_set_failures_total",
			Help:      "Total number of rejected or failed cache writes",
		}, []string{"namespace"}),
		deletes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: prefix,
			Name:      "cache_deletes_total",
			Help:      "Total number of explicitly deleted cache entries",
		}, []string{"namespace"}),
		evictions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: prefix,
			Name:      "cache_evictions_total",
			Help:      "Total number of entries evicted to honor namespace limits",
		}, []string{"namespace"}),
		cleaned: factory.NewCounter(prometheus.CounterOpts{
			Namespace: prefix,
			Name:      "cache_cleaned_total",
			Help:      "Total number of expired or corrupt entries removed by cleanup",
		}),
		fetchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: prefix,
			Name:      "cache_fetch_duration_seconds",
			Help:      "Duration of fetches run on cache misses",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
		}, []string{"namespace", "outcome"}),
		storedBytes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: prefix,
			Name:      "store_bytes",
			Help:      "Approximate size of the key-value store in bytes",
		}),
		aiRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: prefix,
			Name:      "ai_requests_total",
			Help:      "Total number of chat-completion requests",
		}, []string{"status"}), // status: success, error
		aiDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: prefix,
			Name:      "ai_request_duration_seconds",
			Help:      "Duration of chat-completion requests",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 60},
		}),
		rateLimitWaits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: prefix,
			Name:      "ai_rate_limit_waits_total",
			Help:      "Total number of times a request waited for the rate limiter",
		}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: prefix,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: prefix,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Registry 返回底层的Prometheus注册表
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler 返回/metrics的HTTP处理器
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// Hit 记录命中
func (c *Collector) Hit(namespace string) {
	c.hits.WithLabelValues(namespace).Inc()
}

// Miss 记录未命中及原因
func (c *Collector) Miss(namespace, reason string) {
	c.misses.WithLabelValues(namespace, reason).Inc()
}

// Stored 记录写入
func (c *Collector) Stored(namespace string, _ int64) {
	c.sets.WithLabelValues(namespace).Inc()
}

// SetFailed 记录写入失败
func (c *Collector) SetFailed(namespace string) {
	c.setFailures.WithLabelValues(namespace).Inc()
}

// Deleted 记录删除
func (c *Collector) Deleted(namespace string, n int) {
	c.deletes.WithLabelValues(namespace).Add(float64(n))
}

// Evicted 记录淘汰
func (c *Collector) Evicted(namespace string, n int) {
	c.evictions.WithLabelValues(namespace).Add(float64(n))
}

// Cleaned 记录清理数量
func (c *Collector) Cleaned(n int) {
	c.cleaned.Add(float64(n))
}

// Fetched 记录未命中时获取的耗时
func (c *Collector) Fetched(namespace string, elapsed time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	c.fetchDuration.WithLabelValues(namespace, outcome).Observe(elapsed.Seconds())
}

// StoreSize 更新存储大小
func (c *Collector) StoreSize(bytes int64) {
	c.storedBytes.Set(float64(bytes))
}

// AIRequest 记录一次聊天补全请求
func (c *Collector) AIRequest(elapsed time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	c.aiRequests.WithLabelValues(status).Inc()
	c.aiDuration.Observe(elapsed.Seconds())
}

// RateLimitWait 记录一次限流等待
func (c *Collector) RateLimitWait() {
	c.rateLimitWaits.Inc()
}

// HTTPRequest 记录一次HTTP请求
func (c *Collector) HTTPRequest(method, route string, status int, elapsed time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
