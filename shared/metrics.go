package shared

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	dto "github.com/prometheus/client_model/go"
	"github.com/sirupsen/logrus"
)

// MetricsRegistry is the Prometheus registry served on /metrics
var MetricsRegistry = prometheus.NewRegistry()

var (
	upstreamRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ipo_companion",
		Name:      "upstream_requests_total",
		Help:      "Market API requests by operation and outcome.",
	}, []string{"operation", "status_code", "outcome"})

	upstreamLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "ipo_companion",
		Name:      "upstream_request_duration_seconds",
		Help:      "Market API request latency by operation.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})

	cacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ipo_companion",
		Name:      "response_cache_lookups_total",
		Help:      "Response cache lookups by result.",
	}, []string{"result"})

	staleResults = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ipo_companion",
		Name:      "list_stale_results_total",
		Help:      "Page results discarded because the list moved on.",
	}, []string{"list"})
)

func init() {
	MetricsRegistry.MustRegister(
		upstreamRequests,
		upstreamLatency,
		cacheLookups,
		staleResults,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// RecordCacheLookup counts a response cache hit or miss
func RecordCacheLookup(hit bool) {
	if hit {
		cacheLookups.WithLabelValues("hit").Inc()
		return
	}
	cacheLookups.WithLabelValues("miss").Inc()
}

// RecordStaleResult counts a discarded page result for a list
func RecordStaleResult(list string) {
	staleResults.WithLabelValues(list).Inc()
}

// StaleResultCount returns how many page results a list has discarded so far
func StaleResultCount(list string) float64 {
	var metric dto.Metric
	if err := staleResults.WithLabelValues(list).Write(&metric); err != nil {
		return 0
	}
	return metric.GetCounter().GetValue()
}

// ServiceMetrics tracks request outcomes and latency for a service
type ServiceMetrics struct {
	serviceName         string
	totalRequests       int64
	successfulRequests  int64
	failedRequests      int64
	timeoutRequests     int64
	totalProcessingTime time.Duration
	statusCodeCounts    map[int]int64
	customCounters      map[string]int64
	lastUpdated         time.Time
	mutex               sync.RWMutex
}

// ServiceMetricsSnapshot is a point-in-time copy of ServiceMetrics
type ServiceMetricsSnapshot struct {
	ServiceName           string           `json:"service_name"`
	TotalRequests         int64            `json:"total_requests"`
	SuccessfulRequests    int64            `json:"successful_requests"`
	FailedRequests        int64            `json:"failed_requests"`
	TimeoutRequests       int64            `json:"timeout_requests"`
	SuccessRate           float64          `json:"success_rate"`
	AverageProcessingTime time.Duration    `json:"average_processing_time"`
	StatusCodeCounts      map[int]int64    `json:"status_code_counts"`
	CustomCounters        map[string]int64 `json:"custom_counters"`
	LastUpdated           time.Time        `json:"last_updated"`
}

// NewServiceMetrics creates a new metrics tracker for a service
func NewServiceMetrics(serviceName string) *ServiceMetrics {
	return &ServiceMetrics{
		serviceName:      serviceName,
		statusCodeCounts: make(map[int]int64),
		customCounters:   make(map[string]int64),
		lastUpdated:      time.Now(),
	}
}

// RecordHTTPRequest records one upstream round trip. statusCode is 0 when no response arrived.
func (m *ServiceMetrics) RecordHTTPRequest(operation string, success bool, statusCode int, responseTime time.Duration, isTimeout bool) {
	m.mutex.Lock()
	m.totalRequests++
	m.totalProcessingTime += responseTime
	if success {
		m.successfulRequests++
	} else {
		m.failedRequests++
	}
	if isTimeout {
		m.timeoutRequests++
	}
	m.statusCodeCounts[statusCode]++
	m.lastUpdated = time.Now()
	m.mutex.Unlock()

	outcome := "success"
	switch {
	case isTimeout:
		outcome = "timeout"
	case !success:
		outcome = "failure"
	}
	upstreamRequests.WithLabelValues(operation, strconv.Itoa(statusCode), outcome).Inc()
	upstreamLatency.WithLabelValues(operation).Observe(responseTime.Seconds())
}

// IncrementCustomCounter increments a custom counter metric
func (m *ServiceMetrics) IncrementCustomCounter(key string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.customCounters[key]++
	m.lastUpdated = time.Now()
}

// GetSuccessRate returns the success rate as a percentage
func (m *ServiceMetrics) GetSuccessRate() float64 {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return m.successRateLocked()
}

func (m *ServiceMetrics) successRateLocked() float64 {
	if m.totalRequests == 0 {
		return 0.0
	}
	return float64(m.successfulRequests) / float64(m.totalRequests) * 100.0
}

// GetSnapshot returns a thread-safe snapshot of current metrics
func (m *ServiceMetrics) GetSnapshot() ServiceMetricsSnapshot {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	statusCopy := make(map[int]int64, len(m.statusCodeCounts))
	for k, v := range m.statusCodeCounts {
		statusCopy[k] = v
	}
	countersCopy := make(map[string]int64, len(m.customCounters))
	for k, v := range m.customCounters {
		countersCopy[k] = v
	}

	var average time.Duration
	if m.totalRequests > 0 {
		average = time.Duration(int64(m.totalProcessingTime) / m.totalRequests)
	}

	return ServiceMetricsSnapshot{
		ServiceName:           m.serviceName,
		TotalRequests:         m.totalRequests,
		SuccessfulRequests:    m.successfulRequests,
		FailedRequests:        m.failedRequests,
		TimeoutRequests:       m.timeoutRequests,
		SuccessRate:           m.successRateLocked(),
		AverageProcessingTime: average,
		StatusCodeCounts:      statusCopy,
		CustomCounters:        countersCopy,
		LastUpdated:           m.lastUpdated,
	}
}

// LogSummary logs a metrics summary
func (m *ServiceMetrics) LogSummary() {
	snapshot := m.GetSnapshot()

	logrus.WithFields(logrus.Fields{
		"service_name":            snapshot.ServiceName,
		"total_requests":          snapshot.TotalRequests,
		"successful_requests":     snapshot.SuccessfulRequests,
		"failed_requests":         snapshot.FailedRequests,
		"timeout_requests":        snapshot.TimeoutRequests,
		"success_rate":            snapshot.SuccessRate,
		"average_processing_time": snapshot.AverageProcessingTime,
		"status_code_counts":      snapshot.StatusCodeCounts,
		"custom_counters":         snapshot.CustomCounters,
	}).Info("Service metrics summary")
}

// Reset resets all metrics to zero
func (m *ServiceMetrics) Reset() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.totalRequests = 0
	m.successfulRequests = 0
	m.failedRequests = 0
	m.timeoutRequests = 0
	m.totalProcessingTime = 0
	m.statusCodeCounts = make(map[int]int64)
	m.customCounters = make(map[string]int64)
	m.lastUpdated = time.Now()

	logrus.WithField("service_name", m.serviceName).Info("Service metrics reset")
}
