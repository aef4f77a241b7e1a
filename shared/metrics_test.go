package shared

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestServiceMetrics_RecordHTTPRequest(t *testing.T) {
	metrics := NewServiceMetrics("TestService")

	metrics.RecordHTTPRequest("FetchIPOs", true, 200, 20*time.Millisecond, false)
	metrics.RecordHTTPRequest("FetchIPOs", true, 200, 40*time.Millisecond, false)
	metrics.RecordHTTPRequest("FetchIPOs", false, 0, 60*time.Millisecond, true)
	metrics.RecordHTTPRequest("FetchGMPTrends", false, 500, 0, false)
	metrics.IncrementCustomCounter("cache_hits")

	snapshot := metrics.GetSnapshot()
	assert.Equal(t, "TestService", snapshot.ServiceName)
	assert.Equal(t, int64(4), snapshot.TotalRequests)
	assert.Equal(t, int64(2), snapshot.SuccessfulRequests)
	assert.Equal(t, int64(2), snapshot.FailedRequests)
	assert.Equal(t, int64(1), snapshot.TimeoutRequests)
	assert.Equal(t, 30*time.Millisecond, snapshot.AverageProcessingTime)
	assert.Equal(t, map[int]int64{200: 2, 0: 1, 500: 1}, snapshot.StatusCodeCounts)
	assert.Equal(t, int64(1), snapshot.CustomCounters["cache_hits"])
	assert.Equal(t, 50.0, metrics.GetSuccessRate())
}

func TestServiceMetrics_SnapshotIsACopy(t *testing.T) {
	metrics := NewServiceMetrics("TestService")
	metrics.RecordHTTPRequest("FetchIPOs", true, 200, time.Millisecond, false)

	snapshot := metrics.GetSnapshot()
	snapshot.StatusCodeCounts[200] = 99

	assert.Equal(t, int64(1), metrics.GetSnapshot().StatusCodeCounts[200])
}

func TestServiceMetrics_Reset(t *testing.T) {
	metrics := NewServiceMetrics("TestService")
	metrics.RecordHTTPRequest("FetchIPOs", true, 200, time.Millisecond, false)
	metrics.IncrementCustomCounter("refreshes")

	metrics.Reset()

	snapshot := metrics.GetSnapshot()
	assert.Zero(t, snapshot.TotalRequests)
	assert.Empty(t, snapshot.StatusCodeCounts)
	assert.Empty(t, snapshot.CustomCounters)
	assert.Zero(t, metrics.GetSuccessRate())
}

func TestStaleResultCount(t *testing.T) {
	before := StaleResultCount("metrics-test")

	RecordStaleResult("metrics-test")
	RecordStaleResult("metrics-test")

	assert.Equal(t, before+2, StaleResultCount("metrics-test"))
	assert.Zero(t, StaleResultCount("never-recorded"))
}
