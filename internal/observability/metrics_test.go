package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetrics_Snapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/report", "POST", 303, 20*time.Millisecond)
	m.RecordRequest("/report", "POST", 303, 40*time.Millisecond)
	m.RecordError("/detect-category", "POST", "VALIDATION_FAILED")
	m.RecordOutcome("submission", "MismatchBlocked")

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.Requests["/report|POST|303"])
	assert.Equal(t, int64(30), snap.AvgLatencyMillis["/report|POST|303"])
	assert.Equal(t, int64(1), snap.Errors["/detect-category|POST|VALIDATION_FAILED"])
	assert.Equal(t, int64(1), snap.Outcomes["submission|MismatchBlocked"])
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, time.Millisecond)
	m.RecordOutcome("submission", "Synced")
	assert.Empty(t, m.Snapshot().Requests)
}
