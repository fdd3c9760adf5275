package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_RecordRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector("aip", reg)

	c.RecordRequest("general_basic", "success", 120*time.Millisecond)
	c.RecordRequest("general_basic", "success", 80*time.Millisecond)
	c.RecordRequest("general_basic", "remote_error", 10*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.requestsTotal.WithLabelValues("general_basic", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.requestsTotal.WithLabelValues("general_basic", "remote_error")))

	count, err := testutil.GatherAndCount(reg, "aip_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCollector_RecordJob(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector("aip", reg)

	c.RecordPoll("table", "polling")
	c.RecordPoll("table", "polling")
	c.RecordPoll("table", "finished")
	c.RecordJob("table", "finished", 3*time.Second)
	c.RecordTokenRefresh()

	assert.Equal(t, 2.0, testutil.ToFloat64(c.jobPollsTotal.WithLabelValues("table", "polling")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.jobsTotal.WithLabelValues("table", "finished")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.tokenRefreshes))
}

func TestCollector_NilIsNoop(t *testing.T) {
	var c *Collector

	assert.NotPanics(t, func() {
		c.RecordRequest("x", "success", time.Second)
		c.RecordPoll("x", "pending")
		c.RecordJob("x", "finished", time.Second)
		c.RecordTokenRefresh()
	})
}
