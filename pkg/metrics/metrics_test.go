package metrics

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thesyncim/pagewait/pkg/waitfor"
)

func TestRecorder_ObserveWait(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)

	r.ObserveWait(waitfor.Report{Condition: "visibilityOf", Result: waitfor.ResultReady, Attempts: 3, Elapsed: 200 * time.Millisecond})
	r.ObserveWait(waitfor.Report{Condition: "visibilityOf", Result: waitfor.ResultReady, Attempts: 1})
	r.ObserveWait(waitfor.Report{Condition: "visibilityOf", Result: waitfor.ResultTimeout, Attempts: 11, Elapsed: time.Second})

	assert.Equal(t, 2.0, testutil.ToFloat64(r.waits.WithLabelValues("visibilityOf", "ready")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.waits.WithLabelValues("visibilityOf", "timeout")))
	assert.Equal(t, 2, testutil.CollectAndCount(r.duration))
	assert.Equal(t, 1, testutil.CollectAndCount(r.attempts))

	expected := `
# HELP pagewait_waits_total Number of finished waits by condition and result.
# TYPE pagewait_waits_total counter
pagewait_waits_total{condition="visibilityOf",result="ready"} 2
pagewait_waits_total{condition="visibilityOf",result="timeout"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "pagewait_waits_total"))
}

func TestRecorder_WithPoller(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)

	p, err := waitfor.NewPoller(waitfor.WithObserver(r))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	_, err = waitfor.Until(ctx, p, nil, waitfor.NewCondition("always", func(waitfor.Session) waitfor.Evaluation[bool] {
		return waitfor.Done(true)
	}, nil))
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.waits.WithLabelValues("always", "ready")))
}

func TestWriteText(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)
	r.ObserveWait(waitfor.Report{Condition: "acceptAlert", Result: waitfor.ResultFatal, Attempts: 1})

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, reg))

	out := buf.String()
	assert.Contains(t, out, `pagewait_waits_total{condition="acceptAlert",result="fatal"} 1`)
	assert.Contains(t, out, "# TYPE pagewait_wait_duration_seconds histogram")
	assert.Contains(t, out, `pagewait_wait_attempts_count{condition="acceptAlert"} 1`)
}
