package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRun(t *testing.T) {
	m := New(prometheus.NewRegistry())
	finished := time.Date(2022, 8, 28, 0, 0, 0, 0, time.UTC)

	m.ObserveRun(nil, time.Second, finished)
	m.ObserveRun(errors.New("boom"), time.Second, finished.Add(time.Hour))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues(StatusSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues(StatusFailure)))
	assert.Equal(t, float64(finished.Unix()), testutil.ToFloat64(m.lastSuccess))
}

func TestStageRowsAndCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.SetStageRows("a", "dedup", 12)
	m.SetStageRows("a", "dedup", 7)
	m.SetReconciled(3)
	m.IncEmptyInterestSet()
	m.AddRowsWritten(3)
	m.AddRowsWritten(2)

	assert.Equal(t, 7.0, testutil.ToFloat64(m.stageRows.WithLabelValues("a", "dedup")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.reconciled))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.emptyInterestSet))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.rowsWritten))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.SetStageRows("b", "input", 1)
		m.SetReconciled(1)
		m.IncEmptyInterestSet()
		m.AddRowsWritten(1)
		m.ObserveRun(nil, time.Second, time.Now())
	})
}

func TestHandler(t *testing.T) {
	reg := NewRegistry()
	m := New(reg)
	m.SetReconciled(4)

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "airq_reconciled_records 4"))
	assert.True(t, strings.Contains(string(body), "go_goroutines"))
}
