package telemetry

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransferMetrics_RecordTransfer(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewTransferMetrics(reg)

	m.RecordTransfer("success", decimal.RequireFromString("30.00"), 2*time.Millisecond)
	m.RecordTransfer("success", decimal.RequireFromString("10.00"), time.Millisecond)
	m.RecordTransfer("insufficient_funds", decimal.RequireFromString("99.00"), time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.transfersTotal.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transfersTotal.WithLabelValues("insufficient_funds")))

	expected := `
# HELP tally_transfers_total Total number of transfer attempts
# TYPE tally_transfers_total counter
tally_transfers_total{result="insufficient_funds"} 1
tally_transfers_total{result="success"} 2
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "tally_transfers_total"))

	count, err := testutil.GatherAndCount(reg, "tally_transfer_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
