// Package telemetry exposes Prometheus metrics for the transfer engine.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

// TransferMetrics implements transfer.MetricsCollector on Prometheus.
type TransferMetrics struct {
	transfersTotal   *prometheus.CounterVec
	transferAmount   *prometheus.HistogramVec
	transferDuration prometheus.Histogram
}

// NewTransferMetrics registers the transfer collectors on reg.
func NewTransferMetrics(reg prometheus.Registerer) *TransferMetrics {
	factory := promauto.With(reg)
	return &TransferMetrics{
		transfersTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tally_transfers_total",
				Help: "Total number of transfer attempts",
			},
			[]string{"result"}, // success, invalid_amount, account_not_found, insufficient_funds, error
		),
		transferAmount: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tally_transfer_amount",
				Help:    "Requested transfer amount distribution",
				Buckets: []float64{1, 10, 50, 100, 500, 1000, 5000, 10000, 50000},
			},
			[]string{"result"},
		),
		transferDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tally_transfer_duration_seconds",
				Help:    "Time spent processing a transfer, lock wait included",
				Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
		),
	}
}

func (m *TransferMetrics) RecordTransfer(result string, amount decimal.Decimal, duration time.Duration) {
	m.transfersTotal.WithLabelValues(result).Inc()
	m.transferAmount.WithLabelValues(result).Observe(amount.InexactFloat64())
	m.transferDuration.Observe(duration.Seconds())
}
