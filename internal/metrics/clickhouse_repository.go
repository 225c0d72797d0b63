package metrics

import (
	"time"

	"github.com/goodnatureofminers/stakekernel/internal/stake/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	clickhouseRepositoryRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stakekernel",
		Subsystem: "clickhouse_repository",
		Name:      "operations_total",
		Help:      "Count of repository operations.",
	}, []string{"operation", "coin", "network", "status"})
	clickhouseRepositoryRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "stakekernel",
		Subsystem: "clickhouse_repository",
		Name:      "operation_duration_seconds",
		Help:      "Duration of repository operations.",
		Buckets:   prometheus.ExponentialBuckets(.005, 2.5, 10),
	}, []string{"operation", "coin", "network", "status"})
)

// ClickhouseRepository tracks metrics for ClickHouse repository operations.
// Coin and network are per call because one repository serves every chain.
type ClickhouseRepository struct{}

// NewClickhouseRepository creates a ClickhouseRepository metrics collector.
func NewClickhouseRepository() *ClickhouseRepository {
	return &ClickhouseRepository{}
}

// Observe records duration and status of a repository operation.
func (m ClickhouseRepository) Observe(operation string, coin model.Coin, network model.Network, err error, started time.Time) {
	l := newChainLabels(coin, network)
	status := statusOf(err)
	clickhouseRepositoryRequestsTotal.WithLabelValues(operation, l.coin, l.network, status).Inc()
	clickhouseRepositoryRequestDuration.WithLabelValues(operation, l.coin, l.network, status).Observe(time.Since(started).Seconds())
}
