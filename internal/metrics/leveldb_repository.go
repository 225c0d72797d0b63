package metrics

import (
	"time"

	"github.com/goodnatureofminers/stakekernel/internal/stake/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	leveldbRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stakekernel",
		Subsystem: "leveldb_repository",
		Name:      "operations_total",
		Help:      "Count of local stake index store operations.",
	}, []string{"operation", "network", "status"})
	leveldbRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "stakekernel",
		Subsystem: "leveldb_repository",
		Name:      "operation_duration_seconds",
		Help:      "Duration of local stake index store operations.",
		Buckets:   []float64{.0001, .0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
	}, []string{"operation", "network", "status"})
)

// LevelDBRepository tracks metrics for the local stake index store.
type LevelDBRepository struct {
	network string
}

func NewLevelDBRepository(network model.Network) *LevelDBRepository {
	return &LevelDBRepository{network: newChainLabels("", network).network}
}

func (m LevelDBRepository) Observe(operation string, err error, started time.Time) {
	status := statusOf(err)

	leveldbRequestsTotal.WithLabelValues(operation, m.network, status).Inc()
	leveldbRequestDuration.WithLabelValues(operation, m.network, status).Observe(time.Since(started).Seconds())
}
