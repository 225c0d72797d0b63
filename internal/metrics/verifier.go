package metrics

import (
	"time"

	"github.com/goodnatureofminers/stakekernel/internal/stake/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	verifierFetchBatchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stakekernel",
		Subsystem: "verifier",
		Name:      "fetch_batch_total",
		Help:      "Count of block fetch batches.",
	}, []string{"coin", "network", "status"})

	verifierFetchBatchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "stakekernel",
		Subsystem: "verifier",
		Name:      "fetch_batch_duration_seconds",
		Help:      "Duration of fetching a batch of blocks.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"coin", "network", "status"})

	verifierFetchBatchSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "stakekernel",
		Subsystem: "verifier",
		Name:      "fetch_batch_size",
		Help:      "Number of blocks fetched per batch.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12), // 1..2048
	}, []string{"coin", "network"})

	verifierApplyBlockDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "stakekernel",
		Subsystem: "verifier",
		Name:      "apply_block_duration_seconds",
		Help:      "Duration of verifying and storing a single block.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"coin", "network", "status"})

	verifierTipHeight = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "stakekernel",
		Subsystem: "verifier",
		Name:      "tip_height",
		Help:      "Height of the locally verified best chain tip.",
	}, []string{"coin", "network"})

	verifierNodeMismatchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stakekernel",
		Subsystem: "verifier",
		Name:      "node_mismatch_total",
		Help:      "Count of blocks where the node reported different stake metadata.",
	}, []string{"coin", "network", "field"})

	verifierReorgsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stakekernel",
		Subsystem: "verifier",
		Name:      "reorgs_total",
		Help:      "Count of local tip rollbacks caused by node reorganizations.",
	}, []string{"coin", "network"})
)

// Verifier tracks metrics for the stake verifier pipeline.
type Verifier struct {
	labels chainLabels
}

// NewVerifier constructs a Verifier with defaults.
func NewVerifier(coin model.Coin, network model.Network) *Verifier {
	return &Verifier{labels: newChainLabels(coin, network)}
}

// ObserveFetchBatch records fetching a batch of blocks.
func (m Verifier) ObserveFetchBatch(err error, blocks int, started time.Time) {
	status := statusOf(err)
	verifierFetchBatchTotal.WithLabelValues(m.labels.coin, m.labels.network, status).Inc()
	verifierFetchBatchDuration.WithLabelValues(m.labels.coin, m.labels.network, status).
		Observe(time.Since(started).Seconds())
	verifierFetchBatchSize.WithLabelValues(m.labels.coin, m.labels.network).Observe(float64(blocks))
}

// ObserveApplyBlock records verification of a single block.
func (m Verifier) ObserveApplyBlock(err error, height int32, started time.Time) {
	verifierApplyBlockDuration.WithLabelValues(m.labels.coin, m.labels.network, statusOf(err)).
		Observe(time.Since(started).Seconds())
	if err == nil {
		verifierTipHeight.WithLabelValues(m.labels.coin, m.labels.network).Set(float64(height))
	}
}

// ObserveNodeMismatch records a disagreement with the node on field.
func (m Verifier) ObserveNodeMismatch(field string) {
	verifierNodeMismatchTotal.WithLabelValues(m.labels.coin, m.labels.network, field).Inc()
}

// ObserveReorg records a rollback of the local tip.
func (m Verifier) ObserveReorg() {
	verifierReorgsTotal.WithLabelValues(m.labels.coin, m.labels.network).Inc()
}
