package metrics

import (
	"errors"

	"github.com/goodnatureofminers/stakekernel/internal/stake/kernel"
	"github.com/goodnatureofminers/stakekernel/internal/stake/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	kernelChecksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stakekernel",
		Subsystem: "kernel",
		Name:      "checks_total",
		Help:      "Count of proof-of-stake kernel checks by result.",
	}, []string{"coin", "network", "result"})

	kernelModifiersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stakekernel",
		Subsystem: "kernel",
		Name:      "modifiers_total",
		Help:      "Count of computed stake modifiers, split by whether a new one was generated.",
	}, []string{"coin", "network", "generated"})

	kernelCheckpointRejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stakekernel",
		Subsystem: "kernel",
		Name:      "checkpoint_rejections_total",
		Help:      "Count of blocks rejected by a stake modifier checkpoint.",
	}, []string{"coin", "network"})
)

var kernelResults = []struct {
	err    error
	result string
}{
	{kernel.ErrInsufficientWeight, "insufficient_weight"},
	{kernel.ErrZeroWeight, "zero_weight"},
	{kernel.ErrImmatureStake, "immature"},
	{kernel.ErrBelowMinimumAge, "below_min_age"},
	{kernel.ErrTimestampOrder, "timestamp_order"},
	{kernel.ErrStaleTimestamp, "stale_timestamp"},
	{kernel.ErrMissingPrevout, "missing_prevout"},
	{kernel.ErrModifierUnavailable, "modifier_unavailable"},
	{kernel.ErrMissingHistory, "missing_history"},
	{kernel.ErrMalformedCoinStake, "malformed_coinstake"},
}

// KernelResult maps a kernel error to a stable label value.
func KernelResult(err error) string {
	if err == nil {
		return "ok"
	}
	for _, r := range kernelResults {
		if errors.Is(err, r.err) {
			return r.result
		}
	}
	return "error"
}

// Kernel tracks proof-of-stake verification outcomes.
type Kernel struct {
	labels chainLabels
}

func NewKernel(coin model.Coin, network model.Network) *Kernel {
	return &Kernel{labels: newChainLabels(coin, network)}
}

// ObserveKernelCheck records the result of one kernel check.
func (m Kernel) ObserveKernelCheck(err error) {
	kernelChecksTotal.WithLabelValues(m.labels.coin, m.labels.network, KernelResult(err)).Inc()
}

// ObserveModifier records one stake modifier computation.
func (m Kernel) ObserveModifier(generated bool) {
	label := "false"
	if generated {
		label = "true"
	}
	kernelModifiersTotal.WithLabelValues(m.labels.coin, m.labels.network, label).Inc()
}

// ObserveCheckpointRejection records a block rejected by a checkpoint.
func (m Kernel) ObserveCheckpointRejection() {
	kernelCheckpointRejectionsTotal.WithLabelValues(m.labels.coin, m.labels.network).Inc()
}
