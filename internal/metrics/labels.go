package metrics

import (
	"context"
	"errors"

	"github.com/goodnatureofminers/stakekernel/internal/stake/model"
)

const unknownLabel = "unknown"

// chainLabels are the coin and network label values shared by the
// per-chain collectors.
type chainLabels struct {
	coin    string
	network string
}

func newChainLabels(coin model.Coin, network model.Network) chainLabels {
	l := chainLabels{coin: string(coin), network: string(network)}
	if l.coin == "" {
		l.coin = unknownLabel
	}
	if l.network == "" {
		l.network = unknownLabel
	}
	return l
}

// statusOf labels an operation outcome. Cancellation and deadlines are kept
// apart from failures, since shutdown produces them in bulk.
func statusOf(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "error"
	}
}
