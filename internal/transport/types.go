package transport

import (
	"context"
	"time"

	"github.com/btcsuite/btcd/wire"
	"github.com/goodnatureofminers/stakekernel/internal/stake/chainindex"
	"github.com/goodnatureofminers/stakekernel/internal/stake/kernel"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	StakeService interface {
		Index() *chainindex.Index
		Checkpoints() *kernel.Checkpoints
		ProbeStake(ctx context.Context, outpoint wire.OutPoint, timeTx int64, bits uint32) (*kernel.KernelProof, bool, error)
	}
	Metrics interface {
		Observe(route string, code int, started time.Time)
	}
)
