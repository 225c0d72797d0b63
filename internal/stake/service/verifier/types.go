package verifier

import (
	"context"
	"time"

	"github.com/goodnatureofminers/stakekernel/internal/stake/chain"
	"github.com/goodnatureofminers/stakekernel/internal/stake/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	BlockSource interface {
		LatestHeight(ctx context.Context) (uint64, error)
		FetchBlock(ctx context.Context, height uint64) (*chain.SourceBlock, error)
	}
	Store interface {
		CommitBlock(ctx context.Context, block model.BlockRecord, txs []model.TxRecord) error
		Tip(ctx context.Context) (*model.BlockRecord, error)
		Tx(ctx context.Context, txid string) (*model.TxRecord, error)
		Blocks(ctx context.Context, fn func(model.BlockRecord) error) error
		Rollback(ctx context.Context, height int32) error
	}
	ClickhouseRepository interface {
		InsertStakeBlocks(ctx context.Context, blocks []model.StakeBlock) error
		MaxStakeBlockHeight(ctx context.Context, coin model.Coin, network model.Network) (uint64, bool, error)
	}
	BlockWriter interface {
		Start(ctx context.Context)
		Stop()
		WriteBlock(ctx context.Context, b model.StakeBlock) error
		// TakeExportGap reports the lowest height dropped from the export
		// since the last call, and clears it.
		TakeExportGap() (uint64, bool)
	}
	Metrics interface {
		ObserveFetchBatch(err error, blocks int, started time.Time)
		ObserveApplyBlock(err error, height int32, started time.Time)
		ObserveNodeMismatch(field string)
		ObserveReorg()
	}
	KernelMetrics interface {
		ObserveKernelCheck(err error)
		ObserveModifier(generated bool)
		ObserveCheckpointRejection()
	}
)
