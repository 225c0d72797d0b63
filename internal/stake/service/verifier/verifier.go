// Package verifier follows a peercoin node, re-verifies the stake kernel of
// every block and keeps the resulting stake metadata in a local index.
package verifier

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/btcsuite/btcd/wire"
	"github.com/goodnatureofminers/stakekernel/internal/clock"
	"github.com/goodnatureofminers/stakekernel/internal/stake/chain"
	"github.com/goodnatureofminers/stakekernel/internal/stake/chainindex"
	"github.com/goodnatureofminers/stakekernel/internal/stake/kernel"
	"github.com/goodnatureofminers/stakekernel/internal/stake/model"
	"go.uber.org/zap"
)

// ErrBlockRejected is returned when the kernel rejects a block the node
// accepted. Verification cannot continue past such a block.
var ErrBlockRejected = errors.New("block rejected by stake kernel")

// errReorg signals that the local tip was rolled back and the batch must
// be fetched again.
var errReorg = errors.New("node switched to another branch")

// VerifierService verifies the stake kernel of the node's best chain.
type VerifierService struct {
	logger        *zap.Logger
	coin          model.Coin
	network       model.Network
	source        BlockSource
	store         Store
	repo          ClickhouseRepository
	writer        BlockWriter
	validator     *kernel.Validator
	checkpoints   *kernel.Checkpoints
	metrics       Metrics
	kernelMetrics KernelMetrics

	index atomic.Pointer[chainindex.Index]
	// exported is the highest height known to be in ClickHouse, -1 for
	// none.
	exported int64

	sleep             func(context.Context, time.Duration) error
	sleepDuration     time.Duration
	longSleepDuration time.Duration
	workerCount       int
	batchSize         uint64
	blockSignal       <-chan struct{}
	now               func() time.Time
}

// NewVerifierService builds a VerifierService. repo may be nil to disable
// the ClickHouse export.
func NewVerifierService(
	source BlockSource,
	store Store,
	repo ClickhouseRepository,
	params *kernel.Params,
	checkpoints *kernel.Checkpoints,
	metrics Metrics,
	kernelMetrics KernelMetrics,
	coin model.Coin,
	network model.Network,
	logger *zap.Logger,
	blockSignal <-chan struct{},
) (*VerifierService, error) {
	if source == nil {
		return nil, errors.New("verifier block source is required")
	}
	if store == nil {
		return nil, errors.New("verifier store is required")
	}
	if params == nil {
		return nil, errors.New("verifier kernel params are required")
	}
	if metrics == nil || kernelMetrics == nil {
		return nil, errors.New("verifier metrics are required")
	}
	logger = logger.With(
		zap.String("coin", string(coin)),
		zap.String("network", string(network)),
	)

	s := &VerifierService{
		logger:            logger,
		coin:              coin,
		network:           network,
		source:            source,
		store:             store,
		repo:              repo,
		writer:            discardBlockWriter{},
		validator:         kernel.NewValidator(params, logger.Named("kernel")),
		checkpoints:       checkpoints,
		metrics:           metrics,
		kernelMetrics:     kernelMetrics,
		exported:          -1,
		sleep:             clock.SleepWithContext,
		sleepDuration:     sleepDuration,
		longSleepDuration: longSleepDuration,
		workerCount:       defaultWorkerCount,
		batchSize:         fetchBatchSize,
		blockSignal:       blockSignal,
		now:               time.Now,
	}
	if repo != nil {
		s.writer = newClickhouseBlockWriter(repo, logger.Named("blockWriter"), defaultBlockBatcherConfig)
	}
	s.index.Store(chainindex.New())
	return s, nil
}

// Index returns the current block index. The verifier replaces it after a
// reorganization, so callers should not hold on to it.
func (s *VerifierService) Index() *chainindex.Index {
	return s.index.Load()
}

// Checkpoints returns the enforced checkpoint table.
func (s *VerifierService) Checkpoints() *kernel.Checkpoints {
	return s.checkpoints
}

// Params returns the kernel parameters.
func (s *VerifierService) Params() *kernel.Params {
	return s.validator.Params()
}

// ProbeStake evaluates whether outpoint could stake at timeTx against the
// verified chain. bits 0 means the bits of the current tip.
func (s *VerifierService) ProbeStake(ctx context.Context, outpoint wire.OutPoint, timeTx int64, bits uint32) (*kernel.KernelProof, bool, error) {
	index := s.index.Load()
	if bits == 0 {
		tip := index.BestChainTip()
		if tip == nil {
			return nil, false, fmt.Errorf("probe stake: %w", kernel.ErrModifierUnavailable)
		}
		bits = tip.Bits
	}
	resolver := chain.NewTransactionResolver(ctx, s.store, index)
	return s.validator.ProbeStake(index, resolver, outpoint, timeTx, bits)
}

// Load restores the block index from the store.
func (s *VerifierService) Load(ctx context.Context) error {
	index := chainindex.New()
	err := s.store.Blocks(ctx, func(rec model.BlockRecord) error {
		ref, err := chain.RefFromRecord(rec)
		if err != nil {
			return err
		}
		return indexBlock(index, ref)
	})
	if err != nil {
		return fmt.Errorf("load block index: %w", err)
	}

	tip, err := s.store.Tip(ctx)
	if err != nil {
		return fmt.Errorf("load stored tip: %w", err)
	}
	if indexTip := index.BestChainTip(); (tip == nil) != (indexTip == nil) ||
		(tip != nil && tip.Hash != indexTip.Hash.String()) {
		return fmt.Errorf("stored tip %v does not match the loaded block index", tip)
	}
	s.index.Store(index)
	s.logger.Info("block index loaded", zap.Int32("height", index.ChainHeight()), zap.Int("blocks", index.Len()))
	return nil
}

// Run verifies blocks until the context is canceled or a block is
// rejected.
func (s *VerifierService) Run(ctx context.Context) error {
	if err := s.Load(ctx); err != nil {
		return err
	}
	if err := s.loadExported(ctx); err != nil {
		return err
	}

	s.writer.Start(context.WithoutCancel(ctx))
	defer s.writer.Stop()

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := s.run(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if isTerminal(err) {
				s.logger.Error("verification stopped", zap.Error(err))
				return err
			}
			s.logger.Warn("run iteration failed, backing off", zap.Error(err), zap.Duration("sleep", s.sleepDuration))
			if sleepErr := s.wait(ctx, s.sleepDuration); sleepErr != nil {
				return sleepErr
			}
		}
	}
}

func isTerminal(err error) bool {
	return kernel.IsFatal(err) || errors.Is(err, ErrBlockRejected) || errors.Is(err, chainindex.ErrModifierConflict)
}

func (s *VerifierService) loadExported(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	height, ok, err := s.repo.MaxStakeBlockHeight(ctx, s.coin, s.network)
	if err != nil {
		return fmt.Errorf("load exported height: %w", err)
	}
	if ok {
		s.exported = int64(height)
	}
	return nil
}

func (s *VerifierService) run(ctx context.Context) error {
	if err := s.repairExport(ctx); err != nil {
		return err
	}

	heights, err := s.nextHeights(ctx)
	if err != nil {
		s.logger.Error("fetch node height failed", zap.Error(err))
		return err
	}
	if len(heights) == 0 {
		s.logger.Debug("caught up with node; sleeping", zap.Duration("sleep", s.longSleepDuration))
		return s.wait(ctx, s.longSleepDuration)
	}

	started := time.Now()
	blocks, err := s.fetchBlocks(ctx, heights)
	s.metrics.ObserveFetchBatch(err, len(heights), started)
	if err != nil {
		return err
	}

	for _, block := range blocks {
		if err := s.applyBlock(ctx, block); err != nil {
			if errors.Is(err, errReorg) {
				return nil
			}
			return err
		}
	}
	s.logger.Info("verified blocks",
		zap.Uint64("from", heights[0]),
		zap.Uint64("to", heights[len(heights)-1]))
	return nil
}

// repairExport rewinds the local chain to the last exported block when
// blocks above it never reached ClickHouse, so they are verified and
// exported again.
func (s *VerifierService) repairExport(ctx context.Context) error {
	if gap, ok := s.writer.TakeExportGap(); ok && int64(gap) <= s.exported {
		s.exported = int64(gap) - 1
	}
	height := s.index.Load().ChainHeight()
	if s.repo == nil || s.exported >= int64(height) {
		return nil
	}

	s.logger.Warn("verified blocks missing from export, verifying them again",
		zap.Int64("exported", s.exported),
		zap.Int32("height", height))
	return s.rewind(ctx, int32(s.exported))
}

// rewind drops every stored block above height and reloads the index.
func (s *VerifierService) rewind(ctx context.Context, height int32) error {
	if err := s.store.Rollback(ctx, height); err != nil {
		return fmt.Errorf("roll back to %d: %w", height, err)
	}
	return s.Load(ctx)
}

// nextHeights returns the heights after the local tip up to the node tip,
// at most one batch.
func (s *VerifierService) nextHeights(ctx context.Context) ([]uint64, error) {
	latest, err := s.source.LatestHeight(ctx)
	if err != nil {
		return nil, err
	}
	next := uint64(s.index.Load().ChainHeight() + 1)
	if next > latest {
		return nil, nil
	}
	last := min(latest, next+s.batchSize-1)
	heights := make([]uint64, 0, last-next+1)
	for h := next; h <= last; h++ {
		heights = append(heights, h)
	}
	return heights, nil
}

func (s *VerifierService) wait(ctx context.Context, d time.Duration) error {
	if s.blockSignal == nil {
		return s.sleep(ctx, d)
	}

	wake, err := clock.SleepOrSignal(ctx, d, s.blockSignal)
	if err != nil {
		return err
	}
	s.logger.Debug("woke up", zap.Stringer("by", wake))
	return nil
}
