package verifier

import (
	"context"
	"fmt"
	"sync"

	"github.com/goodnatureofminers/stakekernel/internal/stake/model"
	"github.com/goodnatureofminers/stakekernel/pkg/batcher"
	"go.uber.org/zap"
)

var defaultBlockBatcherConfig = batcher.Config{
	Size:          blockBatcherCapacity,
	Interval:      blockBatcherFlushInterval,
	RPS:           blockBatcherRPS,
	Retries:       blockBatcherRetries,
	RetryInterval: blockBatcherRetryInterval,
}

// clickhouseBlockWriter buffers verified blocks and exports them in
// batches. Blocks of a batch that could not be exported are remembered as
// a gap for the verifier to export again.
type clickhouseBlockWriter struct {
	repo         ClickhouseRepository
	logger       *zap.Logger
	blockBatcher *batcher.Batcher[model.StakeBlock]

	mu     sync.Mutex
	gap    uint64
	hasGap bool
}

func newClickhouseBlockWriter(repo ClickhouseRepository, logger *zap.Logger, cfg batcher.Config) *clickhouseBlockWriter {
	w := &clickhouseBlockWriter{
		repo:   repo,
		logger: logger,
	}

	w.blockBatcher = batcher.New[model.StakeBlock](logger.Named("blockBatcher"), w.flush, cfg)
	w.blockBatcher.OnDrop(w.dropped)
	return w
}

func (w *clickhouseBlockWriter) Start(ctx context.Context) {
	w.blockBatcher.Start(ctx)
}

// Stop flushes queued blocks before returning.
func (w *clickhouseBlockWriter) Stop() {
	w.blockBatcher.Stop()
	stats := w.blockBatcher.Stats()
	w.logger.Info("block export stopped",
		zap.Int64("exported", stats.Flushed),
		zap.Int64("failed", stats.Failed))
}

func (w *clickhouseBlockWriter) WriteBlock(ctx context.Context, b model.StakeBlock) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return w.blockBatcher.Add(ctx, b)
}

func (w *clickhouseBlockWriter) flush(ctx context.Context, blocks []model.StakeBlock) error {
	if err := w.repo.InsertStakeBlocks(ctx, blocks); err != nil {
		return fmt.Errorf("export %d stake blocks: %w", len(blocks), err)
	}
	w.logger.Debug("exported stake blocks",
		zap.Uint64("from", blocks[0].Height),
		zap.Uint64("to", blocks[len(blocks)-1].Height))
	return nil
}

func (w *clickhouseBlockWriter) dropped(blocks []model.StakeBlock, err error) {
	lowest := blocks[0].Height
	for _, b := range blocks[1:] {
		lowest = min(lowest, b.Height)
	}
	w.logger.Warn("stake blocks dropped from export",
		zap.Uint64("from", lowest),
		zap.Int("blocks", len(blocks)),
		zap.Error(err))

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.hasGap || lowest < w.gap {
		w.gap, w.hasGap = lowest, true
	}
}

func (w *clickhouseBlockWriter) TakeExportGap() (uint64, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	gap, ok := w.gap, w.hasGap
	w.gap, w.hasGap = 0, false
	return gap, ok
}

// discardBlockWriter is used when no export is configured.
type discardBlockWriter struct{}

func (discardBlockWriter) Start(context.Context) {}

func (discardBlockWriter) Stop() {}

func (discardBlockWriter) WriteBlock(context.Context, model.StakeBlock) error { return nil }

func (discardBlockWriter) TakeExportGap() (uint64, bool) { return 0, false }
