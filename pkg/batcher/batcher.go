// Package batcher buffers items and hands them to a callback in rate
// limited batches.
package batcher

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/ratelimit"
	"go.uber.org/zap"
)

// ErrStopped is returned by Add once Stop has been called.
var ErrStopped = errors.New("batcher stopped")

const (
	defaultSize     = 100
	defaultInterval = time.Second
	defaultRPS      = 10

	defaultRetryInterval = time.Second
)

// FlushFunc receives a batch. The slice is reused after it returns.
type FlushFunc[T any] func(context.Context, []T) error

// Config controls when a batch is flushed. Zero fields take defaults.
type Config struct {
	// Size flushes a batch as soon as it holds this many items.
	Size int
	// Interval flushes a partial batch after this long.
	Interval time.Duration
	// RPS caps flushes per second.
	RPS int
	// Retries is how many more times a failed batch is flushed before it
	// is dropped.
	Retries int
	// RetryInterval is the pause before the first retry. It doubles after
	// each failed retry.
	RetryInterval time.Duration
}

func (c Config) withDefaults() Config {
	if c.Size <= 0 {
		c.Size = defaultSize
	}
	if c.Interval <= 0 {
		c.Interval = defaultInterval
	}
	if c.RPS <= 0 {
		c.RPS = defaultRPS
	}
	if c.Retries < 0 {
		c.Retries = 0
	}
	if c.RetryInterval <= 0 {
		c.RetryInterval = defaultRetryInterval
	}
	return c
}

// Stats counts items by the outcome of the batch that carried them.
type Stats struct {
	Flushed int64
	Failed  int64
}

// Batcher queues items and flushes them by size or interval.
type Batcher[T any] struct {
	logger *zap.Logger
	flush  FlushFunc[T]
	cfg    Config
	limit  ratelimit.Limiter
	queue  chan T
	drop   func([]T, error)

	flushed atomic.Int64
	failed  atomic.Int64

	wg       sync.WaitGroup
	stop     chan struct{}
	stopOnce sync.Once
}

// New constructs a Batcher. Nothing is flushed until Start.
func New[T any](logger *zap.Logger, flush FlushFunc[T], cfg Config) *Batcher[T] {
	cfg = cfg.withDefaults()
	return &Batcher[T]{
		logger: logger,
		flush:  flush,
		cfg:    cfg,
		limit:  ratelimit.New(cfg.RPS),
		queue:  make(chan T, cfg.Size*2),
		stop:   make(chan struct{}),
	}
}

// OnDrop registers fn to receive every batch that still failed after all
// retries. It must be called before Start. The slice is reused after fn
// returns.
func (b *Batcher[T]) OnDrop(fn func([]T, error)) {
	b.drop = fn
}

// Start runs the flushing loop until ctx is done or Stop is called.
func (b *Batcher[T]) Start(ctx context.Context) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.loop(ctx)
	}()
}

// Stop ends the loop after everything already queued has been flushed. It
// is safe to call more than once.
func (b *Batcher[T]) Stop() {
	b.stopOnce.Do(func() { close(b.stop) })
	b.wg.Wait()
}

// Stats returns the item counts so far.
func (b *Batcher[T]) Stats() Stats {
	return Stats{Flushed: b.flushed.Load(), Failed: b.failed.Load()}
}

// Add queues item, blocking while the queue is full.
func (b *Batcher[T]) Add(ctx context.Context, item T) error {
	select {
	case <-b.stop:
		return ErrStopped
	default:
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-b.stop:
		return ErrStopped
	case b.queue <- item:
		return nil
	}
}

func (b *Batcher[T]) loop(ctx context.Context) {
	ticker := time.NewTicker(b.cfg.Interval)
	defer ticker.Stop()

	buf := make([]T, 0, b.cfg.Size)
	push := func(item T) {
		buf = append(buf, item)
		if len(buf) >= b.cfg.Size {
			buf = b.send(ctx, buf)
		}
	}
	// drain pushes whatever is still queued and sends the remainder.
	drain := func() {
		for {
			select {
			case item := <-b.queue:
				push(item)
			default:
				buf = b.send(ctx, buf)
				return
			}
		}
	}

	for {
		select {
		case <-ctx.Done():
			drain()
			return
		case <-b.stop:
			drain()
			return
		case item := <-b.queue:
			push(item)
		case <-ticker.C:
			buf = b.send(ctx, buf)
		}
	}
}

// send flushes buf, retrying failures, and returns it emptied.
func (b *Batcher[T]) send(ctx context.Context, buf []T) []T {
	if len(buf) == 0 {
		return buf
	}

	b.limit.Take()
	err := b.flush(ctx, buf)
	for attempt, pause := 1, b.cfg.RetryInterval; err != nil && attempt <= b.cfg.Retries; attempt, pause = attempt+1, pause*2 {
		b.logger.Warn("batch not flushed, retrying",
			zap.Int("size", len(buf)), zap.Int("attempt", attempt), zap.Duration("pause", pause), zap.Error(err))
		if !wait(ctx, pause) {
			break
		}
		b.limit.Take()
		err = b.flush(ctx, buf)
	}

	if err != nil {
		b.failed.Add(int64(len(buf)))
		b.logger.Error("batch not flushed", zap.Int("size", len(buf)), zap.Error(err))
		if b.drop != nil {
			b.drop(buf, err)
		}
	} else {
		b.flushed.Add(int64(len(buf)))
		b.logger.Debug("batch flushed", zap.Int("size", len(buf)))
	}
	return buf[:0]
}

// wait pauses for d and reports false if ctx ended first.
func wait(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
