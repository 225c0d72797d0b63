// Package leveldb persists indexed stake metadata and the transaction index
// used to resolve kernel outpoints.
package leveldb

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/stakekernel/internal/stake/model"
	goleveldb "github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

type (
	Metrics interface {
		Observe(operation string, err error, started time.Time)
	}
)

var (
	blockPrefix = []byte("blk:")
	txPrefix    = []byte("tx:")
	tipKey      = []byte("tip")
)

// Repository stores block records by height and transaction records by
// txid.
type Repository struct {
	db      *goleveldb.DB
	metrics Metrics
}

// Open opens (or creates) a store at path.
func Open(path string, metrics Metrics) (*Repository, error) {
	if path == "" {
		return nil, errors.New("leveldb path is required")
	}
	db, err := goleveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("open leveldb %s: %w", path, err)
	}
	return &Repository{db: db, metrics: metrics}, nil
}

// OpenMemory opens a store that lives in memory only.
func OpenMemory(metrics Metrics) (*Repository, error) {
	db, err := goleveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, fmt.Errorf("open memory leveldb: %w", err)
	}
	return &Repository{db: db, metrics: metrics}, nil
}

// Close releases the underlying database.
func (r *Repository) Close() error {
	return r.db.Close()
}

// CommitBlock stores a block, its transactions and the new tip atomically.
func (r *Repository) CommitBlock(ctx context.Context, block model.BlockRecord, txs []model.TxRecord) (err error) {
	started := time.Now()
	defer func() {
		r.metrics.Observe("commit_block", err, started)
	}()

	if err = ctx.Err(); err != nil {
		return err
	}

	batch := new(goleveldb.Batch)
	data, err := json.Marshal(block)
	if err != nil {
		return fmt.Errorf("encode block %s: %w", block.Hash, err)
	}
	key := blockKey(block.Height)
	batch.Put(key, data)
	batch.Put(tipKey, key)

	for _, tx := range txs {
		txData, marshalErr := json.Marshal(tx)
		if marshalErr != nil {
			err = fmt.Errorf("encode tx %s: %w", tx.TxID, marshalErr)
			return err
		}
		batch.Put(txKey(tx.TxID), txData)
	}

	if err = r.db.Write(batch, nil); err != nil {
		return fmt.Errorf("write block %d: %w", block.Height, err)
	}
	return nil
}

// Tip returns the highest committed block, nil for an empty store.
func (r *Repository) Tip(ctx context.Context) (rec *model.BlockRecord, err error) {
	started := time.Now()
	defer func() {
		r.metrics.Observe("tip", err, started)
	}()

	if err = ctx.Err(); err != nil {
		return nil, err
	}

	key, err := r.db.Get(tipKey, nil)
	if errors.Is(err, goleveldb.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read tip: %w", err)
	}
	return r.getBlock(key)
}

// BlockByHeight returns the committed block at height, nil when absent.
func (r *Repository) BlockByHeight(ctx context.Context, height int32) (rec *model.BlockRecord, err error) {
	started := time.Now()
	defer func() {
		r.metrics.Observe("block_by_height", err, started)
	}()

	if err = ctx.Err(); err != nil {
		return nil, err
	}

	rec, err = r.getBlock(blockKey(height))
	if errors.Is(err, goleveldb.ErrNotFound) {
		return nil, nil
	}
	return rec, err
}

// Tx returns a transaction record, nil when unknown.
func (r *Repository) Tx(ctx context.Context, txid string) (rec *model.TxRecord, err error) {
	started := time.Now()
	defer func() {
		r.metrics.Observe("tx", err, started)
	}()

	if err = ctx.Err(); err != nil {
		return nil, err
	}

	data, err := r.db.Get(txKey(txid), nil)
	if errors.Is(err, goleveldb.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read tx %s: %w", txid, err)
	}

	var tx model.TxRecord
	if err = json.Unmarshal(data, &tx); err != nil {
		return nil, fmt.Errorf("decode tx %s: %w", txid, err)
	}
	return &tx, nil
}

// Blocks calls fn for every committed block in ascending height order.
func (r *Repository) Blocks(ctx context.Context, fn func(model.BlockRecord) error) (err error) {
	started := time.Now()
	defer func() {
		r.metrics.Observe("blocks", err, started)
	}()

	iter := r.db.NewIterator(util.BytesPrefix(blockPrefix), nil)
	defer iter.Release()

	for iter.Next() {
		if err = ctx.Err(); err != nil {
			return err
		}
		var rec model.BlockRecord
		if err = json.Unmarshal(iter.Value(), &rec); err != nil {
			return fmt.Errorf("decode block %x: %w", iter.Key(), err)
		}
		if err = fn(rec); err != nil {
			return err
		}
	}
	if err = iter.Error(); err != nil {
		return fmt.Errorf("iterate blocks: %w", err)
	}
	return nil
}

// Rollback removes every block above height and moves the tip to height.
// Transaction records are kept; they are overwritten when their transaction
// is committed again and ignored while their block is not indexed.
func (r *Repository) Rollback(ctx context.Context, height int32) (err error) {
	started := time.Now()
	defer func() {
		r.metrics.Observe("rollback", err, started)
	}()

	if err = ctx.Err(); err != nil {
		return err
	}

	batch := new(goleveldb.Batch)
	iter := r.db.NewIterator(&util.Range{Start: blockKey(height + 1), Limit: util.BytesPrefix(blockPrefix).Limit}, nil)
	for iter.Next() {
		batch.Delete(append([]byte(nil), iter.Key()...))
	}
	iter.Release()
	if err = iter.Error(); err != nil {
		return fmt.Errorf("iterate blocks above %d: %w", height, err)
	}

	if height >= 0 {
		batch.Put(tipKey, blockKey(height))
	} else {
		batch.Delete(tipKey)
	}
	if err = r.db.Write(batch, nil); err != nil {
		return fmt.Errorf("rollback to %d: %w", height, err)
	}
	return nil
}

func (r *Repository) getBlock(key []byte) (*model.BlockRecord, error) {
	data, err := r.db.Get(key, nil)
	if err != nil {
		return nil, fmt.Errorf("read block %x: %w", key, err)
	}
	var rec model.BlockRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode block %x: %w", key, err)
	}
	return &rec, nil
}

// blockKey orders blocks by height under big-endian keys.
func blockKey(height int32) []byte {
	key := make([]byte, len(blockPrefix)+4)
	copy(key, blockPrefix)
	binary.BigEndian.PutUint32(key[len(blockPrefix):], uint32(height))
	return key
}

func txKey(txid string) []byte {
	return append(append([]byte(nil), txPrefix...), txid...)
}
