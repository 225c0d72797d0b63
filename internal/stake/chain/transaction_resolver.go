package chain

import (
	"context"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/goodnatureofminers/stakekernel/internal/stake/kernel"
)

// TransactionResolver resolves kernel outpoints from the transaction store
// and the chain index. It implements kernel.TxView for one validation call.
type TransactionResolver struct {
	ctx    context.Context
	store  TxStore
	blocks kernel.ChainView
}

// NewTransactionResolver binds a resolver to ctx for the duration of one
// validation.
func NewTransactionResolver(ctx context.Context, store TxStore, blocks kernel.ChainView) *TransactionResolver {
	return &TransactionResolver{ctx: ctx, store: store, blocks: blocks}
}

// TransactionByOutpoint returns the transaction and containing block of
// outpoint, or nil when either is unknown.
func (r *TransactionResolver) TransactionByOutpoint(outpoint wire.OutPoint) (*kernel.PrevOut, error) {
	rec, err := r.store.Tx(r.ctx, outpoint.Hash.String())
	if err != nil {
		return nil, fmt.Errorf("query tx %s: %w", outpoint.Hash, err)
	}
	if rec == nil {
		return nil, nil
	}

	tx, err := TxFromRecord(*rec)
	if err != nil {
		return nil, err
	}
	blockHash, err := chainhash.NewHashFromStr(rec.BlockHash)
	if err != nil {
		return nil, fmt.Errorf("decode block hash of tx %s: %w", rec.TxID, err)
	}
	block, ok := r.blocks.BlockByHash(blockHash)
	if !ok {
		return nil, nil
	}
	return &kernel.PrevOut{Tx: tx, Block: block, TxOffset: rec.TxOffset}, nil
}
