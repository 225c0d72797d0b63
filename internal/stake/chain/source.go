// Package chain defines interfaces and structs shared between stake
// verification components.
package chain

import (
	"context"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goodnatureofminers/stakekernel/internal/stake/kernel"
)

// BlockSource provides blocks with the transactions the kernel needs.
type BlockSource interface {
	LatestHeight(ctx context.Context) (uint64, error)
	FetchBlock(ctx context.Context, height uint64) (*SourceBlock, error)
}

// SourceBlock is a block as fetched from a node. Ref carries the header and
// the proof-of-stake and entropy flags; its modifier cell is unset.
type SourceBlock struct {
	Ref kernel.BlockRef
	Txs []*kernel.Tx
	// TxOffsets holds the byte offset of each transaction inside the
	// serialized block.
	TxOffsets []uint32
	Node      NodeStakeInfo
}

// CoinStake returns the coinstake of a proof-of-stake block, which is its
// second transaction.
func (b *SourceBlock) CoinStake() *kernel.Tx {
	if !b.Ref.IsProofOfStake() || len(b.Txs) < 2 {
		return nil
	}
	return b.Txs[1]
}

// NodeStakeInfo is what the node itself reports about a block's stake
// metadata.
type NodeStakeInfo struct {
	StakeModifier     uint64
	ModifierChecksum  uint32
	HasChecksum       bool
	GeneratedModifier bool
	HashProofOfStake  chainhash.Hash
	EntropyBit        uint32
	Mint              int64
}
