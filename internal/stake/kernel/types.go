package kernel

import (
	"math/big"

	"github.com/btcsuite/btcd/blockchain"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// BlockFlags is the stake bit field of a block.
type BlockFlags uint32

const (
	// FlagProofOfStake marks a proof-of-stake block.
	FlagProofOfStake BlockFlags = 1 << 0
	// FlagStakeEntropy is the entropy bit the block contributes when it is
	// selected for a stake modifier.
	FlagStakeEntropy BlockFlags = 1 << 1
	// FlagStakeModifier marks a block that generated a new stake modifier.
	FlagStakeModifier BlockFlags = 1 << 2
)

// BlockRef is a read-only snapshot of a block's stake metadata.
type BlockRef struct {
	Hash     chainhash.Hash
	PrevHash chainhash.Hash
	Height   int32

	Timestamp int64
	Bits      uint32
	Flags     BlockFlags

	// HashProofOfStake is the kernel hash of a proof-of-stake block and the
	// zero hash otherwise.
	HashProofOfStake chainhash.Hash

	StakeModifier         uint64
	StakeModifierChecksum uint32
	// ModifierSet is false until the modifier cell has been written.
	ModifierSet bool
}

// IsProofOfStake reports whether the block is proof-of-stake.
func (b *BlockRef) IsProofOfStake() bool {
	return b.Flags&FlagProofOfStake != 0
}

// GeneratedStakeModifier reports whether the block generated its modifier.
func (b *BlockRef) GeneratedStakeModifier() bool {
	return b.Flags&FlagStakeModifier != 0
}

// StakeEntropyBit returns the entropy bit stored in the block flags.
func (b *BlockRef) StakeEntropyBit() uint64 {
	if b.Flags&FlagStakeEntropy != 0 {
		return 1
	}
	return 0
}

// Tx is a transaction together with its peercoin timestamp.
type Tx struct {
	Hash  chainhash.Hash
	Time  int64
	MsgTx *wire.MsgTx
}

// IsCoinBase reports whether the transaction is a coinbase.
func (t *Tx) IsCoinBase() bool {
	return blockchain.IsCoinBaseTx(t.MsgTx)
}

// IsCoinStake reports whether the transaction is a coinstake: a non-coinbase
// whose first output is empty and which has at least one more output.
func (t *Tx) IsCoinStake() bool {
	msgTx := t.MsgTx
	if msgTx == nil || len(msgTx.TxIn) == 0 || len(msgTx.TxOut) < 2 {
		return false
	}
	if t.IsCoinBase() {
		return false
	}
	first := msgTx.TxOut[0]
	return first.Value == 0 && len(first.PkScript) == 0
}

// PrevOut is a resolved kernel outpoint: the transaction that created it,
// the block containing that transaction and the transaction's byte offset
// inside the serialized block.
type PrevOut struct {
	Tx       *Tx
	Block    *BlockRef
	TxOffset uint32
}

// ChainView is the read-only chain access the kernel needs. Implementations
// must present a consistent snapshot for the duration of a call.
type ChainView interface {
	BestChainTip() *BlockRef
	BlockByHash(hash *chainhash.Hash) (*BlockRef, bool)
	ChainHeight() int32
}

// TxView resolves outpoints. A nil PrevOut with a nil error means unknown.
type TxView interface {
	TransactionByOutpoint(outpoint wire.OutPoint) (*PrevOut, error)
}

// KernelInput is everything the kernel hash is computed from.
type KernelInput struct {
	BlockFrom     *BlockRef
	TxPrev        *Tx
	TxPrevOffset  uint32
	Outpoint      wire.OutPoint
	TimeTx        int64
	StakeModifier uint64
}

// KernelProof is the kernel hash and the weighted target it was compared
// against.
type KernelProof struct {
	Hash   chainhash.Hash
	Target *big.Int
}
