package kernel

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/wire"
	"go.uber.org/zap"
)

// Validator checks coinstake transactions against chain history.
type Validator struct {
	params   *Params
	selector *ModifierSelector
	logger   *zap.Logger
}

// NewValidator constructs a Validator for params.
func NewValidator(params *Params, logger *zap.Logger) *Validator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Validator{
		params:   params,
		selector: NewModifierSelector(params, logger.Named("modifier")),
		logger:   logger,
	}
}

// Params returns the kernel parameters the validator runs with.
func (v *Validator) Params() *Params {
	return v.params
}

// Selector returns the modifier selector sharing the validator's params.
func (v *Validator) Selector() *ModifierSelector {
	return v.selector
}

// CheckCoinStakeTimestamp reports whether a coinstake timestamp is valid for
// a block timestamp. From protocol v0.3 on both must be equal; before it the
// coinstake only had to precede the block.
func (v *Validator) CheckCoinStakeTimestamp(blockTime, timeTx int64) bool {
	if v.params.IsProtocolV03(timeTx) {
		return blockTime == timeTx
	}
	return timeTx <= blockTime
}

// CheckProofOfStake validates the kernel of coinstake tx in a block with the
// given bits and timestamp. view must present the chain up to the block's
// parent as its best chain.
func (v *Validator) CheckProofOfStake(view ChainView, txView TxView, tx *Tx, bits uint32, blockTime int64) (*KernelProof, error) {
	if tx == nil || !tx.IsCoinStake() {
		return nil, fmt.Errorf("check proof of stake: %w", ErrMalformedCoinStake)
	}

	timeTx := tx.Time
	if timeTx == 0 {
		timeTx = blockTime
	}
	if !v.CheckCoinStakeTimestamp(blockTime, timeTx) {
		return nil, fmt.Errorf("check proof of stake: block at %d, coinstake at %d: %w",
			blockTime, timeTx, ErrStaleTimestamp)
	}

	outpoint := tx.MsgTx.TxIn[0].PreviousOutPoint
	proof, err := v.checkKernel(view, txView, outpoint, timeTx, bits)
	if err != nil {
		return proof, fmt.Errorf("check proof of stake %s: %w", tx.Hash, err)
	}

	v.logger.Debug("proof of stake accepted",
		zap.String("tx", tx.Hash.String()),
		zap.String("kernel", outpoint.String()),
		zap.String("hash_proof", proof.Hash.String()))
	return proof, nil
}

// ProbeStake reports whether outpoint could stake at timeTx with bits on top
// of the view's best chain. A kernel that merely misses its target is a
// negative result, not an error.
func (v *Validator) ProbeStake(view ChainView, txView TxView, outpoint wire.OutPoint, timeTx int64, bits uint32) (*KernelProof, bool, error) {
	proof, err := v.checkKernel(view, txView, outpoint, timeTx, bits)
	switch {
	case err == nil:
		return proof, true, nil
	case errors.Is(err, ErrInsufficientWeight):
		return proof, false, nil
	default:
		return nil, false, fmt.Errorf("probe stake %s: %w", outpoint, err)
	}
}

func (v *Validator) checkKernel(view ChainView, txView TxView, outpoint wire.OutPoint, timeTx int64, bits uint32) (*KernelProof, error) {
	prev, err := txView.TransactionByOutpoint(outpoint)
	if err != nil {
		return nil, fmt.Errorf("resolve kernel %s: %w", outpoint, err)
	}
	if prev == nil || prev.Tx == nil || prev.Block == nil {
		return nil, fmt.Errorf("resolve kernel %s: %w", outpoint, ErrMissingPrevout)
	}

	txPrev := prev.Tx
	if txPrev.Time == 0 {
		fixed := *txPrev
		fixed.Time = prev.Block.Timestamp
		txPrev = &fixed
	}

	var (
		modifier       uint64
		modifierHeight int32 = -1
	)
	if v.params.IsProtocolV03(timeTx) {
		var from *BlockRef
		modifier, from, err = v.selector.GetKernelStakeModifier(view, prev.Block, timeTx)
		if err != nil {
			return nil, err
		}
		modifierHeight = from.Height
	}

	proof, err := CheckStakeKernelHash(v.params, bits, KernelInput{
		BlockFrom:     prev.Block,
		TxPrev:        txPrev,
		TxPrevOffset:  prev.TxOffset,
		Outpoint:      outpoint,
		TimeTx:        timeTx,
		StakeModifier: modifier,
	})

	if proof != nil {
		v.logger.Debug("kernel evaluated",
			zap.String("modifier", FormatModifier(modifier)),
			zap.Int32("modifier_height", modifierHeight),
			zap.Uint32("bits", bits),
			zap.Int64("block_from_time", prev.Block.Timestamp),
			zap.Uint32("tx_prev_offset", prev.TxOffset),
			zap.Int64("tx_prev_time", txPrev.Time),
			zap.Uint32("prevout", outpoint.Index),
			zap.Int64("time_tx", timeTx),
			zap.String("hash_proof", proof.Hash.String()),
			zap.Bool("ok", err == nil))
	}
	return proof, err
}
