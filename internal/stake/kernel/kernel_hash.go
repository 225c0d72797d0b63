package kernel

import (
	"fmt"
	"math/big"

	"github.com/btcsuite/btcd/blockchain"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// maxTarget is the largest value a 256-bit hash can take.
var maxTarget = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// CheckStakeKernelHash evaluates the kernel of a coinstake.
//
// The kernel hash is computed from
//
//	stakeModifier ‖ blockFrom.time ‖ txPrevOffset ‖ txPrev.time ‖ prevout.n ‖ timeTx
//
// and must not exceed bits expanded and multiplied by the coin-day weight of
// the staked output. The data is chosen so that nothing the staker controls at
// stake time can be ground: the modifier did not exist when the output was
// confirmed, and blockFrom.time, the offset and the output index were fixed
// by then. The only free variable is timeTx, and it is bound to the block
// timestamp. Kernels before protocol v0.3 hash bits in place of the modifier
// and in.StakeModifier is ignored for them.
//
// On ErrInsufficientWeight the computed proof is returned along with the
// error.
func CheckStakeKernelHash(params *Params, bits uint32, in KernelInput) (*KernelProof, error) {
	if in.TxPrev == nil || in.TxPrev.MsgTx == nil || in.BlockFrom == nil {
		return nil, fmt.Errorf("check stake kernel hash: %w", ErrMissingPrevout)
	}
	outputs := in.TxPrev.MsgTx.TxOut
	if int(in.Outpoint.Index) >= len(outputs) {
		return nil, fmt.Errorf("check stake kernel hash: output %d of %d: %w",
			in.Outpoint.Index, len(outputs), ErrMissingPrevout)
	}

	value := outputs[in.Outpoint.Index].Value
	if value <= 0 {
		return nil, fmt.Errorf("check stake kernel hash: %w", ErrZeroWeight)
	}
	if in.TimeTx < in.TxPrev.Time {
		return nil, fmt.Errorf("check stake kernel hash: coinstake at %d, output at %d: %w",
			in.TimeTx, in.TxPrev.Time, ErrTimestampOrder)
	}
	if in.TxPrev.IsCoinBase() || in.TxPrev.IsCoinStake() {
		if in.TimeTx-in.TxPrev.Time < params.StakeMaturity {
			return nil, fmt.Errorf("check stake kernel hash: age %ds, maturity %ds: %w",
				in.TimeTx-in.TxPrev.Time, params.StakeMaturity, ErrImmatureStake)
		}
	}

	weight := params.Weight(in.TxPrev.Time, in.TimeTx)
	if weight < params.StakeMinAge {
		return nil, fmt.Errorf("check stake kernel hash: weight %ds, minimum %ds: %w",
			weight, params.StakeMinAge, ErrBelowMinimumAge)
	}

	proof := &KernelProof{
		Hash:   KernelHash(params, bits, in),
		Target: StakeTarget(params, bits, value, weight, in.TimeTx),
	}
	if blockchain.HashToBig(&proof.Hash).Cmp(proof.Target) > 0 {
		return proof, fmt.Errorf("check stake kernel hash: %w", ErrInsufficientWeight)
	}
	return proof, nil
}

// KernelHash returns the hash of the kernel data of in. From protocol v0.3
// on it starts with the stake modifier, before it with bits.
func KernelHash(params *Params, bits uint32, in KernelInput) chainhash.Hash {
	w := newHashWriter(8 + 5*4)
	if params.IsProtocolV03(in.TimeTx) {
		w.uint64(in.StakeModifier)
	} else {
		w.uint32(bits)
	}
	return w.uint32(uint32(in.BlockFrom.Timestamp)).
		uint32(in.TxPrevOffset).
		uint32(uint32(in.TxPrev.Time)).
		uint32(in.Outpoint.Index).
		uint32(uint32(in.TimeTx)).
		sum()
}

// CoinDayWeight converts an output value and its time weight into coin-days.
// From protocol v0.3 on only the age beyond StakeMinAge counts.
func CoinDayWeight(params *Params, value, weight, timeTx int64) *big.Int {
	if params.IsProtocolV03(timeTx) {
		weight -= params.StakeMinAge
	}
	w := new(big.Int).Mul(big.NewInt(value), big.NewInt(weight))
	w.Quo(w, big.NewInt(params.Coin))
	return w.Quo(w, big.NewInt(secondsPerDay))
}

// StakeTarget returns the personal target of an output: bits expanded and
// scaled by its coin-day weight, bounded to the hash space.
func StakeTarget(params *Params, bits uint32, value, weight, timeTx int64) *big.Int {
	target := blockchain.CompactToBig(bits)
	target.Mul(target, CoinDayWeight(params, value, weight, timeTx))
	if target.Cmp(maxTarget) > 0 {
		target.Set(maxTarget)
	}
	return target
}
