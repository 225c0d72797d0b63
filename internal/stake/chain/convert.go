package chain

import (
	"bytes"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/goodnatureofminers/stakekernel/internal/stake/kernel"
	"github.com/goodnatureofminers/stakekernel/internal/stake/model"
)

// RecordFromRef converts indexed stake metadata to its persisted form.
func RecordFromRef(ref *kernel.BlockRef) model.BlockRecord {
	return model.BlockRecord{
		Hash:                  ref.Hash.String(),
		PrevHash:              ref.PrevHash.String(),
		Height:                ref.Height,
		Timestamp:             ref.Timestamp,
		Bits:                  ref.Bits,
		Flags:                 uint32(ref.Flags),
		HashProofOfStake:      ref.HashProofOfStake.String(),
		StakeModifier:         ref.StakeModifier,
		StakeModifierChecksum: ref.StakeModifierChecksum,
	}
}

// RefFromRecord restores indexed stake metadata. Only blocks whose
// modifier was set are ever persisted. A record whose proof-of-stake flag
// disagrees with its proof hash is rejected.
func RefFromRecord(rec model.BlockRecord) (kernel.BlockRef, error) {
	ref := kernel.BlockRef{
		Height:                rec.Height,
		Timestamp:             rec.Timestamp,
		Bits:                  rec.Bits,
		Flags:                 kernel.BlockFlags(rec.Flags),
		StakeModifier:         rec.StakeModifier,
		StakeModifierChecksum: rec.StakeModifierChecksum,
		ModifierSet:           true,
	}
	for _, f := range []struct {
		dst *chainhash.Hash
		src string
	}{
		{&ref.Hash, rec.Hash},
		{&ref.PrevHash, rec.PrevHash},
		{&ref.HashProofOfStake, rec.HashProofOfStake},
	} {
		h, err := chainhash.NewHashFromStr(f.src)
		if err != nil {
			return kernel.BlockRef{}, fmt.Errorf("decode block record %d: %w", rec.Height, err)
		}
		*f.dst = *h
	}
	// modifier selection tells proof-of-stake blocks apart by the flag, so
	// the flag and the proof hash must agree
	if ref.IsProofOfStake() == (ref.HashProofOfStake == chainhash.Hash{}) {
		return kernel.BlockRef{}, fmt.Errorf("decode block record %d: proof-of-stake flag %v with proof hash %s",
			rec.Height, ref.IsProofOfStake(), ref.HashProofOfStake)
	}
	return ref, nil
}

// TxRecordFromTx converts a transaction into its persisted form.
func TxRecordFromTx(tx *kernel.Tx, blockHash *chainhash.Hash, offset uint32) (model.TxRecord, error) {
	var buf bytes.Buffer
	buf.Grow(tx.MsgTx.SerializeSize())
	if err := tx.MsgTx.Serialize(&buf); err != nil {
		return model.TxRecord{}, fmt.Errorf("serialize tx %s: %w", tx.Hash, err)
	}
	return model.TxRecord{
		TxID:      tx.Hash.String(),
		Time:      tx.Time,
		BlockHash: blockHash.String(),
		TxOffset:  offset,
		Raw:       buf.Bytes(),
	}, nil
}

// TxFromRecord restores a persisted transaction.
func TxFromRecord(rec model.TxRecord) (*kernel.Tx, error) {
	hash, err := chainhash.NewHashFromStr(rec.TxID)
	if err != nil {
		return nil, fmt.Errorf("decode tx record: %w", err)
	}
	msgTx := new(wire.MsgTx)
	if err := msgTx.Deserialize(bytes.NewReader(rec.Raw)); err != nil {
		return nil, fmt.Errorf("deserialize tx %s: %w", rec.TxID, err)
	}
	return &kernel.Tx{Hash: *hash, Time: rec.Time, MsgTx: msgTx}, nil
}

// StakeBlockFromRef builds the export row of a verified block. proof and
// kernelOut are nil for proof-of-work blocks.
func StakeBlockFromRef(
	ref *kernel.BlockRef,
	proof *kernel.KernelProof,
	kernelOut *wire.OutPoint,
	nodeAgrees bool,
	coin model.Coin,
	network model.Network,
	verifiedAt time.Time,
) model.StakeBlock {
	row := model.StakeBlock{
		Coin:              coin,
		Network:           network,
		Height:            uint64(ref.Height),
		Hash:              ref.Hash.String(),
		PrevHash:          ref.PrevHash.String(),
		Timestamp:         time.Unix(ref.Timestamp, 0).UTC(),
		Bits:              ref.Bits,
		ProofOfStake:      ref.IsProofOfStake(),
		EntropyBit:        uint8(ref.StakeEntropyBit()),
		GeneratedModifier: ref.GeneratedStakeModifier(),
		StakeModifier:     ref.StakeModifier,
		ModifierChecksum:  ref.StakeModifierChecksum,
		HashProofOfStake:  ref.HashProofOfStake.String(),
		NodeAgrees:        nodeAgrees,
		VerifiedAt:        verifiedAt.UTC(),
	}
	if proof != nil {
		row.TargetProofOfStake = fmt.Sprintf("%064x", proof.Target)
	}
	if kernelOut != nil {
		row.KernelTxID = kernelOut.Hash.String()
		row.KernelVout = kernelOut.Index
	}
	return row
}
