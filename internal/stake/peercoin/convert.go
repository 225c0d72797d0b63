package peercoin

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/goodnatureofminers/stakekernel/internal/stake/chain"
	"github.com/goodnatureofminers/stakekernel/internal/stake/kernel"
	"github.com/goodnatureofminers/stakekernel/pkg/safe"
)

const (
	blockHeaderSize = 80
	// txTimeSize is the transaction timestamp field peercoin serializes
	// after the version and wire.MsgTx does not.
	txTimeSize = 4

	flagProofOfStake  = "proof-of-stake"
	flagStakeModifier = "stake-modifier"
)

// buildSourceBlock converts a verbose getblock reply into a source block.
// coin is the number of base units per coin.
func buildSourceBlock(src *blockResult, coin int64) (*chain.SourceBlock, error) {
	height, err := safe.Int32(src.Height)
	if err != nil {
		return nil, fmt.Errorf("block %s height overflow: %w", src.Hash, err)
	}

	hash, err := chainhash.NewHashFromStr(src.Hash)
	if err != nil {
		return nil, fmt.Errorf("decode block hash %q: %w", src.Hash, err)
	}
	var prevHash chainhash.Hash
	if src.PreviousBlockHash != "" {
		p, err := chainhash.NewHashFromStr(src.PreviousBlockHash)
		if err != nil {
			return nil, fmt.Errorf("decode block %s parent hash: %w", src.Hash, err)
		}
		prevHash = *p
	}

	bits, err := strconv.ParseUint(src.Bits, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("decode block %s bits %q: %w", src.Hash, src.Bits, err)
	}

	node, err := nodeStakeInfo(src, coin)
	if err != nil {
		return nil, err
	}

	var flags kernel.BlockFlags
	if hasFlag(src.Flags, flagProofOfStake) {
		flags |= kernel.FlagProofOfStake
	}
	if node.EntropyBit != 0 {
		flags |= kernel.FlagStakeEntropy
	}

	ref := kernel.BlockRef{
		Hash:      *hash,
		PrevHash:  prevHash,
		Height:    height,
		Timestamp: src.Time,
		Bits:      uint32(bits),
		Flags:     flags,
	}
	if ref.IsProofOfStake() {
		ref.HashProofOfStake = node.HashProofOfStake
	}

	txs := make([]*kernel.Tx, 0, len(src.Tx))
	offsets := make([]uint32, 0, len(src.Tx))
	offset := uint64(blockHeaderSize + wire.VarIntSerializeSize(uint64(len(src.Tx))))
	for i := range src.Tx {
		tx, err := buildTx(&src.Tx[i], coin)
		if err != nil {
			return nil, fmt.Errorf("block %s: %w", src.Hash, err)
		}
		txOffset, err := safe.Uint32(offset)
		if err != nil {
			return nil, fmt.Errorf("block %s tx %s offset overflow: %w", src.Hash, tx.Hash, err)
		}
		txs = append(txs, tx)
		offsets = append(offsets, txOffset)
		offset += txSize(&src.Tx[i], tx)
	}

	return &chain.SourceBlock{
		Ref:       ref,
		Txs:       txs,
		TxOffsets: offsets,
		Node:      node,
	}, nil
}

func nodeStakeInfo(src *blockResult, coin int64) (chain.NodeStakeInfo, error) {
	info := chain.NodeStakeInfo{
		GeneratedModifier: hasFlag(src.Flags, flagStakeModifier),
		EntropyBit:        src.EntropyBit,
	}

	if src.Modifier != "" {
		m, err := strconv.ParseUint(src.Modifier, 16, 64)
		if err != nil {
			return info, fmt.Errorf("decode block %s modifier %q: %w", src.Hash, src.Modifier, err)
		}
		info.StakeModifier = m
	}
	if src.ModifierChecksum != "" {
		c, err := strconv.ParseUint(src.ModifierChecksum, 16, 32)
		if err != nil {
			return info, fmt.Errorf("decode block %s modifier checksum %q: %w", src.Hash, src.ModifierChecksum, err)
		}
		info.ModifierChecksum = uint32(c)
		info.HasChecksum = true
	}
	if src.ProofHash != "" {
		h, err := chainhash.NewHashFromStr(src.ProofHash)
		if err != nil {
			return info, fmt.Errorf("decode block %s proof hash: %w", src.Hash, err)
		}
		info.HashProofOfStake = *h
	}

	mint, err := toBaseUnits(src.Mint, coin)
	if err != nil {
		return info, fmt.Errorf("block %s mint: %w", src.Hash, err)
	}
	info.Mint = mint
	return info, nil
}

func buildTx(src *txResult, coin int64) (*kernel.Tx, error) {
	hash, err := chainhash.NewHashFromStr(src.Txid)
	if err != nil {
		return nil, fmt.Errorf("decode txid %q: %w", src.Txid, err)
	}

	msgTx := wire.NewMsgTx(src.Version)
	msgTx.LockTime = src.LockTime

	for i, in := range src.Vin {
		txIn, err := buildTxIn(in)
		if err != nil {
			return nil, fmt.Errorf("tx %s input %d: %w", src.Txid, i, err)
		}
		msgTx.AddTxIn(txIn)
	}
	for _, out := range src.Vout {
		script, err := hex.DecodeString(out.ScriptPubKey.Hex)
		if err != nil {
			return nil, fmt.Errorf("tx %s output %d script: %w", src.Txid, out.N, err)
		}
		value, err := toBaseUnits(out.Value, coin)
		if err != nil {
			return nil, fmt.Errorf("tx %s output %d value: %w", src.Txid, out.N, err)
		}
		msgTx.AddTxOut(wire.NewTxOut(value, script))
	}

	return &kernel.Tx{Hash: *hash, Time: src.Time, MsgTx: msgTx}, nil
}

func buildTxIn(in vinResult) (*wire.TxIn, error) {
	if in.Coinbase != "" {
		script, err := hex.DecodeString(in.Coinbase)
		if err != nil {
			return nil, fmt.Errorf("coinbase script: %w", err)
		}
		prev := wire.NewOutPoint(&chainhash.Hash{}, wire.MaxPrevOutIndex)
		txIn := wire.NewTxIn(prev, script, nil)
		txIn.Sequence = in.Sequence
		return txIn, nil
	}

	prevHash, err := chainhash.NewHashFromStr(in.Txid)
	if err != nil {
		return nil, fmt.Errorf("decode prev txid %q: %w", in.Txid, err)
	}
	var script []byte
	if in.ScriptSig != nil {
		if script, err = hex.DecodeString(in.ScriptSig.Hex); err != nil {
			return nil, fmt.Errorf("signature script: %w", err)
		}
	}
	txIn := wire.NewTxIn(wire.NewOutPoint(prevHash, in.Vout), script, nil)
	txIn.Sequence = in.Sequence
	return txIn, nil
}

// txSize is the size of the transaction inside the serialized block. The
// node reported size wins; the fallback adds the timestamp field to the
// wire size.
func txSize(src *txResult, tx *kernel.Tx) uint64 {
	if src.Size > 0 {
		return uint64(src.Size)
	}
	size := uint64(tx.MsgTx.SerializeSizeStripped())
	if src.Time != 0 {
		size += txTimeSize
	}
	return size
}

// toBaseUnits converts a JSON coin amount into base units. btcutil rounds
// to 1e-8 which is finer than any peercoin unit.
func toBaseUnits(value float64, coin int64) (int64, error) {
	amount, err := btcutil.NewAmount(value)
	if err != nil {
		return 0, err
	}
	if coin <= 0 || btcutil.SatoshiPerBitcoin%coin != 0 {
		return 0, fmt.Errorf("unsupported coin unit %d", coin)
	}
	return int64(amount) / (btcutil.SatoshiPerBitcoin / coin), nil
}

func hasFlag(flags, flag string) bool {
	for _, f := range strings.Fields(flags) {
		if f == flag {
			return true
		}
	}
	return false
}
