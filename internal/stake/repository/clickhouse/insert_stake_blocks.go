package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/stakekernel/internal/stake/model"
)

const insertStakeBlocksQuery = `
INSERT INTO stake_blocks (
	coin,
	network,
	height,
	hash,
	prev_hash,
	timestamp,
	bits,
	proof_of_stake,
	entropy_bit,
	generated_modifier,
	stake_modifier,
	modifier_checksum,
	hash_proof_of_stake,
	target_proof_of_stake,
	kernel_txid,
	kernel_vout,
	node_agrees,
	verified_at
) VALUES`

// InsertStakeBlocks stores verified stake block rows.
func (r *Repository) InsertStakeBlocks(ctx context.Context, blocks []model.StakeBlock) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("insert_stake_blocks", firstCoin(blocks), firstNetwork(blocks), err, start)
	}()

	if len(blocks) == 0 {
		return nil
	}

	batch, err := r.conn.PrepareBatch(ctx, insertStakeBlocksQuery)
	if err != nil {
		return fmt.Errorf("prepare stake blocks batch: %w", err)
	}

	for _, block := range blocks {
		if err = batch.Append(
			string(block.Coin),
			string(block.Network),
			block.Height,
			block.Hash,
			block.PrevHash,
			block.Timestamp,
			block.Bits,
			block.ProofOfStake,
			block.EntropyBit,
			block.GeneratedModifier,
			block.StakeModifier,
			block.ModifierChecksum,
			block.HashProofOfStake,
			block.TargetProofOfStake,
			block.KernelTxID,
			block.KernelVout,
			block.NodeAgrees,
			block.VerifiedAt,
		); err != nil {
			_ = batch.Abort()
			return fmt.Errorf("append stake block %d: %w", block.Height, err)
		}
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert stake blocks: %w", err)
	}
	return nil
}

func firstCoin(blocks []model.StakeBlock) model.Coin {
	if len(blocks) == 0 {
		return ""
	}
	return blocks[0].Coin
}

func firstNetwork(blocks []model.StakeBlock) model.Network {
	if len(blocks) == 0 {
		return ""
	}
	return blocks[0].Network
}
