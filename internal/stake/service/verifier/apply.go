package verifier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/wire"
	"github.com/goodnatureofminers/stakekernel/internal/stake/chain"
	"github.com/goodnatureofminers/stakekernel/internal/stake/chainindex"
	"github.com/goodnatureofminers/stakekernel/internal/stake/kernel"
	"github.com/goodnatureofminers/stakekernel/internal/stake/model"
	"github.com/goodnatureofminers/stakekernel/pkg/workerpool"
	"go.uber.org/zap"
)

// fetchBlocks downloads blocks concurrently and returns them ordered by
// height.
func (s *VerifierService) fetchBlocks(ctx context.Context, heights []uint64) ([]*chain.SourceBlock, error) {
	return workerpool.Map(ctx, s.workerCount, heights, func(ctx context.Context, height uint64) (*chain.SourceBlock, error) {
		block, err := s.source.FetchBlock(ctx, height)
		if err != nil {
			return nil, fmt.Errorf("fetch block %d: %w", height, err)
		}
		return block, nil
	})
}

// applyBlock verifies block on top of the current tip and indexes it.
func (s *VerifierService) applyBlock(ctx context.Context, block *chain.SourceBlock) (err error) {
	started := time.Now()
	height := block.Ref.Height
	defer func() {
		if !errors.Is(err, errReorg) {
			s.metrics.ObserveApplyBlock(err, height, started)
		}
	}()

	index := s.index.Load()
	tip := index.BestChainTip()
	if tip != nil && block.Ref.PrevHash != tip.Hash {
		return s.rollback(ctx, tip, block)
	}

	ref := block.Ref
	params := s.validator.Params()
	nodeAgrees := true
	mismatch := func(field string, local, node any) {
		nodeAgrees = false
		s.metrics.ObserveNodeMismatch(field)
		s.logger.Warn("node disagrees with local stake metadata",
			zap.Int32("height", height),
			zap.String("hash", ref.Hash.String()),
			zap.String("field", field),
			zap.Any("local", local),
			zap.Any("node", node))
	}

	if params.IsProtocolV04(ref.Timestamp) {
		bit := kernel.StakeEntropyBit(&ref.Hash)
		if bit != block.Node.EntropyBit {
			mismatch("entropy_bit", bit, block.Node.EntropyBit)
		}
		if bit == 1 {
			ref.Flags |= kernel.FlagStakeEntropy
		} else {
			ref.Flags &^= kernel.FlagStakeEntropy
		}
	}

	var (
		proof     *kernel.KernelProof
		kernelOut *wire.OutPoint
	)
	if ref.IsProofOfStake() {
		coinStake := block.CoinStake()
		if coinStake == nil {
			s.kernelMetrics.ObserveKernelCheck(kernel.ErrMalformedCoinStake)
			return fmt.Errorf("%w: block %d: %w", ErrBlockRejected, height, kernel.ErrMalformedCoinStake)
		}
		resolver := chain.NewTransactionResolver(ctx, s.store, index)
		proof, err = s.validator.CheckProofOfStake(index, resolver, coinStake, ref.Bits, ref.Timestamp)
		s.kernelMetrics.ObserveKernelCheck(err)
		if err != nil {
			if kernel.IsRejection(err) {
				return fmt.Errorf("%w: block %d: %w", ErrBlockRejected, height, err)
			}
			return fmt.Errorf("check proof of stake of block %d: %w", height, err)
		}
		ref.HashProofOfStake = proof.Hash
		if proof.Hash != block.Node.HashProofOfStake {
			mismatch("proof_hash", proof.Hash.String(), block.Node.HashProofOfStake.String())
		}
		kernelOut = &coinStake.MsgTx.TxIn[0].PreviousOutPoint
	}

	modifier, generated, err := s.validator.Selector().ComputeNextStakeModifier(index, tip, ref.Timestamp)
	if err != nil {
		return fmt.Errorf("compute stake modifier of block %d: %w", height, err)
	}
	s.kernelMetrics.ObserveModifier(generated)
	ref.StakeModifier = modifier
	if generated {
		ref.Flags |= kernel.FlagStakeModifier
	} else {
		ref.Flags &^= kernel.FlagStakeModifier
	}

	ref.StakeModifierChecksum = kernel.BlockChecksum(tip, &ref)
	if !s.checkpoints.Check(height, ref.StakeModifierChecksum) {
		s.kernelMetrics.ObserveCheckpointRejection()
		want, _ := s.checkpoints.Lookup(height)
		return fmt.Errorf("block %d checksum %s, checkpoint %s: %w",
			height, kernel.FormatChecksum(ref.StakeModifierChecksum), kernel.FormatChecksum(want), kernel.ErrChecksumMismatch)
	}

	if ref.StakeModifier != block.Node.StakeModifier {
		mismatch("modifier", kernel.FormatModifier(ref.StakeModifier), kernel.FormatModifier(block.Node.StakeModifier))
	}
	if generated != block.Node.GeneratedModifier {
		mismatch("generated_modifier", generated, block.Node.GeneratedModifier)
	}
	if block.Node.HasChecksum && ref.StakeModifierChecksum != block.Node.ModifierChecksum {
		mismatch("checksum", kernel.FormatChecksum(ref.StakeModifierChecksum), kernel.FormatChecksum(block.Node.ModifierChecksum))
	}

	txs, err := txRecords(block)
	if err != nil {
		return err
	}
	if err := s.store.CommitBlock(ctx, chain.RecordFromRef(&ref), txs); err != nil {
		return fmt.Errorf("commit block %d: %w", height, err)
	}
	if err := indexBlock(index, ref); err != nil {
		return fmt.Errorf("index block %d: %w", height, err)
	}

	if int64(height) > s.exported {
		row := chain.StakeBlockFromRef(&ref, proof, kernelOut, nodeAgrees, s.coin, s.network, s.now())
		if err := s.writer.WriteBlock(ctx, row); err != nil {
			return fmt.Errorf("export block %d: %w", height, err)
		}
		s.exported = int64(height)
	}

	if generated {
		s.logger.Debug("generated stake modifier",
			zap.Int32("height", height),
			zap.String("modifier", kernel.FormatModifier(ref.StakeModifier)),
			zap.String("checksum", kernel.FormatChecksum(ref.StakeModifierChecksum)))
	}
	return nil
}

// indexBlock adds ref to the index with an empty modifier cell, then writes
// the cell once.
func indexBlock(index *chainindex.Index, ref kernel.BlockRef) error {
	node := ref
	node.StakeModifier = 0
	node.StakeModifierChecksum = 0
	node.Flags &^= kernel.FlagStakeModifier
	node.ModifierSet = false
	if err := index.AddBlock(node); err != nil {
		return err
	}
	return index.SetStakeModifier(&ref.Hash, ref.StakeModifier, ref.GeneratedStakeModifier(), ref.StakeModifierChecksum)
}

func txRecords(block *chain.SourceBlock) ([]model.TxRecord, error) {
	if len(block.TxOffsets) != len(block.Txs) {
		return nil, fmt.Errorf("block %d: %d transactions but %d offsets",
			block.Ref.Height, len(block.Txs), len(block.TxOffsets))
	}
	records := make([]model.TxRecord, 0, len(block.Txs))
	for i, tx := range block.Txs {
		rec, err := chain.TxRecordFromTx(tx, &block.Ref.Hash, block.TxOffsets[i])
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// rollback drops the local tip when the node's next block does not extend
// it. The next iteration refetches from the new tip, walking back one block
// at a time until the branches meet.
func (s *VerifierService) rollback(ctx context.Context, tip *kernel.BlockRef, block *chain.SourceBlock) error {
	s.logger.Warn("reorganization detected, rolling back tip",
		zap.Int32("tipHeight", tip.Height),
		zap.String("tipHash", tip.Hash.String()),
		zap.String("nodePrevHash", block.Ref.PrevHash.String()))

	if err := s.rewind(ctx, tip.Height-1); err != nil {
		return err
	}
	s.metrics.ObserveReorg()
	if s.exported >= int64(tip.Height) {
		s.exported = int64(tip.Height) - 1
	}
	return errReorg
}
