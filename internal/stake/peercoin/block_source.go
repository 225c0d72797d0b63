package peercoin

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/goodnatureofminers/stakekernel/internal/stake/chain"
	"github.com/goodnatureofminers/stakekernel/pkg/safe"
)

// getBlockVerbosity returns the block with decoded transactions.
const getBlockVerbosity = 2

// BlockSource implements chain.BlockSource against a peercoin node.
type BlockSource struct {
	rpc  RPCClient
	coin int64
}

// NewBlockSource creates a BlockSource. coin is the number of base units
// per coin of the network.
func NewBlockSource(rpc RPCClient, coin int64) *BlockSource {
	return &BlockSource{rpc: rpc, coin: coin}
}

// LatestHeight returns the latest block height from the node.
func (s *BlockSource) LatestHeight(_ context.Context) (uint64, error) {
	count, err := s.rpc.GetBlockCount()
	if err != nil {
		return 0, err
	}
	height, err := safe.Uint64(count)
	if err != nil {
		return 0, fmt.Errorf("block count overflow: %w", err)
	}
	return height, nil
}

// FetchBlock retrieves the block at height with its transactions and the
// node's own view of its stake metadata.
func (s *BlockSource) FetchBlock(ctx context.Context, height uint64) (*chain.SourceBlock, error) {
	chainHeight, err := safe.Int32(height)
	if err != nil {
		return nil, fmt.Errorf("block height exceeds chain limit: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	hash, err := s.rpc.GetBlockHash(int64(chainHeight))
	if err != nil {
		return nil, fmt.Errorf("get block hash at height %d: %w", height, err)
	}

	hashParam, err := json.Marshal(hash.String())
	if err != nil {
		return nil, fmt.Errorf("encode block hash: %w", err)
	}
	verbosityParam, err := json.Marshal(getBlockVerbosity)
	if err != nil {
		return nil, fmt.Errorf("encode verbosity: %w", err)
	}
	raw, err := s.rpc.RawRequest("getblock", []json.RawMessage{hashParam, verbosityParam})
	if err != nil {
		return nil, fmt.Errorf("get block %s: %w", hash, err)
	}

	var src blockResult
	if err := json.Unmarshal(raw, &src); err != nil {
		return nil, fmt.Errorf("decode block %s: %w", hash, err)
	}
	if src.Hash != hash.String() {
		return nil, fmt.Errorf("node returned block %s for hash %s", src.Hash, hash)
	}
	if src.Height != int64(chainHeight) {
		return nil, fmt.Errorf("node returned height %d for block %s at height %d", src.Height, hash, height)
	}

	return buildSourceBlock(&src, s.coin)
}
