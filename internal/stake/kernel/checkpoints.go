package kernel

import (
	"maps"
	"slices"

	"github.com/btcsuite/btcd/blockchain"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// Checkpoints is an immutable table of known stake modifier checksums by
// height. Entries are append-only across releases.
type Checkpoints struct {
	table map[int32]uint32
}

// NewCheckpoints copies table into a new registry.
func NewCheckpoints(table map[int32]uint32) *Checkpoints {
	return &Checkpoints{table: maps.Clone(table)}
}

// MainNetCheckpoints are the hard stake modifier checkpoints of the peercoin
// main network.
var MainNetCheckpoints = NewCheckpoints(map[int32]uint32{
	0:     0x0e00670b,
	19080: 0xad4e4d29,
	30583: 0xdc7bf136,
	99999: 0xf555cfd2,
})

// TestNetCheckpoints is empty: the test network has no checkpoints.
var TestNetCheckpoints = NewCheckpoints(nil)

// CheckpointsForNetwork returns the built-in table for a network name.
func CheckpointsForNetwork(network string) *Checkpoints {
	if network == MainNetParams.Name {
		return MainNetCheckpoints
	}
	return TestNetCheckpoints
}

// Check reports whether checksum is acceptable at height: heights without a
// checkpoint are unconstrained.
func (c *Checkpoints) Check(height int32, checksum uint32) bool {
	if c == nil {
		return true
	}
	expected, ok := c.table[height]
	if !ok {
		return true
	}
	return checksum == expected
}

// Lookup returns the checkpointed checksum at height, if any.
func (c *Checkpoints) Lookup(height int32) (uint32, bool) {
	if c == nil {
		return 0, false
	}
	v, ok := c.table[height]
	return v, ok
}

// Heights returns the checkpointed heights in ascending order.
func (c *Checkpoints) Heights() []int32 {
	if c == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(c.table))
}

// StakeModifierChecksum chains a block's flags, proof hash and stake modifier
// onto the checksum of its parent. prevChecksum is nil for the genesis block.
// The result is the top 32 bits of the double SHA-256, so any change in
// modifier history changes every later checksum.
func StakeModifierChecksum(prevChecksum *uint32, flags BlockFlags, hashProofOfStake *chainhash.Hash, stakeModifier uint64) uint32 {
	w := newHashWriter(4 + 4 + chainhash.HashSize + 8)
	if prevChecksum != nil {
		w.uint32(*prevChecksum)
	}
	w.uint32(uint32(flags)).hash(hashProofOfStake).uint64(stakeModifier)

	h := w.sum()
	n := blockchain.HashToBig(&h)
	return uint32(n.Rsh(n, 256-32).Uint64())
}

// BlockChecksum computes the checksum of block on top of parent, which is nil
// for the genesis block.
func BlockChecksum(parent, block *BlockRef) uint32 {
	var prev *uint32
	if parent != nil {
		prev = &parent.StakeModifierChecksum
	}
	return StakeModifierChecksum(prev, block.Flags, &block.HashProofOfStake, block.StakeModifier)
}
