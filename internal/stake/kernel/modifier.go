package kernel

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math/big"
	"sort"
	"time"

	"github.com/btcsuite/btcd/blockchain"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"go.uber.org/zap"
)

// Stake modifier (hash modifier of proof-of-stake):
// The modifier stops a coin owner from computing, at the time the coin is
// confirmed, the future proof-of-stake that coin will generate. The kernel
// must hash with a modifier that did not exist yet when the coin was mined.
// Each of the 64 modifier bits is the entropy bit of one block selected from
// a past selection window; the selection depends on the block proof hashes
// and the previous modifier. The modifier is regenerated once per fixed time
// interval rather than per block, which makes it hard for an attacker to
// gain control of additional bits even after building a chain of blocks.

// ModifierSelector derives stake modifiers from chain history.
type ModifierSelector struct {
	params *Params
	logger *zap.Logger
}

// NewModifierSelector builds a selector for params.
func NewModifierSelector(params *Params, logger *zap.Logger) *ModifierSelector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ModifierSelector{params: params, logger: logger}
}

// SelectionIntervalSection returns the length in seconds of selection
// section n, 0 <= n < 64.
func (p *Params) SelectionIntervalSection(n int) int64 {
	last := int64(modifierSections - 1)
	return p.ModifierInterval * last / (last + (last-int64(n))*(p.ModifierIntervalRatio-1))
}

// SelectionInterval returns the total length of the selection window.
func (p *Params) SelectionInterval() int64 {
	var total int64
	for n := 0; n < modifierSections; n++ {
		total += p.SelectionIntervalSection(n)
	}
	return total
}

// StakeEntropyBit returns the entropy bit a block contributes to a stake
// modifier: the lowest bit of its hash read as a 256-bit integer.
func StakeEntropyBit(hash *chainhash.Hash) uint32 {
	return uint32(hash[0] & 1)
}

// ComputeNextStakeModifier returns the stake modifier for the block that
// extends prev at blockTime. generated is false when no new modifier
// interval has been entered; the inherited modifier is returned then.
// prev is nil for the genesis block, whose modifier is 0.
func (s *ModifierSelector) ComputeNextStakeModifier(view ChainView, prev *BlockRef, blockTime int64) (modifier uint64, generated bool, err error) {
	if prev == nil {
		return 0, true, nil
	}

	modifier, modifierTime, err := lastStakeModifier(view, prev)
	if err != nil {
		return 0, false, fmt.Errorf("compute next stake modifier: %w", err)
	}

	interval := s.params.ModifierInterval
	if modifierTime/interval >= prev.Timestamp/interval {
		s.logger.Debug("no new interval, keeping current modifier",
			zap.Int32("prev_height", prev.Height),
			zap.Int64("prev_time", prev.Timestamp))
		return modifier, false, nil
	}
	if modifierTime/interval >= blockTime/interval && s.params.IsProtocolV04(blockTime) {
		s.logger.Debug("block still in modifier interval, keeping current modifier",
			zap.Int32("height", prev.Height+1),
			zap.Int64("block_time", blockTime))
		return modifier, false, nil
	}

	selectionInterval := s.params.SelectionInterval()
	selectionStart := (prev.Timestamp/interval)*interval - selectionInterval

	candidates, err := collectCandidates(view, prev, selectionStart)
	if err != nil {
		return 0, false, fmt.Errorf("compute next stake modifier: %w", err)
	}

	selected := make([]bool, len(candidates))
	var next uint64
	stop := selectionStart
	rounds := min(modifierSections, len(candidates))
	for round := 0; round < rounds; round++ {
		stop += s.params.SelectionIntervalSection(round)
		i := selectBlock(candidates, selected, stop, modifier)
		selected[i] = true
		next |= candidates[i].StakeEntropyBit() << uint(round)

		s.logger.Debug("selected modifier block",
			zap.Int("round", round),
			zap.String("stop", formatTime(stop)),
			zap.Int32("height", candidates[i].Height),
			zap.Uint64("bit", candidates[i].StakeEntropyBit()),
			zap.String("modifier", FormatModifier(next)))
	}

	s.logger.Debug("generated stake modifier",
		zap.String("modifier", FormatModifier(next)),
		zap.Int32("height", prev.Height+1),
		zap.String("prev_time", formatTime(prev.Timestamp)))

	return next, true, nil
}

// GetKernelStakeModifier returns the stake modifier a kernel created at
// timeTx from an output in blockFrom must hash with, and the block it was
// read from. Both lookups run on the view's best chain.
//
// From protocol v0.5 on it is the modifier in effect roughly one selection
// interval before the coin reaches its minimum age, found walking back from
// the tip. Before it is the first modifier generated at least one selection
// interval after blockFrom, found walking forward from blockFrom.
func (s *ModifierSelector) GetKernelStakeModifier(view ChainView, blockFrom *BlockRef, timeTx int64) (uint64, *BlockRef, error) {
	if s.params.IsProtocolV05(timeTx) {
		return s.modifierBeforeTip(view, timeTx)
	}
	return s.modifierAfterBlock(view, blockFrom)
}

func (s *ModifierSelector) modifierBeforeTip(view ChainView, timeTx int64) (uint64, *BlockRef, error) {
	tip := view.BestChainTip()
	if tip == nil {
		return 0, nil, fmt.Errorf("get kernel stake modifier: empty chain: %w", ErrModifierUnavailable)
	}

	offset := s.params.StakeMinAge - s.params.SelectionInterval()
	modifierTime := tip.Timestamp
	if modifierTime+offset <= timeTx {
		return 0, nil, fmt.Errorf("get kernel stake modifier: best block %s at height %d too old for stake at %d: %w",
			tip.Hash, tip.Height, timeTx, ErrModifierUnavailable)
	}

	ref := tip
	for modifierTime+offset > timeTx {
		if ref.Height == 0 {
			return 0, nil, fmt.Errorf("get kernel stake modifier: reached genesis block: %w", ErrModifierUnavailable)
		}
		parent, ok := view.BlockByHash(&ref.PrevHash)
		if !ok {
			return 0, nil, fmt.Errorf("get kernel stake modifier: parent %s of %s: %w", ref.PrevHash, ref.Hash, ErrMissingHistory)
		}
		ref = parent
		if ref.GeneratedStakeModifier() {
			modifierTime = ref.Timestamp
		}
	}
	return modifierOf(ref)
}

func (s *ModifierSelector) modifierAfterBlock(view ChainView, blockFrom *BlockRef) (uint64, *BlockRef, error) {
	tip := view.BestChainTip()
	if tip == nil || blockFrom == nil {
		return 0, nil, fmt.Errorf("get kernel stake modifier: empty chain: %w", ErrModifierUnavailable)
	}

	// best chain from the tip down to blockFrom, collected tip first
	var path []*BlockRef
	ref := tip
	for ref.Height > blockFrom.Height {
		path = append(path, ref)
		parent, ok := view.BlockByHash(&ref.PrevHash)
		if !ok {
			return 0, nil, fmt.Errorf("get kernel stake modifier: parent %s of %s: %w", ref.PrevHash, ref.Hash, ErrMissingHistory)
		}
		ref = parent
	}
	if ref.Hash != blockFrom.Hash {
		return 0, nil, fmt.Errorf("get kernel stake modifier: block %s at height %d is not on the best chain: %w",
			blockFrom.Hash, blockFrom.Height, ErrModifierUnavailable)
	}

	selectionEnd := ref.Timestamp + s.params.SelectionInterval()
	modifierTime := ref.Timestamp
	for next := len(path) - 1; modifierTime < selectionEnd; next-- {
		if next < 0 {
			return 0, nil, fmt.Errorf("get kernel stake modifier: reached best block %s at height %d from block %s: %w",
				tip.Hash, tip.Height, blockFrom.Hash, ErrModifierUnavailable)
		}
		ref = path[next]
		if ref.GeneratedStakeModifier() {
			modifierTime = ref.Timestamp
		}
	}
	return modifierOf(ref)
}

func modifierOf(ref *BlockRef) (uint64, *BlockRef, error) {
	if !ref.ModifierSet {
		return 0, nil, fmt.Errorf("get kernel stake modifier: block %s at height %d has no modifier: %w",
			ref.Hash, ref.Height, ErrModifierUnavailable)
	}
	return ref.StakeModifier, ref, nil
}

// lastStakeModifier walks back from ref to the last block that generated a
// modifier and returns that modifier and the block time.
func lastStakeModifier(view ChainView, ref *BlockRef) (uint64, int64, error) {
	for !ref.GeneratedStakeModifier() && ref.Height > 0 {
		parent, ok := view.BlockByHash(&ref.PrevHash)
		if !ok {
			return 0, 0, fmt.Errorf("last stake modifier: parent %s of %s: %w", ref.PrevHash, ref.Hash, ErrMissingHistory)
		}
		ref = parent
	}
	if !ref.GeneratedStakeModifier() {
		return 0, 0, fmt.Errorf("last stake modifier: no generation at genesis block: %w", ErrMissingHistory)
	}
	return ref.StakeModifier, ref.Timestamp, nil
}

// collectCandidates returns prev and its ancestors with a timestamp at or
// after start, sorted by timestamp and then by hash.
func collectCandidates(view ChainView, prev *BlockRef, start int64) ([]*BlockRef, error) {
	var candidates []*BlockRef
	ref := prev
	for ref.Timestamp >= start {
		candidates = append(candidates, ref)
		if ref.Height == 0 {
			break
		}
		parent, ok := view.BlockByHash(&ref.PrevHash)
		if !ok {
			return nil, fmt.Errorf("candidate parent %s of %s: %w", ref.PrevHash, ref.Hash, ErrMissingHistory)
		}
		ref = parent
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Timestamp != b.Timestamp {
			return a.Timestamp < b.Timestamp
		}
		return compareHashes(&a.Hash, &b.Hash) < 0
	})
	return candidates, nil
}

// selectBlock picks, among the unselected candidates up to stop, the one with
// the lowest selection hash. The first unselected candidate is eligible even
// past stop so that every round selects a block.
func selectBlock(candidates []*BlockRef, selected []bool, stop int64, prevModifier uint64) int {
	best := -1
	var bestHash *big.Int
	for i, c := range candidates {
		if best >= 0 && c.Timestamp > stop {
			break
		}
		if selected[i] {
			continue
		}
		h := selectionHash(c, prevModifier)
		if best < 0 || h.Cmp(bestHash) < 0 {
			best = i
			bestHash = h
		}
	}
	return best
}

// selectionHash hashes a candidate's proof hash with the previous modifier.
// Proof-of-stake selection hashes are divided by 2^32 so that proof-of-stake
// blocks are always favoured over proof-of-work blocks. The flag stands in for
// a non-zero HashProofOfStake; every BlockRef source keeps the two in step.
func selectionHash(c *BlockRef, prevModifier uint64) *big.Int {
	proof := c.Hash
	if c.IsProofOfStake() {
		proof = c.HashProofOfStake
	}
	h := newHashWriter(chainhash.HashSize + 8).hash(&proof).uint64(prevModifier).sum()
	n := blockchain.HashToBig(&h)
	if c.IsProofOfStake() {
		n.Rsh(n, 32)
	}
	return n
}

// compareHashes compares two hashes as little-endian 256-bit integers.
func compareHashes(a, b *chainhash.Hash) int {
	for k := chainhash.HashSize - 1; k >= 0; k-- {
		switch {
		case a[k] < b[k]:
			return -1
		case a[k] > b[k]:
			return 1
		}
	}
	return 0
}

// FormatModifier renders a stake modifier as 16 hex digits.
func FormatModifier(modifier uint64) string {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], modifier)
	return hex.EncodeToString(b[:])
}

// FormatChecksum renders a stake modifier checksum as 8 hex digits.
func FormatChecksum(checksum uint32) string {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], checksum)
	return hex.EncodeToString(b[:])
}

func formatTime(t int64) string {
	return time.Unix(t, 0).UTC().Format(time.RFC3339)
}
