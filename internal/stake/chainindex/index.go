// Package chainindex keeps the stake metadata of known blocks in an arena
// indexed by hash. Each node owns one write-once stake modifier cell.
package chainindex

import (
	"errors"
	"fmt"
	"sync"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goodnatureofminers/stakekernel/internal/stake/kernel"
)

var (
	// ErrUnknownBlock is returned for a hash the index does not hold.
	ErrUnknownBlock = errors.New("unknown block")
	// ErrOrphanBlock is returned when a block's parent is not indexed.
	ErrOrphanBlock = errors.New("parent block not indexed")
	// ErrDuplicateBlock is returned when a block is added twice.
	ErrDuplicateBlock = errors.New("block already indexed")
	// ErrModifierConflict is returned when a modifier cell that is already
	// written would receive a different value.
	ErrModifierConflict = errors.New("stake modifier already set to a different value")
)

const noNode = -1

type node struct {
	ref    kernel.BlockRef
	parent int
}

// Index is a block tree with a best chain. It is safe for concurrent use.
// Readers get value copies of nodes, so a view never observes a torn write.
type Index struct {
	mu     sync.RWMutex
	nodes  []node
	byHash map[chainhash.Hash]int
	// best holds the arena position of every best chain block by height.
	best []int
}

// New returns an empty index.
func New() *Index {
	return &Index{byHash: make(map[chainhash.Hash]int)}
}

// AddBlock indexes ref. The first block must be at height 0; every later
// block must extend an indexed parent at the height below it. A block that
// is higher than the current tip becomes the new tip.
func (i *Index) AddBlock(ref kernel.BlockRef) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if _, ok := i.byHash[ref.Hash]; ok {
		return fmt.Errorf("add block %s: %w", ref.Hash, ErrDuplicateBlock)
	}

	parent := noNode
	if ref.Height > 0 || len(i.nodes) > 0 {
		p, ok := i.byHash[ref.PrevHash]
		if !ok {
			return fmt.Errorf("add block %s at height %d: %w", ref.Hash, ref.Height, ErrOrphanBlock)
		}
		if i.nodes[p].ref.Height != ref.Height-1 {
			return fmt.Errorf("add block %s: height %d does not follow parent height %d",
				ref.Hash, ref.Height, i.nodes[p].ref.Height)
		}
		parent = p
	}

	pos := len(i.nodes)
	i.nodes = append(i.nodes, node{ref: ref, parent: parent})
	i.byHash[ref.Hash] = pos

	if int(ref.Height) >= len(i.best) {
		i.setBest(pos)
	}
	return nil
}

// setBest makes pos the tip and rewrites the best chain down to the fork
// point.
func (i *Index) setBest(pos int) {
	height := int(i.nodes[pos].ref.Height)
	i.best = append(i.best, make([]int, height+1-len(i.best))...)
	for p := pos; p != noNode; p = i.nodes[p].parent {
		h := i.nodes[p].ref.Height
		if i.best[h] == p && h != int32(height) {
			break
		}
		i.best[h] = p
	}
}

// SetStakeModifier writes the modifier cell of a block exactly once. Writing
// the same value again is a no-op; a different value is ErrModifierConflict.
func (i *Index) SetStakeModifier(hash *chainhash.Hash, modifier uint64, generated bool, checksum uint32) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	pos, ok := i.byHash[*hash]
	if !ok {
		return fmt.Errorf("set stake modifier %s: %w", hash, ErrUnknownBlock)
	}
	ref := &i.nodes[pos].ref
	if ref.ModifierSet {
		if ref.StakeModifier == modifier && ref.GeneratedStakeModifier() == generated && ref.StakeModifierChecksum == checksum {
			return nil
		}
		return fmt.Errorf("set stake modifier %s: have %s, got %s: %w",
			hash, kernel.FormatModifier(ref.StakeModifier), kernel.FormatModifier(modifier), ErrModifierConflict)
	}

	ref.StakeModifier = modifier
	ref.StakeModifierChecksum = checksum
	if generated {
		ref.Flags |= kernel.FlagStakeModifier
	} else {
		ref.Flags &^= kernel.FlagStakeModifier
	}
	ref.ModifierSet = true
	return nil
}

// BestChainTip returns a copy of the tip, or nil for an empty index.
func (i *Index) BestChainTip() *kernel.BlockRef {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if len(i.best) == 0 {
		return nil
	}
	return i.copyAt(i.best[len(i.best)-1])
}

// BlockByHash returns a copy of an indexed block.
func (i *Index) BlockByHash(hash *chainhash.Hash) (*kernel.BlockRef, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	pos, ok := i.byHash[*hash]
	if !ok {
		return nil, false
	}
	return i.copyAt(pos), true
}

// BlockByHeight returns a copy of the best chain block at height.
func (i *Index) BlockByHeight(height int32) (*kernel.BlockRef, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if height < 0 || int(height) >= len(i.best) {
		return nil, false
	}
	return i.copyAt(i.best[height]), true
}

// ChainHeight returns the best chain height, -1 when empty.
func (i *Index) ChainHeight() int32 {
	i.mu.RLock()
	defer i.mu.RUnlock()

	return int32(len(i.best)) - 1
}

// Len returns the number of indexed blocks, side branches included.
func (i *Index) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()

	return len(i.nodes)
}

func (i *Index) copyAt(pos int) *kernel.BlockRef {
	ref := i.nodes[pos].ref
	return &ref
}
