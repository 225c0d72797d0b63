package kernel

import (
	"encoding/binary"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"go.uber.org/zap"
)

const (
	testGenesisTime int64  = 600_000
	testBits        uint32 = 0x1d00ffff
)

var testParams = Params{
	Name:                  "unittest",
	ModifierInterval:      60,
	ModifierIntervalRatio: 3,
	StakeMinAge:           7200,
	StakeMaxAge:           4 * 7200,
	StakeMaturity:         600,
	Coin:                  1_000_000,
	ProtocolV03SwitchTime: 0,
	ProtocolV04SwitchTime: 0,
}

// testChain is an in-memory ChainView whose blocks get their modifiers from
// a ModifierSelector as they are appended.
type testChain struct {
	t        *testing.T
	selector *ModifierSelector
	blocks   []*BlockRef
	byHash   map[chainhash.Hash]*BlockRef
	tip      *BlockRef
}

func newTestChain(t *testing.T, params *Params) *testChain {
	t.Helper()
	return &testChain{
		t:        t,
		selector: NewModifierSelector(params, zap.NewNop()),
		byHash:   make(map[chainhash.Hash]*BlockRef),
	}
}

func (c *testChain) BestChainTip() *BlockRef {
	return c.tip
}

func (c *testChain) BlockByHash(hash *chainhash.Hash) (*BlockRef, bool) {
	b, ok := c.byHash[*hash]
	return b, ok
}

func (c *testChain) ChainHeight() int32 {
	if c.tip == nil {
		return -1
	}
	return c.tip.Height
}

// extend appends a block at ts on top of the current tip.
func (c *testChain) extend(ts int64, pos bool) *BlockRef {
	c.t.Helper()

	prev := c.tip
	b := &BlockRef{Timestamp: ts, Bits: testBits}
	if prev != nil {
		b.Height = prev.Height + 1
		b.PrevHash = prev.Hash
	}
	b.Hash = testHash(b.Height, 0)
	if pos {
		b.Flags |= FlagProofOfStake
		b.HashProofOfStake = testHash(b.Height, 1)
	}
	if StakeEntropyBit(&b.Hash) == 1 {
		b.Flags |= FlagStakeEntropy
	}

	modifier, generated, err := c.selector.ComputeNextStakeModifier(c, prev, ts)
	if err != nil {
		c.t.Fatalf("ComputeNextStakeModifier() at height %d error = %v", b.Height, err)
	}
	b.StakeModifier = modifier
	b.ModifierSet = true
	if generated {
		b.Flags |= FlagStakeModifier
	}
	b.StakeModifierChecksum = BlockChecksum(prev, b)

	c.blocks = append(c.blocks, b)
	c.byHash[b.Hash] = b
	c.tip = b
	return b
}

// build appends count blocks spaced by spacing seconds, every third one
// proof-of-stake.
func (c *testChain) build(count int, spacing int64) *testChain {
	c.t.Helper()
	ts := testGenesisTime
	if c.tip != nil {
		ts = c.tip.Timestamp + spacing
	}
	for i := 0; i < count; i++ {
		c.extend(ts, i%3 == 2)
		ts += spacing
	}
	return c
}

func testHash(height int32, salt byte) chainhash.Hash {
	var b [5]byte
	binary.LittleEndian.PutUint32(b[:4], uint32(height))
	b[4] = salt
	return chainhash.DoubleHashH(b[:])
}

func testTx(ts int64, values ...int64) *Tx {
	msg := wire.NewMsgTx(1)
	msg.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&chainhash.Hash{1}, 0), nil, nil))
	for _, v := range values {
		msg.AddTxOut(wire.NewTxOut(v, []byte{0x51}))
	}
	return &Tx{Hash: msg.TxHash(), Time: ts, MsgTx: msg}
}

func testCoinBase(ts int64, value int64) *Tx {
	msg := wire.NewMsgTx(1)
	msg.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&chainhash.Hash{}, wire.MaxPrevOutIndex), []byte{0x01, 0x02}, nil))
	msg.AddTxOut(wire.NewTxOut(value, []byte{0x51}))
	return &Tx{Hash: msg.TxHash(), Time: ts, MsgTx: msg}
}

func testCoinStake(ts int64, kernel wire.OutPoint, value int64) *Tx {
	msg := wire.NewMsgTx(1)
	msg.AddTxIn(wire.NewTxIn(&kernel, nil, nil))
	msg.AddTxOut(wire.NewTxOut(0, nil))
	msg.AddTxOut(wire.NewTxOut(value, []byte{0x51}))
	return &Tx{Hash: msg.TxHash(), Time: ts, MsgTx: msg}
}

// testTxView resolves outpoints from a fixed table.
type testTxView map[wire.OutPoint]*PrevOut

func (v testTxView) TransactionByOutpoint(outpoint wire.OutPoint) (*PrevOut, error) {
	return v[outpoint], nil
}
