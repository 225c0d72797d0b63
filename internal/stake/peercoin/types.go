package peercoin

import (
	"encoding/json"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

// RPCClient is the node RPC surface the block source needs.
type RPCClient interface {
	GetBlockCount() (int64, error)
	GetBlockHash(blockHeight int64) (*chainhash.Hash, error)
	RawRequest(method string, params []json.RawMessage) (json.RawMessage, error)
}

// blockResult is the getblock reply at verbosity 2. Peercoin adds the stake
// fields to the bitcoin reply.
type blockResult struct {
	Hash              string     `json:"hash"`
	Height            int64      `json:"height"`
	PreviousBlockHash string     `json:"previousblockhash"`
	Time              int64      `json:"time"`
	Bits              string     `json:"bits"`
	Mint              float64    `json:"mint"`
	Flags             string     `json:"flags"`
	ProofHash         string     `json:"proofhash"`
	EntropyBit        uint32     `json:"entropybit"`
	Modifier          string     `json:"modifier"`
	ModifierChecksum  string     `json:"modifierchecksum"`
	Tx                []txResult `json:"tx"`
}

type txResult struct {
	Txid     string       `json:"txid"`
	Version  int32        `json:"version"`
	Time     int64        `json:"time"`
	LockTime uint32       `json:"locktime"`
	Size     int64        `json:"size"`
	Vin      []vinResult  `json:"vin"`
	Vout     []voutResult `json:"vout"`
}

type vinResult struct {
	Coinbase  string     `json:"coinbase"`
	Txid      string     `json:"txid"`
	Vout      uint32     `json:"vout"`
	ScriptSig *scriptSig `json:"scriptSig"`
	Sequence  uint32     `json:"sequence"`
}

type scriptSig struct {
	Hex string `json:"hex"`
}

type voutResult struct {
	Value        float64      `json:"value"`
	N            uint32       `json:"n"`
	ScriptPubKey scriptPubKey `json:"scriptPubKey"`
}

type scriptPubKey struct {
	Hex string `json:"hex"`
}
