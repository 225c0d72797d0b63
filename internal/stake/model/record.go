package model

// BlockRecord is the persisted stake metadata of an indexed block.
type BlockRecord struct {
	Hash                  string `json:"hash"`
	PrevHash              string `json:"prev_hash"`
	Height                int32  `json:"height"`
	Timestamp             int64  `json:"time"`
	Bits                  uint32 `json:"bits"`
	Flags                 uint32 `json:"flags"`
	HashProofOfStake      string `json:"proof_hash"`
	StakeModifier         uint64 `json:"modifier"`
	StakeModifierChecksum uint32 `json:"checksum"`
}

// TxRecord is a transaction kept for later kernel lookups: its timestamp,
// where it sits in its block and its btcd wire serialization.
type TxRecord struct {
	TxID      string `json:"txid"`
	Time      int64  `json:"time"`
	BlockHash string `json:"block"`
	TxOffset  uint32 `json:"offset"`
	Raw       []byte `json:"raw"`
}
