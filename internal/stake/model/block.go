// Package model defines domain models for stake verification.
package model

import "time"

// StakeBlock is the stake metadata of one verified block as exported to
// ClickHouse.
type StakeBlock struct {
	Coin              Coin
	Network           Network
	Height            uint64
	Hash              string
	PrevHash          string
	Timestamp         time.Time
	Bits              uint32
	ProofOfStake      bool
	EntropyBit        uint8
	GeneratedModifier bool
	StakeModifier     uint64
	ModifierChecksum  uint32
	HashProofOfStake  string
	// TargetProofOfStake is the hex weighted target the kernel was checked
	// against; empty for proof-of-work blocks.
	TargetProofOfStake string
	KernelTxID         string
	KernelVout         uint32
	// NodeAgrees is false when the node reported a different modifier or
	// checksum than the one computed locally.
	NodeAgrees bool
	VerifiedAt time.Time
}
