// Package kernel implements the proof-of-stake kernel protocol: stake modifier
// selection, kernel hash evaluation and stake modifier checkpoints.
//
// Every function in this package is deterministic. Two nodes feeding the same
// chain history into it must get bit-identical modifiers, checksums and
// kernel proofs.
package kernel

// Params holds the chain-specific kernel tunables. They are configuration,
// not constants: networks differ and several of them changed at known
// protocol switch points.
type Params struct {
	Name string

	// ModifierInterval is the time in seconds that must elapse before a new
	// stake modifier is computed.
	ModifierInterval int64

	// ModifierIntervalRatio is the length ratio between the last and the
	// first selection section.
	ModifierIntervalRatio int64

	// StakeMinAge is the minimum coin age in seconds before an output can
	// stake.
	StakeMinAge int64

	// StakeMaxAge caps the time component of coin-age weight.
	StakeMaxAge int64

	// StakeMaturity is the age in seconds a coinbase or coinstake output must
	// reach before it can be used as a kernel.
	StakeMaturity int64

	// Coin is the number of base units in one coin.
	Coin int64

	// ProtocolV03SwitchTime replaces bits with the stake modifier in the
	// kernel hash, tightens the coinstake timestamp rule to equality and
	// applies the min-age reduction to coin-day weight.
	ProtocolV03SwitchTime int64

	// ProtocolV04SwitchTime additionally requires the candidate block itself
	// to be in a new modifier interval before a modifier is generated.
	ProtocolV04SwitchTime int64

	// ProtocolV05SwitchTime switches the kernel modifier lookup from a
	// forward walk starting at the kernel's block to a backward walk from
	// the best tip.
	ProtocolV05SwitchTime int64
}

const (
	modifierSections = 64

	secondsPerDay int64 = 24 * 60 * 60
)

// MainNetParams are the peercoin main network kernel parameters.
var MainNetParams = Params{
	Name:                  "mainnet",
	ModifierInterval:      6 * 60 * 60,
	ModifierIntervalRatio: 3,
	StakeMinAge:           30 * secondsPerDay,
	StakeMaxAge:           90 * secondsPerDay,
	StakeMaturity:         500 * 10 * 60,
	Coin:                  1_000_000,
	ProtocolV03SwitchTime: 1363800000,
	ProtocolV04SwitchTime: 1399300000,
	ProtocolV05SwitchTime: 1461700000,
}

// TestNetParams are the peercoin test network kernel parameters.
var TestNetParams = Params{
	Name:                  "testnet",
	ModifierInterval:      20 * 60,
	ModifierIntervalRatio: 3,
	StakeMinAge:           30 * secondsPerDay,
	StakeMaxAge:           90 * secondsPerDay,
	StakeMaturity:         60 * 10 * 60,
	Coin:                  1_000_000,
	ProtocolV03SwitchTime: 1359781000,
	ProtocolV04SwitchTime: 1395700000,
	ProtocolV05SwitchTime: 1447700000,
}

// ParamsForNetwork returns a copy of the preset for a network name.
func ParamsForNetwork(network string) (Params, bool) {
	switch network {
	case MainNetParams.Name:
		return MainNetParams, true
	case TestNetParams.Name:
		return TestNetParams, true
	default:
		return Params{}, false
	}
}

// IsProtocolV03 reports whether the v0.3 kernel rules apply at t.
func (p *Params) IsProtocolV03(t int64) bool {
	return t >= p.ProtocolV03SwitchTime
}

// IsProtocolV04 reports whether the v0.4 modifier rules apply at t.
func (p *Params) IsProtocolV04(t int64) bool {
	return t >= p.ProtocolV04SwitchTime
}

// IsProtocolV05 reports whether the v0.5 kernel modifier lookup applies at t.
func (p *Params) IsProtocolV05(t int64) bool {
	return t >= p.ProtocolV05SwitchTime
}
