package kernel

import "errors"

var (
	// ErrMissingHistory is returned when a block needed for modifier
	// selection is not present in the chain view.
	ErrMissingHistory = errors.New("missing chain history")
	// ErrZeroWeight is returned when the kernel output carries no value.
	ErrZeroWeight = errors.New("kernel output has zero value")
	// ErrImmatureStake is returned when a coinbase or coinstake output is
	// used as a kernel before it matured.
	ErrImmatureStake = errors.New("kernel output is immature")
	// ErrBelowMinimumAge is returned when the coin age is below the stake
	// minimum age.
	ErrBelowMinimumAge = errors.New("kernel output below minimum stake age")
	// ErrTimestampOrder is returned when the coinstake predates the output
	// it spends.
	ErrTimestampOrder = errors.New("coinstake timestamp precedes kernel output")
	// ErrStaleTimestamp is returned when the coinstake timestamp violates the
	// block timestamp rule.
	ErrStaleTimestamp = errors.New("coinstake timestamp violates protocol")
	// ErrInsufficientWeight is returned when the kernel hash exceeds the
	// weighted target. It is an ordinary negative result when probing.
	ErrInsufficientWeight = errors.New("kernel hash does not meet target")
	// ErrMissingPrevout is returned when the kernel outpoint cannot be
	// resolved.
	ErrMissingPrevout = errors.New("kernel prevout not found")
	// ErrModifierUnavailable is returned when no stake modifier is known for
	// the kernel timestamp on the active chain.
	ErrModifierUnavailable = errors.New("stake modifier unavailable")
	// ErrChecksumMismatch is returned when a stake modifier checksum does not
	// match a hardcoded checkpoint. It is always fatal for the chain branch.
	ErrChecksumMismatch = errors.New("stake modifier checksum mismatch")
	// ErrMalformedCoinStake is returned when a transaction is not a
	// well-formed coinstake.
	ErrMalformedCoinStake = errors.New("malformed coinstake")
)

// IsFatal reports whether err must reject the chain branch outright.
func IsFatal(err error) bool {
	return errors.Is(err, ErrChecksumMismatch)
}

// rejections are verdicts on the block itself. Errors that only mean the
// block cannot be judged yet, such as missing history, are left out.
var rejections = []error{
	ErrZeroWeight,
	ErrImmatureStake,
	ErrBelowMinimumAge,
	ErrTimestampOrder,
	ErrStaleTimestamp,
	ErrInsufficientWeight,
	ErrChecksumMismatch,
	ErrMalformedCoinStake,
}

// IsRejection reports whether err is a protocol verdict on the block rather
// than a failure to reach the data it needs.
func IsRejection(err error) bool {
	for _, target := range rejections {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
