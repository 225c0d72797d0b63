// Package safe converts between the integer widths used by block heights,
// offsets and amounts, rejecting values that would wrap.
package safe

import (
	"errors"
	"fmt"
	"math"
)

// ErrOutOfRange is returned when a value does not fit the target type.
var ErrOutOfRange = errors.New("value out of range")

// Integer is any built-in integer type.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// within reports whether v lies in [lo, hi]. Negative values are compared
// as int64 and non-negative ones as uint64, so no width is truncated.
func within[T Integer](v T, lo int64, hi uint64) bool {
	if v < 0 {
		return int64(v) >= lo
	}
	return uint64(v) <= hi
}

func convert[R, T Integer](v T, lo int64, hi uint64, name string) (R, error) {
	if !within(v, lo, hi) {
		return 0, fmt.Errorf("%d does not fit %s: %w", v, name, ErrOutOfRange)
	}
	return R(v), nil
}

// Int32 converts v to int32. Block heights travel as int32.
func Int32[T Integer](v T) (int32, error) {
	return convert[int32](v, math.MinInt32, math.MaxInt32, "int32")
}

// Int64 converts v to int64.
func Int64[T Integer](v T) (int64, error) {
	return convert[int64](v, math.MinInt64, math.MaxInt64, "int64")
}

// Uint32 converts v to uint32.
func Uint32[T Integer](v T) (uint32, error) {
	return convert[uint32](v, 0, math.MaxUint32, "uint32")
}

// Uint64 converts v to uint64, rejecting negatives.
func Uint64[T Integer](v T) (uint64, error) {
	return convert[uint64](v, 0, math.MaxUint64, "uint64")
}
