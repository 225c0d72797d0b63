// Package clock holds the waits used between sync rounds.
package clock

import (
	"context"
	"time"
)

// Wake tells why a wait ended early or on time.
type Wake int

const (
	// WakeTimer means the full duration elapsed.
	WakeTimer Wake = iota
	// WakeSignal means a value arrived on the signal channel.
	WakeSignal
)

func (w Wake) String() string {
	if w == WakeSignal {
		return "signal"
	}
	return "timer"
}

// SleepOrSignal waits for d, a receive on signal, or ctx cancellation,
// whichever comes first. A nil signal never fires.
func SleepOrSignal(ctx context.Context, d time.Duration, signal <-chan struct{}) (Wake, error) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return WakeTimer, ctx.Err()
	case <-signal:
		return WakeSignal, nil
	case <-timer.C:
		return WakeTimer, nil
	}
}

// SleepWithContext waits for the duration or returns early if the context is canceled.
func SleepWithContext(ctx context.Context, d time.Duration) error {
	_, err := SleepOrSignal(ctx, d, nil)
	return err
}
