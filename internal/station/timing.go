package station

import (
	"context"
	"time"
)

// Timing holds the fixed delays of the control loop.
type Timing struct {
	// Poll is the pause between loop iterations.
	Poll time.Duration
	// ReleasePoll is the sampling interval while waiting for a sensor to clear.
	ReleasePoll time.Duration
	// Chirp is how long the buzzer sounds to acknowledge a pass.
	Chirp time.Duration
	// Settle is the wait after a sensor clears, absorbing mechanical bounce.
	Settle time.Duration
	// ButtonRepeat is the wait after a button is handled. A held button
	// repeats once per ButtonRepeat.
	ButtonRepeat time.Duration
	// Heartbeat is the interval of the periodic status line (0 disables).
	Heartbeat time.Duration
}

// DefaultTiming returns the delays used by the microcontroller stations.
func DefaultTiming() Timing {
	return Timing{
		Poll:         5 * time.Millisecond,
		ReleasePoll:  time.Millisecond,
		Chirp:        30 * time.Millisecond,
		Settle:       100 * time.Millisecond,
		ButtonRepeat: 250 * time.Millisecond,
		Heartbeat:    15 * time.Minute,
	}
}

// Sleeper blocks for d or until ctx is done, returning ctx.Err() in the
// latter case.
type Sleeper func(ctx context.Context, d time.Duration) error

// Sleep is the real-time Sleeper.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
