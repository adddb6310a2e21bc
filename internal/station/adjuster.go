package station

import (
	"context"
	"fmt"

	"github.com/sweeney/flow-counter/internal/display"
	"github.com/sweeney/flow-counter/internal/gpio"
	"github.com/sweeney/flow-counter/internal/logger"
	"github.com/sweeney/flow-counter/internal/logic"
)

// ThresholdStore persists the alarm threshold.
type ThresholdStore interface {
	Load(ctx context.Context) (logic.Threshold, bool, error)
	Store(ctx context.Context, v logic.Threshold) error
}

// Adjuster applies the decrement and increment buttons to the threshold.
type Adjuster struct {
	reader    gpio.Reader
	state     *logic.State
	store     ThresholdStore
	presenter *display.Presenter
	timing    Timing
	sleep     Sleeper
}

// NewAdjuster creates an adjuster mutating state.Threshold.
func NewAdjuster(reader gpio.Reader, state *logic.State, store ThresholdStore, presenter *display.Presenter, timing Timing, sleep Sleeper) *Adjuster {
	return &Adjuster{
		reader:    reader,
		state:     state,
		store:     store,
		presenter: presenter,
		timing:    timing,
		sleep:     sleep,
	}
}

// Scan handles the decrement button, then the increment button. After a
// decrement the buttons are sampled again, so the increment check sees the
// level at the end of the repeat delay. It does not wait for release: a held
// button repeats on every scan.
func (a *Adjuster) Scan(ctx context.Context) error {
	s, err := a.reader.Read()
	if err != nil {
		return fmt.Errorf("read buttons: %w", err)
	}

	if s.Decrement {
		if err := a.Decrement(ctx); err != nil {
			return err
		}
		if s, err = a.reader.Read(); err != nil {
			return fmt.Errorf("read buttons: %w", err)
		}
	}
	if s.Increment {
		if err := a.Increment(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Decrement lowers the threshold by one, stopping at logic.MinThreshold.
func (a *Adjuster) Decrement(ctx context.Context) error {
	next, changed := a.state.Threshold.Decrement()
	return a.apply(ctx, next, changed)
}

// Increment raises the threshold by one, stopping at logic.MaxThreshold.
func (a *Adjuster) Increment(ctx context.Context) error {
	next, changed := a.state.Threshold.Increment()
	return a.apply(ctx, next, changed)
}

// apply shows and persists the threshold whether or not it changed, then
// waits out the button repeat delay. A failed store is logged; the
// in-memory threshold stays in effect.
func (a *Adjuster) apply(ctx context.Context, next logic.Threshold, changed bool) error {
	a.state.Threshold = next
	a.presenter.ShowThreshold(int(next))

	if changed {
		logger.InfoKV(ctx, "threshold adjusted", "threshold", int(next))
	} else {
		logger.DebugKV(ctx, "threshold at bound", "threshold", int(next))
	}

	if err := a.store.Store(ctx, next); err != nil {
		logger.ErrorKV(ctx, "threshold not persisted", "threshold", int(next), "error", err)
	}

	return a.sleep(ctx, a.timing.ButtonRepeat)
}
