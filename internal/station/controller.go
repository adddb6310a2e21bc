// Package station runs the counting loop: it polls the sensors and buttons,
// updates the counting state, drives the alarm outputs and keeps the panel
// current. Everything happens on one goroutine in a fixed order.
package station

import (
	"context"
	"errors"
	"time"

	"github.com/sweeney/flow-counter/internal/display"
	"github.com/sweeney/flow-counter/internal/gpio"
	"github.com/sweeney/flow-counter/internal/logger"
	"github.com/sweeney/flow-counter/internal/logic"
	"github.com/sweeney/flow-counter/internal/status"
)

// Options wires a Controller to its collaborators.
type Options struct {
	Reader  gpio.Reader
	Writer  gpio.Writer
	Store   ThresholdStore
	Display display.Display
	Timing  Timing

	// RepersistDefault writes the default threshold back to storage when
	// the stored value was invalid at startup. Off by default: the invalid
	// bytes stay in storage until the operator next adjusts the threshold.
	RepersistDefault bool

	// Sleep defaults to the real-time Sleep.
	Sleep Sleeper
	// Now defaults to time.Now.
	Now func() time.Time
}

// Controller owns a station's counting state and runs its loop.
type Controller struct {
	reader    gpio.Reader
	writer    gpio.Writer
	store     ThresholdStore
	presenter *display.Presenter
	timing    Timing
	sleep     Sleeper
	now       func() time.Time
	repersist bool

	state    *logic.State
	entry    *EdgeDetector
	exit     *EdgeDetector
	adjuster *Adjuster

	phase          status.Phase
	thresholdValid bool
	alarm          bool
}

// New creates a controller in the Uninitialized phase.
func New(opts Options) *Controller {
	sleep := opts.Sleep
	if sleep == nil {
		sleep = Sleep
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	c := &Controller{
		reader:    opts.Reader,
		writer:    opts.Writer,
		store:     opts.Store,
		presenter: display.NewPresenter(opts.Display),
		timing:    opts.Timing,
		sleep:     sleep,
		now:       now,
		repersist: opts.RepersistDefault,
		state:     logic.NewState(logic.DefaultThreshold, now()),
		phase:     status.PhaseUninitialized,
	}
	c.entry = NewEdgeDetector(logic.EventEntry, c.reader, c.writer, EntryLine, c.timing, sleep)
	c.exit = NewEdgeDetector(logic.EventExit, c.reader, c.writer, ExitLine, c.timing, sleep)
	c.adjuster = NewAdjuster(c.reader, c.state, c.store, c.presenter, c.timing, sleep)
	return c
}

// Start draws the panel labels, loads the threshold and shows it, moving
// the controller to ThresholdLoaded. It does nothing in later phases.
func (c *Controller) Start(ctx context.Context) {
	if c.phase != status.PhaseUninitialized {
		return
	}

	c.presenter.Init()

	th, valid, err := c.store.Load(ctx)
	if err != nil {
		logger.ErrorKV(ctx, "threshold load failed, using default", "threshold", int(th), "error", err)
	} else if !valid {
		logger.WarnKV(ctx, "stored threshold invalid, using default", "threshold", int(th))
	}

	if !valid && c.repersist {
		if err := c.store.Store(ctx, th); err != nil {
			logger.ErrorKV(ctx, "default threshold not persisted", "threshold", int(th), "error", err)
		}
	}

	c.state.Threshold = th
	c.thresholdValid = valid
	c.presenter.ShowThreshold(int(th))
	c.phase = status.PhaseThresholdLoaded

	logger.InfoKV(ctx, "threshold loaded", "threshold", int(th), "stored_valid", valid)
}

// Step runs one loop iteration: entry sensor, exit sensor, alarm outputs,
// buttons, strictly in that order. It only returns an error when ctx ends.
func (c *Controller) Step(ctx context.Context) error {
	if _, err := c.entry.Poll(ctx, c.onEntry); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		logger.WarnKV(ctx, "entry sensor skipped", "error", err)
	}

	if _, err := c.exit.Poll(ctx, c.onExit); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		logger.WarnKV(ctx, "exit sensor skipped", "error", err)
	}

	c.evaluateAlarm(ctx)

	if err := c.adjuster.Scan(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		logger.WarnKV(ctx, "button scan skipped", "error", err)
	}
	return nil
}

// Run starts the controller if needed and loops until ctx ends. The alarm
// outputs are switched off before it returns. Cancellation is the normal
// way out, so Run returns nil for it.
func (c *Controller) Run(ctx context.Context) error {
	ctx = logger.WithName(ctx, "station")

	c.Start(ctx)
	c.phase = status.PhaseRunning
	logger.InfoKV(ctx, "running",
		"poll", c.timing.Poll, "chirp", c.timing.Chirp, "settle", c.timing.Settle, "button_repeat", c.timing.ButtonRepeat)

	err := c.loop(ctx)
	c.shutdownOutputs(ctx)

	snap := c.Snapshot()
	logger.InfoKV(ctx, "stopped",
		"entries", snap.Entries, "exits", snap.Exits, "present", snap.Present, "threshold", int(snap.Threshold))

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

func (c *Controller) loop(ctx context.Context) error {
	for {
		if err := c.Step(ctx); err != nil {
			return err
		}

		if hb := c.state.CheckHeartbeat(c.now(), c.timing.Heartbeat); hb != nil {
			logger.InfoKV(ctx, "heartbeat",
				"uptime", hb.Uptime.Truncate(time.Second),
				"entries", hb.Entries, "exits", hb.Exits, "present", hb.Present,
				"threshold", int(hb.Threshold), "alarm", hb.Alarm,
				"entry_ignored", hb.Counts.EntryIgnored, "exit_ignored", hb.Counts.ExitIgnored)
		}

		if err := c.sleep(ctx, c.timing.Poll); err != nil {
			return err
		}
	}
}

func (c *Controller) onEntry() {
	if !c.state.Entry() {
		return
	}
	c.presenter.ShowEntries(c.state.Counter.Entries())
	c.presenter.ShowPresent(c.state.Counter.Present())
}

func (c *Controller) onExit() {
	if !c.state.Exit() {
		return
	}
	c.presenter.ShowExits(c.state.Counter.Exits())
	c.presenter.ShowPresent(c.state.Counter.Present())
}

// evaluateAlarm drives both outputs on every call, since a chirp may have
// switched the buzzer off in the meantime.
func (c *Controller) evaluateAlarm(ctx context.Context) {
	alarm := c.state.Alarm()

	if err := c.writer.SetBuzzer(alarm); err != nil {
		logger.WarnKV(ctx, "buzzer write failed", "error", err)
	}
	if err := c.writer.SetLamp(alarm); err != nil {
		logger.WarnKV(ctx, "lamp write failed", "error", err)
	}

	if alarm != c.alarm {
		logger.InfoKV(ctx, "alarm changed", "alarm", alarm,
			"present", c.state.Counter.Present(), "threshold", int(c.state.Threshold))
		c.alarm = alarm
	}
}

func (c *Controller) shutdownOutputs(ctx context.Context) {
	if err := c.writer.SetBuzzer(false); err != nil {
		logger.WarnKV(ctx, "buzzer reset failed", "error", err)
	}
	if err := c.writer.SetLamp(false); err != nil {
		logger.WarnKV(ctx, "lamp reset failed", "error", err)
	}
	c.alarm = false
}

// Phase returns the startup phase.
func (c *Controller) Phase() status.Phase {
	return c.phase
}

// State returns the counting state. Callers must not use it concurrently
// with Run.
func (c *Controller) State() *logic.State {
	return c.state
}

// Snapshot returns a point-in-time view of the controller.
func (c *Controller) Snapshot() status.Snapshot {
	return status.Snapshot{
		Phase:          c.phase,
		Entries:        c.state.Counter.Entries(),
		Exits:          c.state.Counter.Exits(),
		Present:        c.state.Counter.Present(),
		Threshold:      c.state.Threshold,
		ThresholdValid: c.thresholdValid,
		Alarm:          c.state.Alarm(),
		Counts:         c.state.EventCountsSnapshot(),
		StartTime:      c.state.StartTime(),
		Now:            c.now(),
	}
}
