package station

import (
	"context"
	"fmt"

	"github.com/sweeney/flow-counter/internal/gpio"
	"github.com/sweeney/flow-counter/internal/logger"
	"github.com/sweeney/flow-counter/internal/logic"
)

// Line selects one sensor from a sample.
type Line func(gpio.Sample) bool

// EntryLine selects the entry sensor.
func EntryLine(s gpio.Sample) bool { return s.Entry }

// ExitLine selects the exit sensor.
func ExitLine(s gpio.Sample) bool { return s.Exit }

// EdgeDetector turns one presence sensor into discrete pass events.
//
// Debouncing is done by blocking: once the line reads occupied, Poll does
// not return until the line reads clear again and the settle delay has
// passed. Nothing else is serviced meanwhile, so a pass on the other sensor
// or a button press during that time is missed.
type EdgeDetector struct {
	kind   logic.EventType
	reader gpio.Reader
	writer gpio.Writer
	line   Line
	timing Timing
	sleep  Sleeper
}

// NewEdgeDetector creates a detector for one line. The writer's buzzer is
// used for the acknowledgment chirp.
func NewEdgeDetector(kind logic.EventType, reader gpio.Reader, writer gpio.Writer, line Line, timing Timing, sleep Sleeper) *EdgeDetector {
	return &EdgeDetector{
		kind:   kind,
		reader: reader,
		writer: writer,
		line:   line,
		timing: timing,
		sleep:  sleep,
	}
}

// Poll samples the line once. If it is occupied, onPass runs, the buzzer
// chirps, and Poll blocks until the line clears and settles. It reports
// whether a pass was seen. A non-nil error with passed=false is a read
// failure; with passed=true it means ctx ended while blocked.
func (d *EdgeDetector) Poll(ctx context.Context, onPass func()) (passed bool, err error) {
	s, err := d.reader.Read()
	if err != nil {
		return false, fmt.Errorf("read %s sensor: %w", d.kind, err)
	}
	if !d.line(s) {
		return false, nil
	}

	onPass()

	if err := d.chirp(ctx); err != nil {
		return true, err
	}
	if err := d.waitRelease(ctx); err != nil {
		return true, err
	}
	return true, d.sleep(ctx, d.timing.Settle)
}

// chirp pulses the buzzer. It always leaves the buzzer off; the next alarm
// evaluation turns it back on if needed.
func (d *EdgeDetector) chirp(ctx context.Context) error {
	if err := d.writer.SetBuzzer(true); err != nil {
		logger.WarnKV(ctx, "chirp on failed", "sensor", d.kind, "error", err)
	}
	sleepErr := d.sleep(ctx, d.timing.Chirp)
	if err := d.writer.SetBuzzer(false); err != nil {
		logger.WarnKV(ctx, "chirp off failed", "sensor", d.kind, "error", err)
	}
	return sleepErr
}

// waitRelease blocks until the line reads clear. A failing read counts as
// still occupied; only the first failure of a wait is logged.
func (d *EdgeDetector) waitRelease(ctx context.Context) error {
	reported := false
	for {
		s, err := d.reader.Read()
		switch {
		case err != nil:
			if !reported {
				logger.WarnKV(ctx, "sensor read failed while waiting for release", "sensor", d.kind, "error", err)
				reported = true
			}
		case !d.line(s):
			return nil
		}

		if err := d.sleep(ctx, d.timing.ReleasePoll); err != nil {
			return err
		}
	}
}
