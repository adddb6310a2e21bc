//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealIO drives the station lines on actual hardware using the Linux GPIO
// character device. It implements both Reader and Writer.
type RealIO struct {
	chip      *gpiocdev.Chip
	entry     *gpiocdev.Line
	exit      *gpiocdev.Line
	decrement *gpiocdev.Line
	increment *gpiocdev.Line
	buzzer    *gpiocdev.Line
	lamp      *gpiocdev.Line
	activeLow bool
}

// NewRealIO requests every station line on the named chip.
// Inputs get pull-ups (sensors and buttons pull the line low).
// Outputs start inactive; activeLow selects the output polarity.
func NewRealIO(chipName string, pins Pins, activeLow bool) (*RealIO, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	r := &RealIO{chip: chip, activeLow: activeLow}

	inputs := []struct {
		name string
		pin  int
		dst  **gpiocdev.Line
	}{
		{"entry", pins.Entry, &r.entry},
		{"exit", pins.Exit, &r.exit},
		{"decrement", pins.Decrement, &r.decrement},
		{"increment", pins.Increment, &r.increment},
	}
	for _, in := range inputs {
		line, err := chip.RequestLine(in.pin, gpiocdev.AsInput, gpiocdev.WithPullUp, gpiocdev.WithConsumer("flow-counter"))
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("request %s pin %d: %w", in.name, in.pin, err)
		}
		*in.dst = line
	}

	inactive := outputLevel(false, activeLow)
	outputs := []struct {
		name string
		pin  int
		dst  **gpiocdev.Line
	}{
		{"buzzer", pins.Buzzer, &r.buzzer},
		{"lamp", pins.Lamp, &r.lamp},
	}
	for _, out := range outputs {
		line, err := chip.RequestLine(out.pin, gpiocdev.AsOutput(inactive), gpiocdev.WithConsumer("flow-counter"))
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("request %s pin %d: %w", out.name, out.pin, err)
		}
		*out.dst = line
	}

	return r, nil
}

// Read returns the logical input states.
// Inverts raw GPIO: raw 0 = occupied/pressed.
func (r *RealIO) Read() (Sample, error) {
	var s Sample
	lines := []struct {
		name string
		line *gpiocdev.Line
		dst  *bool
	}{
		{"entry", r.entry, &s.Entry},
		{"exit", r.exit, &s.Exit},
		{"decrement", r.decrement, &s.Decrement},
		{"increment", r.increment, &s.Increment},
	}
	for _, l := range lines {
		v, err := l.line.Value()
		if err != nil {
			return Sample{}, fmt.Errorf("read %s pin: %w", l.name, err)
		}
		*l.dst = v == 0
	}
	return s, nil
}

// SetBuzzer switches the buzzer output.
func (r *RealIO) SetBuzzer(on bool) error {
	if err := r.buzzer.SetValue(outputLevel(on, r.activeLow)); err != nil {
		return fmt.Errorf("set buzzer: %w", err)
	}
	return nil
}

// SetLamp switches the lamp output.
func (r *RealIO) SetLamp(on bool) error {
	if err := r.lamp.SetValue(outputLevel(on, r.activeLow)); err != nil {
		return fmt.Errorf("set lamp: %w", err)
	}
	return nil
}

// Close drives the outputs inactive and releases every line.
// Inputs are left as inputs so the lines float to their pull-ups at reboot.
func (r *RealIO) Close() error {
	var errs []error

	inactive := outputLevel(false, r.activeLow)
	for name, line := range map[string]*gpiocdev.Line{"buzzer": r.buzzer, "lamp": r.lamp} {
		if line == nil {
			continue
		}
		if err := line.SetValue(inactive); err != nil {
			errs = append(errs, fmt.Errorf("reset %s pin: %w", name, err))
		}
	}

	for name, line := range map[string]*gpiocdev.Line{
		"entry":     r.entry,
		"exit":      r.exit,
		"decrement": r.decrement,
		"increment": r.increment,
		"buzzer":    r.buzzer,
		"lamp":      r.lamp,
	} {
		if line == nil {
			continue
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s pin: %w", name, err))
		}
	}

	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
