// Package gpio provides the station's digital I/O with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementations allow testing without hardware.
package gpio

// Sample is one reading of the four inputs, already in logical form.
// All four lines are active-low on the wire: a raw 0 means occupied or pressed.
type Sample struct {
	Entry     bool // entry presence sensor occupied
	Exit      bool // exit presence sensor occupied
	Decrement bool // decrement button pressed
	Increment bool // increment button pressed
}

// Reader reads the station inputs.
type Reader interface {
	// Read returns the logical state of every input line.
	Read() (Sample, error)

	// Close releases GPIO resources.
	Close() error
}

// Writer drives the station outputs.
type Writer interface {
	// SetBuzzer switches the buzzer on or off.
	SetBuzzer(on bool) error

	// SetLamp switches the indicator lamp on or off.
	SetLamp(on bool) error

	// Close drives both outputs inactive and releases GPIO resources.
	Close() error
}

// Default line offsets on gpiochip0 (BCM numbering on a Raspberry Pi).
const (
	DefaultChip         = "gpiochip0"
	DefaultPinEntry     = 17
	DefaultPinExit      = 27
	DefaultPinDecrement = 22
	DefaultPinIncrement = 23
	DefaultPinBuzzer    = 24
	DefaultPinLamp      = 25
)

// Pins maps each station signal to a line offset.
type Pins struct {
	Entry     int
	Exit      int
	Decrement int
	Increment int
	Buzzer    int
	Lamp      int
}

// DefaultPins returns the default line offsets.
func DefaultPins() Pins {
	return Pins{
		Entry:     DefaultPinEntry,
		Exit:      DefaultPinExit,
		Decrement: DefaultPinDecrement,
		Increment: DefaultPinIncrement,
		Buzzer:    DefaultPinBuzzer,
		Lamp:      DefaultPinLamp,
	}
}

// outputLevel converts a logical output state into the raw line value.
func outputLevel(on, activeLow bool) int {
	if on != activeLow {
		return 1
	}
	return 0
}
