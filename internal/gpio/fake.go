package gpio

import "errors"

// FakeReader is a test double that returns scripted samples.
type FakeReader struct {
	// Samples contains scripted values to return.
	// Each call to Read() consumes the next sample.
	Samples []Sample

	// index tracks current position in Samples
	index int

	// Reads counts calls to Read.
	Reads int

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by Read()
	ReadError error
}

// NewFakeReader creates a FakeReader with the given samples.
func NewFakeReader(samples ...Sample) *FakeReader {
	return &FakeReader{Samples: samples}
}

// Read returns the next scripted sample.
// If samples are exhausted, returns the last sample repeatedly.
func (f *FakeReader) Read() (Sample, error) {
	f.Reads++
	if f.ReadError != nil {
		return Sample{}, f.ReadError
	}

	if len(f.Samples) == 0 {
		return Sample{}, errors.New("no samples configured")
	}

	i := f.index
	if i < len(f.Samples) {
		f.index++
	} else {
		i = len(f.Samples) - 1
	}

	return f.Samples[i], nil
}

// Remaining returns how many scripted samples have not been read yet.
func (f *FakeReader) Remaining() int {
	return len(f.Samples) - f.index
}

// Close marks the reader as closed.
func (f *FakeReader) Close() error {
	f.Closed = true
	return nil
}

// Reset resets the reader to the beginning of samples.
func (f *FakeReader) Reset() {
	f.index = 0
	f.Reads = 0
	f.Closed = false
}

// Output identifies one of the station outputs.
type Output string

const (
	OutputBuzzer Output = "BUZZER"
	OutputLamp   Output = "LAMP"
)

// Change records an output switching level.
type Change struct {
	Output Output
	On     bool
}

// FakeWriter records output levels for test assertions.
type FakeWriter struct {
	// Buzzer and Lamp hold the current output levels.
	Buzzer bool
	Lamp   bool

	// Changes records every level change in order. Writes that leave the
	// level unchanged are counted in Writes but not recorded here.
	Changes []Change

	// Writes counts every call to SetBuzzer and SetLamp.
	Writes int

	// WriteError, if set, will be returned by SetBuzzer and SetLamp.
	WriteError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeWriter creates a FakeWriter with both outputs off.
func NewFakeWriter() *FakeWriter {
	return &FakeWriter{}
}

// SetBuzzer records the buzzer level.
func (f *FakeWriter) SetBuzzer(on bool) error {
	return f.set(OutputBuzzer, &f.Buzzer, on)
}

// SetLamp records the lamp level.
func (f *FakeWriter) SetLamp(on bool) error {
	return f.set(OutputLamp, &f.Lamp, on)
}

func (f *FakeWriter) set(out Output, cur *bool, on bool) error {
	f.Writes++
	if f.WriteError != nil {
		return f.WriteError
	}
	if *cur != on {
		f.Changes = append(f.Changes, Change{Output: out, On: on})
	}
	*cur = on
	return nil
}

// Close drives both outputs off and marks the writer closed.
func (f *FakeWriter) Close() error {
	f.Buzzer = false
	f.Lamp = false
	f.Closed = true
	return nil
}

// Reset clears recorded changes.
func (f *FakeWriter) Reset() {
	f.Changes = nil
	f.Writes = 0
	f.Closed = false
	f.WriteError = nil
}
