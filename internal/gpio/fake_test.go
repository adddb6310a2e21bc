package gpio

import (
	"errors"
	"testing"
)

func TestFakeReaderRead(t *testing.T) {
	f := NewFakeReader(
		Sample{Entry: true},
		Sample{Exit: true},
		Sample{Decrement: true, Increment: true},
	)

	want := []Sample{
		{Entry: true},
		{Exit: true},
		{Decrement: true, Increment: true},
		{Decrement: true, Increment: true}, // repeat of last sample
	}
	for i, w := range want {
		got, err := f.Read()
		if err != nil {
			t.Fatalf("sample %d: unexpected error: %v", i, err)
		}
		if got != w {
			t.Errorf("sample %d: expected %+v, got %+v", i, w, got)
		}
	}
	if f.Reads != 4 {
		t.Errorf("expected 4 reads, got %d", f.Reads)
	}
}

func TestFakeReaderRemaining(t *testing.T) {
	f := NewFakeReader(Sample{}, Sample{Entry: true}, Sample{})
	if f.Remaining() != 3 {
		t.Errorf("expected 3 remaining before first read, got %d", f.Remaining())
	}
	f.Read()
	if f.Remaining() != 2 {
		t.Errorf("expected 2 remaining after first read, got %d", f.Remaining())
	}
	f.Read()
	f.Read()
	if f.Remaining() != 0 {
		t.Errorf("expected 0 remaining, got %d", f.Remaining())
	}
}

func TestFakeReaderNoSamples(t *testing.T) {
	f := NewFakeReader()

	if _, err := f.Read(); err == nil {
		t.Error("expected error with no samples")
	}
}

func TestFakeReaderError(t *testing.T) {
	f := NewFakeReader(Sample{Entry: true})
	f.ReadError = errors.New("simulated error")

	_, err := f.Read()
	if err == nil {
		t.Fatal("expected error to be returned")
	}
	if err.Error() != "simulated error" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFakeReaderCloseAndReset(t *testing.T) {
	f := NewFakeReader(Sample{Entry: true}, Sample{Exit: true})

	f.Read()
	if err := f.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !f.Closed {
		t.Error("should be closed after Close()")
	}

	f.Reset()
	if f.Closed {
		t.Error("should not be closed after Reset()")
	}
	got, _ := f.Read()
	if !got.Entry {
		t.Errorf("after reset: expected first sample, got %+v", got)
	}
}

func TestFakeWriterRecordsChangesOnly(t *testing.T) {
	w := NewFakeWriter()

	w.SetBuzzer(true)
	w.SetBuzzer(true)
	w.SetLamp(true)
	w.SetBuzzer(false)

	want := []Change{
		{Output: OutputBuzzer, On: true},
		{Output: OutputLamp, On: true},
		{Output: OutputBuzzer, On: false},
	}
	if len(w.Changes) != len(want) {
		t.Fatalf("expected %d changes, got %d: %+v", len(want), len(w.Changes), w.Changes)
	}
	for i := range want {
		if w.Changes[i] != want[i] {
			t.Errorf("change %d: expected %+v, got %+v", i, want[i], w.Changes[i])
		}
	}
	if w.Writes != 4 {
		t.Errorf("expected 4 writes, got %d", w.Writes)
	}
	if w.Buzzer || !w.Lamp {
		t.Errorf("expected buzzer off lamp on, got buzzer=%v lamp=%v", w.Buzzer, w.Lamp)
	}
}

func TestFakeWriterClose(t *testing.T) {
	w := NewFakeWriter()
	w.SetBuzzer(true)
	w.SetLamp(true)

	w.Close()
	if w.Buzzer || w.Lamp || !w.Closed {
		t.Errorf("expected both outputs off and closed, got %+v", w)
	}
}

func TestOutputLevel(t *testing.T) {
	tests := []struct {
		on, activeLow bool
		want          int
	}{
		{true, true, 0},
		{false, true, 1},
		{true, false, 1},
		{false, false, 0},
	}
	for _, tt := range tests {
		if got := outputLevel(tt.on, tt.activeLow); got != tt.want {
			t.Errorf("outputLevel(%v, %v) = %d, want %d", tt.on, tt.activeLow, got, tt.want)
		}
	}
}
