package display

import "fmt"

// FakeDisplay records calls for test assertions while keeping an LCD
// up to date, so tests can check both the call sequence and the result.
type FakeDisplay struct {
	*LCD

	// Calls contains every call in order, e.g. "cursor(1,12)", "text(RM:)",
	// "number(20)".
	Calls []string
}

// NewFakeDisplay creates a FakeDisplay over a blank panel.
func NewFakeDisplay() *FakeDisplay {
	return &FakeDisplay{LCD: NewLCD()}
}

// PositionCursor records and moves the cursor.
func (f *FakeDisplay) PositionCursor(row, col int) {
	f.Calls = append(f.Calls, fmt.Sprintf("cursor(%d,%d)", row, col))
	f.LCD.PositionCursor(row, col)
}

// PrintText records and prints s.
func (f *FakeDisplay) PrintText(s string) {
	f.Calls = append(f.Calls, fmt.Sprintf("text(%s)", s))
	f.LCD.PrintText(s)
}

// PrintNumber records and prints n.
func (f *FakeDisplay) PrintNumber(n uint) {
	f.Calls = append(f.Calls, fmt.Sprintf("number(%d)", n))
	f.LCD.PrintNumber(n)
}

// Reset clears recorded calls. The panel contents are kept.
func (f *FakeDisplay) Reset() {
	f.Calls = nil
}
