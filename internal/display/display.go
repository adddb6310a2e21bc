// Package display renders the station's counters on a 16x2 character panel.
package display

import "fmt"

// Panel geometry.
const (
	Rows    = 2
	Columns = 16
)

// NumberWidth is the fixed width of every numeric field.
const NumberWidth = 4

// Display is a character display. Operations cannot fail.
type Display interface {
	// PositionCursor moves the write position to row, col.
	PositionCursor(row, col int)

	// PrintText writes s at the cursor and advances it.
	PrintText(s string)

	// PrintNumber writes n as exactly NumberWidth zero-padded digits.
	PrintNumber(n uint)
}

// FormatNumber renders n the way PrintNumber does. Values above 9999 keep
// only their last four digits.
func FormatNumber(n uint) string {
	return fmt.Sprintf("%0*d", NumberWidth, n%10000)
}
