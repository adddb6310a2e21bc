package display

import "strings"

// LCD is an in-memory 16x2 character panel. The cursor advances after each
// character like an HD44780; characters past the last column are dropped.
type LCD struct {
	cells [Rows][Columns]byte
	row   int
	col   int
}

// NewLCD creates a blank panel with the cursor at the origin.
func NewLCD() *LCD {
	l := &LCD{}
	l.Clear()
	return l
}

// Clear blanks the panel and homes the cursor.
func (l *LCD) Clear() {
	for r := range l.cells {
		for c := range l.cells[r] {
			l.cells[r][c] = ' '
		}
	}
	l.row, l.col = 0, 0
}

// PositionCursor moves the cursor. Out-of-range positions are clamped.
func (l *LCD) PositionCursor(row, col int) {
	l.row = clamp(row, 0, Rows-1)
	l.col = clamp(col, 0, Columns)
}

// PrintText writes s at the cursor. Non-ASCII characters are shown as '?'.
func (l *LCD) PrintText(s string) {
	for _, r := range s {
		if l.col >= Columns {
			return
		}
		b := byte('?')
		if r >= 0x20 && r < 0x7F {
			b = byte(r)
		}
		l.cells[l.row][l.col] = b
		l.col++
	}
}

// PrintNumber writes n as four zero-padded digits.
func (l *LCD) PrintNumber(n uint) {
	l.PrintText(FormatNumber(n))
}

// Line returns the contents of one row.
func (l *LCD) Line(row int) string {
	return string(l.cells[clamp(row, 0, Rows-1)][:])
}

// Lines returns both rows.
func (l *LCD) Lines() [Rows]string {
	var out [Rows]string
	for r := range out {
		out[r] = l.Line(r)
	}
	return out
}

// String returns the panel as two newline-separated rows.
func (l *LCD) String() string {
	lines := l.Lines()
	return strings.Join(lines[:], "\n")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
