package display

import (
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// Console shows an LCD in a terminal. The panel is redrawn in place at the
// top-left corner after every print.
type Console struct {
	*LCD
	out *termenv.Output
}

// NewConsole creates a console panel writing to w and clears the screen.
func NewConsole(w io.Writer) *Console {
	c := &Console{
		LCD: NewLCD(),
		out: termenv.NewOutput(w),
	}
	c.out.HideCursor()
	c.out.ClearScreen()
	c.render()
	return c
}

// PrintText writes s and redraws the panel.
func (c *Console) PrintText(s string) {
	c.LCD.PrintText(s)
	c.render()
}

// PrintNumber writes n and redraws the panel.
func (c *Console) PrintNumber(n uint) {
	c.LCD.PrintNumber(n)
	c.render()
}

// Close restores the terminal cursor.
func (c *Console) Close() error {
	c.out.MoveCursor(Rows+3, 1)
	c.out.ShowCursor()
	return nil
}

func (c *Console) render() {
	border := "+" + strings.Repeat("-", Columns) + "+"

	c.out.MoveCursor(1, 1)
	_, _ = io.WriteString(c.out, border+"\n")
	for _, line := range c.LCD.Lines() {
		panel := c.out.String(line).Reverse()
		_, _ = io.WriteString(c.out, "|"+panel.String()+"|\n")
	}
	_, _ = io.WriteString(c.out, border+"\n")
}
