package display

import (
	"go.uber.org/zap"
)

// LogDisplay is an LCD for headless hosts: each print that changes a row
// logs the new row contents.
type LogDisplay struct {
	*LCD
	log  *zap.SugaredLogger
	last [Rows]string
}

// NewLogDisplay creates a panel logging through l.
func NewLogDisplay(l *zap.SugaredLogger) *LogDisplay {
	d := &LogDisplay{LCD: NewLCD(), log: l}
	d.last = d.LCD.Lines()
	return d
}

// PrintText writes s and logs changed rows.
func (d *LogDisplay) PrintText(s string) {
	d.LCD.PrintText(s)
	d.flush()
}

// PrintNumber writes n and logs changed rows.
func (d *LogDisplay) PrintNumber(n uint) {
	d.LCD.PrintNumber(n)
	d.flush()
}

func (d *LogDisplay) flush() {
	lines := d.LCD.Lines()
	for r, line := range lines {
		if line != d.last[r] {
			d.log.Infow("display", "row", r, "text", line)
		}
	}
	d.last = lines
}
