package display

// Static panel layout. Numeric fields are overwritten in place.
const (
	labelRow0 = "IN:0000 OUT:0000"
	labelRow1 = "RM:0000 ALM:    "
)

// Field positions on the panel.
const (
	entriesRow, entriesCol     = 0, 3
	exitsRow, exitsCol         = 0, 12
	presentRow, presentCol     = 1, 3
	thresholdRow, thresholdCol = 1, 12
)

// Presenter draws the station's fields on a Display. It only ever
// redraws the field that changed.
type Presenter struct {
	d Display
}

// NewPresenter creates a presenter over d.
func NewPresenter(d Display) *Presenter {
	return &Presenter{d: d}
}

// Init draws the static labels with zeroed counters and a blank threshold.
func (p *Presenter) Init() {
	p.d.PositionCursor(0, 0)
	p.d.PrintText(labelRow0)
	p.d.PositionCursor(1, 0)
	p.d.PrintText(labelRow1)
}

// ShowEntries redraws the entry count.
func (p *Presenter) ShowEntries(n int) {
	p.field(entriesRow, entriesCol, n)
}

// ShowExits redraws the exit count.
func (p *Presenter) ShowExits(n int) {
	p.field(exitsRow, exitsCol, n)
}

// ShowPresent redraws the present count.
func (p *Presenter) ShowPresent(n int) {
	p.field(presentRow, presentCol, n)
}

// ShowThreshold redraws the alarm threshold.
func (p *Presenter) ShowThreshold(n int) {
	p.field(thresholdRow, thresholdCol, n)
}

func (p *Presenter) field(row, col, n int) {
	if n < 0 {
		n = 0
	}
	p.d.PositionCursor(row, col)
	p.d.PrintNumber(uint(n))
}
