package display

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFormatNumber(t *testing.T) {
	t.Parallel()

	cases := map[uint]string{
		0:     "0000",
		7:     "0007",
		20:    "0020",
		1234:  "1234",
		9999:  "9999",
		12345: "2345",
	}
	for n, want := range cases {
		assert.Equal(t, want, FormatNumber(n), "FormatNumber(%d)", n)
	}
}

func TestLCDCursorAdvances(t *testing.T) {
	t.Parallel()

	l := NewLCD()
	l.PositionCursor(1, 2)
	l.PrintText("AB")
	l.PrintText("C")

	require.Equal(t, "  ABC           ", l.Line(1))
	require.Equal(t, "                ", l.Line(0))
}

func TestLCDDropsOverflow(t *testing.T) {
	t.Parallel()

	l := NewLCD()
	l.PositionCursor(0, 14)
	l.PrintNumber(1234)

	require.Equal(t, "              12", l.Line(0))
	require.Equal(t, "                ", l.Line(1), "overflow must not wrap to the next row")
}

func TestLCDReplacesNonASCII(t *testing.T) {
	t.Parallel()

	l := NewLCD()
	l.PrintText("é!")
	require.Equal(t, "?!", l.Line(0)[:2])
}

func TestPresenterInitLayout(t *testing.T) {
	t.Parallel()

	f := NewFakeDisplay()
	NewPresenter(f).Init()

	require.Equal(t, [Rows]string{"IN:0000 OUT:0000", "RM:0000 ALM:    "}, f.Lines())
}

func TestPresenterFields(t *testing.T) {
	t.Parallel()

	f := NewFakeDisplay()
	p := NewPresenter(f)
	p.Init()
	f.Reset()

	p.ShowEntries(25)
	p.ShowExits(1)
	p.ShowPresent(24)
	p.ShowThreshold(20)

	require.Equal(t, []string{
		"cursor(0,3)", "number(25)",
		"cursor(0,12)", "number(1)",
		"cursor(1,3)", "number(24)",
		"cursor(1,12)", "number(20)",
	}, f.Calls)
	require.Equal(t, [Rows]string{"IN:0025 OUT:0001", "RM:0024 ALM:0020"}, f.Lines())
}

func TestPresenterOnlyTouchesOneField(t *testing.T) {
	t.Parallel()

	f := NewFakeDisplay()
	p := NewPresenter(f)
	p.Init()
	f.Reset()

	p.ShowThreshold(9999)

	require.Equal(t, []string{"cursor(1,12)", "number(9999)"}, f.Calls)
	require.Equal(t, "IN:0000 OUT:0000", f.Line(0))
}

func TestConsoleRendersPanel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	c := NewConsole(&buf)
	p := NewPresenter(c)
	p.Init()

	out := buf.String()
	require.Contains(t, out, "+----------------+")
	require.Contains(t, out, "IN:0000 OUT:0000")
	require.Contains(t, out, "RM:0000 ALM:    ")
	require.Equal(t, "RM:0000 ALM:    ", c.Line(1))

	p.ShowThreshold(20)
	p.ShowExits(3)
	require.NoError(t, c.Close())

	require.Equal(t, [Rows]string{"IN:0000 OUT:0003", "RM:0000 ALM:0020"}, c.Lines())
	require.Contains(t, buf.String(), "RM:0000 ALM:0020")
}

func TestLogDisplayLogsChangedRows(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	d := NewLogDisplay(zap.New(core).Sugar())
	p := NewPresenter(d)

	p.Init()
	require.Equal(t, 2, logs.Len(), "one entry per row drawn")

	p.ShowThreshold(20)
	entries := logs.TakeAll()
	require.Len(t, entries, 3)
	last := entries[2].ContextMap()
	require.Equal(t, int64(1), last["row"])
	require.Equal(t, "RM:0000 ALM:0020", last["text"])

	p.ShowThreshold(20)
	require.Equal(t, 0, logs.Len(), "unchanged rows are not logged")

	p.ShowEntries(7)
	entries = logs.TakeAll()
	require.Len(t, entries, 1)
	require.Equal(t, "IN:0007 OUT:0000", entries[0].ContextMap()["text"])
}
