package logic

import "testing"

func checkInvariant(t *testing.T, c *FlowCounter) {
	t.Helper()
	if c.Exits() < 0 || c.Exits() > c.Entries() || c.Entries() > MaxCount {
		t.Fatalf("invariant violated: input=%d out=%d", c.Entries(), c.Exits())
	}
	if c.Present() != c.Entries()-c.Exits() || c.Present() < 0 {
		t.Fatalf("present=%d inconsistent with input=%d out=%d", c.Present(), c.Entries(), c.Exits())
	}
}

func TestFlowCounterZeroValue(t *testing.T) {
	var c FlowCounter
	if c.Entries() != 0 || c.Exits() != 0 || c.Present() != 0 {
		t.Errorf("expected empty counter, got input=%d out=%d present=%d", c.Entries(), c.Exits(), c.Present())
	}
}

func TestRecordEntry(t *testing.T) {
	var c FlowCounter
	for i := 1; i <= 3; i++ {
		if !c.RecordEntry() {
			t.Fatalf("entry %d: expected accepted", i)
		}
		if c.Entries() != i {
			t.Errorf("entry %d: expected input=%d, got %d", i, i, c.Entries())
		}
		checkInvariant(t, &c)
	}
	if c.Present() != 3 {
		t.Errorf("expected present=3, got %d", c.Present())
	}
}

func TestRecordEntrySaturates(t *testing.T) {
	c := FlowCounter{input: MaxCount - 1}

	if !c.RecordEntry() {
		t.Fatal("expected entry below the bound to be accepted")
	}
	if c.Entries() != MaxCount {
		t.Fatalf("expected input=%d, got %d", MaxCount, c.Entries())
	}

	for i := 0; i < 5; i++ {
		if c.RecordEntry() {
			t.Errorf("entry %d after saturation: expected ignored", i)
		}
	}
	if c.Entries() != MaxCount {
		t.Errorf("expected input to stay at %d, got %d", MaxCount, c.Entries())
	}
	checkInvariant(t, &c)
}

func TestRecordExit(t *testing.T) {
	c := FlowCounter{input: 2}

	if !c.RecordExit() {
		t.Fatal("expected exit to be accepted")
	}
	if c.Exits() != 1 || c.Present() != 1 {
		t.Errorf("expected out=1 present=1, got out=%d present=%d", c.Exits(), c.Present())
	}
	checkInvariant(t, &c)
}

func TestRecordExitGuard(t *testing.T) {
	tests := []struct {
		name  string
		input int
		out   int
	}{
		{"empty", 0, 0},
		{"balanced", 5, 5},
		{"saturated and balanced", MaxCount, MaxCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := FlowCounter{input: tt.input, out: tt.out}
			if c.RecordExit() {
				t.Error("expected exit to be ignored when out == input")
			}
			if c.Entries() != tt.input || c.Exits() != tt.out {
				t.Errorf("expected (%d,%d) unchanged, got (%d,%d)", tt.input, tt.out, c.Entries(), c.Exits())
			}
		})
	}
}

func TestFlowCounterInvariantUnderMixedTraffic(t *testing.T) {
	var c FlowCounter
	// Deterministic pseudo-random walk that overdrives exits.
	seed := uint32(7)
	for i := 0; i < 20000; i++ {
		seed = seed*1103515245 + 12345
		if seed&0x300 == 0 {
			c.RecordEntry()
		} else {
			c.RecordExit()
		}
		checkInvariant(t, &c)
	}
}
