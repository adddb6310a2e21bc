// Package logic contains the pure counting core of the flow counter.
// This package has NO external dependencies (no GPIO, NVM, display, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import "time"

// Counter and threshold bounds. Counts are shown as four decimal digits, so
// nothing may exceed 9999.
const (
	MaxCount         = 9999
	MinThreshold     = 1
	MaxThreshold     = 9999
	DefaultThreshold = 20
)

// EventType identifies which sensor produced a pass.
type EventType string

const (
	EventEntry EventType = "ENTRY"
	EventExit  EventType = "EXIT"
)

// EventCounts tracks sensor passes since startup, split by whether the
// counter accepted them. Ignored passes are saturated entries or exits that
// would have made out exceed input.
type EventCounts struct {
	EntryAccepted int
	EntryIgnored  int
	ExitAccepted  int
	ExitIgnored   int
}

// Record adds one pass of the given type to the counts.
func (c *EventCounts) Record(t EventType, accepted bool) {
	switch {
	case t == EventEntry && accepted:
		c.EntryAccepted++
	case t == EventEntry:
		c.EntryIgnored++
	case t == EventExit && accepted:
		c.ExitAccepted++
	case t == EventExit:
		c.ExitIgnored++
	}
}

// HeartbeatData contains information for a periodic status log line.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
	Entries   int
	Exits     int
	Present   int
	Threshold Threshold
	Alarm     bool
	Counts    EventCounts
}
