// Package status provides point-in-time views of a station for logging and
// the print-state command.
package status

import (
	"time"

	"github.com/sweeney/flow-counter/internal/gpio"
	"github.com/sweeney/flow-counter/internal/logic"
)

// Phase is the station's startup state.
type Phase string

const (
	PhaseUninitialized   Phase = "UNINITIALIZED"
	PhaseThresholdLoaded Phase = "THRESHOLD_LOADED"
	PhaseRunning         Phase = "RUNNING"
)

// Snapshot is a point-in-time view of station state.
// It is a value type, safe to keep after the station moves on.
type Snapshot struct {
	Phase          Phase
	Entries        int
	Exits          int
	Present        int
	Threshold      logic.Threshold
	ThresholdValid bool
	Alarm          bool
	Counts         logic.EventCounts
	Inputs         *gpio.Sample
	StartTime      time.Time
	Now            time.Time
}

// Uptime returns the duration since the station started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}
