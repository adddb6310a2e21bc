package logic

import "time"

// State is the single owned counting state of a station: the flow counter,
// the alarm threshold and the diagnostic counters around them.
type State struct {
	Counter   FlowCounter
	Threshold Threshold

	startTime     time.Time
	eventCounts   EventCounts
	lastHeartbeat time.Time
}

// NewState creates an empty counting state with the given threshold.
// The startTime is used for calculating uptime in heartbeat data.
func NewState(threshold Threshold, startTime time.Time) *State {
	return &State{
		Threshold:     threshold,
		startTime:     startTime,
		lastHeartbeat: startTime,
	}
}

// Entry applies an entry pass and reports whether the counter changed.
func (s *State) Entry() bool {
	ok := s.Counter.RecordEntry()
	s.eventCounts.Record(EventEntry, ok)
	return ok
}

// Exit applies an exit pass and reports whether the counter changed.
func (s *State) Exit() bool {
	ok := s.Counter.RecordExit()
	s.eventCounts.Record(EventExit, ok)
	return ok
}

// Alarm reports whether the alarm outputs should be active.
func (s *State) Alarm() bool {
	return AlarmActive(s.Counter.Present(), s.Threshold)
}

// EventCountsSnapshot returns a copy of the pass counters.
func (s *State) EventCountsSnapshot() EventCounts {
	return s.eventCounts
}

// StartTime returns the time the state was created.
func (s *State) StartTime() time.Time {
	return s.startTime
}

// CheckHeartbeat returns heartbeat data if the interval has elapsed since the
// last heartbeat (or startup). Returns nil if the interval has not elapsed,
// or if interval is <= 0 (disabled).
func (s *State) CheckHeartbeat(now time.Time, interval time.Duration) *HeartbeatData {
	if interval <= 0 {
		return nil
	}

	if now.Sub(s.lastHeartbeat) < interval {
		return nil
	}

	s.lastHeartbeat = now
	return &HeartbeatData{
		Timestamp: now,
		Uptime:    now.Sub(s.startTime),
		Entries:   s.Counter.Entries(),
		Exits:     s.Counter.Exits(),
		Present:   s.Counter.Present(),
		Threshold: s.Threshold,
		Alarm:     s.Alarm(),
		Counts:    s.eventCounts,
	}
}
