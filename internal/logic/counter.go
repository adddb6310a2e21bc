package logic

// FlowCounter owns the entry and exit counts of the staging area.
// The zero value is an empty area. RecordEntry and RecordExit are the only
// mutators, which keeps 0 <= out <= input <= MaxCount for every reachable state.
type FlowCounter struct {
	input int
	out   int
}

// RecordEntry counts a unit entering. Returns false and leaves the counter
// unchanged once input has saturated at MaxCount.
func (c *FlowCounter) RecordEntry() bool {
	if c.input >= MaxCount {
		return false
	}
	c.input++
	return true
}

// RecordExit counts a unit leaving. Returns false and leaves the counter
// unchanged if out would overtake input.
func (c *FlowCounter) RecordExit() bool {
	if c.out >= c.input {
		return false
	}
	c.out++
	return true
}

// Entries returns the number of accepted entry events.
func (c *FlowCounter) Entries() int {
	return c.input
}

// Exits returns the number of accepted exit events.
func (c *FlowCounter) Exits() int {
	return c.out
}

// Present returns the number of units currently inside the staging area.
func (c *FlowCounter) Present() int {
	return c.input - c.out
}
