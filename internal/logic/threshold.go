package logic

// Threshold is the operator-configured alarm level.
type Threshold int

// Valid reports whether t lies in [MinThreshold, MaxThreshold].
func (t Threshold) Valid() bool {
	return t >= MinThreshold && t <= MaxThreshold
}

// Increment returns t+1, clamped at MaxThreshold, and whether it changed.
func (t Threshold) Increment() (Threshold, bool) {
	if t >= MaxThreshold {
		return t, false
	}
	return t + 1, true
}

// Decrement returns t-1, clamped at MinThreshold, and whether it changed.
func (t Threshold) Decrement() (Threshold, bool) {
	if t <= MinThreshold {
		return t, false
	}
	return t - 1, true
}

// AlarmActive reports whether the present count has reached the threshold.
// There is no hysteresis: the alarm fires at equality.
func AlarmActive(present int, threshold Threshold) bool {
	return present >= int(threshold)
}
