package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Phase          string      `json:"phase"`
	Entries        int         `json:"entries"`
	Exits          int         `json:"exits"`
	Present        int         `json:"present"`
	Threshold      int         `json:"threshold"`
	ThresholdValid bool        `json:"threshold_valid"`
	Alarm          bool        `json:"alarm"`
	UptimeSeconds  int64       `json:"uptime_seconds"`
	StartTime      string      `json:"start_time,omitempty"`
	Timestamp      string      `json:"timestamp"`
	Counts         CountsJSON  `json:"event_counts"`
	Inputs         *InputsJSON `json:"inputs,omitempty"`
}

// CountsJSON is the JSON representation of pass counts.
type CountsJSON struct {
	EntryAccepted int `json:"entry_accepted"`
	EntryIgnored  int `json:"entry_ignored"`
	ExitAccepted  int `json:"exit_accepted"`
	ExitIgnored   int `json:"exit_ignored"`
}

// InputsJSON is the JSON representation of the input lines.
type InputsJSON struct {
	Entry     string `json:"entry"`
	Exit      string `json:"exit"`
	Decrement string `json:"decrement"`
	Increment string `json:"increment"`
}

func lineState(active bool, on string) string {
	if active {
		return on
	}
	return "CLEAR"
}

func buildInner(snap Snapshot) StatusInner {
	phase := string(snap.Phase)
	if phase == "" {
		phase = string(PhaseUninitialized)
	}

	inner := StatusInner{
		Phase:          phase,
		Entries:        snap.Entries,
		Exits:          snap.Exits,
		Present:        snap.Present,
		Threshold:      int(snap.Threshold),
		ThresholdValid: snap.ThresholdValid,
		Alarm:          snap.Alarm,
		Timestamp:      snap.Now.UTC().Format(time.RFC3339),
		Counts: CountsJSON{
			EntryAccepted: snap.Counts.EntryAccepted,
			EntryIgnored:  snap.Counts.EntryIgnored,
			ExitAccepted:  snap.Counts.ExitAccepted,
			ExitIgnored:   snap.Counts.ExitIgnored,
		},
	}

	if !snap.StartTime.IsZero() {
		inner.StartTime = snap.StartTime.UTC().Format(time.RFC3339)
		inner.UptimeSeconds = int64(snap.Uptime().Truncate(time.Second).Seconds())
	}

	if snap.Inputs != nil {
		inner.Inputs = &InputsJSON{
			Entry:     lineState(snap.Inputs.Entry, "OCCUPIED"),
			Exit:      lineState(snap.Inputs.Exit, "OCCUPIED"),
			Decrement: lineState(snap.Inputs.Decrement, "PRESSED"),
			Increment: lineState(snap.Inputs.Increment, "PRESSED"),
		}
	}

	return inner
}

// FormatJSON returns the indented JSON status.
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}
