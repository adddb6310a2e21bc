package logic

import "testing"

func TestThresholdValid(t *testing.T) {
	tests := []struct {
		value Threshold
		want  bool
	}{
		{0, false},
		{1, true},
		{20, true},
		{9999, true},
		{10000, false},
		{-3, false},
	}

	for _, tt := range tests {
		if got := tt.value.Valid(); got != tt.want {
			t.Errorf("Threshold(%d).Valid() = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestThresholdIncrement(t *testing.T) {
	got, changed := Threshold(20).Increment()
	if got != 21 || !changed {
		t.Errorf("Increment(20) = (%d, %v), want (21, true)", got, changed)
	}

	got, changed = Threshold(MaxThreshold).Increment()
	if got != MaxThreshold || changed {
		t.Errorf("Increment(max) = (%d, %v), want (%d, false)", got, changed, MaxThreshold)
	}
}

func TestThresholdDecrement(t *testing.T) {
	got, changed := Threshold(20).Decrement()
	if got != 19 || !changed {
		t.Errorf("Decrement(20) = (%d, %v), want (19, true)", got, changed)
	}

	got, changed = Threshold(MinThreshold).Decrement()
	if got != MinThreshold || changed {
		t.Errorf("Decrement(min) = (%d, %v), want (%d, false)", got, changed, MinThreshold)
	}
}

func TestThresholdNeverLeavesBounds(t *testing.T) {
	th := Threshold(MinThreshold)
	for i := 0; i < MaxThreshold+10; i++ {
		th, _ = th.Increment()
		if !th.Valid() {
			t.Fatalf("threshold left bounds after %d increments: %d", i+1, th)
		}
	}
	for i := 0; i < MaxThreshold+10; i++ {
		th, _ = th.Decrement()
		if !th.Valid() {
			t.Fatalf("threshold left bounds after %d decrements: %d", i+1, th)
		}
	}
	if th != MinThreshold {
		t.Errorf("expected threshold to settle at %d, got %d", MinThreshold, th)
	}
}

func TestAlarmActive(t *testing.T) {
	for present := 0; present <= 40; present++ {
		for threshold := Threshold(1); threshold <= 40; threshold++ {
			want := present >= int(threshold)
			if got := AlarmActive(present, threshold); got != want {
				t.Fatalf("AlarmActive(%d, %d) = %v, want %v", present, threshold, got, want)
			}
		}
	}
}

func TestAlarmFiresAtEquality(t *testing.T) {
	if !AlarmActive(20, 20) {
		t.Error("alarm should fire when present equals threshold")
	}
	if AlarmActive(19, 20) {
		t.Error("alarm should not fire below threshold")
	}
}
