// Package persist keeps the alarm threshold in non-volatile memory.
//
// The stored format is two decimal-coded bytes at a fixed base address:
// the hundreds and the remainder, so value = b0*100 + b1. This is the
// layout written by the microcontroller stations and must not change while
// existing devices hold a threshold in it.
package persist

import (
	"context"
	"errors"
	"fmt"

	"github.com/sweeney/flow-counter/internal/logger"
	"github.com/sweeney/flow-counter/internal/logic"
	"github.com/sweeney/flow-counter/internal/nvm"
)

// DefaultAttempts is how many times Store runs the erase+write sequence.
const DefaultAttempts = 3

// errVerify is returned when the read-back does not match what was written.
var errVerify = errors.New("read-back mismatch")

// Encode splits a threshold into its stored (hundreds, remainder) bytes.
func Encode(v logic.Threshold) (hi, lo byte) {
	return byte(int(v) / 100), byte(int(v) % 100)
}

// Decode rebuilds a threshold from its stored bytes. The result is not
// validated; erased flash decodes to 0xFF*100+0xFF.
func Decode(hi, lo byte) logic.Threshold {
	return logic.Threshold(int(hi)*100 + int(lo))
}

// ThresholdStore reads and writes the threshold at a fixed address.
type ThresholdStore struct {
	mem      nvm.Memory
	base     uint16
	attempts int
}

// NewThresholdStore creates a store over mem at base. attempts < 1 means
// DefaultAttempts.
func NewThresholdStore(mem nvm.Memory, base uint16, attempts int) *ThresholdStore {
	if attempts < 1 {
		attempts = DefaultAttempts
	}
	return &ThresholdStore{mem: mem, base: base, attempts: attempts}
}

// Load returns the stored threshold. An out-of-range or unwritten value is
// replaced by logic.DefaultThreshold and valid is false. The error only
// reports a failing medium, in which case the default is returned as well.
// Load never rewrites storage.
func (s *ThresholdStore) Load(ctx context.Context) (th logic.Threshold, valid bool, err error) {
	hi, err := s.mem.Read(s.base)
	if err != nil {
		return logic.DefaultThreshold, false, fmt.Errorf("read threshold high byte: %w", err)
	}
	lo, err := s.mem.Read(s.base + 1)
	if err != nil {
		return logic.DefaultThreshold, false, fmt.Errorf("read threshold low byte: %w", err)
	}

	th = Decode(hi, lo)
	if !th.Valid() {
		logger.DebugKV(ctx, "stored threshold invalid, using default",
			"stored", int(th), "bytes", []byte{hi, lo}, "default", logic.DefaultThreshold)
		return logic.DefaultThreshold, false, nil
	}
	return th, true, nil
}

// Store erases the sector holding each threshold byte and writes v. The
// sequence is retried up to the configured number of attempts; each attempt
// is verified by reading the bytes back.
func (s *ThresholdStore) Store(ctx context.Context, v logic.Threshold) error {
	if !v.Valid() {
		return fmt.Errorf("threshold %d out of range [%d, %d]", v, logic.MinThreshold, logic.MaxThreshold)
	}

	var errs []error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		err := s.storeOnce(v)
		if err == nil {
			if attempt > 1 {
				logger.InfoKV(ctx, "threshold stored after retry", "threshold", int(v), "attempt", attempt)
			}
			return nil
		}
		logger.WarnKV(ctx, "threshold store failed", "threshold", int(v), "attempt", attempt, "error", err)
		errs = append(errs, fmt.Errorf("attempt %d: %w", attempt, err))
	}
	return fmt.Errorf("store threshold %d: %w", v, errors.Join(errs...))
}

func (s *ThresholdStore) storeOnce(v logic.Threshold) error {
	hi, lo := Encode(v)

	if err := s.mem.Erase(s.base); err != nil {
		return fmt.Errorf("erase sector: %w", err)
	}
	// A base on the last byte of a sector puts the low byte in the next one.
	if (s.base+1)%nvm.SectorSize == 0 {
		if err := s.mem.Erase(s.base + 1); err != nil {
			return fmt.Errorf("erase low byte sector: %w", err)
		}
	}
	if err := s.mem.Write(s.base, hi); err != nil {
		return fmt.Errorf("write high byte: %w", err)
	}
	if err := s.mem.Write(s.base+1, lo); err != nil {
		return fmt.Errorf("write low byte: %w", err)
	}

	gotHi, err := s.mem.Read(s.base)
	if err != nil {
		return fmt.Errorf("verify high byte: %w", err)
	}
	gotLo, err := s.mem.Read(s.base + 1)
	if err != nil {
		return fmt.Errorf("verify low byte: %w", err)
	}
	if gotHi != hi || gotLo != lo {
		return fmt.Errorf("%w: wrote (%d,%d), read (%d,%d)", errVerify, hi, lo, gotHi, gotLo)
	}
	return nil
}
