// Package schedule defines the vesting schedule model and its pure
// accrual math. A schedule is created once, then transitions only by its
// released amount increasing or its revoked flag flipping to true; it is
// never deleted.
package schedule

import (
	"time"

	"github.com/xraph/vesting/id"
	"github.com/xraph/vesting/types"
)

// Schedule is one grant of the managed asset to a beneficiary, accruing
// linearly between Start and Start+Duration, gated by Cliff.
//
// Indices within a beneficiary's sequence follow insertion order and are
// stable: they are never reused or reordered.
type Schedule struct {
	types.Entity
	ID          id.ScheduleID `json:"id"`
	Beneficiary id.AccountID  `json:"beneficiary"`
	Index       int           `json:"index"`

	// Start is when linear accrual begins. It may lie in the past at
	// creation time; retroactive grants are allowed.
	Start time.Time `json:"start"`

	// Cliff gates all accrual: nothing is releasable strictly before it.
	// Invariant: Cliff >= Start.
	Cliff time.Time `json:"cliff"`

	// Duration is the accrual window length. Invariant: Duration >= 1s;
	// the accrual math works in whole seconds.
	Duration time.Duration `json:"duration"`

	// Slice quantizes accrual: elapsed time is rounded down to a whole
	// multiple of Slice before the linear computation, so releasable
	// amounts only change at slice boundaries. Minimum (and default) is
	// one second.
	Slice time.Duration `json:"slice"`

	// Total is the full amount grantable under this schedule, fixed for
	// its lifetime. Invariant: Total > 0.
	Total types.Amount `json:"total"`

	// Released is the cumulative amount already paid out.
	// Invariant: 0 <= Released <= Total, monotonically non-decreasing.
	Released types.Amount `json:"released"`

	Revocable bool       `json:"revocable"`
	Revoked   bool       `json:"revoked"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`

	Metadata map[string]string `json:"metadata,omitempty"`
}

// End returns the instant at which the schedule is fully vested.
func (s *Schedule) End() time.Time {
	return s.Start.Add(s.Duration)
}

// Outstanding returns the amount still owed under the schedule.
func (s *Schedule) Outstanding() types.Amount {
	return s.Total.Sub(s.Released)
}

// TotalVestedAt returns the cumulative amount vested by now, ignoring
// what has already been released and whether the schedule is revoked.
//
// The cliff gate is strict: before the cliff nothing is vested; at the
// cliff instant the linear formula applies with the full elapsed time
// since Start. At or after Start+Duration the whole Total is vested.
func (s *Schedule) TotalVestedAt(now time.Time) types.Amount {
	if now.Before(s.Cliff) {
		return 0
	}
	if !now.Before(s.End()) {
		return s.Total
	}

	// now >= cliff >= start, so elapsed is non-negative. Quantize down
	// to a whole number of slices before prorating.
	elapsed := int64(now.Sub(s.Start) / time.Second)
	slice := int64(s.Slice / time.Second)
	if slice > 1 {
		elapsed -= elapsed % slice
	}

	return types.Prorate(s.Total, elapsed, int64(s.Duration/time.Second))
}

// ReleasableAt returns the amount that could be released at now:
// everything vested so far minus everything already paid out. This is
// never negative, because Released only ever advances to a previously
// vested value and TotalVestedAt is monotone in now.
func (s *Schedule) ReleasableAt(now time.Time) types.Amount {
	return s.TotalVestedAt(now).Sub(s.Released)
}

// Clone returns a deep copy of the schedule.
func (s *Schedule) Clone() *Schedule {
	dup := *s
	if s.RevokedAt != nil {
		t := *s.RevokedAt
		dup.RevokedAt = &t
	}
	if s.Metadata != nil {
		dup.Metadata = make(map[string]string, len(s.Metadata))
		for k, v := range s.Metadata {
			dup.Metadata[k] = v
		}
	}
	return &dup
}
