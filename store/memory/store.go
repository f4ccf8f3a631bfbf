// Package memory provides an in-memory Store for tests and demos.
package memory

import (
	"context"
	"sync"

	"github.com/xraph/vesting"
	"github.com/xraph/vesting/id"
	"github.com/xraph/vesting/schedule"
	"github.com/xraph/vesting/store"
	"github.com/xraph/vesting/types"
)

// compile-time interface check
var _ store.Store = (*Store)(nil)

// Store keeps all state in process memory. Schedules are stored as
// clones so callers cannot mutate ledger state through retained
// pointers.
type Store struct {
	mu sync.RWMutex

	// Schedule storage, keyed by beneficiary, ordered by index
	schedules map[string][]*schedule.Schedule

	// Allocation bookkeeping
	allocated types.Amount
}

func New() *Store {
	return &Store{
		schedules: make(map[string][]*schedule.Schedule),
	}
}

// Schedule Store implementation

func (s *Store) AppendSchedule(_ context.Context, sched *schedule.Schedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := sched.Beneficiary.String()
	if sched.Index != len(s.schedules[key]) {
		return vesting.ErrScheduleExists
	}
	s.schedules[key] = append(s.schedules[key], sched.Clone())
	return nil
}

func (s *Store) GetSchedule(_ context.Context, beneficiary id.AccountID, index int) (*schedule.Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seq := s.schedules[beneficiary.String()]
	if index < 0 || index >= len(seq) {
		return nil, vesting.ErrScheduleNotFound
	}
	return seq[index].Clone(), nil
}

func (s *Store) ListSchedules(_ context.Context, beneficiary id.AccountID) ([]*schedule.Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seq := s.schedules[beneficiary.String()]
	result := make([]*schedule.Schedule, len(seq))
	for i, sched := range seq {
		result[i] = sched.Clone()
	}
	return result, nil
}

func (s *Store) CountSchedules(_ context.Context, beneficiary id.AccountID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.schedules[beneficiary.String()]), nil
}

func (s *Store) UpdateSchedule(_ context.Context, sched *schedule.Schedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seq := s.schedules[sched.Beneficiary.String()]
	if sched.Index < 0 || sched.Index >= len(seq) {
		return vesting.ErrScheduleNotFound
	}
	seq[sched.Index] = sched.Clone()
	return nil
}

// Allocation bookkeeping

func (s *Store) Allocated(_ context.Context) (types.Amount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.allocated, nil
}

func (s *Store) AdjustAllocated(_ context.Context, delta types.Amount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.allocated = s.allocated.Add(delta)
	return nil
}

// Store management

func (s *Store) Migrate(_ context.Context) error {
	return nil // No migration needed for memory store
}

func (s *Store) Ping(_ context.Context) error {
	return nil // Always available
}

func (s *Store) Close() error {
	return nil // Nothing to close
}
