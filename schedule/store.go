package schedule

import (
	"context"

	"github.com/xraph/vesting/id"
	"github.com/xraph/vesting/types"
)

// Store is the persistence surface for vesting schedules. The unified
// store interface in the store package embeds these methods alongside
// the allocation counter.
type Store interface {
	AppendSchedule(ctx context.Context, s *Schedule) error
	GetSchedule(ctx context.Context, beneficiary id.AccountID, index int) (*Schedule, error)
	ListSchedules(ctx context.Context, beneficiary id.AccountID) ([]*Schedule, error)
	CountSchedules(ctx context.Context, beneficiary id.AccountID) (int, error)
	UpdateSchedule(ctx context.Context, s *Schedule) error
}

// AllocationStore tracks the aggregate amount the ledger is liable for:
// the sum of Total - Released across all non-revoked schedules.
type AllocationStore interface {
	Allocated(ctx context.Context) (types.Amount, error)
	AdjustAllocated(ctx context.Context, delta types.Amount) error
}
