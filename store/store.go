package store

import (
	"context"

	"github.com/xraph/vesting/id"
	"github.com/xraph/vesting/schedule"
	"github.com/xraph/vesting/types"
)

// Store is the unified storage interface for all Vesting entities.
// Instead of embedding the sub-interfaces, we explicitly declare all methods
// to avoid naming conflicts.
type Store interface {
	// Schedule methods
	AppendSchedule(ctx context.Context, s *schedule.Schedule) error
	GetSchedule(ctx context.Context, beneficiary id.AccountID, index int) (*schedule.Schedule, error)
	ListSchedules(ctx context.Context, beneficiary id.AccountID) ([]*schedule.Schedule, error)
	CountSchedules(ctx context.Context, beneficiary id.AccountID) (int, error)
	UpdateSchedule(ctx context.Context, s *schedule.Schedule) error

	// Allocation methods
	Allocated(ctx context.Context) (types.Amount, error)
	AdjustAllocated(ctx context.Context, delta types.Amount) error

	// Core methods
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
