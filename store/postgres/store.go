// Package postgres implements the Vesting store on PostgreSQL via the
// Grove ORM.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/pgdriver"
	"github.com/xraph/grove/migrate"

	"github.com/xraph/vesting"
	"github.com/xraph/vesting/id"
	"github.com/xraph/vesting/schedule"
	vestingstore "github.com/xraph/vesting/store"
	"github.com/xraph/vesting/types"
)

// compile-time interface check
var _ vestingstore.Store = (*Store)(nil)

// Store implements store.Store using PostgreSQL via Grove ORM.
type Store struct {
	db *grove.DB
	pg *pgdriver.PgDB
}

// New creates a new PostgreSQL store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db: db,
		pg: pgdriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates the required tables and indexes using the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.pg)
	if err != nil {
		return fmt.Errorf("vesting/postgres: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("vesting/postgres: migration failed: %w", err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ==================== Schedule Store ====================

func (s *Store) AppendSchedule(ctx context.Context, sched *schedule.Schedule) error {
	m := toScheduleModel(sched)
	_, err := s.pg.NewInsert(m).Exec(ctx)
	if err != nil {
		return err
	}
	return nil
}

func (s *Store) GetSchedule(ctx context.Context, beneficiary id.AccountID, index int) (*schedule.Schedule, error) {
	m := new(scheduleModel)
	err := s.pg.NewSelect(m).
		Where("beneficiary = $1", beneficiary.String()).
		Where("schedule_index = $2", index).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, vesting.ErrScheduleNotFound
		}
		return nil, err
	}
	return fromScheduleModel(m)
}

func (s *Store) ListSchedules(ctx context.Context, beneficiary id.AccountID) ([]*schedule.Schedule, error) {
	var models []scheduleModel
	err := s.pg.NewSelect(&models).
		Where("beneficiary = $1", beneficiary.String()).
		OrderExpr("schedule_index ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*schedule.Schedule, len(models))
	for i := range models {
		sched, err := fromScheduleModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = sched
	}
	return result, nil
}

func (s *Store) CountSchedules(ctx context.Context, beneficiary id.AccountID) (int, error) {
	var count int
	err := s.pg.NewRaw(`
		SELECT COUNT(*) FROM vesting_schedules WHERE beneficiary = $1
	`, beneficiary.String()).Scan(ctx, &count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) UpdateSchedule(ctx context.Context, sched *schedule.Schedule) error {
	m := toScheduleModel(sched)
	m.UpdatedAt = now()
	res, err := s.pg.NewUpdate(m).WherePK().Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return vesting.ErrScheduleNotFound
	}
	return nil
}

// ==================== Allocation Store ====================

func (s *Store) Allocated(ctx context.Context) (types.Amount, error) {
	var allocated int64
	err := s.pg.NewRaw(`
		SELECT allocated FROM vesting_ledger_state WHERE id = 1
	`).Scan(ctx, &allocated)
	if err != nil {
		if isNoRows(err) {
			return 0, vesting.ErrStoreNotReady
		}
		return 0, err
	}
	return types.Amount(allocated), nil
}

func (s *Store) AdjustAllocated(ctx context.Context, delta types.Amount) error {
	res, err := s.pg.NewUpdate((*stateModel)(nil)).
		Set("allocated = allocated + $1", delta.Int64()).
		Set("updated_at = $2", now()).
		Where("id = $3", 1).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return vesting.ErrStoreNotReady
	}
	return nil
}

// ==================== Helpers ====================

// now returns the current UTC time.
func now() time.Time {
	return time.Now().UTC()
}

// isNoRows checks for the standard sql.ErrNoRows sentinel.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
