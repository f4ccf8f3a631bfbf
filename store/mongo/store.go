// Package mongo implements the Vesting store on MongoDB via the Grove
// ORM's mongodriver.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/mongodriver"

	"github.com/xraph/vesting"
	"github.com/xraph/vesting/id"
	"github.com/xraph/vesting/schedule"
	vestingstore "github.com/xraph/vesting/store"
	"github.com/xraph/vesting/types"
)

// Collection name constants.
const (
	colSchedules = "vesting_schedules"
	colState     = "vesting_state"
)

// compile-time interface check
var _ vestingstore.Store = (*Store)(nil)

// Store implements store.Store using MongoDB via Grove ORM.
type Store struct {
	db  *grove.DB
	mdb *mongodriver.MongoDB
}

// New creates a new MongoDB store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		mdb: mongodriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates indexes for all vesting collections.
func (s *Store) Migrate(ctx context.Context) error {
	indexes := migrationIndexes()

	for col, models := range indexes {
		if len(models) == 0 {
			continue
		}
		_, err := s.mdb.Collection(col).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("vesting/mongo: migrate %s indexes: %w", col, err)
		}
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
	_, err := s.mdb.NewInsert(m).Exec(ctx)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return vesting.ErrScheduleExists
		}
		return fmt.Errorf("vesting/mongo: append schedule: %w", err)
	}
	return nil
}

func (s *Store) GetSchedule(ctx context.Context, beneficiary id.AccountID, index int) (*schedule.Schedule, error) {
	var m scheduleModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"beneficiary": beneficiary.String(), "schedule_index": index}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, vesting.ErrScheduleNotFound
		}
		return nil, fmt.Errorf("vesting/mongo: get schedule: %w", err)
	}
	return fromScheduleModel(&m)
}

func (s *Store) ListSchedules(ctx context.Context, beneficiary id.AccountID) ([]*schedule.Schedule, error) {
	var models []scheduleModel

	err := s.mdb.NewFind(&models).
		Filter(bson.M{"beneficiary": beneficiary.String()}).
		Sort(bson.D{{Key: "schedule_index", Value: 1}}).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("vesting/mongo: list schedules: %w", err)
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
	count, err := s.mdb.Collection(colSchedules).
		CountDocuments(ctx, bson.M{"beneficiary": beneficiary.String()})
	if err != nil {
		return 0, fmt.Errorf("vesting/mongo: count schedules: %w", err)
	}
	return int(count), nil
}

func (s *Store) UpdateSchedule(ctx context.Context, sched *schedule.Schedule) error {
	m := toScheduleModel(sched)
	m.UpdatedAt = now()

	res, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": m.ID}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("vesting/mongo: update schedule: %w", err)
	}
	if res.MatchedCount() == 0 {
		return vesting.ErrScheduleNotFound
	}
	return nil
}

// ==================== Allocation Store ====================

func (s *Store) Allocated(ctx context.Context) (types.Amount, error) {
	var m stateModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": stateDocID}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			// State document is created lazily by the first adjustment.
			return 0, nil
		}
		return 0, fmt.Errorf("vesting/mongo: get allocated: %w", err)
	}
	return types.Amount(m.Allocated), nil
}

func (s *Store) AdjustAllocated(ctx context.Context, delta types.Amount) error {
	_, err := s.mdb.NewUpdate((*stateModel)(nil)).
		Filter(bson.M{"_id": stateDocID}).
		SetUpdate(bson.M{
			"$inc": bson.M{"allocated": delta.Int64()},
			"$set": bson.M{"updated_at": now()},
		}).
		Upsert().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("vesting/mongo: adjust allocated: %w", err)
	}
	return nil
}

// ==================== Helpers ====================

// now returns the current UTC time.
func now() time.Time {
	return time.Now().UTC()
}

// isNoDocuments checks if an error wraps mongo.ErrNoDocuments.
func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
