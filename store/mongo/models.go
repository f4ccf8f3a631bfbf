package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/xraph/grove"

	"github.com/xraph/vesting/id"
	"github.com/xraph/vesting/schedule"
	"github.com/xraph/vesting/types"
)

// ==================== Schedule model ====================

type scheduleModel struct {
	grove.BaseModel `grove:"table:vesting_schedules"`

	ID            string            `grove:"id,pk"          bson:"_id"`
	Beneficiary   string            `grove:"beneficiary"    bson:"beneficiary"`
	ScheduleIndex int               `grove:"schedule_index" bson:"schedule_index"`
	StartAt       time.Time         `grove:"start_at"       bson:"start_at"`
	CliffAt       time.Time         `grove:"cliff_at"       bson:"cliff_at"`
	DurationSecs  int64             `grove:"duration_secs"  bson:"duration_secs"`
	SliceSecs     int64             `grove:"slice_secs"     bson:"slice_secs"`
	Total         int64             `grove:"total"          bson:"total"`
	Released      int64             `grove:"released"       bson:"released"`
	Revocable     bool              `grove:"revocable"      bson:"revocable"`
	Revoked       bool              `grove:"revoked"        bson:"revoked"`
	RevokedAt     *time.Time        `grove:"revoked_at"     bson:"revoked_at,omitempty"`
	Metadata      map[string]string `grove:"metadata"       bson:"metadata,omitempty"`
	CreatedAt     time.Time         `grove:"created_at"     bson:"created_at"`
	UpdatedAt     time.Time         `grove:"updated_at"     bson:"updated_at"`
}

func toScheduleModel(s *schedule.Schedule) *scheduleModel {
	return &scheduleModel{
		ID:            s.ID.String(),
		Beneficiary:   s.Beneficiary.String(),
		ScheduleIndex: s.Index,
		StartAt:       s.Start,
		CliffAt:       s.Cliff,
		DurationSecs:  int64(s.Duration / time.Second),
		SliceSecs:     int64(s.Slice / time.Second),
		Total:         s.Total.Int64(),
		Released:      s.Released.Int64(),
		Revocable:     s.Revocable,
		Revoked:       s.Revoked,
		RevokedAt:     s.RevokedAt,
		Metadata:      s.Metadata,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

func fromScheduleModel(m *scheduleModel) (*schedule.Schedule, error) {
	schedID, err := id.ParseScheduleID(m.ID)
	if err != nil {
		return nil, err
	}
	beneficiary, err := id.ParseAccountID(m.Beneficiary)
	if err != nil {
		return nil, err
	}

	return &schedule.Schedule{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:          schedID,
		Beneficiary: beneficiary,
		Index:       m.ScheduleIndex,
		Start:       m.StartAt,
		Cliff:       m.CliffAt,
		Duration:    time.Duration(m.DurationSecs) * time.Second,
		Slice:       time.Duration(m.SliceSecs) * time.Second,
		Total:       types.Amount(m.Total),
		Released:    types.Amount(m.Released),
		Revocable:   m.Revocable,
		Revoked:     m.Revoked,
		RevokedAt:   m.RevokedAt,
		Metadata:    m.Metadata,
	}, nil
}

// ==================== Ledger state model ====================

// stateDocID is the fixed _id of the single allocation counter document.
const stateDocID = "state"

type stateModel struct {
	grove.BaseModel `grove:"table:vesting_state"`

	ID        string    `grove:"id,pk"      bson:"_id"`
	Allocated int64     `grove:"allocated"  bson:"allocated"`
	UpdatedAt time.Time `grove:"updated_at" bson:"updated_at"`
}

// migrationIndexes returns the index definitions for all vesting collections.
func migrationIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		colSchedules: {
			{
				Keys:    bson.D{{Key: "beneficiary", Value: 1}, {Key: "schedule_index", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "beneficiary", Value: 1}, {Key: "revoked", Value: 1}}},
		},
		colState: {},
	}
}
