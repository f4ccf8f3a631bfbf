package sqlite

import (
	"time"

	"github.com/xraph/grove"

	"github.com/xraph/vesting/id"
	"github.com/xraph/vesting/schedule"
	"github.com/xraph/vesting/types"
)

// ==================== Schedule model ====================

type scheduleModel struct {
	grove.BaseModel `grove:"table:vesting_schedules"`

	ID            string            `grove:"id,pk"`
	Beneficiary   string            `grove:"beneficiary"`
	ScheduleIndex int               `grove:"schedule_index"`
	StartAt       time.Time         `grove:"start_at"`
	CliffAt       time.Time         `grove:"cliff_at"`
	DurationSecs  int64             `grove:"duration_secs"`
	SliceSecs     int64             `grove:"slice_secs"`
	Total         int64             `grove:"total"`
	Released      int64             `grove:"released"`
	Revocable     bool              `grove:"revocable"`
	Revoked       bool              `grove:"revoked"`
	RevokedAt     *time.Time        `grove:"revoked_at"`
	Metadata      map[string]string `grove:"metadata,type:json"`
	CreatedAt     time.Time         `grove:"created_at"`
	UpdatedAt     time.Time         `grove:"updated_at"`
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

// stateModel is a single-row table carrying the allocation counter.
type stateModel struct {
	grove.BaseModel `grove:"table:vesting_ledger_state"`

	ID        int       `grove:"id,pk"`
	Allocated int64     `grove:"allocated"`
	UpdatedAt time.Time `grove:"updated_at"`
}
