package postgres

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the Vesting store.
var Migrations = migrate.NewGroup("vesting")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_vesting_schedules",
			Version: "20240101000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS vesting_schedules (
    id             TEXT PRIMARY KEY,
    beneficiary    TEXT NOT NULL DEFAULT '',
    schedule_index INT NOT NULL DEFAULT 0,
    start_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    cliff_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    duration_secs  BIGINT NOT NULL DEFAULT 0,
    slice_secs     BIGINT NOT NULL DEFAULT 1,
    total          BIGINT NOT NULL DEFAULT 0,
    released       BIGINT NOT NULL DEFAULT 0,
    revocable      BOOLEAN NOT NULL DEFAULT FALSE,
    revoked        BOOLEAN NOT NULL DEFAULT FALSE,
    revoked_at     TIMESTAMPTZ,
    metadata       JSONB NOT NULL DEFAULT '{}',
    created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_vesting_schedules_beneficiary_index ON vesting_schedules (beneficiary, schedule_index);
CREATE INDEX IF NOT EXISTS idx_vesting_schedules_beneficiary ON vesting_schedules (beneficiary);
CREATE INDEX IF NOT EXISTS idx_vesting_schedules_revoked ON vesting_schedules (revoked);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS vesting_schedules`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_vesting_ledger_state",
			Version: "20240101000002",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS vesting_ledger_state (
    id         INT PRIMARY KEY,
    allocated  BIGINT NOT NULL DEFAULT 0,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

INSERT INTO vesting_ledger_state (id, allocated) VALUES (1, 0)
ON CONFLICT (id) DO NOTHING;
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS vesting_ledger_state`)
				return err
			},
		},
	)
}
