// Package plugin provides an extensible plugin system for Vesting.
// Plugins can hook into ledger lifecycle events to extend functionality.
package plugin

import (
	"context"
)

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called when the plugin is initialized.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, l interface{}) error
}

// OnShutdown is called when the plugin is shutting down.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Schedule lifecycle hooks
// ──────────────────────────────────────────────────

// OnScheduleCreated is called when a new vesting schedule is created.
// The record argument is a *vesting.CreationRecord.
type OnScheduleCreated interface {
	Plugin
	OnScheduleCreated(ctx context.Context, record interface{}) error
}

// OnReleased is called when vested funds are paid out.
// The record argument is a *vesting.ReleaseRecord.
type OnReleased interface {
	Plugin
	OnReleased(ctx context.Context, record interface{}) error
}

// OnRevoked is called when a schedule is revoked.
// The record argument is a *vesting.RevocationRecord.
type OnRevoked interface {
	Plugin
	OnRevoked(ctx context.Context, record interface{}) error
}

// ──────────────────────────────────────────────────
// Failure and recovery hooks
// ──────────────────────────────────────────────────

// OnTransferFailed is called after a failed asset transfer has been
// rolled back. The ledger state is already restored when this fires.
type OnTransferFailed interface {
	Plugin
	OnTransferFailed(ctx context.Context, beneficiary string, index int, amount int64, err error) error
}

// OnAssetRecovered is called when a foreign asset is reclaimed from the
// ledger's custody. The record argument is a *vesting.RecoveryRecord.
type OnAssetRecovered interface {
	Plugin
	OnAssetRecovered(ctx context.Context, record interface{}) error
}
