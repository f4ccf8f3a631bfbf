package extension

import (
	"github.com/xraph/grove"

	"github.com/xraph/vesting"
	"github.com/xraph/vesting/plugin"
	"github.com/xraph/vesting/store"
	"github.com/xraph/vesting/token"
)

// Option configures the Vesting Forge extension.
type Option func(*Extension)

// WithStore sets the store for the ledger engine directly, bypassing
// grove-based store construction.
func WithStore(s store.Store) Option {
	return func(e *Extension) {
		e.store = s
	}
}

// WithGroveDB provides the grove database the extension builds its store
// on. The backend is selected by the Store config field.
func WithGroveDB(db *grove.DB) Option {
	return func(e *Extension) {
		e.groveDB = db
	}
}

// WithToken sets the asset-transfer collaborator for the ledger engine.
// Required; the extension cannot move custody without it.
func WithToken(t token.Token) Option {
	return func(e *Extension) {
		e.token = t
	}
}

// WithLedgerOption passes a vesting.Option through to the underlying engine.
func WithLedgerOption(opt vesting.Option) Option {
	return func(e *Extension) {
		e.ledgerOpts = append(e.ledgerOpts, opt)
	}
}

// WithPlugin registers a vesting plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Extension) {
		e.ledgerOpts = append(e.ledgerOpts, vesting.WithPlugin(p))
	}
}

// WithConfig sets the Forge extension configuration.
func WithConfig(cfg Config) Option {
	return func(e *Extension) { e.config = cfg }
}

// WithDisableMigrate prevents auto-migration on start.
func WithDisableMigrate() Option {
	return func(e *Extension) { e.config.DisableMigrate = true }
}

// WithOwner sets the governing account in TypeID form.
func WithOwner(owner string) Option {
	return func(e *Extension) { e.config.Owner = owner }
}

// WithTreasury sets the refund account in TypeID form.
func WithTreasury(treasury string) Option {
	return func(e *Extension) { e.config.Treasury = treasury }
}

// WithOwnerRelease allows the owner to trigger releases on behalf of
// beneficiaries.
func WithOwnerRelease() Option {
	return func(e *Extension) { e.config.OwnerRelease = true }
}

// WithRequireConfig requires config to be present in YAML files.
// If true and no config is found, Register returns an error.
func WithRequireConfig(require bool) Option {
	return func(e *Extension) { e.config.RequireConfig = require }
}
