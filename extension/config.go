package extension

// StoreKind selects which store backend the extension constructs from a
// provided grove database.
type StoreKind string

// Supported store backends.
const (
	StoreMemory   StoreKind = "memory"
	StoreSQLite   StoreKind = "sqlite"
	StorePostgres StoreKind = "postgres"
	StoreMongo    StoreKind = "mongo"
)

// Config holds the Vesting extension configuration.
// Fields can be set programmatically via Option functions or loaded from
// YAML configuration files (under "extensions.vesting" or "vesting" keys).
type Config struct {
	// DisableMigrate prevents auto-migration on start.
	DisableMigrate bool `json:"disable_migrate" mapstructure:"disable_migrate" yaml:"disable_migrate"`

	// Store selects the store backend constructed from the grove database
	// (default: "memory"). Ignored when a store is provided via WithStore.
	Store StoreKind `json:"store" mapstructure:"store" yaml:"store"`

	// Owner is the governing account for the ledger, in TypeID form
	// (e.g. "acct_01h2xcejqtf2nbrexx3vqjhp41").
	Owner string `json:"owner" mapstructure:"owner" yaml:"owner"`

	// Treasury receives revocation refunds. Defaults to Owner when empty.
	Treasury string `json:"treasury" mapstructure:"treasury" yaml:"treasury"`

	// OwnerRelease allows the owner to trigger releases on behalf of
	// beneficiaries (default: false).
	OwnerRelease bool `json:"owner_release" mapstructure:"owner_release" yaml:"owner_release"`

	// RequireConfig requires config to be present in YAML files.
	// If true and no config is found, Register returns an error.
	RequireConfig bool `json:"-" yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Store: StoreMemory,
	}
}
